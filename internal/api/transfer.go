package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"addressbook/internal/contacts"
)

const (
	// DefaultExportName is used when the backend sends no usable file name.
	DefaultExportName = "contacts-export.csv"
	// DefaultTemplateName is used for the import template download.
	DefaultTemplateName = "contacts-template.csv"

	importField = "file"
)

// ImportResult is the outcome of an accepted import.
type ImportResult struct {
	Message string
	Errors  []RowError
}

// ExportURL is the address a browser can open to download every contact.
func (c *Client) ExportURL() string {
	return c.url("/contacts/export")
}

// Export streams the export file into w and returns the file name the
// backend suggested.
func (c *Client) Export(ctx context.Context, w io.Writer) (string, error) {
	return c.download(ctx, "export contacts", "/contacts/export", DefaultExportName, w)
}

// Template streams the import template into w.
func (c *Client) Template(ctx context.Context, w io.Writer) (string, error) {
	return c.download(ctx, "download template", "/template/download", DefaultTemplateName, w)
}

func (c *Client) download(ctx context.Context, op, path, fallback string, w io.Writer) (string, error) {
	req, id, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return "", &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "*/*")
	log := c.logger.With(zap.String("op", op), zap.String("request_id", id))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return "", &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Failed downloads answer with a JSON envelope.
		if env, decErr := decodeEnvelope(resp.Body); decErr == nil && !env.Success && env.Error != "" {
			return "", &AppError{Op: op, Status: resp.StatusCode, Message: env.Error}
		}
		return "", &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("download failed")}
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return "", &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	name := filenameFromDisposition(resp.Header.Get("Content-Disposition"), fallback)
	log.Debug("download completed", zap.String("file", name), zap.Int64("bytes", n))
	return name, nil
}

// filenameFromDisposition extracts a safe base name from a Content-Disposition header.
func filenameFromDisposition(header, fallback string) string {
	if header == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return fallback
	}
	name := params["filename"]
	if name == "" {
		return fallback
	}
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return fallback
	}
	return name
}

// Import uploads r as filename. The extension is checked before any request
// is made.
func (c *Client) Import(ctx context.Context, filename string, r io.Reader) (ImportResult, error) {
	const op = "import contacts"
	if err := contacts.ValidateImportFile(filename); err != nil {
		return ImportResult{}, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(importField, filepath.Base(filename))
	if err != nil {
		return ImportResult{}, fmt.Errorf("%s: failed to create form: %w", op, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return ImportResult{}, fmt.Errorf("%s: failed to read %s: %w", op, filename, err)
	}
	if err := mw.Close(); err != nil {
		return ImportResult{}, fmt.Errorf("%s: failed to close form: %w", op, err)
	}

	env, err := c.do(ctx, op, http.MethodPost, "/contacts/import", &buf, mw.FormDataContentType(), nil)
	if err != nil {
		return ImportResult{}, err
	}
	return ImportResult{Message: env.Message, Errors: env.Errors}, nil
}
