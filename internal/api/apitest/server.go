// Package apitest provides an in-memory address book backend for tests. It
// speaks the same envelope protocol as the real server and counts requests
// per route so tests can assert how many reloads or mutations were issued.
package apitest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"addressbook/internal/contacts"
)

// Route keys used by Count and Fail.
const (
	RouteList     = "GET /contacts"
	RouteGet      = "GET /contacts/{id}"
	RouteCreate   = "POST /contacts"
	RouteUpdate   = "PUT /contacts/{id}"
	RouteDelete   = "DELETE /contacts/{id}"
	RouteFavorite = "PUT /contacts/{id}/favorite"
	RouteSearch   = "GET /contacts/search"
	RouteExport   = "GET /contacts/export"
	RouteImport   = "POST /contacts/import"
	RouteStats    = "GET /stats"
	RouteTemplate = "GET /template/download"
)

const timeLayout = "2006-01-02 15:04:05"

type failure struct {
	status  int
	message string
}

// Server is a fake backend. The zero value is not usable; call NewServer.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	contacts []contacts.Contact
	nextID   int64
	counts   map[string]int
	failures map[string]failure
	headers  []http.Header
}

// NewServer starts a backend seeded with the given contacts.
func NewServer(seed ...contacts.Contact) *Server {
	s := &Server{
		counts:   make(map[string]int),
		failures: make(map[string]failure),
		nextID:   1,
	}
	for _, c := range seed {
		if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
		s.contacts = append(s.contacts, c.Clone())
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)
	r.Route("/api", func(r chi.Router) {
		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", s.counted(RouteList, s.list))
			r.Post("/", s.counted(RouteCreate, s.create))
			r.Get("/search", s.counted(RouteSearch, s.search))
			r.Get("/export", s.counted(RouteExport, s.export))
			r.Post("/import", s.counted(RouteImport, s.importFile))
			r.Get("/{id}", s.counted(RouteGet, s.get))
			r.Put("/{id}", s.counted(RouteUpdate, s.update))
			r.Delete("/{id}", s.counted(RouteDelete, s.delete))
			r.Put("/{id}/favorite", s.counted(RouteFavorite, s.favorite))
		})
		r.Get("/stats", s.counted(RouteStats, s.stats))
		r.Get("/template/download", s.counted(RouteTemplate, s.template))
	})
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.headers = append(s.headers, r.Header.Clone())
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) counted(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.counts[route]++
		f, failing := s.failures[route]
		s.mu.Unlock()
		if failing {
			writeError(w, f.status, f.message)
			return
		}
		h(w, r)
	}
}

// Count returns how many requests hit route.
func (s *Server) Count(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[route]
}

// Total returns the number of requests served.
func (s *Server) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.counts {
		n += c
	}
	return n
}

// Fail makes route answer with success=false, the given status and message.
func (s *Server) Fail(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, message: message}
}

// Recover clears an injected failure.
func (s *Server) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// Headers returns the request headers seen so far.
func (s *Server) Headers() []http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]http.Header(nil), s.headers...)
}

// Contacts returns a copy of the stored contacts.
func (s *Server) Contacts() []contacts.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]contacts.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		out = append(out, c.Clone())
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}

var errNotFound = errors.New("contact not found")

// indexOf must be called with s.mu held.
func (s *Server) indexOf(r *http.Request) (int, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return -1, errNotFound
	}
	for i, c := range s.contacts {
		if c.ID == id {
			return i, nil
		}
	}
	return -1, errNotFound
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.Contacts())
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	i, err := s.indexOf(r)
	var c contacts.Contact
	if err == nil {
		c = s.contacts[i].Clone()
	}
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeData(w, http.StatusOK, c)
}

func decodeInput(r *http.Request) (contacts.Input, error) {
	var in contacts.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return in, fmt.Errorf("invalid request body: %w", err)
	}
	if strings.TrimSpace(in.Name) == "" {
		return in, errors.New("name is required")
	}
	return in, nil
}

func toMethods(in []contacts.MethodInput, nextID func() int64) []contacts.Method {
	methods := make([]contacts.Method, 0, len(in))
	for _, m := range in {
		label := m.Label
		if label == "" {
			label = contacts.DefaultLabel
		}
		methods = append(methods, contacts.Method{ID: nextID(), Type: m.Type, Value: m.Value, Label: label})
	}
	return methods
}

// allocID must be called with s.mu held.
func (s *Server) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// insert must be called with s.mu held.
func (s *Server) insert(in contacts.Input) contacts.Contact {
	now := time.Now().Format(timeLayout)
	c := contacts.Contact{
		ID:         s.allocID(),
		Name:       in.Name,
		Notes:      in.Notes,
		IsFavorite: in.IsFavorite,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	c.Methods = toMethods(in.Methods, s.allocID)
	s.contacts = append(s.contacts, c)
	return c.Clone()
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	c := s.insert(in)
	s.mu.Unlock()
	writeData(w, http.StatusCreated, c)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	i, err := s.indexOf(r)
	if err != nil {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	c := &s.contacts[i]
	c.Name = in.Name
	c.Notes = in.Notes
	c.IsFavorite = in.IsFavorite
	c.Methods = toMethods(in.Methods, s.allocID)
	c.UpdatedAt = time.Now().Format(timeLayout)
	out := c.Clone()
	s.mu.Unlock()
	writeData(w, http.StatusOK, out)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	i, err := s.indexOf(r)
	if err == nil {
		s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
	}
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Contact deleted"})
}

func (s *Server) favorite(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IsFavorite bool `json:"is_favorite"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.mu.Lock()
	i, err := s.indexOf(r)
	if err == nil {
		s.contacts[i].IsFavorite = body.IsFavorite
	}
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	keyword := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	if keyword == "" {
		writeData(w, http.StatusOK, []contacts.Contact{})
		return
	}
	writeData(w, http.StatusOK, contacts.Visible(s.Contacts(), contacts.Filter{Search: keyword}))
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, contacts.Summarize(s.Contacts()))
}

var csvHeader = []string{"name", "phone", "email", "social", "address", "notes"}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	name := fmt.Sprintf("contacts_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeader)
	for _, c := range s.Contacts() {
		row := []string{c.Name, "", "", "", "", c.Notes}
		for _, g := range c.GroupByType() {
			for i, t := range contacts.MethodTypes {
				if g.Type == t {
					row[i+1] = strings.Join(g.Values(), "; ")
				}
			}
		}
		_ = cw.Write(row)
	}
	cw.Flush()
}

func (s *Server) template(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="contacts_template.csv"`)
	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeader)
	_ = cw.Write([]string{"Zhang San", "13800138000", "zhangsan@example.com", "", "", "colleague"})
	cw.Flush()
}

// importFile accepts a CSV laid out like the export. Rows without a name are
// reported with the localized keys the Flask server sends.
func (s *Server) importFile(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()
	if err := contacts.ValidateImportFile(header.Filename); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := csv.NewReader(file).ReadAll()
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "failed to parse file: "+err.Error())
		return
	}

	var rowErrors []map[string]any
	imported := 0
	s.mu.Lock()
	for i, rec := range records {
		if i == 0 {
			continue
		}
		rowNum := i + 1
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			rowErrors = append(rowErrors, map[string]any{"行号": rowNum, "姓名": "", "错误": "name is required"})
			continue
		}
		in := contacts.Input{Name: strings.TrimSpace(rec[0])}
		for j, t := range contacts.MethodTypes {
			if j+1 < len(rec) && strings.TrimSpace(rec[j+1]) != "" {
				in.Methods = append(in.Methods, contacts.MethodInput{Type: t, Value: strings.TrimSpace(rec[j+1])})
			}
		}
		if len(rec) > 5 {
			in.Notes = strings.TrimSpace(rec[5])
		}
		s.insert(in)
		imported++
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Imported %d contacts", imported),
		"errors":  rowErrors,
	})
}
