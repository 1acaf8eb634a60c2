package api

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Envelope is the wrapper every backend response uses.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
	Errors  []RowError      `json:"errors,omitempty"`
}

// hasData reports whether the envelope carries a non-null data field.
func (e *Envelope) hasData() bool {
	trimmed := strings.TrimSpace(string(e.Data))
	return trimmed != "" && trimmed != "null"
}

// RowError is one rejected row of an import.
type RowError struct {
	Row   int    `json:"row"`
	Name  string `json:"name,omitempty"`
	Error string `json:"error"`
}

// Keys a backend may use for import row errors; the Flask server sends the
// localized ones.
var (
	rowKeys   = []string{"row", "行号"}
	nameKeys  = []string{"name", "姓名"}
	errorKeys = []string{"error", "错误"}
)

// UnmarshalJSON accepts both the english keys and the localized ones, and a
// row number sent as either a number or a string.
func (r *RowError) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	pick := func(keys []string) json.RawMessage {
		for _, k := range keys {
			if v, ok := raw[k]; ok {
				return v
			}
		}
		return nil
	}

	if v := pick(rowKeys); v != nil {
		if err := json.Unmarshal(v, &r.Row); err != nil {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return err
			}
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return err
			}
			r.Row = n
		}
	}
	if v := pick(nameKeys); v != nil {
		_ = json.Unmarshal(v, &r.Name)
	}
	if v := pick(errorKeys); v != nil {
		if err := json.Unmarshal(v, &r.Error); err != nil {
			return err
		}
	}
	return nil
}
