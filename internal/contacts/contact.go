// Package contacts holds the address book data model and the pure derivations
// (filtering, grouping, statistics, form collection) that the front-ends render.
// Nothing in this package performs I/O.
package contacts

import (
	"fmt"
	"strings"
)

// MethodType is the kind of a contact method.
type MethodType string

const (
	MethodPhone   MethodType = "phone"
	MethodEmail   MethodType = "email"
	MethodSocial  MethodType = "social"
	MethodAddress MethodType = "address"
)

// DefaultLabel is applied to methods submitted without a label.
const DefaultLabel = "default"

// MethodTypes lists every method type in display order.
var MethodTypes = []MethodType{MethodPhone, MethodEmail, MethodSocial, MethodAddress}

// String returns the wire value.
func (t MethodType) String() string { return string(t) }

// Title returns the human readable name used in cards and the editor.
func (t MethodType) Title() string {
	switch t {
	case MethodPhone:
		return "Phone"
	case MethodEmail:
		return "Email"
	case MethodSocial:
		return "Social"
	case MethodAddress:
		return "Address"
	default:
		return string(t)
	}
}

// Valid reports whether t is one of the four known types.
func (t MethodType) Valid() bool {
	for _, known := range MethodTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Next cycles to the following type in display order, wrapping around.
func (t MethodType) Next() MethodType {
	for i, known := range MethodTypes {
		if t == known {
			return MethodTypes[(i+1)%len(MethodTypes)]
		}
	}
	return MethodPhone
}

// ParseMethodType parses a type name case-insensitively.
func ParseMethodType(s string) (MethodType, error) {
	t := MethodType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown contact method type %q (valid: phone, email, social, address)", s)
	}
	return t, nil
}

// Method is a single way of reaching a contact.
type Method struct {
	ID    int64      `json:"id,omitempty"`
	Type  MethodType `json:"type"`
	Value string     `json:"value"`
	Label string     `json:"label"`
}

// Contact is a record as served by the backend.
type Contact struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Notes      string   `json:"notes"`
	IsFavorite bool     `json:"is_favorite"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at,omitempty"`
	Methods    []Method `json:"contact_methods"`
}

// MethodGroup is the set of methods of one type, in insertion order.
type MethodGroup struct {
	Type    MethodType
	Methods []Method
}

// Values returns the method values of the group.
func (g MethodGroup) Values() []string {
	values := make([]string, 0, len(g.Methods))
	for _, m := range g.Methods {
		values = append(values, m.Value)
	}
	return values
}

// GroupByType groups the contact's methods by type. Groups always come out in
// the fixed order phone, email, social, address; empty groups are omitted and
// unknown types are dropped.
func (c Contact) GroupByType() []MethodGroup {
	groups := make([]MethodGroup, 0, len(MethodTypes))
	for _, t := range MethodTypes {
		var matched []Method
		for _, m := range c.Methods {
			if m.Type == t {
				matched = append(matched, m)
			}
		}
		if len(matched) > 0 {
			groups = append(groups, MethodGroup{Type: t, Methods: matched})
		}
	}
	return groups
}

// Matches reports whether the lowercased, trimmed keyword occurs in the name,
// the notes, or any method value. An empty keyword matches everything.
func (c Contact) Matches(keyword string) bool {
	if keyword == "" {
		return true
	}
	if strings.Contains(strings.ToLower(c.Name), keyword) {
		return true
	}
	if strings.Contains(strings.ToLower(c.Notes), keyword) {
		return true
	}
	for _, m := range c.Methods {
		if strings.Contains(strings.ToLower(m.Value), keyword) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can't alias the engine's list.
func (c Contact) Clone() Contact {
	out := c
	if c.Methods != nil {
		out.Methods = append([]Method(nil), c.Methods...)
	}
	return out
}

// Find returns the contact with the given id.
func Find(list []Contact, id int64) (Contact, bool) {
	for _, c := range list {
		if c.ID == id {
			return c, true
		}
	}
	return Contact{}, false
}
