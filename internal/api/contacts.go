package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"addressbook/internal/contacts"
)

// List fetches every contact.
func (c *Client) List(ctx context.Context) ([]contacts.Contact, error) {
	var list []contacts.Contact
	if _, err := c.doJSON(ctx, "list contacts", http.MethodGet, "/contacts", nil, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []contacts.Contact{}
	}
	return list, nil
}

// Get fetches one contact.
func (c *Client) Get(ctx context.Context, id int64) (contacts.Contact, error) {
	var contact contacts.Contact
	_, err := c.doJSON(ctx, "get contact", http.MethodGet, contactPath(id), nil, &contact)
	return contact, err
}

// Create posts a new contact and returns the stored record.
func (c *Client) Create(ctx context.Context, in contacts.Input) (contacts.Contact, error) {
	var contact contacts.Contact
	_, err := c.doJSON(ctx, "create contact", http.MethodPost, "/contacts", in, &contact)
	return contact, err
}

// Update replaces the contact with the given id.
func (c *Client) Update(ctx context.Context, id int64, in contacts.Input) (contacts.Contact, error) {
	var contact contacts.Contact
	_, err := c.doJSON(ctx, "update contact", http.MethodPut, contactPath(id), in, &contact)
	return contact, err
}

// Delete removes a contact.
func (c *Client) Delete(ctx context.Context, id int64) error {
	_, err := c.doJSON(ctx, "delete contact", http.MethodDelete, contactPath(id), nil, nil)
	return err
}

type favoriteRequest struct {
	IsFavorite bool `json:"is_favorite"`
}

// SetFavorite sets the favorite flag of a contact.
func (c *Client) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	_, err := c.doJSON(ctx, "set favorite", http.MethodPut, contactPath(id)+"/favorite", favoriteRequest{IsFavorite: favorite}, nil)
	return err
}

// Search asks the backend for contacts matching q. A blank query returns an
// empty list without a request, like the backend itself would.
func (c *Client) Search(ctx context.Context, q string) ([]contacts.Contact, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []contacts.Contact{}, nil
	}
	var list []contacts.Contact
	path := "/contacts/search?" + url.Values{"q": {q}}.Encode()
	if _, err := c.doJSON(ctx, "search contacts", http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []contacts.Contact{}
	}
	return list, nil
}

// Stats fetches the backend's aggregate counters.
func (c *Client) Stats(ctx context.Context) (contacts.Stats, error) {
	var stats contacts.Stats
	_, err := c.doJSON(ctx, "get stats", http.MethodGet, "/stats", nil, &stats)
	return stats, err
}

func contactPath(id int64) string {
	return fmt.Sprintf("/contacts/%d", id)
}
