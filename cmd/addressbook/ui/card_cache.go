package ui

import (
	"encoding/binary"
	"hash/fnv"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"addressbook/internal/contacts"
)

// DefaultCardCacheSize bounds the number of rendered cards kept.
const DefaultCardCacheSize = 512

// CardCache memoizes rendered cards. The key covers every field a card shows,
// so a contact changed by a reload renders fresh. Call Clear when the styles
// change.
type CardCache struct {
	mu      sync.Mutex
	entries map[uint64]string
	maxSize int

	hits   int
	misses int
}

// NewCardCache creates a cache holding at most maxSize cards.
func NewCardCache(maxSize int) *CardCache {
	if maxSize <= 0 {
		maxSize = DefaultCardCacheSize
	}
	return &CardCache{
		entries: make(map[uint64]string),
		maxSize: maxSize,
	}
}

// cardKey computes a FNV-1a hash over the rendered inputs of a card.
func cardKey(c contacts.Contact, dark, selected bool, width int) uint64 {
	h := fnv.New64a()
	var b [8]byte

	writeInt := func(v int64) {
		binary.LittleEndian.PutUint64(b[:], uint64(v))
		h.Write(b[:])
	}
	// Strings are NUL-terminated so adjacent fields cannot run together.
	writeString := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	writeBool := func(v bool) {
		if v {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}

	writeInt(c.ID)
	writeString(c.Name)
	writeString(c.Notes)
	writeBool(c.IsFavorite)
	writeInt(int64(len(c.Methods)))
	for _, m := range c.Methods {
		writeString(string(m.Type))
		writeString(m.Value)
		writeString(m.Label)
	}
	writeBool(dark)
	writeBool(selected)
	writeInt(int64(width))

	return h.Sum64()
}

// Render returns the card for c, rendering it on a miss.
func (cc *CardCache) Render(c contacts.Contact, s Styles, selected bool, width int) string {
	key := cardKey(c, s.Theme.IsDark, selected, width)

	cc.mu.Lock()
	if out, ok := cc.entries[key]; ok {
		cc.hits++
		cc.mu.Unlock()
		return out
	}
	cc.misses++
	cc.mu.Unlock()

	out := RenderCard(c, s, selected, width)

	cc.mu.Lock()
	// Reloads replace whole lists; start over rather than track recency.
	if len(cc.entries) >= cc.maxSize {
		cc.entries = make(map[uint64]string)
	}
	cc.entries[key] = out
	cc.mu.Unlock()
	return out
}

// Height returns the rendered height of the card in lines.
func (cc *CardCache) Height(c contacts.Contact, s Styles, selected bool, width int) int {
	return lipgloss.Height(cc.Render(c, s, selected, width))
}

// RenderCards is RenderCards backed by the cache.
func (cc *CardCache) RenderCards(view contacts.View, s Styles, selected int, width int) string {
	if view.Outcome != contacts.OutcomeList {
		return s.Muted.Render(view.Outcome.Message())
	}
	cards := make([]string, 0, len(view.Contacts))
	for i, c := range view.Contacts {
		cards = append(cards, cc.Render(c, s, i == selected, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// Clear empties the cache.
func (cc *CardCache) Clear() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.entries = make(map[uint64]string)
}

// Len returns the number of cached cards.
func (cc *CardCache) Len() int {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return len(cc.entries)
}

// Stats returns the hit and miss counters.
func (cc *CardCache) Stats() (hits, misses int) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.hits, cc.misses
}
