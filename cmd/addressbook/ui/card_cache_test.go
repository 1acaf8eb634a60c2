package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"addressbook/internal/contacts"
)

func TestCardKey(t *testing.T) {
	c := sampleContact()

	k1 := cardKey(c, false, false, 60)
	k2 := cardKey(c.Clone(), false, false, 60)
	if k1 != k2 {
		t.Errorf("expected same key for equal contacts, got %d != %d", k1, k2)
	}

	if cardKey(c, false, true, 60) == k1 {
		t.Error("selection must change the key")
	}
	if cardKey(c, false, false, 61) == k1 {
		t.Error("width must change the key")
	}
	if cardKey(c, true, false, 60) == k1 {
		t.Error("theme must change the key")
	}

	edited := c.Clone()
	edited.Methods[0].Label = "work"
	if cardKey(edited, false, false, 60) == k1 {
		t.Error("method label must change the key")
	}

	// Field boundaries: "ab"+"c" must not collide with "a"+"bc".
	a := contacts.Contact{ID: 1, Name: "ab", Notes: "c"}
	b := contacts.Contact{ID: 1, Name: "a", Notes: "bc"}
	if cardKey(a, false, false, 0) == cardKey(b, false, false, 0) {
		t.Error("adjacent fields collided")
	}
}

func TestCardCache_Render(t *testing.T) {
	s := NewStyles(LightTheme())
	cc := NewCardCache(8)
	c := sampleContact()

	first := cc.Render(c, s, false, 50)
	assert.Equal(t, RenderCard(c, s, false, 50), first)

	second := cc.Render(c, s, false, 50)
	assert.Equal(t, first, second)

	hits, misses := cc.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
	assert.Equal(t, 1, cc.Len())

	assert.Equal(t, len(CardLines(c, s))+2, cc.Height(c, s, false, 50))
}

func TestCardCache_BoundedSize(t *testing.T) {
	s := NewStyles(LightTheme())
	cc := NewCardCache(2)

	for i := int64(1); i <= 3; i++ {
		cc.Render(contacts.Contact{ID: i, Name: "x"}, s, false, 40)
	}
	assert.LessOrEqual(t, cc.Len(), 2)

	cc.Clear()
	assert.Equal(t, 0, cc.Len())
}

func TestCardCache_RenderCardsMatchesUncached(t *testing.T) {
	s := NewStyles(DarkTheme())
	cc := NewCardCache(0)
	list := []contacts.Contact{sampleContact(), {ID: 4, Name: "Dan"}}
	view := contacts.Derive(list, contacts.Filter{Mode: contacts.ViewAll})

	assert.Equal(t, RenderCards(view, s, 1, 70), cc.RenderCards(view, s, 1, 70))

	empty := contacts.Derive(nil, contacts.Filter{Mode: contacts.ViewAll})
	assert.Equal(t, RenderCards(empty, s, 0, 70), cc.RenderCards(empty, s, 0, 70))
}

func BenchmarkCardCache_Render(b *testing.B) {
	s := NewStyles(LightTheme())
	cc := NewCardCache(0)
	c := sampleContact()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cc.Render(c, s, i%2 == 0, 80)
	}
}
