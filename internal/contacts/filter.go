package contacts

import (
	"fmt"
	"strings"
)

// ViewMode selects which contacts the list shows.
type ViewMode string

const (
	ViewAll       ViewMode = "all"
	ViewFavorites ViewMode = "favorites"
)

// ParseViewMode parses "all" or "favorites" case-insensitively.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case ViewAll:
		return ViewAll, nil
	case ViewFavorites:
		return ViewFavorites, nil
	default:
		return "", fmt.Errorf("invalid view mode %q (valid: all, favorites)", s)
	}
}

// Toggle flips between all and favorites.
func (v ViewMode) Toggle() ViewMode {
	if v == ViewFavorites {
		return ViewAll
	}
	return ViewFavorites
}

// Filter is the client-side view state applied on top of the contact list.
type Filter struct {
	Mode   ViewMode
	Search string
}

// Keyword returns the normalized search keyword.
func (f Filter) Keyword() string {
	return strings.ToLower(strings.TrimSpace(f.Search))
}

// Visible returns the subset of list selected by f, preserving list order.
func Visible(list []Contact, f Filter) []Contact {
	keyword := f.Keyword()
	out := make([]Contact, 0, len(list))
	for _, c := range list {
		if f.Mode == ViewFavorites && !c.IsFavorite {
			continue
		}
		if !c.Matches(keyword) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Outcome distinguishes the two empty states from a populated list.
type Outcome int

const (
	OutcomeList Outcome = iota
	OutcomeNoContacts
	OutcomeNoMatches
)

// Message returns the text shown for the empty states.
func (o Outcome) Message() string {
	switch o {
	case OutcomeNoContacts:
		return "No contacts yet. Press n to add one."
	case OutcomeNoMatches:
		return "No matching contacts. Try another search."
	default:
		return ""
	}
}

// View is the result of deriving what to display.
type View struct {
	Contacts []Contact
	Outcome  Outcome
}

// Derive computes the visible contacts and which state the list is in.
func Derive(list []Contact, f Filter) View {
	if len(list) == 0 {
		return View{Outcome: OutcomeNoContacts}
	}
	visible := Visible(list, f)
	if len(visible) == 0 {
		return View{Outcome: OutcomeNoMatches}
	}
	return View{Contacts: visible, Outcome: OutcomeList}
}
