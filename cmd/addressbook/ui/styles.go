// Package ui provides the visual styling and rendering helpers shared by the
// addressbook TUI and the one-shot commands.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	// Light Mode Colors (Default)
	LightForeground = lipgloss.Color("#1f2933")
	LightPrimary    = lipgloss.Color("#3b5bdb") // Indigo
	LightAccent     = lipgloss.Color("#f59f00") // Amber, used for favorites
	LightMuted      = lipgloss.Color("#7b8794")
	LightBorder     = lipgloss.Color("#cbd2d9")
	LightSelected   = lipgloss.Color("#3b5bdb")

	// Dark Mode Colors
	DarkForeground = lipgloss.Color("#e4e7eb")
	DarkPrimary    = lipgloss.Color("#91a7ff")
	DarkAccent     = lipgloss.Color("#ffd43b")
	DarkMuted      = lipgloss.Color("#9aa5b1")
	DarkBorder     = lipgloss.Color("#3e4c59")
	DarkSelected   = lipgloss.Color("#91a7ff")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#e03131")
	Success     = lipgloss.Color("#2f9e44")
	Info        = lipgloss.Color("#1c7ed6")
)

// Theme holds the current color scheme
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Selected   lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		Selected:   LightSelected,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Selected:   DarkSelected,
		IsDark:     true,
	}
}

// DetectTheme guesses the terminal background from COLORFGBG and falls back
// to light mode.
func DetectTheme() Theme {
	// Format is usually "foreground;background"; 0-6 and 8 are dark backgrounds.
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) >= 2 {
		if bgIdx, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
				return DarkTheme()
			}
		}
	}
	return LightTheme()
}

// ThemeFor resolves the ui.theme config value: light, dark, or auto.
func ThemeFor(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	default:
		return DetectTheme()
	}
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	Header lipgloss.Style
	Footer lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	// Interactive
	Prompt    lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Focused   lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	// Contact cards
	Card         lipgloss.Style
	SelectedCard lipgloss.Style
	Favorite     lipgloss.Style
	MethodType   lipgloss.Style
	Label        lipgloss.Style

	// Components
	Toast   lipgloss.Style
	Divider lipgloss.Style
	Badge   lipgloss.Style
	Spinner lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Tab: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		ActiveTab: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Underline(true).
			Padding(0, 1),

		Focused: lipgloss.NewStyle().
			Foreground(theme.Primary),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		Card: card,

		SelectedCard: card.
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Selected),

		Favorite: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		MethodType: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Width(8),

		Label: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Toast: lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Badge: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Padding(0, 1),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Primary),
	}
}

// DefaultStyles returns styles for the detected terminal theme
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderDivider returns a horizontal divider
func (s Styles) RenderDivider(width int) string {
	if width < 1 {
		width = 1
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
