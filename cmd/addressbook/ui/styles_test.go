package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "15;0")
	if !DetectTheme().IsDark {
		t.Fatalf("expected dark theme for COLORFGBG=15;0")
	}

	t.Setenv("COLORFGBG", "0;15")
	if DetectTheme().IsDark {
		t.Fatalf("expected light theme for COLORFGBG=0;15")
	}

	t.Setenv("COLORFGBG", "")
	if DetectTheme().IsDark {
		t.Fatalf("expected light theme when COLORFGBG is unset")
	}
}

func TestThemeFor(t *testing.T) {
	t.Setenv("COLORFGBG", "")

	if !ThemeFor("dark").IsDark {
		t.Errorf("dark should be dark")
	}
	if ThemeFor(" Light ").IsDark {
		t.Errorf("light should be light")
	}
	if ThemeFor("auto").IsDark {
		t.Errorf("auto without hints should be light")
	}
}

func TestRenderDivider(t *testing.T) {
	s := NewStyles(LightTheme())
	if got := lipgloss.Width(s.RenderDivider(12)); got != 12 {
		t.Errorf("divider width = %d, want 12", got)
	}
	if !strings.Contains(s.RenderDivider(0), "─") {
		t.Errorf("divider should never be empty")
	}
}
