package ui

import (
	"addressbook/internal/engine"
)

// RenderToast renders a toast line with a level marker.
func RenderToast(t engine.Toast, s Styles) string {
	switch t.Level {
	case engine.LevelSuccess:
		return s.Toast.Inherit(s.Success).Render("✓ " + t.Text)
	case engine.LevelError:
		return s.Toast.Inherit(s.Error).Render("✗ " + t.Text)
	default:
		return s.Toast.Inherit(s.Info).Render("• " + t.Text)
	}
}
