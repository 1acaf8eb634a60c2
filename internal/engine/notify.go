package engine

// Level is the severity of a toast.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Toast is a transient user-facing message.
type Toast struct {
	Level Level
	Text  string
}

// Notifier receives toasts. Implementations must be safe for concurrent use;
// the TUI forwards them into its event loop, the CLI prints them.
type Notifier interface {
	Notify(Toast)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Toast)

// Notify calls f.
func (f NotifierFunc) Notify(t Toast) { f(t) }

type discard struct{}

func (discard) Notify(Toast) {}

// Discard drops every toast.
var Discard Notifier = discard{}
