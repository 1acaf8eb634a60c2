// Package engine keeps the client-side contact list in sync with the backend.
//
// The list is never patched locally: every successful mutation is followed by
// exactly one full reload, and failed mutations leave it untouched. Reloads are
// ticketed when issued so a slow response can never overwrite a newer one.
package engine

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"addressbook/internal/api"
	"addressbook/internal/contacts"
)

// Remote is the subset of the backend the engine needs. *api.Client
// satisfies it.
type Remote interface {
	List(ctx context.Context) ([]contacts.Contact, error)
	Get(ctx context.Context, id int64) (contacts.Contact, error)
	Create(ctx context.Context, in contacts.Input) (contacts.Contact, error)
	Update(ctx context.Context, id int64, in contacts.Input) (contacts.Contact, error)
	Delete(ctx context.Context, id int64) error
	SetFavorite(ctx context.Context, id int64, favorite bool) error
	Import(ctx context.Context, filename string, r io.Reader) (api.ImportResult, error)
}

var _ Remote = (*api.Client)(nil)

// Engine owns the contact list mirrored from the backend.
type Engine struct {
	remote    Remote
	notifier  Notifier
	logger    *zap.Logger
	importLog *zap.Logger
	timeout   time.Duration

	mu      sync.Mutex
	list    []contacts.Contact
	loaded  bool
	issued  uint64
	applied uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier sets where toasts go. The default drops them.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithLogger sets the sync logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithImportLogger sets the logger that receives per-row import errors.
func WithImportLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.importLog = l
		}
	}
}

// WithTimeout bounds every backend call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// New creates an engine with an empty, not yet loaded list.
func New(remote Remote, opts ...Option) *Engine {
	e := &Engine{
		remote:    remote,
		notifier:  Discard,
		logger:    zap.NewNop(),
		importLog: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.timeout)
}

// Snapshot returns a copy of the current list.
func (e *Engine) Snapshot() []contacts.Contact {
	list, _ := e.State()
	return list
}

// State returns a copy of the list together with the ticket of the reload
// that produced it. Consumers that receive states out of order keep the one
// with the highest ticket.
func (e *Engine) State() ([]contacts.Contact, uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]contacts.Contact, 0, len(e.list))
	for _, c := range e.list {
		out = append(out, c.Clone())
	}
	return out, e.applied
}

// Loaded reports whether any reload has been applied yet.
func (e *Engine) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

// Lookup finds a contact in the current list.
func (e *Engine) Lookup(id int64) (contacts.Contact, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := contacts.Find(e.list, id)
	return c.Clone(), ok
}

// Reload describes one completed reload.
type Reload struct {
	Ticket   uint64
	Applied  bool
	Contacts []contacts.Contact
}

// Load fetches the full list. The ticket is taken before the request goes
// out; the result replaces the list only if no newer reload was applied in
// the meantime. A failed load never touches the list.
func (e *Engine) Load(ctx context.Context) (Reload, error) {
	ticket := e.issue()

	reqCtx, cancel := e.withTimeout(ctx)
	defer cancel()

	list, err := e.remote.List(reqCtx)
	if err != nil {
		e.logger.Warn("reload failed", zap.Uint64("ticket", ticket), zap.Error(err))
		e.failure("Load", err)
		return Reload{Ticket: ticket}, err
	}

	applied := e.apply(ticket, list)
	return Reload{Ticket: ticket, Applied: applied, Contacts: e.Snapshot()}, nil
}

func (e *Engine) issue() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.issued++
	return e.issued
}

func (e *Engine) apply(ticket uint64, list []contacts.Contact) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ticket < e.applied {
		e.logger.Debug("discarding stale reload",
			zap.Uint64("ticket", ticket),
			zap.Uint64("applied", e.applied),
		)
		return false
	}
	if list == nil {
		list = []contacts.Contact{}
	}
	e.list = list
	e.applied = ticket
	e.loaded = true
	e.logger.Debug("reload applied", zap.Uint64("ticket", ticket), zap.Int("contacts", len(list)))
	return true
}

func (e *Engine) notify(level Level, text string) {
	e.notifier.Notify(Toast{Level: level, Text: text})
}

// failure turns err into an error toast: transport problems read
// "Network error: ...", rejected requests "<op> failed: ...", and client-side
// validation errors are shown as they are.
func (e *Engine) failure(op string, err error) {
	var transportErr *api.TransportError
	var appErr *api.AppError
	switch {
	case errors.As(err, &transportErr):
		e.notify(LevelError, "Network error: "+api.UserMessage(err))
	case errors.As(err, &appErr):
		e.notify(LevelError, op+" failed: "+appErr.Message)
	case errors.Is(err, context.DeadlineExceeded):
		e.notify(LevelError, "Network error: request timed out")
	default:
		e.notify(LevelError, sentence(err.Error()))
	}
}

func sentence(s string) string {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
