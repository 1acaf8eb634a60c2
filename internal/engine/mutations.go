package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"addressbook/internal/api"
	"addressbook/internal/contacts"
)

// ErrUnknownContact is returned when an operation names an id that is not in
// the current list.
var ErrUnknownContact = errors.New("contact is not in the list")

// ConfirmFunc asks the user to confirm deleting c.
type ConfirmFunc func(c contacts.Contact) bool

// Confirmed is a ConfirmFunc for callers that already asked.
func Confirmed(contacts.Contact) bool { return true }

// Save creates the contact when form.ID is zero and updates it otherwise.
// The form is validated first; an invalid form never reaches the backend.
func (e *Engine) Save(ctx context.Context, form contacts.Form) (contacts.Contact, error) {
	in, err := form.Input()
	if err != nil {
		e.failure("Save", err)
		return contacts.Contact{}, err
	}

	reqCtx, cancel := e.withTimeout(ctx)
	defer cancel()

	var (
		saved contacts.Contact
		done  string
	)
	if form.IsNew() {
		saved, err = e.remote.Create(reqCtx, in)
		done = "Contact created"
	} else {
		saved, err = e.remote.Update(reqCtx, form.ID, in)
		done = "Contact updated"
	}
	if err != nil {
		e.logger.Info("save rejected", zap.Int64("id", form.ID), zap.Error(err))
		e.failure("Save", err)
		return contacts.Contact{}, err
	}

	e.notify(LevelSuccess, done)
	e.reload(ctx)
	return saved, nil
}

// Delete removes a contact after confirm approves it. A declined or nil
// confirm issues no request and returns false.
func (e *Engine) Delete(ctx context.Context, id int64, confirm ConfirmFunc) (bool, error) {
	c, ok := e.Lookup(id)
	if !ok {
		c = contacts.Contact{ID: id}
	}
	if confirm == nil || !confirm(c) {
		e.logger.Debug("delete declined", zap.Int64("id", id))
		return false, nil
	}

	reqCtx, cancel := e.withTimeout(ctx)
	defer cancel()

	if err := e.remote.Delete(reqCtx, id); err != nil {
		e.failure("Delete", err)
		return false, err
	}

	e.notify(LevelSuccess, "Contact deleted")
	e.reload(ctx)
	return true, nil
}

// ToggleFavorite flips the favorite flag of a listed contact. The local flag
// only changes through the reload that follows a confirmed update.
func (e *Engine) ToggleFavorite(ctx context.Context, id int64) error {
	c, ok := e.Lookup(id)
	if !ok {
		err := fmt.Errorf("toggle favorite %d: %w", id, ErrUnknownContact)
		e.failure("Favorite", err)
		return err
	}
	return e.SetFavorite(ctx, id, !c.IsFavorite)
}

// SetFavorite sets the favorite flag explicitly.
func (e *Engine) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	reqCtx, cancel := e.withTimeout(ctx)
	defer cancel()

	if err := e.remote.SetFavorite(reqCtx, id, favorite); err != nil {
		e.failure("Favorite", err)
		return err
	}

	if favorite {
		e.notify(LevelSuccess, "Added to favorites")
	} else {
		e.notify(LevelSuccess, "Removed from favorites")
	}
	e.reload(ctx)
	return nil
}

// Fetch loads the authoritative record of a contact into an editor form.
func (e *Engine) Fetch(ctx context.Context, id int64) (contacts.Form, error) {
	reqCtx, cancel := e.withTimeout(ctx)
	defer cancel()

	c, err := e.remote.Get(reqCtx, id)
	if err != nil {
		e.failure("Load contact", err)
		return contacts.Form{}, err
	}
	return contacts.FormFromContact(c), nil
}

// Import uploads a spreadsheet. Files with an unsupported extension are
// rejected without a request. Per-row errors are logged; the backend's
// summary message becomes the toast.
func (e *Engine) Import(ctx context.Context, filename string, r io.Reader) (api.ImportResult, error) {
	if err := contacts.ValidateImportFile(filename); err != nil {
		e.failure("Import", err)
		return api.ImportResult{}, err
	}

	reqCtx, cancel := e.withTimeout(ctx)
	defer cancel()

	res, err := e.remote.Import(reqCtx, filename, r)
	if err != nil {
		e.failure("Import", err)
		return api.ImportResult{}, err
	}

	for _, rowErr := range res.Errors {
		e.importLog.Warn("import row rejected",
			zap.String("file", filename),
			zap.Int("row", rowErr.Row),
			zap.String("name", rowErr.Name),
			zap.String("error", rowErr.Error),
		)
	}

	msg := res.Message
	if msg == "" {
		msg = "Import completed"
	}
	if n := len(res.Errors); n > 0 {
		msg = fmt.Sprintf("%s (%d rows rejected)", msg, n)
	}
	e.notify(LevelSuccess, msg)
	e.reload(ctx)
	return res, nil
}

// reload runs the single reload that follows a successful mutation. Its own
// failure is reported by Load; the mutation still counts as done.
func (e *Engine) reload(ctx context.Context) {
	_, _ = e.Load(ctx)
}
