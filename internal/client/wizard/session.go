package wizard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/quotewizard/internal/client/draft"
	"github.com/dmitrijs2005/quotewizard/internal/client/models"
	"github.com/dmitrijs2005/quotewizard/internal/common"
	"github.com/dmitrijs2005/quotewizard/internal/logging"
	"github.com/dmitrijs2005/quotewizard/internal/quote"
)

// DraftStore is the part of the draft store the wizard depends on.
type DraftStore interface {
	SaveDraft(ctx context.Context, entityType string, slot models.Slot, snap quote.Snapshot) error
	LoadDraft(ctx context.Context, entityType string, slot models.Slot) (*draft.Draft, bool)
	HasRecoverableDraft(ctx context.Context, entityType string) bool
	ClearDraft(ctx context.Context, entityType string, slot models.Slot) error
}

// Submitter persists a finished quote and returns its id.
type Submitter interface {
	Submit(ctx context.Context, state quote.WizardState) (string, error)
}

// Session ties a wizard to its draft recovery and autosave timer. Open
// starts both; Close is the single teardown.
type Session struct {
	Wizard   *Wizard
	Recovery *Recovery
	Autosave *Autosaver

	store  DraftStore
	logger logging.Logger
	stop   func()
}

func Open(ctx context.Context, store DraftStore, interval time.Duration, logger logging.Logger, opts ...Option) *Session {
	w := New(opts...)
	s := &Session{
		Wizard:   w,
		Recovery: NewRecovery(w, store, logger),
		Autosave: NewAutosaver(w, store, interval, logger),
		store:    store,
		logger:   logger.With("module", "wizard"),
	}
	s.Recovery.guard = s.Autosave.exclusive
	s.Recovery.Check(ctx)
	s.stop = s.Autosave.Start(ctx)
	s.logger.Debug(ctx, "wizard session opened", "origin", w.Origin().String(), "autosave_interval", s.Autosave.interval)
	return s
}

// Close stops the autosave timer. It does not save.
func (s *Session) Close() {
	if s.stop != nil {
		s.stop()
	}
}

// Submit hands the quote to sub once the last step is complete. On success
// the quote takes the returned id and both its existing and unsaved drafts
// are removed; a failed cleanup is logged but does not fail the submit. On
// failure nothing is cleared so the work stays recoverable.
func (s *Session) Submit(ctx context.Context, sub Submitter) (string, error) {
	w := s.Wizard
	if s.Recovery.ShowPrompt() {
		return "", common.ErrDecisionPending
	}
	if w.Submitted() {
		return "", common.ErrAlreadySubmitted
	}
	if !w.IsTerminal() {
		return "", fmt.Errorf("%w: finish %s first", common.ErrNotReady, w.CurrentStep())
	}
	if missing := w.Missing(StepReview); len(missing) > 0 {
		return "", fmt.Errorf("%w: missing %s", common.ErrNotReady, strings.Join(missing, ", "))
	}

	state := w.State()
	id, err := sub.Submit(ctx, state)
	if err != nil {
		s.logger.Error(ctx, "quote submit failed", "err", err)
		return "", fmt.Errorf("submit quote: %w", err)
	}

	s.Autosave.exclusive(func() {
		w.markSubmitted(id)
		for _, slot := range submittedSlots(state.ID, id) {
			if err := s.store.ClearDraft(ctx, models.EntityTypeQuote, slot); err != nil {
				s.logger.Warn(ctx, "draft cleanup after submit failed", "slot", slot.String(), "err", err)
			}
		}
	})
	s.logger.Info(ctx, "quote submitted", "quote_id", id, "items", len(state.Items))
	return id, nil
}

// submittedSlots lists every slot a submitted quote may have drafts in.
func submittedSlots(prevID, id string) []models.Slot {
	var out []models.Slot
	seen := map[string]bool{}
	for _, v := range []string{prevID, id} {
		if slot, err := models.Existing(v); err == nil && !seen[slot.String()] {
			seen[slot.String()] = true
			out = append(out, slot)
		}
	}
	return append(out, models.Unsaved())
}
