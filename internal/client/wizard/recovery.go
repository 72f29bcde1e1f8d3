package wizard

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/quotewizard/internal/client/draft"
	"github.com/dmitrijs2005/quotewizard/internal/client/models"
	"github.com/dmitrijs2005/quotewizard/internal/common"
	"github.com/dmitrijs2005/quotewizard/internal/logging"
)

// Recovery offers a new quote the draft an earlier session left behind.
// The check runs at most once per wizard.
type Recovery struct {
	wizard *Wizard
	store  DraftStore
	logger logging.Logger

	once    sync.Once
	mu      sync.Mutex
	pending *draft.Draft

	// guard runs Accept's writes to the wizard; Open points it at the
	// autosaver so no tick sees a half-restored quote.
	guard func(func())
}

func NewRecovery(w *Wizard, store DraftStore, logger logging.Logger) *Recovery {
	return &Recovery{
		wizard: w,
		store:  store,
		logger: logger.With("module", "recovery"),
		guard:  func(fn func()) { fn() },
	}
}

// Check looks for a recoverable unsaved draft and, if one exists, holds it
// until Accept or Discard. Quotes opened for editing or prefilled from
// another record are never offered a draft. Later calls are no-ops.
func (r *Recovery) Check(ctx context.Context) bool {
	r.once.Do(func() {
		if o := r.wizard.Origin(); o != OriginNew {
			r.logger.Debug(ctx, "recovery skipped", "origin", o.String())
			return
		}
		if !r.store.HasRecoverableDraft(ctx, models.EntityTypeQuote) {
			return
		}
		d, ok := r.store.LoadDraft(ctx, models.EntityTypeQuote, models.Unsaved())
		if !ok {
			return
		}
		r.mu.Lock()
		r.pending = d
		r.mu.Unlock()
		r.logger.Info(ctx, "recoverable draft found", "saved_at", d.SavedAt, "items", len(d.Snapshot.Items))
	})
	return r.ShowPrompt()
}

// ShowPrompt reports whether a decision is outstanding.
func (r *Recovery) ShowPrompt() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending != nil
}

// Pending returns the preview of the draft awaiting a decision.
func (r *Recovery) Pending() (draft.Preview, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		return draft.Preview{}, false
	}
	return r.pending.Preview(), true
}

// Accept loads the pending draft into the wizard. Client, job details and
// settings are overlaid on the wizard's current values; items are added one
// by one and the step is restored by replaying forward navigation, so a
// draft can never put the wizard past a step it does not satisfy. The draft
// itself stays stored until the quote is submitted.
func (r *Recovery) Accept(ctx context.Context) error {
	d, err := r.take()
	if err != nil {
		return err
	}

	merged, err := d.OverlayOnto(r.wizard.Snapshot())
	if err != nil {
		r.logger.Warn(ctx, "draft overlay failed, using decoded draft", "err", err)
		merged = d.Snapshot
	}
	r.guard(func() {
		r.wizard.SetClient(merged.Client)
		r.wizard.SetJobDetails(merged.JobDetails)
		r.wizard.SetSettings(merged.Settings)

		for _, it := range d.Snapshot.Items {
			if err := r.wizard.restoreItem(it); err != nil {
				r.logger.Warn(ctx, "recovered item skipped", "item", it.ID, "err", err)
			}
		}

		for int(r.wizard.CurrentStep()) < d.Snapshot.CurrentStepIndex {
			if !r.wizard.Next() {
				break
			}
		}
	})

	r.logger.Info(ctx, "draft recovered", "step", r.wizard.CurrentStep().String(), "items", len(d.Snapshot.Items))
	return nil
}

// Discard drops the pending draft and deletes it from the unsaved slot.
// The prompt is dismissed even when the delete fails.
func (r *Recovery) Discard(ctx context.Context) error {
	if _, err := r.take(); err != nil {
		return err
	}
	if err := r.store.ClearDraft(ctx, models.EntityTypeQuote, models.Unsaved()); err != nil {
		r.logger.Warn(ctx, "discarded draft not cleared", "err", err)
		return err
	}
	r.logger.Info(ctx, "draft discarded")
	return nil
}

func (r *Recovery) take() (*draft.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		return nil, common.ErrNoPendingDraft
	}
	d := r.pending
	r.pending = nil
	return d, nil
}
