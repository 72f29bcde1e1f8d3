package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/quotewizard/internal/client/models"
	"github.com/dmitrijs2005/quotewizard/internal/logging"
)

// DefaultAutosaveInterval is used when no interval is configured.
const DefaultAutosaveInterval = 10 * time.Second

// Autosaver snapshots the wizard into the draft store on a fixed interval.
// A tick writes nothing when the quote has no meaningful content or has
// already been submitted.
type Autosaver struct {
	wizard   *Wizard
	store    DraftStore
	logger   logging.Logger
	interval time.Duration
	now      func() time.Time

	// saveMu serialises writes with the post-submit draft cleanup.
	saveMu    sync.Mutex
	lastSaved time.Time
	lastErr   error
}

func NewAutosaver(w *Wizard, store DraftStore, interval time.Duration, logger logging.Logger) *Autosaver {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	return &Autosaver{
		wizard:   w,
		store:    store,
		logger:   logger.With("module", "autosave"),
		interval: interval,
		now:      time.Now,
	}
}

// Start runs the timer until ctx is cancelled or the returned stop func is
// called. stop waits for an in-flight save and is safe to call twice; after
// it returns no further writes happen.
func (a *Autosaver) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := a.SaveNow(ctx); err != nil {
					a.logger.Warn(ctx, "autosave failed", "err", err)
				}
			}
		}
	}()

	return sync.OnceFunc(func() {
		cancel()
		<-done
	})
}

// SaveNow performs one save outside the timer. It reports whether a draft
// was written.
func (a *Autosaver) SaveNow(ctx context.Context) (bool, error) {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	snap, id, ok := a.wizard.autosaveSnapshot()
	if !ok {
		return false, nil
	}
	slot := models.SlotFor(id)
	if err := a.store.SaveDraft(ctx, models.EntityTypeQuote, slot, snap); err != nil {
		a.lastErr = err
		return false, err
	}
	a.lastSaved = a.now()
	a.lastErr = nil
	a.logger.Debug(ctx, "draft autosaved", "slot", slot.String(), "step", snap.CurrentStepIndex)
	return true, nil
}

// LastSaved returns when the last successful save happened.
func (a *Autosaver) LastSaved() (time.Time, bool) {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()
	return a.lastSaved, !a.lastSaved.IsZero()
}

// LastError is the error of the most recent save, nil after a success.
func (a *Autosaver) LastError() error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()
	return a.lastErr
}

// exclusive runs fn while no save can be in progress.
func (a *Autosaver) exclusive(fn func()) {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()
	fn()
}
