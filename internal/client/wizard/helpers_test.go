package wizard

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/quotewizard/internal/client/draft"
	"github.com/dmitrijs2005/quotewizard/internal/client/models"
	"github.com/dmitrijs2005/quotewizard/internal/client/repositories/drafts"
	"github.com/dmitrijs2005/quotewizard/internal/client/storage"
	"github.com/dmitrijs2005/quotewizard/internal/logging"
	"github.com/dmitrijs2005/quotewizard/internal/quote"
	"github.com/stretchr/testify/require"
)

func newDraftStore(t *testing.T) (*draft.Store, drafts.Repository) {
	t.Helper()
	repos, err := storage.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return draft.NewStore(repos.Drafts, nopLogger()), repos.Drafts
}

func nopLogger() logging.Logger { return logging.NewNopLogger() }

// fakeStore records calls and fails on demand.
type fakeStore struct {
	mu       sync.Mutex
	saves    []models.Slot
	cleared  []models.Slot
	saveErr  error
	clearErr error

	// stored is returned by LoadDraft; recoverable by HasRecoverableDraft.
	stored      *draft.Draft
	recoverable bool
}

func (f *fakeStore) SaveDraft(_ context.Context, _ string, slot models.Slot, _ quote.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves = append(f.saves, slot)
	return nil
}

func (f *fakeStore) LoadDraft(context.Context, string, models.Slot) (*draft.Draft, bool) {
	return f.stored, f.stored != nil
}

func (f *fakeStore) HasRecoverableDraft(context.Context, string) bool {
	return f.recoverable
}

func (f *fakeStore) ClearDraft(_ context.Context, _ string, slot models.Slot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, slot)
	return f.clearErr
}

func (f *fakeStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

// fakeSubmitter returns id, or err when set.
type fakeSubmitter struct {
	id    string
	err   error
	calls int
	got   quote.WizardState
}

func (f *fakeSubmitter) Submit(_ context.Context, s quote.WizardState) (string, error) {
	f.calls++
	f.got = s
	if f.err != nil {
		return "", f.err
	}
	return f.id, nil
}
