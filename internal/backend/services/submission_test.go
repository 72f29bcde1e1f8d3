package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/quotewizard/internal/backend/archive"
	"github.com/dmitrijs2005/quotewizard/internal/backend/models"
	"github.com/dmitrijs2005/quotewizard/internal/backend/repositories/quotes"
	"github.com/dmitrijs2005/quotewizard/internal/backend/repositories/repomanager"
	"github.com/dmitrijs2005/quotewizard/internal/common"
	"github.com/dmitrijs2005/quotewizard/internal/dbx"
	"github.com/dmitrijs2005/quotewizard/internal/logging"
	"github.com/dmitrijs2005/quotewizard/internal/quote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------- test fakes --------

type fakeQuotesRepo struct {
	quotes.Repository

	upserted  []*models.Quote
	items     map[string][]quote.LineItem
	upsertErr error
	itemsErr  error

	stored  *models.Quote
	getErr  error
	listErr error
}

func (f *fakeQuotesRepo) Upsert(_ context.Context, q *models.Quote) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, q)
	return nil
}

func (f *fakeQuotesRepo) ReplaceItems(_ context.Context, id string, items []quote.LineItem) error {
	if f.itemsErr != nil {
		return f.itemsErr
	}
	if f.items == nil {
		f.items = map[string][]quote.LineItem{}
	}
	f.items[id] = items
	return nil
}

func (f *fakeQuotesRepo) GetByID(_ context.Context, id string) (*models.Quote, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.stored, nil
}

func (f *fakeQuotesRepo) ListItems(_ context.Context, id string) ([]quote.LineItem, error) {
	return f.items[id], f.listErr
}

type fakeRepoManager struct {
	repomanager.RepositoryManager
	q *fakeQuotesRepo
}

func (m *fakeRepoManager) Quotes(dbx.DBTX) quotes.Repository { return m.q }

type fakeArchiver struct {
	docs []archive.Document
	err  error
}

func (f *fakeArchiver) Archive(_ context.Context, doc archive.Document) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.docs = append(f.docs, doc)
	return archive.Key(doc.ID, doc.SubmittedAt), nil
}

// -------- helpers --------

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newService(t *testing.T, db *sql.DB, repo *fakeQuotesRepo, arch Archiver) *SubmissionService {
	t.Helper()
	s := NewSubmissionService(db, &fakeRepoManager{q: repo}, arch, logging.NewNopLogger())
	s.now = func() time.Time { return time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC) }
	return s
}

func readyState(t *testing.T) quote.WizardState {
	t.Helper()
	s := quote.NewWizardState()
	s.Client = quote.Client{Name: "Jane Doe", Email: "jane@x.com", Phone: "07123456789", Address: "1 Elm St", Postcode: "AB1 2CD"}
	s.JobDetails = quote.JobDetails{Title: "Rewire", Description: "Full house rewire"}
	it, err := quote.NewLineItem("Electrician", quote.CategoryLabour, 8, 45, "hr")
	require.NoError(t, err)
	s.Items = []quote.LineItem{it}
	vat := true
	s.Settings.VATRegistered = &vat
	s.CurrentStepIndex = 2
	return s
}

// -------- tests --------

func TestSubmit_NewQuoteGetsIDAndCommits(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	orig := newQuoteID
	newQuoteID = func() string { return "q-new" }
	t.Cleanup(func() { newQuoteID = orig })

	repo := &fakeQuotesRepo{}
	arch := &fakeArchiver{}
	state := readyState(t)

	id, err := newService(t, db, repo, arch).Submit(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, "q-new", id)

	require.Len(t, repo.upserted, 1)
	got := repo.upserted[0]
	assert.Equal(t, "q-new", got.ID)
	assert.Equal(t, quote.Totals{Subtotal: 360, VAT: 72, Total: 432}, got.Totals)
	assert.Equal(t, state.Items, repo.items["q-new"])

	require.Len(t, arch.docs, 1)
	assert.Equal(t, "q-new", arch.docs[0].ID)
	assert.Equal(t, state.Items, arch.docs[0].Items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmit_ExistingQuoteKeepsID(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := &fakeQuotesRepo{}
	state := readyState(t)
	state.ID = "q-7"

	id, err := newService(t, db, repo, nil).Submit(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, "q-7", id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmit_RollsBackOnRepoError(t *testing.T) {
	for name, repo := range map[string]*fakeQuotesRepo{
		"upsert": {upsertErr: errors.New("unique violation")},
		"items":  {itemsErr: errors.New("fk violation")},
	} {
		t.Run(name, func(t *testing.T) {
			db, mock := newSQLMockDB(t)
			mock.ExpectBegin()
			mock.ExpectRollback()

			arch := &fakeArchiver{}
			_, err := newService(t, db, repo, arch).Submit(context.Background(), readyState(t))
			require.ErrorContains(t, err, "error storing quote")
			assert.Empty(t, arch.docs, "nothing archived after a failed store")
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSubmit_BeginError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	_, err := newService(t, db, &fakeQuotesRepo{}, nil).Submit(context.Background(), readyState(t))
	require.ErrorContains(t, err, "too many connections")
}

func TestSubmit_ArchiveFailureIsNotFatal(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	state := readyState(t)
	state.ID = "q-8"
	id, err := newService(t, db, &fakeQuotesRepo{}, &fakeArchiver{err: errors.New("bucket missing")}).Submit(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, "q-8", id)
}

func TestLoad(t *testing.T) {
	db, _ := newSQLMockDB(t)
	state := readyState(t)
	repo := &fakeQuotesRepo{
		stored: &models.Quote{ID: "q-1", Client: state.Client, JobDetails: state.JobDetails, Settings: state.Settings},
		items:  map[string][]quote.LineItem{"q-1": state.Items},
	}

	got, err := newService(t, db, repo, nil).Load(context.Background(), "q-1")
	require.NoError(t, err)

	want := state
	want.ID = "q-1"
	want.CurrentStepIndex = 0
	assert.Equal(t, want, got)
}

func TestLoad_Errors(t *testing.T) {
	db, _ := newSQLMockDB(t)

	_, err := newService(t, db, &fakeQuotesRepo{getErr: common.ErrorNotFound}, nil).Load(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = newService(t, db, &fakeQuotesRepo{stored: &models.Quote{ID: "q-1"}, listErr: errors.New("boom")}, nil).Load(context.Background(), "q-1")
	require.ErrorContains(t, err, "boom")
}

func TestUnavailable(t *testing.T) {
	var u Unavailable
	_, err := u.Submit(context.Background(), readyState(t))
	require.ErrorIs(t, err, common.ErrSubmissionUnavailable)
	_, err = u.Load(context.Background(), "q-1")
	require.ErrorIs(t, err, common.ErrSubmissionUnavailable)
}
