// Package services implements the quote backend used by the wizard: storing
// submitted quotes in PostgreSQL, archiving them to S3 and loading them back
// for editing.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/quotewizard/internal/backend/archive"
	"github.com/dmitrijs2005/quotewizard/internal/backend/models"
	"github.com/dmitrijs2005/quotewizard/internal/backend/repositories/repomanager"
	"github.com/dmitrijs2005/quotewizard/internal/common"
	"github.com/dmitrijs2005/quotewizard/internal/dbx"
	"github.com/dmitrijs2005/quotewizard/internal/logging"
	"github.com/dmitrijs2005/quotewizard/internal/quote"
	"github.com/google/uuid"
)

// Archiver stores a copy of a submitted quote somewhere durable.
type Archiver interface {
	Archive(ctx context.Context, doc archive.Document) (string, error)
}

var newQuoteID = uuid.NewString

type SubmissionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	archiver    Archiver
	logger      logging.Logger
	now         func() time.Time
}

// NewSubmissionService wires the service; archiver may be nil.
func NewSubmissionService(db *sql.DB, rm repomanager.RepositoryManager, archiver Archiver, logger logging.Logger) *SubmissionService {
	return &SubmissionService{
		db:          db,
		repomanager: rm,
		archiver:    archiver,
		logger:      logger.With("module", "submission"),
		now:         time.Now,
	}
}

// Submit stores the quote and its items in one transaction and returns the
// quote id, assigning a new one when the state has none. The archive copy
// is best effort.
func (s *SubmissionService) Submit(ctx context.Context, state quote.WizardState) (string, error) {
	id := state.ID
	if id == "" {
		id = newQuoteID()
	}
	q := &models.Quote{
		ID:          id,
		Client:      state.Client,
		JobDetails:  state.JobDetails,
		Settings:    state.Settings,
		Totals:      quote.ComputeTotals(state.Items, state.Settings),
		SubmittedAt: s.now().UTC(),
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Quotes(tx)
		if err := repo.Upsert(ctx, q); err != nil {
			return err
		}
		return repo.ReplaceItems(ctx, id, state.Items)
	})
	if err != nil {
		return "", fmt.Errorf("error storing quote: %w", err)
	}
	s.logger.Info(ctx, "quote stored", "quote_id", id, "items", len(state.Items), "total", q.Totals.Total)

	if s.archiver != nil {
		key, err := s.archiver.Archive(ctx, archive.Document{
			ID:          id,
			Client:      q.Client,
			JobDetails:  q.JobDetails,
			Items:       state.Items,
			Settings:    q.Settings,
			Totals:      q.Totals,
			SubmittedAt: q.SubmittedAt,
		})
		if err != nil {
			s.logger.Warn(ctx, "quote archive failed", "quote_id", id, "err", err)
		} else {
			s.logger.Debug(ctx, "quote archived", "quote_id", id, "key", key)
		}
	}
	return id, nil
}

// Load returns a submitted quote as wizard state for editing.
func (s *SubmissionService) Load(ctx context.Context, id string) (quote.WizardState, error) {
	repo := s.repomanager.Quotes(s.db)
	q, err := repo.GetByID(ctx, id)
	if err != nil {
		return quote.WizardState{}, err
	}
	items, err := repo.ListItems(ctx, id)
	if err != nil {
		return quote.WizardState{}, err
	}
	return quote.WizardState{
		ID:         q.ID,
		Client:     q.Client,
		JobDetails: q.JobDetails,
		Items:      items,
		Settings:   q.Settings,
	}, nil
}

// Unavailable stands in for the backend when no database is configured.
// Every call fails with common.ErrSubmissionUnavailable.
type Unavailable struct{}

func (Unavailable) Submit(context.Context, quote.WizardState) (string, error) {
	return "", common.ErrSubmissionUnavailable
}

func (Unavailable) Load(context.Context, string) (quote.WizardState, error) {
	return quote.WizardState{}, common.ErrSubmissionUnavailable
}
