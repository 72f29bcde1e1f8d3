// Package draft is the wizard's draft store: it snapshots an in-progress
// quote to the local database and reads it back for recovery.
//
// Storage problems never escape this package as failures of a read. A draft
// that is missing, unreadable, expired or behind a broken database is simply
// "no draft". Writes report their error so the caller can show a warning,
// but they are also logged here.
package draft

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/quotewizard/internal/client/models"
	"github.com/dmitrijs2005/quotewizard/internal/client/repositories/drafts"
	"github.com/dmitrijs2005/quotewizard/internal/common"
	"github.com/dmitrijs2005/quotewizard/internal/logging"
	"github.com/dmitrijs2005/quotewizard/internal/quote"
)

// Draft is a decoded snapshot together with where and when it was stored.
type Draft struct {
	Slot     models.Slot
	Snapshot quote.Snapshot
	SavedAt  time.Time
	// Document is the stored encoding; recovery overlays it onto defaults.
	Document []byte
}

// Preview is what the recovery prompt shows about a draft.
type Preview struct {
	Slot       models.Slot
	ClientName string
	JobTitle   string
	ItemCount  int
	SavedAt    time.Time
}

func (d *Draft) Preview() Preview {
	return Preview{
		Slot:       d.Slot,
		ClientName: strings.TrimSpace(d.Snapshot.Client.Name),
		JobTitle:   strings.TrimSpace(d.Snapshot.JobDetails.Title),
		ItemCount:  len(d.Snapshot.Items),
		SavedAt:    d.SavedAt,
	}
}

type Store struct {
	repo   drafts.Repository
	logger logging.Logger
	maxAge time.Duration
	now    func() time.Time
}

type Option func(*Store)

// WithMaxAge makes drafts older than d count as absent. Zero keeps drafts
// until they are overwritten or cleared.
func WithMaxAge(d time.Duration) Option {
	return func(s *Store) { s.maxAge = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(repo drafts.Repository, logger logging.Logger, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		logger: logger.With("module", "draft_store"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveDraft writes snap under (entityType, slot), replacing what was there.
func (s *Store) SaveDraft(ctx context.Context, entityType string, slot models.Slot, snap quote.Snapshot) error {
	if !slot.Valid() {
		return common.ErrInvalidSlot
	}
	payload, err := encodeSnapshot(snap)
	if err != nil {
		s.logger.Warn(ctx, "draft encode failed", "entity", entityType, "slot", slot.String(), "err", err)
		return err
	}
	d := &models.Draft{
		EntityType: entityType,
		Slot:       slot,
		Payload:    payload,
		UpdatedAt:  s.now().UTC(),
	}
	if err := s.repo.Put(ctx, d); err != nil {
		s.logger.Warn(ctx, "draft save failed", "entity", entityType, "slot", slot.String(), "err", err)
		return err
	}
	s.logger.Debug(ctx, "draft saved", "entity", entityType, "slot", slot.String(), "bytes", len(payload))
	return nil
}

// LoadDraft returns the stored draft, or false when there is no usable one.
func (s *Store) LoadDraft(ctx context.Context, entityType string, slot models.Slot) (*Draft, bool) {
	if !slot.Valid() {
		return nil, false
	}
	rec, err := s.repo.Get(ctx, entityType, slot)
	if err != nil {
		s.logger.Warn(ctx, "draft load failed", "entity", entityType, "slot", slot.String(), "err", err)
		return nil, false
	}
	if rec == nil {
		return nil, false
	}
	return s.decode(ctx, rec)
}

// HasRecoverableDraft reports whether the unsaved slot holds a draft with
// at least a client name, a job title or one item.
func (s *Store) HasRecoverableDraft(ctx context.Context, entityType string) bool {
	d, ok := s.LoadDraft(ctx, entityType, models.Unsaved())
	return ok && d.Snapshot.HasMeaningfulContent()
}

// Preview describes the recoverable draft of the unsaved slot, if any.
func (s *Store) Preview(ctx context.Context, entityType string) (Preview, bool) {
	d, ok := s.LoadDraft(ctx, entityType, models.Unsaved())
	if !ok || !d.Snapshot.HasMeaningfulContent() {
		return Preview{}, false
	}
	return d.Preview(), true
}

// ClearDraft deletes the draft. Clearing an absent draft is fine.
func (s *Store) ClearDraft(ctx context.Context, entityType string, slot models.Slot) error {
	if !slot.Valid() {
		return common.ErrInvalidSlot
	}
	if err := s.repo.Delete(ctx, entityType, slot); err != nil {
		s.logger.Warn(ctx, "draft clear failed", "entity", entityType, "slot", slot.String(), "err", err)
		return err
	}
	return nil
}

// List previews every usable draft of the entity type, newest first.
func (s *Store) List(ctx context.Context, entityType string) []Preview {
	recs, err := s.repo.List(ctx, entityType)
	if err != nil {
		s.logger.Warn(ctx, "draft list failed", "entity", entityType, "err", err)
		return nil
	}
	out := make([]Preview, 0, len(recs))
	for _, rec := range recs {
		if d, ok := s.decode(ctx, rec); ok {
			out = append(out, d.Preview())
		}
	}
	return out
}

// PurgeExpired deletes drafts past the configured max age. It is a no-op
// when no max age is set.
func (s *Store) PurgeExpired(ctx context.Context, entityType string) (int64, error) {
	if s.maxAge <= 0 {
		return 0, nil
	}
	n, err := s.repo.DeleteOlderThan(ctx, entityType, s.now().Add(-s.maxAge))
	if err != nil {
		s.logger.Warn(ctx, "draft purge failed", "entity", entityType, "err", err)
		return 0, err
	}
	if n > 0 {
		s.logger.Info(ctx, "expired drafts purged", "entity", entityType, "count", n)
	}
	return n, nil
}

func (s *Store) expired(t time.Time) bool {
	return s.maxAge > 0 && s.now().Sub(t) > s.maxAge
}

func (s *Store) decode(ctx context.Context, rec *models.Draft) (*Draft, bool) {
	if s.expired(rec.UpdatedAt) {
		s.logger.Debug(ctx, "draft expired", "entity", rec.EntityType, "slot", rec.Slot.String(), "saved_at", rec.UpdatedAt)
		return nil, false
	}
	snap, err := decodeSnapshot(rec.Payload)
	if err != nil {
		s.logger.Warn(ctx, "draft unreadable", "entity", rec.EntityType, "slot", rec.Slot.String(), "err", err)
		return nil, false
	}
	return &Draft{
		Slot:     rec.Slot,
		Snapshot: snap,
		SavedAt:  rec.UpdatedAt,
		Document: rec.Payload,
	}, true
}
