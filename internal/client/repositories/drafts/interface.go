package drafts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/quotewizard/internal/client/models"
)

// Repository describes storage operations on draft records.
type Repository interface {
	// Put inserts the draft or overwrites the one stored under the same key.
	Put(ctx context.Context, d *models.Draft) error

	// Get returns the draft stored under the key, or (nil, nil) if none.
	Get(ctx context.Context, entityType string, slot models.Slot) (*models.Draft, error)

	// Delete removes the draft; a missing draft is not an error.
	Delete(ctx context.Context, entityType string, slot models.Slot) error

	// List returns every draft of the entity type, newest first.
	List(ctx context.Context, entityType string) ([]*models.Draft, error)

	// DeleteOlderThan removes drafts last written before cutoff.
	DeleteOlderThan(ctx context.Context, entityType string, cutoff time.Time) (int64, error)
}
