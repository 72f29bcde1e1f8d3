// Package quotes provides the PostgreSQL repository for submitted quotes and
// their line items.
package quotes

import (
	"context"

	"github.com/dmitrijs2005/quotewizard/internal/backend/models"
	"github.com/dmitrijs2005/quotewizard/internal/quote"
)

type Repository interface {
	// Upsert inserts the quote or overwrites the stored one with the same id.
	Upsert(ctx context.Context, q *models.Quote) error
	// ReplaceItems makes items, in order, the complete item list of the quote.
	ReplaceItems(ctx context.Context, quoteID string, items []quote.LineItem) error
	// GetByID returns common.ErrorNotFound when no quote has the id.
	GetByID(ctx context.Context, id string) (*models.Quote, error)
	ListItems(ctx context.Context, quoteID string) ([]quote.LineItem, error)
}
