package drafts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/quotewizard/internal/client/models"
	"github.com/dmitrijs2005/quotewizard/internal/common"
	"github.com/dmitrijs2005/quotewizard/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func key(entityType string, slot models.Slot) string {
	return entityType + "/" + slot.String()
}

// Put upserts a draft by (entity_type, slot_kind, entity_id).
func (r *SQLiteRepository) Put(ctx context.Context, d *models.Draft) error {
	if !d.Slot.Valid() {
		return fmt.Errorf("failed to put draft[%s]: %w", key(d.EntityType, d.Slot), common.ErrInvalidSlot)
	}
	query := `INSERT INTO drafts (entity_type, slot_kind, entity_id, payload, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(entity_type, slot_kind, entity_id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		d.EntityType, string(d.Slot.Kind()), d.Slot.ID(), d.Payload, d.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to put draft[%s]: %w", key(d.EntityType, d.Slot), err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, entityType string, slot models.Slot) (*models.Draft, error) {
	query := `SELECT payload, updated_at FROM drafts WHERE entity_type = ? AND slot_kind = ? AND entity_id = ?`

	var payload []byte
	var updated int64
	err := r.db.QueryRowContext(ctx, query, entityType, string(slot.Kind()), slot.ID()).Scan(&payload, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft[%s]: %w", key(entityType, slot), err)
	}
	return &models.Draft{
		EntityType: entityType,
		Slot:       slot,
		Payload:    payload,
		UpdatedAt:  time.UnixMilli(updated).UTC(),
	}, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, entityType string, slot models.Slot) error {
	query := `DELETE FROM drafts WHERE entity_type = ? AND slot_kind = ? AND entity_id = ?`
	if _, err := r.db.ExecContext(ctx, query, entityType, string(slot.Kind()), slot.ID()); err != nil {
		return fmt.Errorf("failed to delete draft[%s]: %w", key(entityType, slot), err)
	}
	return nil
}

// List skips rows whose slot columns do not form a valid slot.
func (r *SQLiteRepository) List(ctx context.Context, entityType string) ([]*models.Draft, error) {
	query := `SELECT slot_kind, entity_id, payload, updated_at FROM drafts
		WHERE entity_type = ? ORDER BY updated_at DESC`
	rows, err := r.db.QueryContext(ctx, query, entityType)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts[%s]: %w", entityType, err)
	}
	defer rows.Close()

	var result []*models.Draft
	for rows.Next() {
		var kind, id string
		var payload []byte
		var updated int64
		if err := rows.Scan(&kind, &id, &payload, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan draft row: %w", err)
		}
		slot, err := models.ParseSlot(kind, id)
		if err != nil {
			continue
		}
		result = append(result, &models.Draft{
			EntityType: entityType,
			Slot:       slot,
			Payload:    payload,
			UpdatedAt:  time.UnixMilli(updated).UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate draft rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteOlderThan(ctx context.Context, entityType string, cutoff time.Time) (int64, error) {
	query := `DELETE FROM drafts WHERE entity_type = ? AND updated_at < ?`
	res, err := r.db.ExecContext(ctx, query, entityType, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to purge drafts[%s]: %w", entityType, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
