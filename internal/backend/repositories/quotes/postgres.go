package quotes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/quotewizard/internal/backend/models"
	"github.com/dmitrijs2005/quotewizard/internal/common"
	"github.com/dmitrijs2005/quotewizard/internal/dbx"
	"github.com/dmitrijs2005/quotewizard/internal/quote"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, q *models.Quote) error {
	query := `
		INSERT INTO quotes (id,
			client_name, client_email, client_phone, client_address, client_postcode,
			job_title, job_description, estimated_duration, work_start_date, location, special_requirements,
			vat_registered, vat_rate, discount_type, discount_value, show_item_breakdown, show_vat_breakdown, validity_days,
			subtotal, discount, vat, total, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
		ON CONFLICT (id)
		DO UPDATE SET
			client_name = EXCLUDED.client_name,
			client_email = EXCLUDED.client_email,
			client_phone = EXCLUDED.client_phone,
			client_address = EXCLUDED.client_address,
			client_postcode = EXCLUDED.client_postcode,
			job_title = EXCLUDED.job_title,
			job_description = EXCLUDED.job_description,
			estimated_duration = EXCLUDED.estimated_duration,
			work_start_date = EXCLUDED.work_start_date,
			location = EXCLUDED.location,
			special_requirements = EXCLUDED.special_requirements,
			vat_registered = EXCLUDED.vat_registered,
			vat_rate = EXCLUDED.vat_rate,
			discount_type = EXCLUDED.discount_type,
			discount_value = EXCLUDED.discount_value,
			show_item_breakdown = EXCLUDED.show_item_breakdown,
			show_vat_breakdown = EXCLUDED.show_vat_breakdown,
			validity_days = EXCLUDED.validity_days,
			subtotal = EXCLUDED.subtotal,
			discount = EXCLUDED.discount,
			vat = EXCLUDED.vat,
			total = EXCLUDED.total,
			submitted_at = EXCLUDED.submitted_at;
	`
	c, j, s, t := q.Client, q.JobDetails, q.Settings, q.Totals
	res, err := r.db.ExecContext(ctx, query, q.ID,
		c.Name, c.Email, c.Phone, c.Address, c.Postcode,
		j.Title, j.Description, j.EstimatedDuration, j.WorkStartDate, j.Location, j.SpecialRequirements,
		nullBool(s.VATRegistered), s.VATRate, string(s.DiscountType), s.DiscountValue, s.ShowItemBreakdown, s.ShowVATBreakdown, s.ValidityDays,
		t.Subtotal, t.Discount, t.VAT, t.Total, q.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert quote %s: %w", q.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}

func (r *PostgresRepository) ReplaceItems(ctx context.Context, quoteID string, items []quote.LineItem) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM quote_items WHERE quote_id = $1`, quoteID); err != nil {
		return fmt.Errorf("failed to delete items of quote %s: %w", quoteID, err)
	}

	query := `
		INSERT INTO quote_items (id, quote_id, position, description, category, quantity, unit_price, unit, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for i, it := range items {
		if _, err := r.db.ExecContext(ctx, query,
			it.ID, quoteID, i, it.Description, string(it.Category), it.Quantity, it.UnitPrice, it.Unit, it.TotalPrice,
		); err != nil {
			return fmt.Errorf("failed to insert item %s of quote %s: %w", it.ID, quoteID, err)
		}
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Quote, error) {
	query := `
		SELECT id,
			client_name, client_email, client_phone, client_address, client_postcode,
			job_title, job_description, estimated_duration, work_start_date, location, special_requirements,
			vat_registered, vat_rate, discount_type, discount_value, show_item_breakdown, show_vat_breakdown, validity_days,
			subtotal, discount, vat, total, submitted_at
		FROM quotes WHERE id = $1
	`
	var (
		q            models.Quote
		vat          sql.NullBool
		discountType string
	)
	c, j, s, t := &q.Client, &q.JobDetails, &q.Settings, &q.Totals
	err := r.db.QueryRowContext(ctx, query, id).Scan(&q.ID,
		&c.Name, &c.Email, &c.Phone, &c.Address, &c.Postcode,
		&j.Title, &j.Description, &j.EstimatedDuration, &j.WorkStartDate, &j.Location, &j.SpecialRequirements,
		&vat, &s.VATRate, &discountType, &s.DiscountValue, &s.ShowItemBreakdown, &s.ShowVATBreakdown, &s.ValidityDays,
		&t.Subtotal, &t.Discount, &t.VAT, &t.Total, &q.SubmittedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("quote %s: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote %s: %w", id, err)
	}
	if vat.Valid {
		v := vat.Bool
		s.VATRegistered = &v
	}
	s.DiscountType = quote.DiscountType(discountType)
	return &q, nil
}

func (r *PostgresRepository) ListItems(ctx context.Context, quoteID string) ([]quote.LineItem, error) {
	query := `
		SELECT id, description, category, quantity, unit_price, unit, total_price
		FROM quote_items WHERE quote_id = $1 ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to select items of quote %s: %w", quoteID, err)
	}
	defer rows.Close()

	var result []quote.LineItem
	for rows.Next() {
		var (
			it       quote.LineItem
			category string
		)
		if err := rows.Scan(&it.ID, &it.Description, &category, &it.Quantity, &it.UnitPrice, &it.Unit, &it.TotalPrice); err != nil {
			return nil, err
		}
		it.Category = quote.Category(category)
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
