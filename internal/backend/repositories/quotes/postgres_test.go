package quotes

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/quotewizard/internal/backend/models"
	"github.com/dmitrijs2005/quotewizard/internal/common"
	"github.com/dmitrijs2005/quotewizard/internal/quote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

var upsertRe = regexp.MustCompile(`INSERT INTO quotes .* ON CONFLICT \(id\) DO UPDATE SET .*`)

func sampleQuote() *models.Quote {
	vat := true
	s := quote.DefaultSettings()
	s.VATRegistered = &vat
	return &models.Quote{
		ID:          "q-1",
		Client:      quote.Client{Name: "Jane Doe", Email: "jane@x.com", Phone: "07123456789", Address: "1 Elm St", Postcode: "AB1 2CD"},
		JobDetails:  quote.JobDetails{Title: "Rewire", Description: "Full house rewire"},
		Settings:    s,
		Totals:      quote.Totals{Subtotal: 100, VAT: 20, Total: 120},
		SubmittedAt: time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC),
	}
}

func upsertArgs(q *models.Quote) []driver.Value {
	c, j, s, t := q.Client, q.JobDetails, q.Settings, q.Totals
	return []driver.Value{q.ID,
		c.Name, c.Email, c.Phone, c.Address, c.Postcode,
		j.Title, j.Description, j.EstimatedDuration, j.WorkStartDate, j.Location, j.SpecialRequirements,
		*s.VATRegistered, s.VATRate, string(s.DiscountType), s.DiscountValue, s.ShowItemBreakdown, s.ShowVATBreakdown, s.ValidityDays,
		t.Subtotal, t.Discount, t.VAT, t.Total, sqlmock.AnyArg(),
	}
}

func TestUpsert_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := sampleQuote()
	mock.ExpectExec(upsertRe.String()).WithArgs(upsertArgs(q)...).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), q))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_UnansweredVATIsNull(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := sampleQuote()
	args := upsertArgs(q)
	q.Settings.VATRegistered = nil
	args[12] = nil
	mock.ExpectExec(upsertRe.String()).WithArgs(args...).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), q))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_Errors(t *testing.T) {
	t.Run("exec error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectExec(upsertRe.String()).WillReturnError(errors.New("db is down"))

		err := repo.Upsert(context.Background(), sampleQuote())
		require.Error(t, err)
		assert.Regexp(t, `failed to upsert quote q-1: .*db is down`, err.Error())
	})

	t.Run("rows affected error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectExec(upsertRe.String()).WillReturnResult(sqlmock.NewErrorResult(errors.New("rows-err")))

		err := repo.Upsert(context.Background(), sampleQuote())
		require.ErrorContains(t, err, "rows-err")
	})

	t.Run("unexpected rows affected", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectExec(upsertRe.String()).WillReturnResult(sqlmock.NewResult(0, 2))

		err := repo.Upsert(context.Background(), sampleQuote())
		require.ErrorContains(t, err, "unexpected rows affected: 2")
	})
}

func TestReplaceItems(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	items := []quote.LineItem{
		{ID: "i1", Description: "Cable", Category: quote.CategoryMaterials, Quantity: 2, UnitPrice: 1.5, Unit: "m", TotalPrice: 3},
		{ID: "i2", Description: "Labour", Category: quote.CategoryLabour, Quantity: 8, UnitPrice: 45, Unit: "hr", TotalPrice: 360},
	}

	mock.ExpectExec(`DELETE FROM quote_items WHERE quote_id = \$1`).WithArgs("q-1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`INSERT INTO quote_items`).
		WithArgs("i1", "q-1", 0, "Cable", "materials", 2.0, 1.5, "m", 3.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO quote_items`).
		WithArgs("i2", "q-1", 1, "Labour", "labour", 8.0, 45.0, "hr", 360.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ReplaceItems(context.Background(), "q-1", items))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceItems_InsertError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM quote_items`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO quote_items`).WillReturnError(errors.New("constraint"))

	err := repo.ReplaceItems(context.Background(), "q-1", []quote.LineItem{{ID: "i1", Category: quote.CategoryManual}})
	require.ErrorContains(t, err, "failed to insert item i1 of quote q-1")
}

var quoteColumns = []string{"id",
	"client_name", "client_email", "client_phone", "client_address", "client_postcode",
	"job_title", "job_description", "estimated_duration", "work_start_date", "location", "special_requirements",
	"vat_registered", "vat_rate", "discount_type", "discount_value", "show_item_breakdown", "show_vat_breakdown", "validity_days",
	"subtotal", "discount", "vat", "total", "submitted_at"}

func TestGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	want := sampleQuote()
	c, j, s, tt := want.Client, want.JobDetails, want.Settings, want.Totals
	rows := sqlmock.NewRows(quoteColumns).AddRow(want.ID,
		c.Name, c.Email, c.Phone, c.Address, c.Postcode,
		j.Title, j.Description, j.EstimatedDuration, j.WorkStartDate, j.Location, j.SpecialRequirements,
		true, s.VATRate, "percentage", s.DiscountValue, s.ShowItemBreakdown, s.ShowVATBreakdown, s.ValidityDays,
		tt.Subtotal, tt.Discount, tt.VAT, tt.Total, want.SubmittedAt)
	mock.ExpectQuery(`SELECT .* FROM quotes WHERE id = \$1`).WithArgs("q-1").WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "q-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetByID_NullVAT(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(quoteColumns).AddRow("q-1",
		"", "", "", "", "",
		"", "", "", "", "", "",
		nil, 20.0, "fixed", 10.0, true, false, 14,
		0.0, 0.0, 0.0, 0.0, time.Now())
	mock.ExpectQuery(`SELECT .* FROM quotes`).WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "q-1")
	require.NoError(t, err)
	assert.Nil(t, got.Settings.VATRegistered)
	assert.Equal(t, quote.DiscountFixed, got.Settings.DiscountType)
	assert.Equal(t, 14, got.Settings.ValidityDays)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM quotes`).WillReturnRows(sqlmock.NewRows(quoteColumns))

	_, err := repo.GetByID(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListItems(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "description", "category", "quantity", "unit_price", "unit", "total_price"}).
		AddRow("i1", "Cable", "materials", 2.0, 1.5, "m", 3.0).
		AddRow("i2", "Labour", "labour", 8.0, 45.0, "hr", 360.0)
	mock.ExpectQuery(`SELECT .* FROM quote_items WHERE quote_id = \$1 ORDER BY position`).WithArgs("q-1").WillReturnRows(rows)

	items, err := repo.ListItems(context.Background(), "q-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, quote.LineItem{ID: "i1", Description: "Cable", Category: quote.CategoryMaterials, Quantity: 2, UnitPrice: 1.5, Unit: "m", TotalPrice: 3}, items[0])
	assert.Equal(t, quote.CategoryLabour, items[1].Category)
}

func TestListItems_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM quote_items`).WillReturnError(errors.New("boom"))

	_, err := repo.ListItems(context.Background(), "q-1")
	require.ErrorContains(t, err, "failed to select items of quote q-1")
}
