package quote

import (
	"fmt"
	"math"
	"strings"

	"github.com/dmitrijs2005/quotewizard/internal/common"
	"github.com/google/uuid"
)

// Category classifies a line item.
type Category string

const (
	CategoryLabour    Category = "labour"
	CategoryMaterials Category = "materials"
	CategoryEquipment Category = "equipment"
	CategoryManual    Category = "manual"
)

// Categories lists the accepted categories in display order.
var Categories = []Category{CategoryLabour, CategoryMaterials, CategoryEquipment, CategoryManual}

// ParseCategory accepts a category name in any case.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", common.ErrUnknownCategory, s)
}

// LineItem is a billable unit. TotalPrice is derived from Quantity and
// UnitPrice and is only ever written together with them.
type LineItem struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   float64  `json:"unitPrice"`
	Unit        string   `json:"unit"`
	TotalPrice  float64  `json:"totalPrice"`
}

// newID is a seam for tests that need stable item ids.
var newID = uuid.NewString

// NewLineItem builds a line item with a fresh id and a computed total.
func NewLineItem(description string, category Category, quantity, unitPrice float64, unit string) (LineItem, error) {
	it := LineItem{
		ID:          newID(),
		Description: strings.TrimSpace(description),
		Category:    category,
		Unit:        strings.TrimSpace(unit),
	}
	if err := it.validate(quantity, unitPrice); err != nil {
		return LineItem{}, err
	}
	it.Quantity = quantity
	it.UnitPrice = unitPrice
	it.recompute()
	return it, nil
}

// Rebuild runs an existing item (e.g. one read back from a draft) through
// the same validation and derivation as NewLineItem. The id is kept when
// present so stored references stay valid.
func Rebuild(it LineItem) (LineItem, error) {
	out, err := NewLineItem(it.Description, it.Category, it.Quantity, it.UnitPrice, it.Unit)
	if err != nil {
		return LineItem{}, err
	}
	if it.ID != "" {
		out.ID = it.ID
	}
	return out, nil
}

func (it *LineItem) SetQuantity(q float64) error {
	if !validAmount(q) {
		return common.ErrInvalidAmount
	}
	it.Quantity = q
	it.recompute()
	return nil
}

func (it *LineItem) SetUnitPrice(p float64) error {
	if !validAmount(p) {
		return common.ErrInvalidAmount
	}
	it.UnitPrice = p
	it.recompute()
	return nil
}

func (it *LineItem) recompute() {
	it.TotalPrice = roundPennies(it.Quantity * it.UnitPrice)
}

func (it LineItem) validate(quantity, unitPrice float64) error {
	if _, err := ParseCategory(string(it.Category)); err != nil {
		return err
	}
	if !validAmount(quantity) || !validAmount(unitPrice) {
		return common.ErrInvalidAmount
	}
	return nil
}

// validAmount accepts finite, non-negative values; NaN and Inf cannot be
// encoded into a draft.
func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
