// Package models defines the records the quote wizard keeps on the local device.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/quotewizard/internal/common"
)

// EntityTypeQuote is the only entity type the wizard drafts today.
const EntityTypeQuote = "quote"

// SlotKind tells apart the draft of a quote that exists on the backend from
// the draft of the quote currently being composed.
type SlotKind string

const (
	SlotUnsaved  SlotKind = "unsaved"
	SlotExisting SlotKind = "existing"
)

// Slot addresses a draft within an entity type. The zero value is not a
// valid slot; use Unsaved or Existing.
type Slot struct {
	kind SlotKind
	id   string
}

// Unsaved is the slot of the new quote that has no backend id yet.
func Unsaved() Slot {
	return Slot{kind: SlotUnsaved}
}

// Existing is the slot of a quote the backend already knows. An empty id is
// rejected so it can never be confused with the unsaved slot.
func Existing(id string) (Slot, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Slot{}, fmt.Errorf("%w: existing slot needs an id", common.ErrInvalidSlot)
	}
	return Slot{kind: SlotExisting, id: id}, nil
}

// SlotFor picks the slot matching a quote id: Existing(id) when set,
// Unsaved otherwise.
func SlotFor(id string) Slot {
	if s, err := Existing(id); err == nil {
		return s
	}
	return Unsaved()
}

// ParseSlot rebuilds a slot from its stored columns.
func ParseSlot(kind, id string) (Slot, error) {
	switch SlotKind(kind) {
	case SlotUnsaved:
		if id != "" {
			return Slot{}, fmt.Errorf("%w: unsaved slot with id %q", common.ErrInvalidSlot, id)
		}
		return Unsaved(), nil
	case SlotExisting:
		return Existing(id)
	default:
		return Slot{}, fmt.Errorf("%w: kind %q", common.ErrInvalidSlot, kind)
	}
}

func (s Slot) Kind() SlotKind { return s.kind }

// ID is empty for the unsaved slot.
func (s Slot) ID() string { return s.id }

func (s Slot) IsUnsaved() bool { return s.kind == SlotUnsaved }

func (s Slot) Valid() bool {
	switch s.kind {
	case SlotUnsaved:
		return s.id == ""
	case SlotExisting:
		return s.id != ""
	}
	return false
}

func (s Slot) String() string {
	if s.kind == SlotExisting {
		return string(s.kind) + ":" + s.id
	}
	return string(s.kind)
}

// Draft is one stored snapshot. Payload holds the encoded snapshot exactly
// as written; decoding is the draft store's job.
type Draft struct {
	EntityType string
	Slot       Slot
	Payload    []byte
	UpdatedAt  time.Time
}
