// Package wizard drives the three-step quote builder: it owns the quote being
// edited, gates forward navigation on each step's required fields, snapshots
// the quote to the draft store on a timer and offers abandoned drafts back
// on start-up.
package wizard

import (
	"fmt"
	"sync"

	"github.com/dmitrijs2005/quotewizard/internal/common"
	"github.com/dmitrijs2005/quotewizard/internal/quote"
)

// Origin records how the wizard was initialised. Only OriginNew quotes are
// eligible for draft recovery.
type Origin int

const (
	OriginNew Origin = iota
	OriginExisting
	OriginPrefill
)

func (o Origin) String() string {
	switch o {
	case OriginExisting:
		return "existing"
	case OriginPrefill:
		return "prefill"
	default:
		return "new"
	}
}

// Wizard is the state holder and step navigator. It is safe for use by the
// input loop and the autosave goroutine at the same time.
type Wizard struct {
	mu        sync.Mutex
	state     quote.WizardState
	origin    Origin
	submitted bool
}

type Option func(*Wizard)

// FromExisting starts the wizard on a quote loaded from the backend.
func FromExisting(s quote.WizardState) Option {
	return func(w *Wizard) {
		w.state = s.Clone()
		w.state.CurrentStepIndex = 0
		w.origin = OriginExisting
	}
}

// WithPrefill starts a new quote with client details taken from elsewhere,
// e.g. a linked certificate or cost estimate.
func WithPrefill(c quote.Client) Option {
	return func(w *Wizard) {
		w.state.Client = c
		w.origin = OriginPrefill
	}
}

func New(opts ...Option) *Wizard {
	w := &Wizard{state: quote.NewWizardState()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Wizard) Origin() Origin {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.origin
}

// State returns a copy of the current quote.
func (w *Wizard) State() quote.WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Clone()
}

func (w *Wizard) Snapshot() quote.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Snapshot()
}

func (w *Wizard) Totals() quote.Totals {
	w.mu.Lock()
	defer w.mu.Unlock()
	return quote.ComputeTotals(w.state.Items, w.state.Settings)
}

func (w *Wizard) Submitted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitted
}

func (w *Wizard) SetClient(c quote.Client) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Client = c
}

func (w *Wizard) SetJobDetails(j quote.JobDetails) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.JobDetails = j
}

func (w *Wizard) SetSettings(s quote.Settings) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Settings = s
	if s.VATRegistered != nil {
		v := *s.VATRegistered
		w.state.Settings.VATRegistered = &v
	}
}

func (w *Wizard) SetVATRegistered(v bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Settings.VATRegistered = &v
}

// AddItem is the only way items enter the quote, so every item gets an id
// and a derived total.
func (w *Wizard) AddItem(description string, category quote.Category, quantity, unitPrice float64, unit string) (quote.LineItem, error) {
	it, err := quote.NewLineItem(description, category, quantity, unitPrice, unit)
	if err != nil {
		return quote.LineItem{}, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Items = append(w.state.Items, it)
	return it, nil
}

func (w *Wizard) UpdateItemQuantity(id string, q float64) (quote.LineItem, error) {
	return w.updateItem(id, func(it *quote.LineItem) error { return it.SetQuantity(q) })
}

func (w *Wizard) UpdateItemUnitPrice(id string, p float64) (quote.LineItem, error) {
	return w.updateItem(id, func(it *quote.LineItem) error { return it.SetUnitPrice(p) })
}

func (w *Wizard) RemoveItem(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", common.ErrItemNotFound, id)
	}
	w.state.Items = append(w.state.Items[:i], w.state.Items[i+1:]...)
	return nil
}

func (w *Wizard) updateItem(id string, fn func(*quote.LineItem) error) (quote.LineItem, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.indexOf(id)
	if i < 0 {
		return quote.LineItem{}, fmt.Errorf("%w: %s", common.ErrItemNotFound, id)
	}
	if err := fn(&w.state.Items[i]); err != nil {
		return quote.LineItem{}, err
	}
	return w.state.Items[i], nil
}

// indexOf accepts a full id or a unique prefix of one; caller holds mu.
func (w *Wizard) indexOf(id string) int {
	found := -1
	for i, it := range w.state.Items {
		if it.ID == id {
			return i
		}
		if id != "" && len(id) < len(it.ID) && it.ID[:len(id)] == id {
			if found >= 0 {
				return -1
			}
			found = i
		}
	}
	return found
}

// autosaveSnapshot returns what a timer tick should persist, or false when
// the tick must not write.
func (w *Wizard) autosaveSnapshot() (quote.Snapshot, string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitted {
		return quote.Snapshot{}, "", false
	}
	snap := w.state.Snapshot()
	if !snap.HasMeaningfulContent() {
		return quote.Snapshot{}, "", false
	}
	return snap, w.state.ID, true
}

func (w *Wizard) markSubmitted(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.ID = id
	w.submitted = true
}

// restoreItem appends an item read back from a draft through the same
// validation as AddItem, keeping its id.
func (w *Wizard) restoreItem(it quote.LineItem) error {
	rebuilt, err := quote.Rebuild(it)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Items = append(w.state.Items, rebuilt)
	return nil
}
