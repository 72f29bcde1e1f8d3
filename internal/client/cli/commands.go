package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/quotewizard/internal/client/models"
	"github.com/dmitrijs2005/quotewizard/internal/client/wizard"
	"github.com/dmitrijs2005/quotewizard/internal/common"
	"github.com/dmitrijs2005/quotewizard/internal/quote"
)

func (a *App) recoveryPending() bool {
	return a.session.Recovery.ShowPrompt()
}

func (a *App) Status(ctx context.Context) error {
	w := a.session.Wizard
	step := w.CurrentStep()
	fmt.Fprintf(a.out, "Step %d/%d: %s\n", int(step)+1, wizard.StepCount, step)
	if missing := w.Missing(step); len(missing) > 0 {
		fmt.Fprintf(a.out, "Missing: %s\n", strings.Join(missing, ", "))
	}
	a.printTotals(w.State())
	if err := a.session.Autosave.LastError(); err != nil {
		fmt.Fprintf(a.out, "Warning: last autosave failed: %v\n", err)
	}
	return nil
}

func (a *App) EditClient(ctx context.Context) error {
	c := a.session.Wizard.State().Client
	var err error
	if c.Name, err = GetWithDefault(a.reader, "Client name", c.Name, a.promptOut); err != nil {
		return err
	}
	if c.Email, err = GetWithDefault(a.reader, "Email", c.Email, a.promptOut); err != nil {
		return err
	}
	if c.Phone, err = GetWithDefault(a.reader, "Phone", c.Phone, a.promptOut); err != nil {
		return err
	}
	if c.Address, err = GetWithDefault(a.reader, "Address", c.Address, a.promptOut); err != nil {
		return err
	}
	if c.Postcode, err = GetWithDefault(a.reader, "Postcode", c.Postcode, a.promptOut); err != nil {
		return err
	}
	a.session.Wizard.SetClient(c)
	fmt.Fprintln(a.out, "Client updated.")
	return nil
}

func (a *App) EditJob(ctx context.Context) error {
	j := a.session.Wizard.State().JobDetails
	fields := []struct {
		prompt string
		v      *string
	}{
		{"Job title", &j.Title},
		{"Description", &j.Description},
		{"Estimated duration", &j.EstimatedDuration},
		{"Start date", &j.WorkStartDate},
		{"Location", &j.Location},
		{"Special requirements", &j.SpecialRequirements},
	}
	for _, f := range fields {
		v, err := GetWithDefault(a.reader, f.prompt, *f.v, a.promptOut)
		if err != nil {
			return err
		}
		*f.v = v
	}
	a.session.Wizard.SetJobDetails(j)
	fmt.Fprintln(a.out, "Job details updated.")
	return nil
}

func (a *App) EditSettings(ctx context.Context) error {
	s := a.session.Wizard.State().Settings

	vat, err := GetYesNo(a.reader, "VAT registered?", s.VATRegistered, a.promptOut)
	if err != nil {
		return err
	}
	s.VATRegistered = &vat
	if vat {
		if s.VATRate, err = GetFloat(a.reader, "VAT rate %", s.VATRate, a.promptOut); err != nil {
			return err
		}
	}

	dt, err := GetWithDefault(a.reader, "Discount type (percentage/fixed)", string(s.DiscountType), a.promptOut)
	if err != nil {
		return err
	}
	switch quote.DiscountType(strings.ToLower(dt)) {
	case quote.DiscountPercentage, quote.DiscountFixed:
		s.DiscountType = quote.DiscountType(strings.ToLower(dt))
	default:
		return fmt.Errorf("unknown discount type %q", dt)
	}
	if s.DiscountValue, err = GetFloat(a.reader, "Discount", s.DiscountValue, a.promptOut); err != nil {
		return err
	}

	validity, err := GetWithDefault(a.reader, "Quote valid for (days)", strconv.Itoa(s.ValidityDays), a.promptOut)
	if err != nil {
		return err
	}
	days, err := strconv.Atoi(validity)
	if err != nil || days < 0 {
		return fmt.Errorf("%q is not a number of days", validity)
	}
	s.ValidityDays = days

	a.session.Wizard.SetSettings(s)
	fmt.Fprintln(a.out, "Settings updated.")
	return nil
}

func (a *App) AddItem(ctx context.Context) error {
	desc, err := GetSimpleText(a.reader, "Description", a.promptOut)
	if err != nil {
		return err
	}
	catName, err := GetWithDefault(a.reader, "Category (labour/materials/equipment/manual)", string(quote.CategoryLabour), a.promptOut)
	if err != nil {
		return err
	}
	cat, err := quote.ParseCategory(catName)
	if err != nil {
		return err
	}
	qty, err := GetFloat(a.reader, "Quantity", 1, a.promptOut)
	if err != nil {
		return err
	}
	price, err := GetFloat(a.reader, "Unit price", 0, a.promptOut)
	if err != nil {
		return err
	}
	unit, err := GetSimpleText(a.reader, "Unit (e.g. hour, each)", a.promptOut)
	if err != nil {
		return err
	}

	it, err := a.session.Wizard.AddItem(desc, cat, qty, price, unit)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added item %s (%s).\n", shortID(it.ID), money(it.TotalPrice))
	return nil
}

func (a *App) SetQuantity(ctx context.Context, args []string) error {
	id, v, err := idAndAmount("qty", args)
	if err != nil {
		return err
	}
	it, err := a.session.Wizard.UpdateItemQuantity(id, v)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Item %s: %g x %s = %s\n", shortID(it.ID), it.Quantity, money(it.UnitPrice), money(it.TotalPrice))
	return nil
}

func (a *App) SetPrice(ctx context.Context, args []string) error {
	id, v, err := idAndAmount("price", args)
	if err != nil {
		return err
	}
	it, err := a.session.Wizard.UpdateItemUnitPrice(id, v)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Item %s: %g x %s = %s\n", shortID(it.ID), it.Quantity, money(it.UnitPrice), money(it.TotalPrice))
	return nil
}

func (a *App) RemoveItem(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: rmitem <id>")
	}
	if err := a.session.Wizard.RemoveItem(args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Item removed.")
	return nil
}

func (a *App) Items(ctx context.Context) error {
	s := a.session.Wizard.State()
	if len(s.Items) == 0 {
		fmt.Fprintln(a.out, "No items.")
		return nil
	}
	a.printItems(s.Items)
	a.printTotals(s)
	return nil
}

func (a *App) Next(ctx context.Context) error {
	w := a.session.Wizard
	step := w.CurrentStep()
	if w.IsTerminal() {
		fmt.Fprintln(a.out, "Already on the last step; use 'submit'.")
		return nil
	}
	if !w.Next() {
		fmt.Fprintf(a.out, "Cannot leave %s yet, missing: %s\n", step, strings.Join(w.Missing(step), ", "))
		return nil
	}
	return a.Status(ctx)
}

func (a *App) Back(ctx context.Context) error {
	if !a.session.Wizard.Prev() {
		fmt.Fprintln(a.out, "Already on the first step.")
		return nil
	}
	return a.Status(ctx)
}

func (a *App) Goto(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: goto <step number>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > wizard.StepCount {
		return fmt.Errorf("step must be 1..%d", wizard.StepCount)
	}
	if !a.session.Wizard.JumpTo(wizard.Step(n - 1)) {
		fmt.Fprintln(a.out, "Only earlier steps can be jumped to; use 'next' to move forward.")
		return nil
	}
	return a.Status(ctx)
}

func (a *App) Save(ctx context.Context) error {
	saved, err := a.session.Autosave.SaveNow(ctx)
	if err != nil {
		return fmt.Errorf("draft not saved: %w", err)
	}
	if !saved {
		fmt.Fprintln(a.out, "Nothing to save yet.")
		return nil
	}
	fmt.Fprintln(a.out, "Draft saved.")
	return nil
}

func (a *App) Accept(ctx context.Context) error {
	if err := a.session.Recovery.Accept(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Draft restored.")
	return a.Status(ctx)
}

func (a *App) Discard(ctx context.Context) error {
	err := a.session.Recovery.Discard(ctx)
	if errors.Is(err, common.ErrNoPendingDraft) {
		return err
	}
	if err != nil {
		// the prompt is gone; only the delete failed
		fmt.Fprintf(a.out, "Draft dismissed, but it could not be deleted: %v\n", err)
		return nil
	}
	fmt.Fprintln(a.out, "Draft discarded. Starting fresh.")
	return nil
}

func (a *App) Submit(ctx context.Context) error {
	id, err := a.session.Submit(ctx, a.backend)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Quote submitted: %s\n", id)
	return nil
}

func (a *App) Drafts(ctx context.Context) error {
	list := a.drafts.List(ctx, models.EntityTypeQuote)
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No drafts.")
		return nil
	}
	a.printDrafts(list)
	return nil
}

func idAndAmount(cmd string, args []string) (string, float64, error) {
	if len(args) != 2 {
		return "", 0, fmt.Errorf("usage: %s <id> <amount>", cmd)
	}
	v, err := parseAmount(args[1])
	if err != nil {
		return "", 0, err
	}
	return args[0], v, nil
}
