package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/quotewizard/internal/client/draft"
	"github.com/dmitrijs2005/quotewizard/internal/client/wizard"
	"github.com/dmitrijs2005/quotewizard/internal/quote"
)

const timeLayout = "2006-01-02 15:04"

// getStatus is the short prompt prefix, e.g. "[2/3 Job & Items] saved 14:02:11".
func (a *App) getStatus() string {
	if a.recoveryPending() {
		return "[draft found: accept/discard]"
	}
	w := a.session.Wizard
	step := w.CurrentStep()
	parts := []string{fmt.Sprintf("[%d/%d %s]", int(step)+1, wizard.StepCount, step)}

	switch {
	case w.Submitted():
		parts = append(parts, "submitted")
	case a.session.Autosave.LastError() != nil:
		parts = append(parts, "autosave failing")
	default:
		if t, ok := a.session.Autosave.LastSaved(); ok {
			parts = append(parts, "saved "+t.Local().Format("15:04:05"))
		}
	}
	return strings.Join(parts, " ")
}

func (a *App) showRecoveryBanner() {
	p, ok := a.session.Recovery.Pending()
	if !ok {
		return
	}
	fmt.Fprintln(a.out, "An unfinished quote was found:")
	fmt.Fprintf(a.out, "  client: %s\n", orDash(p.ClientName))
	fmt.Fprintf(a.out, "  job:    %s\n", orDash(p.JobTitle))
	fmt.Fprintf(a.out, "  items:  %d\n", p.ItemCount)
	fmt.Fprintf(a.out, "  saved:  %s (%s ago)\n", p.SavedAt.Local().Format(timeLayout), ago(p.SavedAt))
	fmt.Fprintln(a.out, "Type 'accept' to continue it or 'discard' to start fresh.")
}

func (a *App) printItems(items []quote.LineItem) {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDESCRIPTION\tCATEGORY\tQTY\tUNIT\tPRICE\tTOTAL")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%s\t%s\t%s\n",
			shortID(it.ID), it.Description, it.Category, it.Quantity, orDash(it.Unit), money(it.UnitPrice), money(it.TotalPrice))
	}
	_ = tw.Flush()
}

func (a *App) printTotals(s quote.WizardState) {
	t := quote.ComputeTotals(s.Items, s.Settings)
	fmt.Fprintf(a.out, "Subtotal %s", money(t.Subtotal))
	if t.Discount > 0 {
		fmt.Fprintf(a.out, "  discount -%s", money(t.Discount))
	}
	if t.VAT > 0 {
		fmt.Fprintf(a.out, "  VAT %s", money(t.VAT))
	}
	fmt.Fprintf(a.out, "  total %s\n", money(t.Total))
}

func (a *App) printDrafts(list []draft.Preview) {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tCLIENT\tJOB\tITEMS\tSAVED")
	for _, p := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			p.Slot, orDash(p.ClientName), orDash(p.JobTitle), p.ItemCount, p.SavedAt.Local().Format(timeLayout))
	}
	_ = tw.Flush()
}

// shortID keeps enough of a uuid to type it back as a prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func money(v float64) string {
	return fmt.Sprintf("£%.2f", v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func ago(t time.Time) string {
	d := time.Since(t).Round(time.Minute)
	if d < time.Minute {
		return "moments"
	}
	return d.String()
}
