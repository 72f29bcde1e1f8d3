package wizard

import (
	"strings"

	"github.com/dmitrijs2005/quotewizard/internal/quote"
)

type Step int

const (
	StepClient Step = iota
	StepJob
	StepReview
)

// StepCount is the number of steps; StepReview is terminal.
const StepCount = 3

var stepNames = [StepCount]string{"Client", "Job & Items", "Review"}

func (s Step) String() string {
	if s < 0 || int(s) >= StepCount {
		return "Unknown"
	}
	return stepNames[s]
}

// Missing lists the fields that keep step from being complete, in form
// order. An empty result means the step may be left forwards.
func Missing(s quote.WizardState, step Step) []string {
	var v []string
	required := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			v = append(v, field)
		}
	}

	switch step {
	case StepClient:
		required("client name", s.Client.Name)
		required("client email", s.Client.Email)
		required("client phone", s.Client.Phone)
		required("client address", s.Client.Address)
		required("client postcode", s.Client.Postcode)
	case StepJob:
		required("job title", s.JobDetails.Title)
		required("job description", s.JobDetails.Description)
		if len(s.Items) == 0 {
			v = append(v, "at least one item")
		}
	case StepReview:
		if s.Settings.VATRegistered == nil {
			v = append(v, "VAT registration")
		}
	default:
		v = append(v, "unknown step")
	}
	return v
}

// CanProceed is the completeness predicate of a step.
func CanProceed(s quote.WizardState, step Step) bool {
	return len(Missing(s, step)) == 0
}

func (w *Wizard) CurrentStep() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Step(w.state.CurrentStepIndex)
}

func (w *Wizard) CanProceed(step Step) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return CanProceed(w.state, step)
}

func (w *Wizard) Missing(step Step) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Missing(w.state, step)
}

// IsTerminal reports whether the wizard is on the last step, where the
// forward action is submit rather than next.
func (w *Wizard) IsTerminal() bool {
	return w.CurrentStep() == StepCount-1
}

// Next advances one step when the current step is complete. It reports
// whether the step changed; a blocked move is not an error.
func (w *Wizard) Next() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	cur := w.state.CurrentStepIndex
	if cur >= StepCount-1 || !CanProceed(w.state, Step(cur)) {
		return false
	}
	w.state.CurrentStepIndex++
	return true
}

// Prev steps back without any validation.
func (w *Wizard) Prev() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.CurrentStepIndex <= 0 {
		return false
	}
	w.state.CurrentStepIndex--
	return true
}

// JumpTo moves back to an already visited step. Forward jumps are refused
// even when later steps would validate.
func (w *Wizard) JumpTo(step Step) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if step < 0 || int(step) >= w.state.CurrentStepIndex {
		return false
	}
	w.state.CurrentStepIndex = int(step)
	return true
}
