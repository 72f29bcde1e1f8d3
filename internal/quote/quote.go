// Package quote defines the in-progress quote an electrician builds in the
// wizard: client, job details, line items and presentation settings.
package quote

import "strings"

// Client holds the customer contact details. All five fields are required
// before the client step can be completed.
type Client struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Postcode string `json:"postcode"`
}

// JobDetails describes the work being quoted.
type JobDetails struct {
	Title               string `json:"title"`
	Description         string `json:"description"`
	EstimatedDuration   string `json:"estimatedDuration"`
	WorkStartDate       string `json:"workStartDate"`
	Location            string `json:"location"`
	SpecialRequirements string `json:"specialRequirements"`
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Settings controls VAT, discount and how the finished quote is presented.
type Settings struct {
	// VATRegistered is nil until the user answers; the review step cannot
	// be completed while it is unset.
	VATRegistered *bool `json:"vatRegistered"`
	// VATRate is a percentage, e.g. 20 for 20%.
	VATRate       float64      `json:"vatRate"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue float64      `json:"discountValue"`

	ShowItemBreakdown bool `json:"showItemBreakdown"`
	ShowVATBreakdown  bool `json:"showVatBreakdown"`
	ValidityDays      int  `json:"validityDays"`
}

// DefaultSettings are applied to every new quote.
func DefaultSettings() Settings {
	return Settings{
		VATRate:           20,
		DiscountType:      DiscountPercentage,
		ShowItemBreakdown: true,
		ShowVATBreakdown:  true,
		ValidityDays:      30,
	}
}

// WizardState is the mutable, in-progress representation of a single quote.
type WizardState struct {
	// ID is empty until the quote has been persisted by the backend.
	ID               string
	Client           Client
	JobDetails       JobDetails
	Items            []LineItem
	Settings         Settings
	CurrentStepIndex int
}

// NewWizardState returns an empty quote with default settings.
func NewWizardState() WizardState {
	return WizardState{Settings: DefaultSettings()}
}

// Snapshot is the serializable subset of WizardState needed to resume work.
type Snapshot struct {
	Client           Client     `json:"client"`
	JobDetails       JobDetails `json:"jobDetails"`
	Items            []LineItem `json:"items"`
	Settings         Settings   `json:"settings"`
	CurrentStepIndex int        `json:"currentStepIndex"`
}

// Snapshot copies s deeply; later edits to s do not leak into the result.
func (s WizardState) Snapshot() Snapshot {
	return Snapshot{
		Client:           s.Client,
		JobDetails:       s.JobDetails,
		Items:            cloneItems(s.Items),
		Settings:         s.Settings.clone(),
		CurrentStepIndex: s.CurrentStepIndex,
	}
}

// Clone returns a deep copy of s.
func (s WizardState) Clone() WizardState {
	c := s
	c.Items = cloneItems(s.Items)
	c.Settings = s.Settings.clone()
	return c
}

// HasMeaningfulContent reports whether the snapshot is worth keeping as a
// draft: a client name, a job title or at least one item.
func (s Snapshot) HasMeaningfulContent() bool {
	return strings.TrimSpace(s.Client.Name) != "" ||
		strings.TrimSpace(s.JobDetails.Title) != "" ||
		len(s.Items) > 0
}

func (s Settings) clone() Settings {
	c := s
	if s.VATRegistered != nil {
		v := *s.VATRegistered
		c.VATRegistered = &v
	}
	return c
}

func cloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
