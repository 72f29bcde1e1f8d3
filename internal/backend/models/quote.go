// Package models holds the records the quote backend stores.
package models

import (
	"time"

	"github.com/dmitrijs2005/quotewizard/internal/quote"
)

// Quote is a submitted quote without its items, which live in their own table.
type Quote struct {
	ID          string
	Client      quote.Client
	JobDetails  quote.JobDetails
	Settings    quote.Settings
	Totals      quote.Totals
	SubmittedAt time.Time
}
