// Package common defines sentinel errors shared by the wizard, the draft
// store and the submission backend. Callers match them with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Draft slot errors.
	ErrInvalidSlot = errors.New("invalid draft slot")

	// Line item errors.
	ErrUnknownCategory = errors.New("unknown line item category")
	ErrItemNotFound    = errors.New("line item not found")
	ErrInvalidAmount   = errors.New("amount must not be negative")

	// Wizard flow errors.
	ErrNotReady         = errors.New("quote is not ready to submit")
	ErrAlreadySubmitted = errors.New("quote already submitted")
	ErrNoPendingDraft   = errors.New("no draft awaiting a decision")
	ErrDecisionPending  = errors.New("a recovered draft is awaiting a decision")

	// Submission errors.
	ErrSubmissionUnavailable = errors.New("submission backend not configured")
)
