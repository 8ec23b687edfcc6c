// Package approval decides how a budget line edit is routed at commit
// time.
//
// It is the single transition function for the budget line lifecycle:
// every call site that needs to know whether an edit applies directly,
// queues for division director review or is invalid asks this package
// instead of re-deriving the decision from status strings.
package approval

import (
	"github.com/budget-line/backend/internal/models"
)

// Outcome is the routing decision for a budget line edit.
//
// swagger:enum Outcome
type Outcome string

const (
	// OutcomeDirect applies the edit immediately.
	OutcomeDirect Outcome = "DIRECT"
	// OutcomeQueued persists the edit, moves the line to IN_REVIEW and
	// creates a change request for the division director.
	OutcomeQueued Outcome = "QUEUED"
	// OutcomeRejected refuses the edit as a local validation error. No
	// network call is made for rejected edits.
	OutcomeRejected Outcome = "REJECTED"
)

// Evaluate routes a budget line edit.
//
// financialChange is whether any financial-critical field differs from the
// last persisted values. Cosmetic edits always apply directly. Once money
// is planned or in execution, financial changes need review unless the
// actor is privileged. Obligated, in-review and overcome-by-events lines
// accept no financial changes at all.
func Evaluate(status models.BudgetLineStatus, obe bool, financialChange bool, privileged bool) Outcome {
	if !financialChange {
		return OutcomeDirect
	}

	if obe {
		return OutcomeRejected
	}

	switch status {
	case models.StatusDraft:
		return OutcomeDirect
	case models.StatusPlanned, models.StatusExecuting:
		if privileged {
			return OutcomeDirect
		}
		return OutcomeQueued
	case models.StatusObligated, models.StatusInReview:
		return OutcomeRejected
	}

	// Unknown statuses never get financial changes applied.
	return OutcomeRejected
}

// Err maps a rejected outcome to its validation error.
func Err(status models.BudgetLineStatus) error {
	if status == models.StatusInReview {
		return models.ErrBudgetLineInReview
	}

	return models.ErrFinancialChangeNotAllowed
}
