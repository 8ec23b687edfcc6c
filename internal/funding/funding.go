// Package funding computes financial aggregates for budget lines and CANs.
//
// All functions are pure. Callers pass the budget lines to aggregate and
// get consistent subtotal, fee and total figures back; nothing in this
// package reads or writes persisted state.
package funding

import (
	"github.com/budget-line/backend/internal/models"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Totals is a consistent subtotal/fee/total aggregate over a set of
// budget lines.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal" example:"200"`
	Fees     decimal.Decimal `json:"fees" example:"10"`
	Total    decimal.Decimal `json:"total" example:"210"`
}

// Fee returns the fee for an amount at a rate given in percent.
func Fee(amount, ratePercent decimal.Decimal) decimal.Decimal {
	return amount.Mul(ratePercent).Div(oneHundred)
}

// ComputeTotals aggregates budget lines into subtotal, fees and total.
//
// DRAFT lines are excluded unless includeDrafts is set. Lines flagged as
// overcome by events are always included, they remain part of historical
// totals.
//
// When feeRatePercent is non-nil, fees are recomputed per line at that
// hypothetical rate, e.g. to preview a different procurement shop. When it
// is nil, the fees each line was last priced with are summed instead.
func ComputeTotals(lines []models.BudgetLine, feeRatePercent *decimal.Decimal, includeDrafts bool) Totals {
	var subtotal, fees decimal.Decimal

	for _, line := range lines {
		if line.Status == models.StatusDraft && !includeDrafts && !line.OBE {
			continue
		}

		subtotal = subtotal.Add(line.Amount)

		if feeRatePercent != nil {
			fees = fees.Add(Fee(line.Amount, *feeRatePercent))
		} else {
			fees = fees.Add(line.Fees)
		}
	}

	return Totals{
		Subtotal: subtotal,
		Fees:     fees,
		Total:    subtotal.Add(fees),
	}
}

// ProjectedSpending returns the spending figure to display for a CAN.
//
// totalAccountedFor is everything that is not available anymore. With
// afterApproval set, the pending amount of unapproved financial changes is
// added on top, so a reviewer can preview the CAN's balance as if the
// pending change requests were approved. Persisted funding figures are
// never modified.
func ProjectedSpending(summary models.FundingSummary, pendingAmount decimal.Decimal, afterApproval bool) decimal.Decimal {
	totalAccountedFor := summary.TotalFunding.Sub(summary.AvailableFunding)

	if afterApproval {
		return totalAccountedFor.Add(pendingAmount)
	}

	return totalAccountedFor
}
