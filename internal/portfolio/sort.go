// Package portfolio orders portfolio funding summaries and shapes them
// for chart display.
package portfolio

import (
	"github.com/budget-line/backend/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Summary is one portfolio with its division and aggregated funding.
type Summary struct {
	Portfolio models.Portfolio      `json:"portfolio"`
	Division  models.Division       `json:"division"`
	Funding   models.FundingSummary `json:"fundingSummary"`
}

// SortKey selects the portfolio ordering.
//
// swagger:enum SortKey
type SortKey string

const (
	SortName        SortKey = "name"
	SortDivision    SortKey = "division"
	SortFYBudget    SortKey = "fyBudget"
	SortFYSpending  SortKey = "fySpending"
	SortFYAvailable SortKey = "fyAvailable"
	SortStaticOrder SortKey = "staticOrder"
)

// SortKeys returns all sort keys.
func SortKeys() []SortKey {
	return []SortKey{SortName, SortDivision, SortFYBudget, SortFYSpending, SortFYAvailable, SortStaticOrder}
}

// Valid reports whether the value is a defined sort key.
func (k SortKey) Valid() bool {
	return slices.Contains(SortKeys(), k)
}

// staticOrder is the editorial home page ordering, by canonical portfolio
// abbreviation. Portfolios not listed here appear after all listed ones,
// in their incoming order.
var staticOrder = []string{
	"CC",
	"HS",
	"CW",
	"HMRF",
	"WR",
	"ADY",
	"HV",
	"DATA",
}

// aliases maps legacy portfolio abbreviations to their canonical form.
// Renamed portfolios keep their editorial slot and palette color.
var aliases = map[string]string{
	"CCE":  "CC",
	"CWR":  "CW",
	"FN":   "HMRF",
	"SSRM": "WR",
	"YD":   "ADY",
}

// divisionOrder is the fixed division priority, by division abbreviation.
var divisionOrder = []string{
	"DFCD",
	"DCFD",
	"DEI",
	"DDI",
	"OD",
}

func canonical(abbreviation string) string {
	if resolved, ok := aliases[abbreviation]; ok {
		return resolved
	}

	return abbreviation
}

func rank(table []string, abbreviation string) int {
	if i := slices.Index(table, abbreviation); i >= 0 {
		return i
	}

	return len(table)
}

// Sort returns the portfolios ordered by the key. The input is not
// modified.
//
// All sorts are stable. Descending reverses the final ascending sequence
// instead of flipping the comparator, so a descending staticOrder is the
// editorial list read backwards, not a different ordering.
func Sort(portfolios []Summary, key SortKey, descending bool) []Summary {
	sorted := make([]Summary, len(portfolios))
	copy(sorted, portfolios)

	collator := collate.New(language.English, collate.IgnoreCase)

	switch key {
	case SortName:
		slices.SortStableFunc(sorted, func(a, b Summary) int {
			return collator.CompareString(a.Portfolio.Name, b.Portfolio.Name)
		})

	case SortDivision:
		slices.SortStableFunc(sorted, func(a, b Summary) int {
			if c := rank(divisionOrder, a.Division.Abbreviation) - rank(divisionOrder, b.Division.Abbreviation); c != 0 {
				return c
			}
			return collator.CompareString(a.Portfolio.Name, b.Portfolio.Name)
		})

	case SortFYBudget:
		slices.SortStableFunc(sorted, func(a, b Summary) int {
			return a.Funding.TotalFunding.Cmp(b.Funding.TotalFunding)
		})

	case SortFYSpending:
		slices.SortStableFunc(sorted, func(a, b Summary) int {
			return spending(a).Cmp(spending(b))
		})

	case SortFYAvailable:
		slices.SortStableFunc(sorted, func(a, b Summary) int {
			return a.Funding.AvailableFunding.Cmp(b.Funding.AvailableFunding)
		})

	case SortStaticOrder:
		// Not a comparator sort: known portfolios take their editorial
		// slot, unknown ones keep their incoming order at the end.
		slices.SortStableFunc(sorted, func(a, b Summary) int {
			return rank(staticOrder, canonical(a.Portfolio.Abbreviation)) - rank(staticOrder, canonical(b.Portfolio.Abbreviation))
		})
	}

	if descending {
		slices.Reverse(sorted)
	}

	return sorted
}

func spending(s Summary) decimal.Decimal {
	return s.Funding.PlannedFunding.Add(s.Funding.ObligatedFunding).Add(s.Funding.InExecutionFunding)
}
