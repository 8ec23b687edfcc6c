package portfolio

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// columnSize is the number of chart rows per display column. The chart
// data is padded to full columns so the grid keeps stable column
// boundaries regardless of the portfolio count.
const columnSize = 5

// fallbackColor is used for portfolios without a palette entry.
const fallbackColor = "#A9AEB1"

// placeholderColor is used for padding entries.
const placeholderColor = "#FFFFFF"

// palette maps canonical portfolio abbreviations to their chart color.
var palette = map[string]string{
	"CC":   "#336A90",
	"HS":   "#E5A000",
	"CW":   "#B50909",
	"HMRF": "#6F3331",
	"WR":   "#A1D0BE",
	"ADY":  "#D67625",
	"HV":   "#429195",
	"DATA": "#264A64",
}

// Datum is one chart entry. Placeholder entries pad the display columns
// and carry no portfolio.
type Datum struct {
	ID           uuid.UUID       `json:"id"`
	Label        string          `json:"label"`
	Abbreviation string          `json:"abbreviation"`
	Value        decimal.Decimal `json:"value"`
	Color        string          `json:"color"`
	Percent      decimal.Decimal `json:"percent"`
	Placeholder  bool            `json:"placeholder,omitempty"`
}

// Color returns the palette color for a portfolio abbreviation,
// resolving legacy aliases.
func Color(abbreviation string) string {
	if color, ok := palette[canonical(abbreviation)]; ok {
		return color
	}

	return fallbackColor
}

// ChartData shapes the portfolios for the funding chart. The input order
// is preserved, so callers sort first.
//
// Each portfolio's value is its total funding and its percent is the
// share of totalBudget, 0 when totalBudget is 0. The result is padded
// with placeholder entries to a whole number of display columns.
func ChartData(sorted []Summary, totalBudget decimal.Decimal) []Datum {
	data := make([]Datum, 0, len(sorted))

	for _, summary := range sorted {
		value := summary.Funding.TotalFunding

		percent := decimal.Zero
		if !totalBudget.IsZero() {
			percent = value.Div(totalBudget).Mul(decimal.NewFromInt(100)).Round(2)
		}

		data = append(data, Datum{
			ID:           summary.Portfolio.ID,
			Label:        summary.Portfolio.Name,
			Abbreviation: summary.Portfolio.Abbreviation,
			Value:        value,
			Color:        Color(summary.Portfolio.Abbreviation),
			Percent:      percent,
		})
	}

	for len(data) == 0 || len(data)%columnSize != 0 {
		data = append(data, Datum{
			Value:       decimal.Zero,
			Color:       placeholderColor,
			Percent:     decimal.Zero,
			Placeholder: true,
		})
	}

	return data
}
