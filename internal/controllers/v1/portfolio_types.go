package v1

import (
	"fmt"

	"github.com/budget-line/backend/internal/models"
	"github.com/budget-line/backend/internal/portfolio"
	"github.com/gin-gonic/gin"
)

type PortfolioLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/portfolios/a3f13aef-5c7a-4b49-add9-b68f46bbc0f5"`                 // The portfolio itself
	BudgetLines string `json:"budgetLines" example:"https://example.com/api/v1/budget-lines?portfolio=a3f13aef-5c7a-4b49-add9-b68f46bbc0f5"` // The budget lines funded through this portfolio
}

// PortfolioSummary is a portfolio with its division and the funding
// aggregated over its CANs.
type PortfolioSummary struct {
	models.DefaultModel
	Name         string                `json:"name" example:"Child Welfare Research"`
	Abbreviation string                `json:"abbreviation" example:"CW"`
	Division     string                `json:"division" example:"DFCD"` // Abbreviation of the division the portfolio belongs to
	Funding      models.FundingSummary `json:"funding"`                 // Funding aggregated over the portfolio's CANs
	Links        PortfolioLinks        `json:"links"`                   // Links to related resources
}

func newPortfolioSummary(c *gin.Context, summary portfolio.Summary) PortfolioSummary {
	url := c.GetString(string(models.DBContextURL))

	return PortfolioSummary{
		DefaultModel: summary.Portfolio.DefaultModel,
		Name:         summary.Portfolio.Name,
		Abbreviation: summary.Portfolio.Abbreviation,
		Division:     summary.Division.Abbreviation,
		Funding:      summary.Funding,
		Links: PortfolioLinks{
			Self:        fmt.Sprintf("%s/v1/portfolios/%s", url, summary.Portfolio.ID),
			BudgetLines: fmt.Sprintf("%s/v1/budget-lines?portfolio=%s", url, summary.Portfolio.ID),
		},
	}
}

type PortfolioListResponse struct {
	Data  []PortfolioSummary `json:"data"`                                          // List of portfolio summaries
	Error *string            `json:"error" example:"the specified sort key is invalid"` // The error, if any occurred
}

type PortfolioChartResponse struct {
	Data  []portfolio.Datum `json:"data"`                                          // Chart data, padded to full columns
	Error *string           `json:"error" example:"the specified sort key is invalid"` // The error, if any occurred
}

type PortfolioQueryFilter struct {
	SortKey    string `form:"sortKey"`    // Sort key, one of name, division, fyBudget, fySpending, fyAvailable, staticOrder. Defaults to staticOrder.
	Descending bool   `form:"descending"` // Reverse the sort order?
}
