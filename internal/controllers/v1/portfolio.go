package v1

import (
	"net/http"

	"github.com/budget-line/backend/internal/httputil"
	"github.com/budget-line/backend/internal/models"
	"github.com/budget-line/backend/internal/portfolio"
	"github.com/budget-line/backend/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RegisterPortfolioRoutes registers the routes for portfolios with
// the RouterGroup that is passed.
func RegisterPortfolioRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsPortfolioList)
	r.GET("", GetPortfolios)
	r.OPTIONS("/chart", OptionsPortfolioChart)
	r.GET("/chart", GetPortfolioChart)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Portfolios
// @Success		204
// @Router			/v1/portfolios [options]
func OptionsPortfolioList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Portfolios
// @Success		204
// @Router			/v1/portfolios/chart [options]
func OptionsPortfolioChart(c *gin.Context) {
	httputil.OptionsGet(c)
}

// sortedPortfolios loads the portfolio summaries and sorts them
// according to the filter.
func sortedPortfolios(c *gin.Context) ([]portfolio.Summary, error) {
	var filter PortfolioQueryFilter
	_ = c.Bind(&filter)

	key := portfolio.SortStaticOrder
	if filter.SortKey != "" {
		key = portfolio.SortKey(filter.SortKey)
		if !key.Valid() {
			return nil, errSortKeyInvalid
		}
	}

	summaries, err := store.New(models.DB).Portfolios(c.Request.Context())
	if err != nil {
		return nil, err
	}

	return portfolio.Sort(summaries, key, filter.Descending), nil
}

// @Summary		Get portfolios
// @Description	Returns the portfolios with their funding aggregated over their CANs
// @Tags			Portfolios
// @Produce		json
// @Success		200	{object}	PortfolioListResponse
// @Failure		400	{object}	PortfolioListResponse
// @Failure		500	{object}	PortfolioListResponse
// @Router			/v1/portfolios [get]
// @Param			sortKey		query	string	false	"Sort key, one of name, division, fyBudget, fySpending, fyAvailable, staticOrder. Defaults to staticOrder."
// @Param			descending	query	bool	false	"Reverse the sort order?"
func GetPortfolios(c *gin.Context) {
	summaries, err := sortedPortfolios(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PortfolioListResponse{
			Error: &s,
		})
		return
	}

	data := make([]PortfolioSummary, 0, len(summaries))
	for _, summary := range summaries {
		data = append(data, newPortfolioSummary(c, summary))
	}

	c.JSON(http.StatusOK, PortfolioListResponse{Data: data})
}

// @Summary		Get portfolio chart data
// @Description	Returns the portfolios as chart data with colors and budget shares, padded to full chart columns
// @Tags			Portfolios
// @Produce		json
// @Success		200	{object}	PortfolioChartResponse
// @Failure		400	{object}	PortfolioChartResponse
// @Failure		500	{object}	PortfolioChartResponse
// @Router			/v1/portfolios/chart [get]
// @Param			sortKey		query	string	false	"Sort key, one of name, division, fyBudget, fySpending, fyAvailable, staticOrder. Defaults to staticOrder."
// @Param			descending	query	bool	false	"Reverse the sort order?"
func GetPortfolioChart(c *gin.Context) {
	summaries, err := sortedPortfolios(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PortfolioChartResponse{
			Error: &s,
		})
		return
	}

	totalBudget := decimal.Zero
	for _, summary := range summaries {
		totalBudget = totalBudget.Add(summary.Funding.TotalFunding)
	}

	c.JSON(http.StatusOK, PortfolioChartResponse{
		Data: portfolio.ChartData(summaries, totalBudget),
	})
}
