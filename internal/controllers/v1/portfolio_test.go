package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/budget-line/backend/internal/controllers/v1"
	"github.com/budget-line/backend/internal/models"
	"github.com/budget-line/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// createTestPortfolioFunding seeds a portfolio with one CAN funded with
// the given total.
func (suite *TestSuiteStandard) createTestPortfolioFunding(t *testing.T, portfolio models.Portfolio, totalFunding decimal.Decimal) models.Portfolio {
	portfolio = suite.createTestPortfolio(portfolio)

	can := suite.createTestCAN(t, v1.CANEditable{PortfolioID: portfolio.ID})
	_ = suite.createTestCANFundingSummary(models.CANFundingSummary{
		CANID: can.Data.ID,
		FundingSummary: models.FundingSummary{
			TotalFunding: totalFunding,
		},
	})

	return portfolio
}

func (suite *TestSuiteStandard) TestPortfoliosOptions() {
	for _, path := range []string{"/v1/portfolios", "/v1/portfolios/chart"} {
		suite.T().Run(path, func(t *testing.T) {
			r := test.Request(t, http.MethodOptions, fmt.Sprintf("http://example.com%s", path), "")
			assert.Equal(t, http.StatusNoContent, r.Code)
			assert.Equal(t, "OPTIONS, GET", r.Header().Get("allow"))
		})
	}
}

func (suite *TestSuiteStandard) TestPortfoliosSorted() {
	division := suite.createTestDivision(models.Division{Abbreviation: "DFS"})

	_ = suite.createTestPortfolioFunding(suite.T(), models.Portfolio{Name: "Welfare Research", DivisionID: division.ID}, decimal.NewFromInt(1000000))
	_ = suite.createTestPortfolioFunding(suite.T(), models.Portfolio{Name: "Child Care"}, decimal.NewFromInt(3000000))
	_ = suite.createTestPortfolioFunding(suite.T(), models.Portfolio{Name: "Head Start"}, decimal.NewFromInt(2000000))

	tests := []struct {
		name  string
		query string
		first string
	}{
		{"By name", "sortKey=name", "Child Care"},
		{"By name descending", "sortKey=name&descending=true", "Welfare Research"},
		{"By budget", "sortKey=fyBudget", "Welfare Research"},
		{"By budget descending", "sortKey=fyBudget&descending=true", "Child Care"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/portfolios?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.PortfolioListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, 3)
			assert.Equal(t, tt.first, response.Data[0].Name)
		})
	}
}

func (suite *TestSuiteStandard) TestPortfoliosDivisionAbbreviation() {
	division := suite.createTestDivision(models.Division{Abbreviation: "DFS"})
	_ = suite.createTestPortfolio(models.Portfolio{Name: "Family Strengthening", DivisionID: division.ID})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/portfolios", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.PortfolioListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal("DFS", response.Data[0].Division)
}

func (suite *TestSuiteStandard) TestPortfoliosInvalidSortKey() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/portfolios?sortKey=NotASortKey", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestPortfolioChart() {
	_ = suite.createTestPortfolioFunding(suite.T(), models.Portfolio{Name: "Child Care", Abbreviation: "CC"}, decimal.NewFromInt(3000000))
	_ = suite.createTestPortfolioFunding(suite.T(), models.Portfolio{Name: "Head Start", Abbreviation: "HS"}, decimal.NewFromInt(1000000))

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/portfolios/chart?sortKey=name", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.PortfolioChartResponse
	test.DecodeResponse(suite.T(), &r, &response)

	// Two portfolios padded to a full column of five
	suite.Require().Len(response.Data, 5)

	suite.Assert().Equal("Child Care", response.Data[0].Label)
	suite.Assert().Equal("#336A90", response.Data[0].Color)
	suite.Assert().True(response.Data[0].Percent.Equal(decimal.NewFromInt(75)), "Percent is %s, should be 75", response.Data[0].Percent)

	suite.Assert().True(response.Data[1].Percent.Equal(decimal.NewFromInt(25)), "Percent is %s, should be 25", response.Data[1].Percent)

	for _, datum := range response.Data[2:] {
		suite.Assert().True(datum.Placeholder)
	}
}

func (suite *TestSuiteStandard) TestPortfolioChartEmpty() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/portfolios/chart", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.PortfolioChartResponse
	test.DecodeResponse(suite.T(), &r, &response)

	// An empty chart is still padded to one full column
	suite.Require().Len(response.Data, 5)
	for _, datum := range response.Data {
		suite.Assert().True(datum.Placeholder)
	}
}
