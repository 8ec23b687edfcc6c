package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/budget-line/backend/internal/controllers/v1"
	"github.com/budget-line/backend/internal/models"
	"github.com/budget-line/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestCANsOptions() {
	tests := []struct {
		name   string
		id     func(t *testing.T) string
		status int
	}{
		{"No CAN with this ID", func(_ *testing.T) string { return uuid.New().String() }, http.StatusNotFound},
		{"Not a valid UUID", func(_ *testing.T) string { return "NotAUUID" }, http.StatusBadRequest},
		{"CAN exists", func(t *testing.T) string {
			return suite.createTestCAN(t, v1.CANEditable{}).Data.ID.String()
		}, http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("http://example.com/v1/cans/%s", tt.id(t))
			r := test.Request(t, http.MethodOptions, path, "")
			assert.Equal(t, tt.status, r.Code)
		})
	}
}

func (suite *TestSuiteStandard) TestCANsCreateDuplicateNumber() {
	can := suite.createTestCAN(suite.T(), v1.CANEditable{Number: "G994426"})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/cans", []v1.CANEditable{{
		Number:      "G994426",
		PortfolioID: can.Data.PortfolioID,
	}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.CANCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("the CAN number must be unique", *response.Data[0].Error)
}

func (suite *TestSuiteStandard) TestCANsGetFiltered() {
	portfolio := suite.createTestPortfolio(models.Portfolio{})

	_ = suite.createTestCAN(suite.T(), v1.CANEditable{Number: "G994426", PortfolioID: portfolio.ID})
	_ = suite.createTestCAN(suite.T(), v1.CANEditable{Number: "G991234"})
	_ = suite.createTestCAN(suite.T(), v1.CANEditable{Number: "H550000", Description: "Head Start discretionary"})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Exact number", "number=G994426", 1},
		{"Glob pattern", "number=G99*", 2},
		{"Glob pattern, no matches", "number=X*", 0},
		{"Description", "description=Head Start", 1},
		{"Portfolio", fmt.Sprintf("portfolio=%s", portfolio.ID), 1},
		{"Glob with limit", "number=G99*&limit=1", 1},
		{"Glob with offset", "number=G99*&offset=1", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/cans?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.CANListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.len, len(response.Data))
		})
	}
}

func (suite *TestSuiteStandard) TestCANFunding() {
	can := suite.createTestCAN(suite.T(), v1.CANEditable{})

	_ = suite.createTestCANFundingSummary(models.CANFundingSummary{
		CANID: can.Data.ID,
		FundingSummary: models.FundingSummary{
			TotalFunding:     decimal.NewFromInt(6000000),
			AvailableFunding: decimal.NewFromInt(2000000),
			PlannedFunding:   decimal.NewFromInt(1000000),
		},
	})

	tests := []struct {
		name      string
		query     string
		projected decimal.Decimal
	}{
		{"No pending change", "", decimal.NewFromInt(4000000)},
		{"Pending change before approval", "pendingAmount=500000", decimal.NewFromInt(4000000)},
		{"Pending change after approval", "pendingAmount=500000&afterApproval=true", decimal.NewFromInt(4500000)},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("%s?%s", can.Data.Links.Funding, tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.CANFundingResponse
			test.DecodeResponse(t, &r, &response)
			assert.True(t, response.Data.ProjectedSpending.Equal(tt.projected), "Projected spending is %s, should be %s", response.Data.ProjectedSpending, tt.projected)
		})
	}
}

func (suite *TestSuiteStandard) TestCANFundingNoSummary() {
	can := suite.createTestCAN(suite.T(), v1.CANEditable{})

	r := test.Request(suite.T(), http.MethodGet, can.Data.Links.Funding, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestCANFundingInvalidAmount() {
	can := suite.createTestCAN(suite.T(), v1.CANEditable{})

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s?pendingAmount=NotANumber", can.Data.Links.Funding), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}
