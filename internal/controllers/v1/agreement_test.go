package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/budget-line/backend/internal/controllers/v1"
	"github.com/budget-line/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestAgreementsOptions() {
	tests := []struct {
		name   string
		id     func(t *testing.T) string
		status int
	}{
		{"No Agreement with this ID", func(_ *testing.T) string { return uuid.New().String() }, http.StatusNotFound},
		{"Not a valid UUID", func(_ *testing.T) string { return "NotAUUID" }, http.StatusBadRequest},
		{"Agreement exists", func(t *testing.T) string {
			return suite.createTestAgreement(t, v1.AgreementEditable{}).Data.ID.String()
		}, http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("http://example.com/v1/agreements/%s", tt.id(t))
			r := test.Request(t, http.MethodOptions, path, "")
			assert.Equal(t, tt.status, r.Code)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestAgreementsCreate() {
	agreement := suite.createTestAgreement(suite.T(), v1.AgreementEditable{
		Name:        "Head Start Research Support",
		Description: "Evaluation support",
	})

	suite.Assert().Equal("Head Start Research Support", agreement.Data.Name)
	suite.Assert().Equal("Evaluation support", agreement.Data.Description)
}

func (suite *TestSuiteStandard) TestAgreementsCreateDuplicateName() {
	agreement := suite.createTestAgreement(suite.T(), v1.AgreementEditable{Name: "Unique Agreement Name"})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/agreements", []v1.AgreementEditable{{
		Name:              "Unique Agreement Name",
		ProcurementShopID: agreement.Data.ProcurementShopID,
	}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.AgreementCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("the agreement name must be unique", *response.Data[0].Error)
}

func (suite *TestSuiteStandard) TestAgreementsCreateInvalidBody() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/agreements", `{ Invalid request": Body }`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestAgreementsGetSingle() {
	tests := []struct {
		name   string
		id     func(t *testing.T) string
		status int
	}{
		{"Existing Agreement", func(t *testing.T) string {
			return suite.createTestAgreement(t, v1.AgreementEditable{}).Data.ID.String()
		}, http.StatusOK},
		{"ID nonexistent", func(_ *testing.T) string { return uuid.New().String() }, http.StatusNotFound},
		{"GET Invalid ID (negative number)", func(_ *testing.T) string { return "-56" }, http.StatusBadRequest},
		{"GET Invalid ID (alphanumeric)", func(_ *testing.T) string { return "hello" }, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/agreements/%s", tt.id(t)), "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestAgreementsGetFiltered() {
	shopID := suite.defaultProcurementShopID()

	_ = suite.createTestAgreement(suite.T(), v1.AgreementEditable{Name: "Head Start Support", Description: "Data collection", ProcurementShopID: shopID})
	_ = suite.createTestAgreement(suite.T(), v1.AgreementEditable{Name: "Child Welfare Study", Description: "Annual evaluation"})
	_ = suite.createTestAgreement(suite.T(), v1.AgreementEditable{Name: "Welfare Research Support"})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Name single", "name=Head Start Support", 1},
		{"Name, no matches", "name=Nonexistent Agreement", 0},
		{"Search in name", "search=welfare", 2},
		{"Search in description", "search=collection", 1},
		{"Procurement shop", fmt.Sprintf("procurementShop=%s", shopID), 1},
		{"Limit", "limit=2", 2},
		{"Offset", "offset=1", 2},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/agreements?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.AgreementListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.len, len(response.Data))
		})
	}
}

func (suite *TestSuiteStandard) TestAgreementsGetFilteredInvalidShopID() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/agreements?procurementShop=NotAUUID", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestAgreementsUpdate() {
	agreement := suite.createTestAgreement(suite.T(), v1.AgreementEditable{Name: "Original name"})

	r := test.Request(suite.T(), http.MethodPatch, agreement.Data.Links.Self, map[string]any{
		"name": "Updated name",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.AgreementResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Assert().Equal("Updated name", updated.Data.Name)

	// The description was not sent and stays untouched
	suite.Assert().Equal(agreement.Data.Description, updated.Data.Description)
}

func (suite *TestSuiteStandard) TestAgreementsUpdateNonExisting() {
	r := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/agreements/%s", uuid.New()), map[string]any{
		"name": "Does not exist",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestAgreementsDelete() {
	agreement := suite.createTestAgreement(suite.T(), v1.AgreementEditable{})

	r := test.Request(suite.T(), http.MethodDelete, agreement.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, agreement.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestAgreementsDBClosed() {
	tests := []struct {
		name string
		test func(t *testing.T)
	}{
		{"Creation fails", func(t *testing.T) {
			shopID := suite.defaultProcurementShopID()
			suite.CloseDB()
			suite.createTestAgreement(t, v1.AgreementEditable{ProcurementShopID: shopID}, http.StatusInternalServerError)
		}},
		{"GET fails", func(t *testing.T) {
			suite.CloseDB()
			r := test.Request(t, http.MethodGet, "http://example.com/v1/agreements", "")
			test.AssertHTTPStatus(t, &r, http.StatusInternalServerError)
		}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			tt.test(t)
		})
	}
}

func (suite *TestSuiteStandard) TestAgreementBudgetLinesGrouped() {
	agreement := suite.createTestAgreement(suite.T(), v1.AgreementEditable{})

	component := suite.createTestServicesComponent(suite.T(), v1.ServicesComponentEditable{
		AgreementID:  agreement.Data.ID,
		Number:       2,
		SubComponent: "a",
	})

	_ = suite.createTestBudgetLine(suite.T(), v1.BudgetLineEditable{
		AgreementID:         agreement.Data.ID,
		ServicesComponentID: &component.Data.ID,
		Amount:              decimal.NewFromFloat(1000),
	})

	_ = suite.createTestBudgetLine(suite.T(), v1.BudgetLineEditable{
		AgreementID: agreement.Data.ID,
		Amount:      decimal.NewFromFloat(500),
	})

	r := test.Request(suite.T(), http.MethodGet, agreement.Data.Links.BudgetLines, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AgreementBudgetLinesResponse
	test.DecodeResponse(suite.T(), &r, &response)

	// Grouped lines come first, ungrouped lines trail in a group with an
	// empty label
	suite.Require().Len(response.Data.Groups, 2)
	suite.Assert().Equal("2-a", response.Data.Groups[0].Label)
	suite.Assert().Len(response.Data.Groups[0].Lines, 1)
	suite.Assert().Equal("", response.Data.Groups[1].Label)
	suite.Assert().Len(response.Data.Groups[1].Lines, 1)

	// Drafts are excluded from the totals by default
	suite.Assert().True(response.Data.Totals.Total.IsZero(), "Totals are %s, should be 0", response.Data.Totals.Total)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s?includeDrafts=true", agreement.Data.Links.BudgetLines), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)

	// 1500 plus 4.8 percent fees
	suite.Assert().True(response.Data.Totals.Subtotal.Equal(decimal.NewFromFloat(1500)), "Subtotal is %s, should be 1500", response.Data.Totals.Subtotal)
	suite.Assert().True(response.Data.Totals.Fees.Equal(decimal.NewFromFloat(72)), "Fees are %s, should be 72", response.Data.Totals.Fees)
	suite.Assert().True(response.Data.Totals.Total.Equal(decimal.NewFromFloat(1572)), "Total is %s, should be 1572", response.Data.Totals.Total)
}
