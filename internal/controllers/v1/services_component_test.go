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

func (suite *TestSuiteStandard) TestServicesComponentsOptions() {
	tests := []struct {
		name   string
		id     func(t *testing.T) string
		status int
	}{
		{"No Services Component with this ID", func(_ *testing.T) string { return uuid.New().String() }, http.StatusNotFound},
		{"Not a valid UUID", func(_ *testing.T) string { return "NotAUUID" }, http.StatusBadRequest},
		{"Services Component exists", func(t *testing.T) string {
			return suite.createTestServicesComponent(t, v1.ServicesComponentEditable{Number: 1}).Data.ID.String()
		}, http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("http://example.com/v1/services-components/%s", tt.id(t))
			r := test.Request(t, http.MethodOptions, path, "")
			assert.Equal(t, tt.status, r.Code)
		})
	}
}

func (suite *TestSuiteStandard) TestServicesComponentsCreate() {
	component := suite.createTestServicesComponent(suite.T(), v1.ServicesComponentEditable{
		Number:       2,
		SubComponent: "a",
		Description:  "Data collection",
	})

	suite.Assert().Equal(2, component.Data.Number)
	suite.Assert().Equal("a", component.Data.SubComponent)
	suite.Assert().Equal("2-a", component.Data.GroupingLabel)
}

func (suite *TestSuiteStandard) TestServicesComponentsCreateDuplicateLabel() {
	component := suite.createTestServicesComponent(suite.T(), v1.ServicesComponentEditable{Number: 1})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/services-components", []v1.ServicesComponentEditable{{
		AgreementID: component.Data.AgreementID,
		Number:      1,
	}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.ServicesComponentCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("the services component number and sub-component must be unique for the agreement", *response.Data[0].Error)
}

func (suite *TestSuiteStandard) TestServicesComponentsGetFiltered() {
	agreement := suite.createTestAgreement(suite.T(), v1.AgreementEditable{})

	_ = suite.createTestServicesComponent(suite.T(), v1.ServicesComponentEditable{AgreementID: agreement.Data.ID, Number: 2})
	_ = suite.createTestServicesComponent(suite.T(), v1.ServicesComponentEditable{AgreementID: agreement.Data.ID, Number: 1})
	_ = suite.createTestServicesComponent(suite.T(), v1.ServicesComponentEditable{Number: 1})

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/services-components?agreement=%s", agreement.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ServicesComponentListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 2)

	// Components are ordered by number and sub-component
	suite.Assert().Equal(1, response.Data[0].Number)
	suite.Assert().Equal(2, response.Data[1].Number)
}

func (suite *TestSuiteStandard) TestServicesComponentsUpdate() {
	component := suite.createTestServicesComponent(suite.T(), v1.ServicesComponentEditable{Number: 1})

	r := test.Request(suite.T(), http.MethodPatch, component.Data.Links.Self, map[string]any{
		"description": "Updated description",
		"optional":    true,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.ServicesComponentResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Assert().Equal("Updated description", updated.Data.Description)
	suite.Assert().True(updated.Data.Optional)
}

func (suite *TestSuiteStandard) TestServicesComponentsDelete() {
	component := suite.createTestServicesComponent(suite.T(), v1.ServicesComponentEditable{Number: 1})

	r := test.Request(suite.T(), http.MethodDelete, component.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
}

func (suite *TestSuiteStandard) TestServicesComponentsDeleteReferenced() {
	component := suite.createTestServicesComponent(suite.T(), v1.ServicesComponentEditable{Number: 1})

	_ = suite.createTestBudgetLine(suite.T(), v1.BudgetLineEditable{
		AgreementID:         component.Data.AgreementID,
		ServicesComponentID: &component.Data.ID,
		Amount:              decimal.NewFromFloat(100),
	})

	r := test.Request(suite.T(), http.MethodDelete, component.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response struct {
		Error string `json:"error"`
	}
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("this services component still has budget lines assigned to it", response.Error)
}
