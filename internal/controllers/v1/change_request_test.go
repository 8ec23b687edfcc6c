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

// queuedChangeRequest routes a financial change to approval and returns
// the pending change request together with the line's ID.
func (suite *TestSuiteStandard) queuedChangeRequest(t *testing.T, requestor models.User) v1.ChangeRequest {
	planned := suite.plannedTestBudgetLine(t, v1.BudgetLineEditable{Amount: decimal.NewFromFloat(1000)}, requestor)
	_ = suite.patchTestBudgetLine(t, planned.ID, map[string]any{"amount": "3000"}, requestor)

	r := test.Request(t, http.MethodGet, "http://example.com/v1/change-requests?status=PENDING", "")
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.ChangeRequestListResponse
	test.DecodeResponse(t, &r, &response)

	for _, request := range response.Data {
		if request.BudgetLineID == planned.ID {
			return request
		}
	}

	t.Fatalf("no change request was created for budget line %s", planned.ID)
	return v1.ChangeRequest{}
}

func (suite *TestSuiteStandard) TestChangeRequestsOptions() {
	r := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/change-requests", "")
	suite.Assert().Equal(http.StatusNoContent, r.Code)
	suite.Assert().Equal("OPTIONS, GET", r.Header().Get("allow"))

	r = test.Request(suite.T(), http.MethodOptions, fmt.Sprintf("http://example.com/v1/change-requests/%s", uuid.New()), "")
	suite.Assert().Equal(http.StatusNotFound, r.Code)
}

func (suite *TestSuiteStandard) TestChangeRequestsGetSingle() {
	requestor := suite.createTestUser(models.User{Name: "Requestor"})
	request := suite.queuedChangeRequest(suite.T(), requestor)

	r := test.Request(suite.T(), http.MethodGet, request.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ChangeRequestResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(request.ID, response.Data.ID)
	suite.Assert().Equal(models.ChangeRequestPending, response.Data.Status)
	suite.Assert().Equal(models.StatusPlanned, response.Data.PreviousStatus)
}

func (suite *TestSuiteStandard) TestChangeRequestsGetFiltered() {
	requestor := suite.createTestUser(models.User{Name: "Requestor"})
	_ = suite.queuedChangeRequest(suite.T(), requestor)

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 1},
		{"Pending", "status=PENDING", 1},
		{"Approved", "status=APPROVED", 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/change-requests?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.ChangeRequestListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.len, len(response.Data))
		})
	}
}

func (suite *TestSuiteStandard) TestChangeRequestsApprove() {
	requestor := suite.createTestUser(models.User{Name: "Requestor"})
	reviewer := suite.createTestUser(models.User{Name: "Division Director"})
	request := suite.queuedChangeRequest(suite.T(), requestor)

	r := test.Request(suite.T(), http.MethodPost, request.Links.Review, v1.ReviewEditable{
		Action: models.ReviewApprove,
		Notes:  "Within budget",
	}, actorHeader(reviewer))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ChangeRequestResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(models.ChangeRequestApproved, response.Data.Status)
	suite.Assert().Equal(reviewer.ID, *response.Data.ReviewerID)
	suite.Assert().Equal("Within budget", response.Data.ReviewerNotes)
	suite.Assert().NotNil(response.Data.ReviewedAt)

	// The line keeps the requested amount and returns to its previous
	// status
	var line models.BudgetLine
	suite.Require().NoError(models.DB.First(&line, request.BudgetLineID).Error)
	suite.Assert().Equal(models.StatusPlanned, line.Status)
	suite.Assert().True(line.Amount.Equal(decimal.NewFromFloat(3000)), "Amount is %s, should be 3000", line.Amount)
}

func (suite *TestSuiteStandard) TestChangeRequestsReject() {
	requestor := suite.createTestUser(models.User{Name: "Requestor"})
	reviewer := suite.createTestUser(models.User{Name: "Division Director"})
	request := suite.queuedChangeRequest(suite.T(), requestor)

	r := test.Request(suite.T(), http.MethodPost, request.Links.Review, v1.ReviewEditable{
		Action: models.ReviewReject,
	}, actorHeader(reviewer))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ChangeRequestResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(models.ChangeRequestRejected, response.Data.Status)

	// The financial fields are reverted and the fees repriced
	var line models.BudgetLine
	suite.Require().NoError(models.DB.First(&line, request.BudgetLineID).Error)
	suite.Assert().Equal(models.StatusPlanned, line.Status)
	suite.Assert().True(line.Amount.Equal(decimal.NewFromFloat(1000)), "Amount is %s, should be 1000", line.Amount)
	suite.Assert().True(line.Fees.Equal(decimal.NewFromFloat(48)), "Fees are %s, should be 48", line.Fees)
}

func (suite *TestSuiteStandard) TestChangeRequestsReviewTwice() {
	requestor := suite.createTestUser(models.User{Name: "Requestor"})
	reviewer := suite.createTestUser(models.User{Name: "Division Director"})
	request := suite.queuedChangeRequest(suite.T(), requestor)

	r := test.Request(suite.T(), http.MethodPost, request.Links.Review, v1.ReviewEditable{Action: models.ReviewApprove}, actorHeader(reviewer))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.T(), http.MethodPost, request.Links.Review, v1.ReviewEditable{Action: models.ReviewReject}, actorHeader(reviewer))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.ChangeRequestResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("this change request has already been reviewed", *response.Error)
}

func (suite *TestSuiteStandard) TestChangeRequestsReviewInvalidAction() {
	requestor := suite.createTestUser(models.User{Name: "Requestor"})
	reviewer := suite.createTestUser(models.User{Name: "Division Director"})
	request := suite.queuedChangeRequest(suite.T(), requestor)

	r := test.Request(suite.T(), http.MethodPost, request.Links.Review, map[string]any{
		"action": "DEFER",
	}, actorHeader(reviewer))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestChangeRequestsReviewRequiresActor() {
	requestor := suite.createTestUser(models.User{Name: "Requestor"})
	request := suite.queuedChangeRequest(suite.T(), requestor)

	r := test.Request(suite.T(), http.MethodPost, request.Links.Review, v1.ReviewEditable{Action: models.ReviewApprove})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}
