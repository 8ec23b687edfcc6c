package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/budget-line/backend/internal/controllers/v1"
	"github.com/budget-line/backend/internal/models"
	"github.com/budget-line/backend/internal/types"
	"github.com/budget-line/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// plannedTestBudgetLine creates a budget line and moves it to PLANNED.
// Status changes are not financial, so any actor can apply them directly.
func (suite *TestSuiteStandard) plannedTestBudgetLine(t *testing.T, line v1.BudgetLineEditable, actor models.User) v1.BudgetLine {
	created := suite.createTestBudgetLine(t, line)

	updated := suite.patchTestBudgetLine(t, created.Data.ID, map[string]any{
		"status": models.StatusPlanned,
	}, actor)

	return *updated.Data
}

func (suite *TestSuiteStandard) TestBudgetLinesOptions() {
	tests := []struct {
		name   string
		id     func(t *testing.T) string
		status int
	}{
		{"No Budget Line with this ID", func(_ *testing.T) string { return uuid.New().String() }, http.StatusNotFound},
		{"Not a valid UUID", func(_ *testing.T) string { return "NotAUUID" }, http.StatusBadRequest},
		{"Budget Line exists", func(t *testing.T) string {
			return suite.createTestBudgetLine(t, v1.BudgetLineEditable{Amount: decimal.NewFromFloat(100)}).Data.ID.String()
		}, http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("http://example.com/v1/budget-lines/%s", tt.id(t))
			r := test.Request(t, http.MethodOptions, path, "")
			assert.Equal(t, tt.status, r.Code)
		})
	}
}

func (suite *TestSuiteStandard) TestBudgetLinesCreate() {
	line := suite.createTestBudgetLine(suite.T(), v1.BudgetLineEditable{
		Amount: decimal.NewFromFloat(1500),

		// The sent status is ignored, new lines always start as drafts
		Status: models.StatusPlanned,
	})

	suite.Assert().Equal(models.StatusDraft, line.Data.Status)

	// Fees are priced at the procurement shop rate of the agreement, 4.8
	// percent for the suite's default shop
	suite.Assert().True(line.Data.Fees.Equal(decimal.NewFromFloat(72)), "Fees are %s, should be 72", line.Data.Fees)
	suite.Assert().True(line.Data.ProcShopFeeRate.Equal(decimal.NewFromFloat(4.8)), "Rate snapshot is %s, should be 4.8", line.Data.ProcShopFeeRate)
}

func (suite *TestSuiteStandard) TestBudgetLinesCreateNegativeAmount() {
	agreement := suite.createTestAgreement(suite.T(), v1.AgreementEditable{})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/budget-lines", []v1.BudgetLineEditable{{
		AgreementID: agreement.Data.ID,
		Amount:      decimal.NewFromFloat(-100),
	}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.BudgetLineCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("budget line amounts must not be negative", *response.Data[0].Error)
}

func (suite *TestSuiteStandard) TestBudgetLinesCreateNonExistingAgreement() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/budget-lines", []v1.BudgetLineEditable{{
		AgreementID: uuid.New(),
		Amount:      decimal.NewFromFloat(100),
	}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestBudgetLinesGetSingle() {
	tests := []struct {
		name   string
		id     func(t *testing.T) string
		status int
	}{
		{"Existing Budget Line", func(t *testing.T) string {
			return suite.createTestBudgetLine(t, v1.BudgetLineEditable{Amount: decimal.NewFromFloat(100)}).Data.ID.String()
		}, http.StatusOK},
		{"ID nonexistent", func(_ *testing.T) string { return uuid.New().String() }, http.StatusNotFound},
		{"Invalid ID", func(_ *testing.T) string { return "NotAUUID" }, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/budget-lines/%s", tt.id(t)), "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestBudgetLinesGetFiltered() {
	agreement := suite.createTestAgreement(suite.T(), v1.AgreementEditable{})
	can := suite.createTestCAN(suite.T(), v1.CANEditable{})

	_ = suite.createTestBudgetLine(suite.T(), v1.BudgetLineEditable{
		AgreementID: agreement.Data.ID,
		CANID:       &can.Data.ID,
		Comments:    "Year 2 data collection",
		Amount:      decimal.NewFromFloat(1000),
		DateNeeded:  types.NewDate(2026, 1, 1),
	})

	_ = suite.createTestBudgetLine(suite.T(), v1.BudgetLineEditable{
		AgreementID: agreement.Data.ID,
		Amount:      decimal.NewFromFloat(5000),
		DateNeeded:  types.NewDate(2026, 6, 1),
	})

	_ = suite.createTestBudgetLine(suite.T(), v1.BudgetLineEditable{
		Amount:     decimal.NewFromFloat(250),
		DateNeeded: types.NewDate(2026, 9, 1),
		OBE:        true,
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Agreement", fmt.Sprintf("agreement=%s", agreement.Data.ID), 2},
		{"CAN", fmt.Sprintf("can=%s", can.Data.ID), 1},
		{"Portfolio of the CAN", fmt.Sprintf("portfolio=%s", can.Data.PortfolioID), 1},
		{"Status", "status=DRAFT", 3},
		{"OBE", "isObe=true", 1},
		{"Not OBE", "isObe=false", 2},
		{"Comments", "comments=data collection", 1},
		{"Amount less than or equal", "amountLessOrEqual=1000", 2},
		{"Amount more than or equal", "amountMoreOrEqual=2000", 1},
		{"Date needed from", "dateNeededFrom=2026-02-01", 2},
		{"Date needed until", "dateNeededUntil=2026-02-01", 1},
		{"Limit", "limit=2", 2},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/budget-lines?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.BudgetLineListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.len, len(response.Data))
		})
	}
}

func (suite *TestSuiteStandard) TestBudgetLinesGetFilteredInvalid() {
	tests := []struct {
		name  string
		query string
	}{
		{"Invalid status", "status=NOT_A_STATUS"},
		{"Invalid agreement ID", "agreement=NotAUUID"},
		{"Invalid portfolio ID", "portfolio=NotAUUID"},
		{"Invalid amount", "amountLessOrEqual=NotANumber"},
		{"Invalid date", "dateNeededFrom=2026-13-01"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/budget-lines?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestBudgetLinesUpdateRequiresActor() {
	line := suite.createTestBudgetLine(suite.T(), v1.BudgetLineEditable{Amount: decimal.NewFromFloat(100)})

	r := test.Request(suite.T(), http.MethodPatch, line.Data.Links.Self, map[string]any{
		"comments": "No actor set",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestBudgetLinesUpdateDraftDirect() {
	actor := suite.createTestUser(models.User{Name: "Erika Mustermann"})
	line := suite.createTestBudgetLine(suite.T(), v1.BudgetLineEditable{Amount: decimal.NewFromFloat(1000)})

	// Financial changes to drafts apply directly for any actor
	updated := suite.patchTestBudgetLine(suite.T(), line.Data.ID, map[string]any{
		"amount": "2000",
	}, actor)

	suite.Assert().False(updated.SentToApproval)
	suite.Assert().Equal(models.StatusDraft, updated.Data.Status)
	suite.Assert().True(updated.Data.Amount.Equal(decimal.NewFromFloat(2000)), "Amount is %s, should be 2000", updated.Data.Amount)

	// Fees are repriced at the line's rate snapshot
	suite.Assert().True(updated.Data.Fees.Equal(decimal.NewFromFloat(96)), "Fees are %s, should be 96", updated.Data.Fees)
}

func (suite *TestSuiteStandard) TestBudgetLinesUpdateCosmeticDirect() {
	actor := suite.createTestUser(models.User{Name: "Erika Mustermann"})
	planned := suite.plannedTestBudgetLine(suite.T(), v1.BudgetLineEditable{Amount: decimal.NewFromFloat(1000)}, actor)

	// Comment edits are not financial and bypass the approval gate
	updated := suite.patchTestBudgetLine(suite.T(), planned.ID, map[string]any{
		"comments": "Updated comment",
	}, actor)

	suite.Assert().False(updated.SentToApproval)
	suite.Assert().Equal(models.StatusPlanned, updated.Data.Status)
	suite.Assert().Equal("Updated comment", updated.Data.Comments)
}

func (suite *TestSuiteStandard) TestBudgetLinesUpdateQueued() {
	actor := suite.createTestUser(models.User{Name: "Erika Mustermann"})
	planned := suite.plannedTestBudgetLine(suite.T(), v1.BudgetLineEditable{Amount: decimal.NewFromFloat(1000)}, actor)

	// Financial changes to planned lines by regular users are routed to
	// division director review
	updated := suite.patchTestBudgetLine(suite.T(), planned.ID, map[string]any{
		"amount": "3000",
	}, actor)

	suite.Assert().True(updated.SentToApproval)
	suite.Assert().Equal(models.StatusInReview, updated.Data.Status)

	// A pending change request exists for the line
	var request models.ChangeRequest
	err := models.DB.First(&request, "budget_line_id = ?", planned.ID).Error
	suite.Require().NoError(err)
	suite.Assert().Equal(models.ChangeRequestPending, request.Status)
	suite.Assert().Equal(models.StatusPlanned, request.PreviousStatus)
	suite.Assert().Equal(actor.ID, request.RequestorID)
}

func (suite *TestSuiteStandard) TestBudgetLinesUpdatePrivilegedDirect() {
	actor := suite.createTestUser(models.User{Name: "Budget Team", Privileged: true})
	planned := suite.plannedTestBudgetLine(suite.T(), v1.BudgetLineEditable{Amount: decimal.NewFromFloat(1000)}, actor)

	// Privileged users bypass the approval gate
	updated := suite.patchTestBudgetLine(suite.T(), planned.ID, map[string]any{
		"amount": "3000",
	}, actor)

	suite.Assert().False(updated.SentToApproval)
	suite.Assert().Equal(models.StatusPlanned, updated.Data.Status)
	suite.Assert().True(updated.Data.Amount.Equal(decimal.NewFromFloat(3000)), "Amount is %s, should be 3000", updated.Data.Amount)
}

func (suite *TestSuiteStandard) TestBudgetLinesUpdateRejected() {
	actor := suite.createTestUser(models.User{Name: "Erika Mustermann"})

	obligated := suite.createTestBudgetLine(suite.T(), v1.BudgetLineEditable{Amount: decimal.NewFromFloat(1000)})
	_ = suite.patchTestBudgetLine(suite.T(), obligated.Data.ID, map[string]any{"status": models.StatusObligated}, actor)

	obe := suite.createTestBudgetLine(suite.T(), v1.BudgetLineEditable{Amount: decimal.NewFromFloat(1000)})
	_ = suite.patchTestBudgetLine(suite.T(), obe.Data.ID, map[string]any{"isObe": true}, actor)

	inReview := suite.plannedTestBudgetLine(suite.T(), v1.BudgetLineEditable{Amount: decimal.NewFromFloat(1000)}, actor)
	_ = suite.patchTestBudgetLine(suite.T(), inReview.ID, map[string]any{"amount": "2000"}, actor)

	tests := []struct {
		name  string
		id    uuid.UUID
		error string
	}{
		{"Obligated", obligated.Data.ID, "financial changes are not allowed for budget lines in this status"},
		{"Overcome by events", obe.Data.ID, "financial changes are not allowed for budget lines in this status"},
		{"In review", inReview.ID, "this budget line has a pending change request and cannot be edited until it is reviewed"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, fmt.Sprintf("http://example.com/v1/budget-lines/%s", tt.id), map[string]any{
				"amount": "9999",
			}, actorHeader(actor))
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

			var response v1.BudgetLineUpdateResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.error, *response.Error)
		})
	}
}

func (suite *TestSuiteStandard) TestBudgetLinesDelete() {
	line := suite.createTestBudgetLine(suite.T(), v1.BudgetLineEditable{Amount: decimal.NewFromFloat(100)})

	r := test.Request(suite.T(), http.MethodDelete, line.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, line.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestBudgetLinesDeleteInReview() {
	actor := suite.createTestUser(models.User{Name: "Erika Mustermann"})
	planned := suite.plannedTestBudgetLine(suite.T(), v1.BudgetLineEditable{Amount: decimal.NewFromFloat(1000)}, actor)
	_ = suite.patchTestBudgetLine(suite.T(), planned.ID, map[string]any{"amount": "2000"}, actor)

	r := test.Request(suite.T(), http.MethodDelete, planned.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}
