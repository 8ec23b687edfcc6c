package v1

import (
	"fmt"

	"github.com/budget-line/backend/internal/httputil"
	"github.com/budget-line/backend/internal/models"
	"github.com/budget-line/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetLineEditable represents all user configurable parameters
type BudgetLineEditable struct {
	AgreementID         uuid.UUID        `json:"agreementId" example:"ec6a9d62-2aaf-4795-9c06-0d089a654a34"`       // ID of the agreement the line belongs to
	ServicesComponentID *uuid.UUID       `json:"servicesComponentId" example:"9a2a24b0-79b1-4a43-a483-0d32a4bbbb3b"` // ID of the services component grouping the line, null for ungrouped lines
	CANID               *uuid.UUID       `json:"canId" example:"c7a9076a-4f7d-42f8-a874-74c128a53ba0"`             // ID of the funding CAN, null while no funding source is assigned
	Comments            string           `json:"comments" example:"Year 2 data collection" default:""`             // Notes about the line
	Amount              decimal.Decimal  `json:"amount" example:"1500000"`                                         // Amount of the line, without fees
	DateNeeded          types.Date       `json:"dateNeeded" example:"2026-01-01"`                                  // Date the obligation is needed
	Status              models.BudgetLineStatus `json:"status" example:"PLANNED" default:"DRAFT"`                  // Lifecycle status of the line
	OBE                 bool             `json:"isObe" example:"false" default:"false"`                            // Is the line overcome by events?
}

// model transforms the API representation into the model representation
func (b BudgetLineEditable) model() models.BudgetLine {
	return models.BudgetLine{
		AgreementID:         b.AgreementID,
		ServicesComponentID: b.ServicesComponentID,
		CANID:               b.CANID,
		Comments:            b.Comments,
		Amount:              b.Amount,
		DateNeeded:          b.DateNeeded,
		Status:              b.Status,
		OBE:                 b.OBE,
	}
}

type BudgetLineLinks struct {
	Self      string `json:"self" example:"https://example.com/api/v1/budget-lines/d1798bbd-ff53-4ad2-a381-a1b8b6cbcbb4"`            // The budget line itself
	Agreement string `json:"agreement" example:"https://example.com/api/v1/agreements/ec6a9d62-2aaf-4795-9c06-0d089a654a34"`         // The agreement the line belongs to
}

type BudgetLine struct {
	models.DefaultModel
	BudgetLineEditable
	Fees            decimal.Decimal `json:"fees" example:"72000"`                  // Fee share of the line, priced with the rate snapshot
	ProcShopFeeRate decimal.Decimal `json:"procShopFeePercentage" example:"4.8"`   // Fee rate snapshot in percent
	Links           BudgetLineLinks `json:"links"`                                 // Links to related resources
}

func newBudgetLine(c *gin.Context, model models.BudgetLine) BudgetLine {
	url := c.GetString(string(models.DBContextURL))

	return BudgetLine{
		DefaultModel: model.DefaultModel,
		BudgetLineEditable: BudgetLineEditable{
			AgreementID:         model.AgreementID,
			ServicesComponentID: model.ServicesComponentID,
			CANID:               model.CANID,
			Comments:            model.Comments,
			Amount:              model.Amount,
			DateNeeded:          model.DateNeeded,
			Status:              model.Status,
			OBE:                 model.OBE,
		},
		Fees:            model.Fees,
		ProcShopFeeRate: model.ProcShopFeeRate,
		Links: BudgetLineLinks{
			Self:      fmt.Sprintf("%s/v1/budget-lines/%s", url, model.ID),
			Agreement: fmt.Sprintf("%s/v1/agreements/%s", url, model.AgreementID),
		},
	}
}

type BudgetLineListResponse struct {
	Data       []BudgetLine `json:"data"`                                                          // List of Budget Lines
	Error      *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination  `json:"pagination"`                                                    // Pagination information
}

type BudgetLineCreateResponse struct {
	Data  []BudgetLineResponse `json:"data"`                                                          // Data for the Budget Line
	Error *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// appendError appends a BudgetLineResponse with the error and returns the updated HTTP status
func (b *BudgetLineCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	b.Data = append(b.Data, BudgetLineResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type BudgetLineResponse struct {
	Data  *BudgetLine `json:"data"`                                                          // Data for the Budget Line
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// BudgetLineUpdateResponse carries the approval routing outcome of an
// update alongside the updated line.
type BudgetLineUpdateResponse struct {
	Data           *BudgetLine `json:"data"`                                                          // Data for the Budget Line
	Error          *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	SentToApproval bool        `json:"sentToApproval" example:"false"`                                // Was the change routed to a change request instead of applied?
}

type BudgetLineQueryFilter struct {
	AgreementID         string `form:"agreement"`                             // By agreement ID
	ServicesComponentID string `form:"servicesComponent"`                     // By services component ID
	CANID               string `form:"can"`                                   // By CAN ID
	PortfolioID         string `form:"portfolio" filterField:"false"`         // By the portfolio of the funding CAN
	Status              string `form:"status"`                                // By lifecycle status
	OBE                 bool   `form:"isObe"`                                 // Is the line overcome by events?
	Comments            string `form:"comments" filterField:"false"`          // Comments contain this string
	AmountLessOrEqual   string `form:"amountLessOrEqual" filterField:"false"` // Amount less than or equal to this
	AmountMoreOrEqual   string `form:"amountMoreOrEqual" filterField:"false"` // Amount more than or equal to this
	DateNeededFrom      string `form:"dateNeededFrom" filterField:"false"`    // Lines needed at and after this date, formatted YYYY-MM-DD
	DateNeededUntil     string `form:"dateNeededUntil" filterField:"false"`   // Lines needed before and at this date, formatted YYYY-MM-DD
	Offset              uint   `form:"offset" filterField:"false"`            // The offset of the first Budget Line returned. Defaults to 0.
	Limit               int    `form:"limit" filterField:"false"`             // Maximum number of Budget Lines to return. Defaults to 50.
}

func (f BudgetLineQueryFilter) model() (models.BudgetLine, error) {
	agreementID, err := httputil.UUIDFromString(f.AgreementID)
	if err != nil {
		return models.BudgetLine{}, err
	}

	servicesComponentID, err := httputil.UUIDFromString(f.ServicesComponentID)
	if err != nil {
		return models.BudgetLine{}, err
	}

	canID, err := httputil.UUIDFromString(f.CANID)
	if err != nil {
		return models.BudgetLine{}, err
	}

	// If the IDs are nil, use an actual nil, not uuid.Nil
	var scID, cID *uuid.UUID
	if servicesComponentID != uuid.Nil {
		scID = &servicesComponentID
	}
	if canID != uuid.Nil {
		cID = &canID
	}

	return models.BudgetLine{
		AgreementID:         agreementID,
		ServicesComponentID: scID,
		CANID:               cID,
		Status:              models.BudgetLineStatus(f.Status),
		OBE:                 f.OBE,
	}, nil
}
