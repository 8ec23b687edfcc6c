package v1

import (
	"fmt"

	"github.com/budget-line/backend/internal/funding"
	"github.com/budget-line/backend/internal/httputil"
	"github.com/budget-line/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AgreementEditable represents all user configurable parameters
type AgreementEditable struct {
	Name              string    `json:"name" example:"Head Start Research Support" default:""`                 // Name of the agreement
	Description       string    `json:"description" example:"Evaluation support for Head Start" default:""`    // Description of the agreement
	ProcurementShopID uuid.UUID `json:"procurementShopId" example:"5985e9e5-71dc-4b04-9c22-3a4cbf1cb21a"`      // ID of the procurement shop handling the agreement
}

// model transforms the API representation into the model representation
func (a AgreementEditable) model() models.Agreement {
	return models.Agreement{
		Name:              a.Name,
		Description:       a.Description,
		ProcurementShopID: a.ProcurementShopID,
	}
}

type AgreementLinks struct {
	Self               string `json:"self" example:"https://example.com/api/v1/agreements/ec6a9d62-2aaf-4795-9c06-0d089a654a34"`                            // The agreement itself
	BudgetLines        string `json:"budgetLines" example:"https://example.com/api/v1/agreements/ec6a9d62-2aaf-4795-9c06-0d089a654a34/budget-lines"`        // The agreement's budget lines, grouped by services component
	ServicesComponents string `json:"servicesComponents" example:"https://example.com/api/v1/services-components?agreement=ec6a9d62-2aaf-4795-9c06-0d089a654a34"` // The agreement's services components
	Commit             string `json:"commit" example:"https://example.com/api/v1/agreements/ec6a9d62-2aaf-4795-9c06-0d089a654a34/commit"`                   // Commit endpoint for editing sessions on this agreement
}

type Agreement struct {
	models.DefaultModel
	AgreementEditable
	Links AgreementLinks `json:"links"` // Links to related resources
}

func newAgreement(c *gin.Context, model models.Agreement) Agreement {
	url := c.GetString(string(models.DBContextURL))

	return Agreement{
		DefaultModel: model.DefaultModel,
		AgreementEditable: AgreementEditable{
			Name:              model.Name,
			Description:       model.Description,
			ProcurementShopID: model.ProcurementShopID,
		},
		Links: AgreementLinks{
			Self:               fmt.Sprintf("%s/v1/agreements/%s", url, model.ID),
			BudgetLines:        fmt.Sprintf("%s/v1/agreements/%s/budget-lines", url, model.ID),
			ServicesComponents: fmt.Sprintf("%s/v1/services-components?agreement=%s", url, model.ID),
			Commit:             fmt.Sprintf("%s/v1/agreements/%s/commit", url, model.ID),
		},
	}
}

type AgreementListResponse struct {
	Data       []Agreement `json:"data"`                                                          // List of Agreements
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type AgreementCreateResponse struct {
	Data  []AgreementResponse `json:"data"`                                                          // Data for the Agreement
	Error *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// appendError appends an AgreementResponse with the error and returns the updated HTTP status
func (a *AgreementCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	a.Data = append(a.Data, AgreementResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type AgreementResponse struct {
	Data  *Agreement `json:"data"`                                                          // Data for the Agreement
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type AgreementQueryFilter struct {
	Name              string `form:"name" filterField:"false"`   // By name
	Description       string `form:"description" filterField:"false"` // By description
	ProcurementShopID string `form:"procurementShop"`            // By procurement shop ID
	Search            string `form:"search" filterField:"false"` // By string in name or description
	Offset            uint   `form:"offset" filterField:"false"` // The offset of the first Agreement returned. Defaults to 0.
	Limit             int    `form:"limit" filterField:"false"`  // Maximum number of Agreements to return. Defaults to 50.
}

func (f AgreementQueryFilter) model() (models.Agreement, error) {
	procurementShopID, err := httputil.UUIDFromString(f.ProcurementShopID)
	if err != nil {
		return models.Agreement{}, err
	}

	return models.Agreement{
		ProcurementShopID: procurementShopID,
	}, nil
}

// BudgetLineGroup is a set of budget lines sharing a services component,
// for the grouped agreement view.
type BudgetLineGroup struct {
	Label        string       `json:"label" example:"2-a"` // Grouping label, empty for ungrouped lines
	Number       int          `json:"number" example:"2"`
	SubComponent string       `json:"subComponent" example:"a"`
	Lines        []BudgetLine `json:"lines"` // The budget lines in this group
}

// AgreementBudgetLines is the grouped budget line view of an agreement.
type AgreementBudgetLines struct {
	Groups []BudgetLineGroup `json:"groups"` // Budget lines grouped by services component, ungrouped lines last
	Totals funding.Totals    `json:"totals"` // Subtotal, fees and total over the included lines
}

type AgreementBudgetLinesResponse struct {
	Data  *AgreementBudgetLines `json:"data"`                                                          // The grouped budget lines
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}
