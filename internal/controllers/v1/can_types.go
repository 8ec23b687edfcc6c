package v1

import (
	"fmt"

	"github.com/budget-line/backend/internal/httputil"
	"github.com/budget-line/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CANEditable represents all user configurable parameters
type CANEditable struct {
	Number      string    `json:"number" example:"G99XXX8"`                                  // Common Accounting Number
	Description string    `json:"description" example:"Head Start discretionary" default:""` // Description of the CAN
	PortfolioID uuid.UUID `json:"portfolioId" example:"a3f13aef-5c7a-4b49-add9-b68f46bbc0f5"` // ID of the portfolio the CAN funds
}

// model transforms the API representation into the model representation
func (e CANEditable) model() models.CAN {
	return models.CAN{
		Number:      e.Number,
		Description: e.Description,
		PortfolioID: e.PortfolioID,
	}
}

type CANLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/cans/c7a9076a-4f7d-42f8-a874-74c128a53ba0"`               // The CAN itself
	Funding     string `json:"funding" example:"https://example.com/api/v1/cans/c7a9076a-4f7d-42f8-a874-74c128a53ba0/funding"`    // The CAN's funding summary
	BudgetLines string `json:"budgetLines" example:"https://example.com/api/v1/budget-lines?can=c7a9076a-4f7d-42f8-a874-74c128a53ba0"` // The budget lines funded by this CAN
}

type CAN struct {
	models.DefaultModel
	CANEditable
	Links CANLinks `json:"links"` // Links to related resources
}

func newCAN(c *gin.Context, model models.CAN) CAN {
	url := c.GetString(string(models.DBContextURL))

	return CAN{
		DefaultModel: model.DefaultModel,
		CANEditable: CANEditable{
			Number:      model.Number,
			Description: model.Description,
			PortfolioID: model.PortfolioID,
		},
		Links: CANLinks{
			Self:        fmt.Sprintf("%s/v1/cans/%s", url, model.ID),
			Funding:     fmt.Sprintf("%s/v1/cans/%s/funding", url, model.ID),
			BudgetLines: fmt.Sprintf("%s/v1/budget-lines?can=%s", url, model.ID),
		},
	}
}

type CANListResponse struct {
	Data       []CAN       `json:"data"`                                                          // List of CANs
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type CANCreateResponse struct {
	Data  []CANResponse `json:"data"`                                                          // Data for the CAN
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// appendError appends a CANResponse with the error and returns the updated HTTP status
func (r *CANCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, CANResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type CANResponse struct {
	Data  *CAN    `json:"data"`                                                          // Data for the CAN
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// CANFunding is a CAN's funding summary with an optional what-if
// projection for a pending financial change.
type CANFunding struct {
	models.FundingSummary
	ProjectedSpending decimal.Decimal `json:"projectedSpending" example:"4100000"` // Spending including the pending amount when projected after approval
}

type CANFundingResponse struct {
	Data  *CANFunding `json:"data"`                                                          // The funding summary
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type CANQueryFilter struct {
	Number      string `form:"number" filterField:"false"`      // By number, glob patterns like "G99*" are supported
	Description string `form:"description" filterField:"false"` // By description
	PortfolioID string `form:"portfolio"`                       // By portfolio ID
	Offset      uint   `form:"offset" filterField:"false"`      // The offset of the first CAN returned. Defaults to 0.
	Limit       int    `form:"limit" filterField:"false"`       // Maximum number of CANs to return. Defaults to 50.
}

func (f CANQueryFilter) model() (models.CAN, error) {
	portfolioID, err := httputil.UUIDFromString(f.PortfolioID)
	if err != nil {
		return models.CAN{}, err
	}

	return models.CAN{
		PortfolioID: portfolioID,
	}, nil
}
