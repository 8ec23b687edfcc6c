package v1

import (
	"fmt"

	"github.com/budget-line/backend/internal/models"
	"github.com/gin-gonic/gin"
)

type ChangeRequestLinks struct {
	Self       string `json:"self" example:"https://example.com/api/v1/change-requests/dd201e48-6f6b-42a3-86dc-bd318c0a44f8"`    // The change request itself
	BudgetLine string `json:"budgetLine" example:"https://example.com/api/v1/budget-lines/d1798bbd-ff53-4ad2-a381-a1b8b6cbcbb4"` // The budget line under review
	Review     string `json:"review" example:"https://example.com/api/v1/change-requests/dd201e48-6f6b-42a3-86dc-bd318c0a44f8/review"` // Review endpoint for this change request
}

type ChangeRequest struct {
	models.ChangeRequest
	Links ChangeRequestLinks `json:"links"` // Links to related resources
}

func newChangeRequest(c *gin.Context, model models.ChangeRequest) ChangeRequest {
	url := c.GetString(string(models.DBContextURL))

	return ChangeRequest{
		ChangeRequest: model,
		Links: ChangeRequestLinks{
			Self:       fmt.Sprintf("%s/v1/change-requests/%s", url, model.ID),
			BudgetLine: fmt.Sprintf("%s/v1/budget-lines/%s", url, model.BudgetLineID),
			Review:     fmt.Sprintf("%s/v1/change-requests/%s/review", url, model.ID),
		},
	}
}

type ChangeRequestListResponse struct {
	Data  []ChangeRequest `json:"data"`                                                          // List of Change Requests
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ChangeRequestResponse struct {
	Data  *ChangeRequest `json:"data"`                                                          // Data for the Change Request
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// ReviewEditable is the request body for reviewing a change request.
type ReviewEditable struct {
	Action models.ReviewAction `json:"action" example:"APPROVE"`                       // APPROVE or REJECT
	Notes  string              `json:"notes" example:"Within budget" default:""`       // Notes from the reviewer
}

type ChangeRequestQueryFilter struct {
	Status string `form:"status"` // By review status, one of PENDING, APPROVED, REJECTED
}
