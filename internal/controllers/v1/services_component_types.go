package v1

import (
	"fmt"

	"github.com/budget-line/backend/internal/httputil"
	"github.com/budget-line/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ServicesComponentEditable represents all user configurable parameters
type ServicesComponentEditable struct {
	AgreementID  uuid.UUID `json:"agreementId" example:"ec6a9d62-2aaf-4795-9c06-0d089a654a34"` // ID of the agreement the component belongs to
	Number       int       `json:"number" example:"2"`                                         // Number of the component
	SubComponent string    `json:"subComponent" example:"a" default:""`                        // Sub-component letter, empty for plain components
	Description  string    `json:"description" example:"Data collection" default:""`           // Description of the component
	Optional     bool      `json:"optional" example:"false" default:"false"`                   // May the component be dropped during award?
}

// model transforms the API representation into the model representation
func (s ServicesComponentEditable) model() models.ServicesComponent {
	return models.ServicesComponent{
		AgreementID:  s.AgreementID,
		Number:       s.Number,
		SubComponent: s.SubComponent,
		Description:  s.Description,
		Optional:     s.Optional,
	}
}

type ServicesComponentLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/services-components/9a2a24b0-79b1-4a43-a483-0d32a4bbbb3b"`      // The services component itself
	Agreement   string `json:"agreement" example:"https://example.com/api/v1/agreements/ec6a9d62-2aaf-4795-9c06-0d089a654a34"`          // The agreement the component belongs to
	BudgetLines string `json:"budgetLines" example:"https://example.com/api/v1/budget-lines?servicesComponent=9a2a24b0-79b1-4a43-a483-0d32a4bbbb3b"` // The budget lines grouped by this component
}

type ServicesComponent struct {
	models.DefaultModel
	ServicesComponentEditable
	GroupingLabel string                 `json:"groupingLabel" example:"2-a"` // Label budget lines reference the component by
	Links         ServicesComponentLinks `json:"links"`                       // Links to related resources
}

func newServicesComponent(c *gin.Context, model models.ServicesComponent) ServicesComponent {
	url := c.GetString(string(models.DBContextURL))

	return ServicesComponent{
		DefaultModel: model.DefaultModel,
		ServicesComponentEditable: ServicesComponentEditable{
			AgreementID:  model.AgreementID,
			Number:       model.Number,
			SubComponent: model.SubComponent,
			Description:  model.Description,
			Optional:     model.Optional,
		},
		GroupingLabel: model.GroupingLabel(),
		Links: ServicesComponentLinks{
			Self:        fmt.Sprintf("%s/v1/services-components/%s", url, model.ID),
			Agreement:   fmt.Sprintf("%s/v1/agreements/%s", url, model.AgreementID),
			BudgetLines: fmt.Sprintf("%s/v1/budget-lines?servicesComponent=%s", url, model.ID),
		},
	}
}

type ServicesComponentListResponse struct {
	Data       []ServicesComponent `json:"data"`                                                          // List of Services Components
	Error      *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination         `json:"pagination"`                                                    // Pagination information
}

type ServicesComponentCreateResponse struct {
	Data  []ServicesComponentResponse `json:"data"`                                                          // Data for the Services Component
	Error *string                     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// appendError appends a ServicesComponentResponse with the error and returns the updated HTTP status
func (s *ServicesComponentCreateResponse) appendError(err error, currentStatus int) int {
	e := err.Error()
	s.Data = append(s.Data, ServicesComponentResponse{Error: &e})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ServicesComponentResponse struct {
	Data  *ServicesComponent `json:"data"`                                                          // Data for the Services Component
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ServicesComponentQueryFilter struct {
	AgreementID string `form:"agreement"`                       // By agreement ID
	Number      int    `form:"number"`                          // By component number
	Description string `form:"description" filterField:"false"` // By description
	Optional    bool   `form:"optional"`                        // Is the component optional?
	Offset      uint   `form:"offset" filterField:"false"`      // The offset of the first Services Component returned. Defaults to 0.
	Limit       int    `form:"limit" filterField:"false"`       // Maximum number of Services Components to return. Defaults to 50.
}

func (f ServicesComponentQueryFilter) model() (models.ServicesComponent, error) {
	agreementID, err := httputil.UUIDFromString(f.AgreementID)
	if err != nil {
		return models.ServicesComponent{}, err
	}

	return models.ServicesComponent{
		AgreementID: agreementID,
		Number:      f.Number,
		Optional:    f.Optional,
	}, nil
}
