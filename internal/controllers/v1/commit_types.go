package v1

import (
	"github.com/budget-line/backend/internal/commit"
	"github.com/budget-line/backend/internal/models"
	"github.com/budget-line/backend/internal/types"
	"github.com/budget-line/backend/internal/workingset"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineDraftEditable is a new budget line staged in a commit.
type LineDraftEditable struct {
	Comments   string          `json:"comments" example:"Year 2 data collection" default:""` // Notes about the line
	Amount     decimal.Decimal `json:"amount" example:"1500000"`                             // Amount of the line, without fees
	DateNeeded types.Date      `json:"dateNeeded" example:"2026-01-01"`                      // Date the obligation is needed
	CANID      *uuid.UUID      `json:"canId"`                                                // ID of the funding CAN, null while no funding source is assigned
	GroupLabel string          `json:"groupLabel" example:"2-a" default:""`                  // Grouping label of the services component, empty for ungrouped lines
}

func (e LineDraftEditable) draft() workingset.LineDraft {
	return workingset.LineDraft{
		Comments:   e.Comments,
		Amount:     e.Amount,
		DateNeeded: e.DateNeeded,
		CANID:      e.CANID,
		GroupLabel: e.GroupLabel,
	}
}

// LineEditEditable is a staged edit of an existing budget line. Fields
// that are null are left unchanged.
type LineEditEditable struct {
	ID         uuid.UUID                `json:"id" example:"d1798bbd-ff53-4ad2-a381-a1b8b6cbcbb4"` // ID of the staged line
	Comments   *string                  `json:"comments"`                                          // Notes about the line
	Amount     *decimal.Decimal         `json:"amount"`                                            // Amount of the line, without fees
	DateNeeded *types.Date              `json:"dateNeeded"`                                        // Date the obligation is needed
	CANID      *uuid.UUID               `json:"canId"`                                             // ID of the funding CAN
	ClearCAN   bool                     `json:"clearCan" default:"false"`                          // Remove the funding source reference?
	GroupLabel *string                  `json:"groupLabel"`                                        // Grouping label of the services component
	Status     *models.BudgetLineStatus `json:"status"`                                            // Lifecycle status of the line
}

func (e LineEditEditable) patch() workingset.LinePatch {
	return workingset.LinePatch{
		Comments:   e.Comments,
		Amount:     e.Amount,
		DateNeeded: e.DateNeeded,
		CANID:      e.CANID,
		ClearCAN:   e.ClearCAN,
		GroupLabel: e.GroupLabel,
		Status:     e.Status,
	}
}

// ComponentDraftEditable is a new services component staged in a commit.
type ComponentDraftEditable struct {
	Number       int    `json:"number" example:"2"`                               // Number of the component
	SubComponent string `json:"subComponent" example:"a" default:""`              // Sub-component letter, empty for plain components
	Description  string `json:"description" example:"Data collection" default:""` // Description of the component
	Optional     bool   `json:"optional" example:"false" default:"false"`         // May the component be dropped during award?
}

func (e ComponentDraftEditable) draft() workingset.ComponentDraft {
	return workingset.ComponentDraft{
		Number:       e.Number,
		SubComponent: e.SubComponent,
		Description:  e.Description,
		Optional:     e.Optional,
	}
}

// ComponentEditEditable is a staged edit of an existing services
// component. Fields that are null are left unchanged.
type ComponentEditEditable struct {
	ID           uuid.UUID `json:"id" example:"9a2a24b0-79b1-4a43-a483-0d32a4bbbb3b"` // ID of the staged component
	Number       *int      `json:"number"`                                            // Number of the component
	SubComponent *string   `json:"subComponent"`                                      // Sub-component letter
	Description  *string   `json:"description"`                                       // Description of the component
	Optional     *bool     `json:"optional"`                                          // May the component be dropped during award?
}

func (e ComponentEditEditable) patch() workingset.ComponentPatch {
	return workingset.ComponentPatch{
		Number:       e.Number,
		SubComponent: e.SubComponent,
		Description:  e.Description,
		Optional:     e.Optional,
	}
}

// CommitEditable is the staged working set a client sends to commit an
// editing session in one batch.
type CommitEditable struct {
	NewComponents     []ComponentDraftEditable `json:"newComponents"`     // Services components to create
	EditedComponents  []ComponentEditEditable  `json:"editedComponents"`  // Edits to existing services components
	DeletedComponents []uuid.UUID              `json:"deletedComponents"` // IDs of services components to delete
	NewLines          []LineDraftEditable      `json:"newLines"`          // Budget lines to create
	EditedLines       []LineEditEditable       `json:"editedLines"`       // Edits to existing budget lines
	DeletedLines      []uuid.UUID              `json:"deletedLines"`      // IDs of budget lines to delete

	// Confirms that financial changes may be sent to division director
	// review. Commits whose financial changes are not confirmed are not
	// persisted at all.
	ConfirmFinancialChanges bool `json:"confirmFinancialChanges" default:"false"`
}

type CommitResponse struct {
	Data  *commit.Result `json:"data"`                                                              // The per-item results of the commit
	Error *string        `json:"error" example:"sending the financial changes to approval was not confirmed"` // The error, if any occurred
}
