package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"golang.org/x/exp/slices"
)

// ChangeRequestStatus is the review status of a change request.
//
// swagger:enum ChangeRequestStatus
type ChangeRequestStatus string

const (
	ChangeRequestPending  ChangeRequestStatus = "PENDING"
	ChangeRequestApproved ChangeRequestStatus = "APPROVED"
	ChangeRequestRejected ChangeRequestStatus = "REJECTED"
)

// ReviewAction is the action a reviewer takes on a change request.
//
// swagger:enum ReviewAction
type ReviewAction string

const (
	ReviewApprove ReviewAction = "APPROVE"
	ReviewReject  ReviewAction = "REJECT"
)

// Valid reports whether the action is one of the defined enum values.
func (a ReviewAction) Valid() bool {
	return slices.Contains([]ReviewAction{ReviewApprove, ReviewReject}, a)
}

// ChangeRequest represents a financial change to a budget line that is
// waiting for division director review.
//
// While a change request is pending, the budget line sits in IN_REVIEW and
// cannot be edited. Approving restores the status the requestor asked for,
// rejecting reverts the financial fields and restores the previous status.
type ChangeRequest struct {
	DefaultModel
	BudgetLineID     uuid.UUID           `json:"budgetLineId"`
	BudgetLine       BudgetLine          `json:"-"`
	RequestorID      uuid.UUID           `json:"requestorId"`
	Status           ChangeRequestStatus `json:"status" example:"PENDING"`
	RequestedChanges string              `json:"requestedChanges"` // Serialized ChangeSet, the financial diff under review
	Summary          string              `json:"summary"`          // Human readable change summary for notifications
	PreviousStatus   BudgetLineStatus    `json:"previousStatus" example:"PLANNED"`
	ReviewerID       *uuid.UUID          `json:"reviewerId"`
	ReviewerNotes    string              `json:"reviewerNotes,omitempty"`
	ReviewedAt       *time.Time          `json:"reviewedAt"`
}

// BeforeSave sets the default status and trims whitespace.
func (c *ChangeRequest) BeforeSave(_ *gorm.DB) error {
	if c.Status == "" {
		c.Status = ChangeRequestPending
	}

	c.ReviewerNotes = strings.TrimSpace(c.ReviewerNotes)

	return nil
}

func (c *ChangeRequest) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*ChangeRequest)
	return tx.First(&BudgetLine{}, toSave.BudgetLineID).Error
}
