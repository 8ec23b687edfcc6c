package models

import (
	"strings"

	"github.com/budget-line/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"golang.org/x/exp/slices"
)

// BudgetLineStatus is the lifecycle status of a budget line.
//
// swagger:enum BudgetLineStatus
type BudgetLineStatus string

const (
	StatusDraft     BudgetLineStatus = "DRAFT"
	StatusPlanned   BudgetLineStatus = "PLANNED"
	StatusExecuting BudgetLineStatus = "EXECUTING"
	StatusObligated BudgetLineStatus = "OBLIGATED"
	StatusInReview  BudgetLineStatus = "IN_REVIEW"
)

// Statuses lists all valid budget line statuses.
var Statuses = []BudgetLineStatus{StatusDraft, StatusPlanned, StatusExecuting, StatusObligated, StatusInReview}

// Valid reports whether the status is one of the defined enum values.
func (s BudgetLineStatus) Valid() bool {
	return slices.Contains(Statuses, s)
}

// BudgetLine represents a funded unit of work within an agreement.
//
// Amount, DateNeeded and CANID are the financial-critical fields: once a
// line is PLANNED or EXECUTING, changing them requires division director
// approval and moves the line to IN_REVIEW until the change request is
// resolved.
type BudgetLine struct {
	DefaultModel
	AgreementID         uuid.UUID          `json:"agreementId"`
	Agreement           Agreement          `json:"-"`
	ServicesComponentID *uuid.UUID         `json:"servicesComponentId"` // nil for ungrouped lines
	CANID               *uuid.UUID         `json:"canId"`               // nil while no funding source is assigned
	Comments            string             `json:"comments,omitempty"`
	Amount              decimal.Decimal    `json:"amount" gorm:"type:DECIMAL(20,8)" example:"1500000"`
	DateNeeded          types.Date         `json:"dateNeeded" example:"2025-01-01"`
	Status              BudgetLineStatus   `json:"status" example:"PLANNED"`
	OBE                 bool               `json:"isObe" example:"false"` // Overcome by events: kept for historical totals, no active balance effect
	Fees                decimal.Decimal    `json:"fees" gorm:"type:DECIMAL(20,8)" example:"72000"`
	ProcShopFeeRate     decimal.Decimal    `json:"procShopFeePercentage" gorm:"type:DECIMAL(20,8)" example:"4.8"` // Rate snapshot used to compute Fees
}

// BeforeSave validates the amount and status and trims whitespace.
func (b *BudgetLine) BeforeSave(_ *gorm.DB) error {
	if b.Amount.IsNegative() {
		return ErrBudgetLineAmountNegative
	}

	if b.Status == "" {
		b.Status = StatusDraft
	}

	if !b.Status.Valid() {
		return ErrBudgetLineStatusInvalid
	}

	b.Comments = strings.TrimSpace(b.Comments)

	return nil
}

func (b *BudgetLine) BeforeCreate(tx *gorm.DB) error {
	_ = b.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*BudgetLine)
	return b.checkIntegrity(tx, *toSave)
}

// BeforeUpdate verifies the state of the budget line before
// committing an update to the database.
func (b *BudgetLine) BeforeUpdate(tx *gorm.DB) error {
	toSave := BudgetLine{}
	if dest, ok := tx.Statement.Dest.(BudgetLine); ok {
		toSave = dest
	}

	if tx.Statement.Changed("AgreementID") || tx.Statement.Changed("ServicesComponentID") || tx.Statement.Changed("CANID") {
		return b.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources.
func (b *BudgetLine) checkIntegrity(tx *gorm.DB, toSave BudgetLine) error {
	if toSave.AgreementID != uuid.Nil {
		err := tx.First(&Agreement{}, toSave.AgreementID).Error
		if err != nil {
			return err
		}
	}

	if toSave.ServicesComponentID != nil {
		err := tx.First(&ServicesComponent{}, *toSave.ServicesComponentID).Error
		if err != nil {
			return err
		}
	}

	if toSave.CANID != nil {
		err := tx.First(&CAN{}, *toSave.CANID).Error
		if err != nil {
			return err
		}
	}

	return nil
}
