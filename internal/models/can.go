package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CAN represents a Common Accounting Number, a funding source with a
// fiscal-year budget.
type CAN struct {
	DefaultModel
	Number      string    `json:"number" gorm:"uniqueIndex" example:"G99XXX8"`
	Description string    `json:"description,omitempty"`
	PortfolioID uuid.UUID `json:"portfolioId"`
	Portfolio   Portfolio `json:"-"`
}

// BeforeSave trims whitespace from all strings.
func (c *CAN) BeforeSave(_ *gorm.DB) error {
	c.Number = strings.TrimSpace(c.Number)
	c.Description = strings.TrimSpace(c.Description)

	return nil
}

func (c *CAN) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*CAN)
	return c.checkIntegrity(tx, *toSave)
}

// BeforeUpdate verifies the state of the CAN before
// committing an update to the database.
func (c *CAN) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(CAN)
	if tx.Statement.Changed("PortfolioID") {
		return c.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources.
func (c *CAN) checkIntegrity(tx *gorm.DB, toSave CAN) error {
	return tx.First(&Portfolio{}, toSave.PortfolioID).Error
}

// FundingSummary is the funding breakdown shared by CANs and portfolios.
//
// The figures are maintained by the upstream accounting process. The
// backend only consumes them, with the exception of what-if projections
// for pending approvals, which never write back.
type FundingSummary struct {
	TotalFunding       decimal.Decimal `json:"totalFunding" gorm:"type:DECIMAL(20,8)" example:"6000000"`
	AvailableFunding   decimal.Decimal `json:"availableFunding" gorm:"type:DECIMAL(20,8)" example:"2000000"`
	PlannedFunding     decimal.Decimal `json:"plannedFunding" gorm:"type:DECIMAL(20,8)" example:"1000000"`
	ObligatedFunding   decimal.Decimal `json:"obligatedFunding" gorm:"type:DECIMAL(20,8)" example:"2500000"`
	InExecutionFunding decimal.Decimal `json:"inExecutionFunding" gorm:"type:DECIMAL(20,8)" example:"500000"`
}

// Add returns the field-wise sum of two funding summaries.
func (f FundingSummary) Add(other FundingSummary) FundingSummary {
	return FundingSummary{
		TotalFunding:       f.TotalFunding.Add(other.TotalFunding),
		AvailableFunding:   f.AvailableFunding.Add(other.AvailableFunding),
		PlannedFunding:     f.PlannedFunding.Add(other.PlannedFunding),
		ObligatedFunding:   f.ObligatedFunding.Add(other.ObligatedFunding),
		InExecutionFunding: f.InExecutionFunding.Add(other.InExecutionFunding),
	}
}

// CANFundingSummary is the persisted funding summary for a single CAN.
type CANFundingSummary struct {
	DefaultModel
	CANID uuid.UUID `json:"canId" gorm:"uniqueIndex"`
	CAN   CAN       `json:"-"`
	FundingSummary
}

func (c *CANFundingSummary) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*CANFundingSummary)
	return tx.First(&CAN{}, toSave.CANID).Error
}
