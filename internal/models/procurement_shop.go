package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProcurementShop represents the procurement shop handling an agreement.
//
// Its fee percentage is applied to a budget line's amount to compute the
// line's fee contribution.
type ProcurementShop struct {
	DefaultModel
	Name          string          `json:"name" example:"Government Contracting Services"`
	Abbreviation  string          `json:"abbreviation" example:"GCS"`
	FeePercentage decimal.Decimal `json:"feePercentage" gorm:"type:DECIMAL(20,8)" example:"4.8"` // Fee rate in percent
}

// BeforeSave validates the fee rate and trims whitespace from all strings.
func (p *ProcurementShop) BeforeSave(_ *gorm.DB) error {
	if p.FeePercentage.IsNegative() {
		return ErrProcurementShopFeeNegative
	}

	p.Name = strings.TrimSpace(p.Name)
	p.Abbreviation = strings.TrimSpace(p.Abbreviation)

	return nil
}
