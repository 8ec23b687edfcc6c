package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Agreement represents an agreement with a vendor.
//
// An agreement owns budget lines and services components. Its procurement
// shop supplies the fee rate used when pricing budget lines.
type Agreement struct {
	DefaultModel
	Name              string          `json:"name" gorm:"uniqueIndex" example:"Head Start Research Support"`
	Description       string          `json:"description,omitempty"`
	ProcurementShopID uuid.UUID       `json:"procurementShopId"`
	ProcurementShop   ProcurementShop `json:"-"`
}

// BeforeSave trims whitespace from all strings.
func (a *Agreement) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Description = strings.TrimSpace(a.Description)

	return nil
}

func (a *Agreement) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Agreement)
	return a.checkIntegrity(tx, *toSave)
}

// BeforeUpdate verifies the state of the agreement before
// committing an update to the database.
func (a *Agreement) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(Agreement)
	if tx.Statement.Changed("ProcurementShopID") {
		return a.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources.
func (a *Agreement) checkIntegrity(tx *gorm.DB, toSave Agreement) error {
	return tx.First(&ProcurementShop{}, toSave.ProcurementShopID).Error
}
