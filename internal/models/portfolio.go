package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Portfolio represents a portfolio of work funded through one or more CANs.
type Portfolio struct {
	DefaultModel
	Name         string    `json:"name" gorm:"uniqueIndex" example:"Child Welfare Research"`
	Abbreviation string    `json:"abbreviation" example:"CWR"`
	DivisionID   uuid.UUID `json:"divisionId"`
	Division     Division  `json:"-"`
}

// BeforeSave trims whitespace from all strings.
func (p *Portfolio) BeforeSave(_ *gorm.DB) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Abbreviation = strings.TrimSpace(p.Abbreviation)

	return nil
}

func (p *Portfolio) BeforeCreate(tx *gorm.DB) error {
	_ = p.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Portfolio)
	return p.checkIntegrity(tx, *toSave)
}

// BeforeUpdate verifies the state of the portfolio before
// committing an update to the database.
func (p *Portfolio) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(Portfolio)
	if tx.Statement.Changed("DivisionID") {
		return p.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources.
func (p *Portfolio) checkIntegrity(tx *gorm.DB, toSave Portfolio) error {
	return tx.First(&Division{}, toSave.DivisionID).Error
}
