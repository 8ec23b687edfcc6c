package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServicesComponent represents a logical grouping of budget lines
// within an agreement.
type ServicesComponent struct {
	DefaultModel
	AgreementID  uuid.UUID `json:"agreementId" gorm:"uniqueIndex:services_component_label_agreement"`
	Agreement    Agreement `json:"-"`
	Number       int       `json:"number" gorm:"uniqueIndex:services_component_label_agreement" example:"2"`
	SubComponent string    `json:"subComponent,omitempty" gorm:"uniqueIndex:services_component_label_agreement" example:"a"`
	Description  string    `json:"description,omitempty"`
	Optional     bool      `json:"optional" example:"false"` // Optional services components may be dropped during award
}

// GroupingLabel returns the label budget lines use to reference the
// component: the number alone, or number-subComponent when a
// sub-component exists. Labels are unique within an agreement.
func (s ServicesComponent) GroupingLabel() string {
	if s.SubComponent == "" {
		return fmt.Sprint(s.Number)
	}

	return fmt.Sprintf("%d-%s", s.Number, s.SubComponent)
}

// BeforeSave trims whitespace from all strings.
func (s *ServicesComponent) BeforeSave(_ *gorm.DB) error {
	s.SubComponent = strings.TrimSpace(s.SubComponent)
	s.Description = strings.TrimSpace(s.Description)

	return nil
}

func (s *ServicesComponent) BeforeCreate(tx *gorm.DB) error {
	_ = s.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*ServicesComponent)
	return s.checkIntegrity(tx, *toSave)
}

// BeforeUpdate verifies the state of the services component before
// committing an update to the database.
func (s *ServicesComponent) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(ServicesComponent)
	if tx.Statement.Changed("AgreementID") {
		return s.checkIntegrity(tx, toSave)
	}

	return nil
}

// BeforeDelete blocks deletion while budget lines still reference the
// component. The commit flow reassigns or deletes those lines first.
func (s *ServicesComponent) BeforeDelete(tx *gorm.DB) error {
	var count int64
	err := tx.Model(&BudgetLine{}).Where("services_component_id = ?", s.ID).Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return ErrServicesComponentStillReferred
	}

	return nil
}

// checkIntegrity verifies references to other resources.
func (s *ServicesComponent) checkIntegrity(tx *gorm.DB, toSave ServicesComponent) error {
	return tx.First(&Agreement{}, toSave.AgreementID).Error
}
