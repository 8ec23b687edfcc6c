package models

import "github.com/google/uuid"

// Division represents an organizational division.
//
// Each portfolio belongs to a division, and the division director reviews
// change requests for budget lines funded by the division's CANs.
type Division struct {
	DefaultModel
	Name         string     `json:"name" example:"Division of Family Strengthening"`
	Abbreviation string     `json:"abbreviation" example:"DFS"`
	DirectorID   *uuid.UUID `json:"directorId"` // The user reviewing change requests for this division
}
