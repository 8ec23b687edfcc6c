package models

// User represents an acting user.
//
// Authentication happens outside of the backend, the session layer injects
// the acting user's ID with every request. Privileged users (budget team
// super-users) bypass the approval gate for financial changes.
type User struct {
	DefaultModel
	Name       string `json:"name" example:"Erika Mustermann"`
	Email      string `json:"email" example:"erika.mustermann@example.com"`
	Privileged bool   `json:"privileged" example:"false"` // Can this user apply financial changes without review?
}
