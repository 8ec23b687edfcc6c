// Package diff detects financial changes on staged budget lines.
//
// A financial change is an edit to a budget line's amount, date needed or
// CAN relative to its last persisted values. Only these three fields are
// ever part of a ChangeSet, everything else on a budget line is cosmetic
// as far as approval routing is concerned.
package diff

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/budget-line/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FieldChange holds the old and new value of a single changed field.
type FieldChange[T any] struct {
	Old T `json:"old"`
	New T `json:"new"`
}

// Snapshot holds the financial-critical fields of a budget line as they
// were last persisted.
type Snapshot struct {
	Amount     decimal.Decimal `json:"amount"`
	DateNeeded types.Date      `json:"dateNeeded"`
	CANID      *uuid.UUID      `json:"canId"`
}

// ChangeSet is the typed diff between staged and persisted financial
// fields. A field is present exactly when its staged value differs from
// the snapshot, a field edited back to its snapshot value is absent.
type ChangeSet struct {
	Amount     *FieldChange[decimal.Decimal] `json:"amount,omitempty"`
	DateNeeded *FieldChange[types.Date]      `json:"dateNeeded,omitempty"`
	CANID      *FieldChange[*uuid.UUID]      `json:"canId,omitempty"`
}

// Detect compares staged financial fields against the snapshot.
//
// Dates are compared on the normalized calendar day, CANs by referenced
// ID. Amounts compare by value, not representation, so "10" and "10.00"
// are equal.
func Detect(staged, snapshot Snapshot) ChangeSet {
	var set ChangeSet

	if !staged.Amount.Equal(snapshot.Amount) {
		set.Amount = &FieldChange[decimal.Decimal]{Old: snapshot.Amount, New: staged.Amount}
	}

	if !staged.DateNeeded.Equal(snapshot.DateNeeded) {
		set.DateNeeded = &FieldChange[types.Date]{Old: snapshot.DateNeeded, New: staged.DateNeeded}
	}

	if !sameCAN(staged.CANID, snapshot.CANID) {
		set.CANID = &FieldChange[*uuid.UUID]{Old: snapshot.CANID, New: staged.CANID}
	}

	return set
}

func sameCAN(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}

// Empty reports whether no financial field changed.
func (c ChangeSet) Empty() bool {
	return c.Amount == nil && c.DateNeeded == nil && c.CANID == nil
}

// Summary renders one "field: old → new" line per changed field for
// notification messages.
func (c ChangeSet) Summary() []string {
	var lines []string

	if c.Amount != nil {
		lines = append(lines, fmt.Sprintf("amount: %s → %s", c.Amount.Old, c.Amount.New))
	}

	if c.DateNeeded != nil {
		lines = append(lines, fmt.Sprintf("date needed: %s → %s", formatDate(c.DateNeeded.Old), formatDate(c.DateNeeded.New)))
	}

	if c.CANID != nil {
		lines = append(lines, fmt.Sprintf("CAN: %s → %s", formatCAN(c.CANID.Old), formatCAN(c.CANID.New)))
	}

	return lines
}

func formatDate(d types.Date) string {
	if d.IsZero() {
		return "none"
	}

	return d.String()
}

func formatCAN(id *uuid.UUID) string {
	if id == nil {
		return "none"
	}

	return id.String()
}

// Serialize returns the JSON representation persisted on a change request.
func (c ChangeSet) Serialize() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// Parse reads a serialized ChangeSet back from a change request.
func Parse(s string) (ChangeSet, error) {
	var set ChangeSet

	err := json.Unmarshal([]byte(strings.TrimSpace(s)), &set)
	if err != nil {
		return ChangeSet{}, err
	}

	return set, nil
}
