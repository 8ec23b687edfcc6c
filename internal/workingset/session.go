// Package workingset holds the staged budget line and services component
// edits for one editing session.
//
// A Session is an explicit value passed to the commit orchestrator and the
// unsaved-changes guard, there is no ambient editing state. All operations
// are synchronous and in-memory, the session never talks to the network.
package workingset

import (
	"fmt"

	"github.com/budget-line/backend/internal/approval"
	"github.com/budget-line/backend/internal/diff"
	"github.com/budget-line/backend/internal/funding"
	"github.com/budget-line/backend/internal/models"
	"github.com/budget-line/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is a staged budget line.
//
// ID is the budget line's persisted ID, or a locally generated temporary
// ID for lines that have not been committed yet. Snapshot and
// PendingChange are staging metadata, they are never sent to the API.
type Line struct {
	ID            uuid.UUID
	BudgetLine    models.BudgetLine
	Persisted     bool   // Does a persisted record exist for this line?
	Edited        bool   // Was the line modified since the session started?
	GroupLabel    string // Grouping label of the referenced services component, empty for ungrouped lines
	Snapshot      diff.Snapshot
	PendingChange diff.ChangeSet
}

// Component is a staged services component.
type Component struct {
	ID                uuid.UUID
	ServicesComponent models.ServicesComponent
	Persisted         bool
	Edited            bool
}

// Session is the working set for one agreement editing session.
type Session struct {
	agreementID uuid.UUID
	feeRate     decimal.Decimal
	actor       models.User

	lines             []Line
	components        []Component
	deletedLines      []Line
	deletedComponents []Component

	dirty bool
}

// New starts an editing session over the agreement's persisted state.
func New(agreement models.Agreement, lines []models.BudgetLine, components []models.ServicesComponent, actor models.User) *Session {
	s := &Session{
		agreementID: agreement.ID,
		feeRate:     agreement.ProcurementShop.FeePercentage,
		actor:       actor,
	}

	labels := make(map[uuid.UUID]string, len(components))
	for _, component := range components {
		labels[component.ID] = component.GroupingLabel()
		s.components = append(s.components, Component{
			ID:                component.ID,
			ServicesComponent: component,
			Persisted:         true,
		})
	}

	for _, line := range lines {
		label := ""
		if line.ServicesComponentID != nil {
			label = labels[*line.ServicesComponentID]
		}

		s.lines = append(s.lines, Line{
			ID:         line.ID,
			BudgetLine: line,
			Persisted:  true,
			GroupLabel: label,
			Snapshot:   snapshotOf(line),
		})
	}

	return s
}

func snapshotOf(line models.BudgetLine) diff.Snapshot {
	return diff.Snapshot{
		Amount:     line.Amount,
		DateNeeded: line.DateNeeded,
		CANID:      line.CANID,
	}
}

// AgreementID returns the agreement this session edits.
func (s *Session) AgreementID() uuid.UUID {
	return s.agreementID
}

// Actor returns the acting user.
func (s *Session) Actor() models.User {
	return s.actor
}

// FeeRate returns the procurement shop fee rate in percent.
func (s *Session) FeeRate() decimal.Decimal {
	return s.feeRate
}

// Dirty reports whether the session has uncommitted changes.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Lines returns the staged lines.
func (s *Session) Lines() []Line {
	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	return lines
}

// Components returns the staged services components.
func (s *Session) Components() []Component {
	components := make([]Component, len(s.components))
	copy(components, s.components)
	return components
}

// DeletedLines returns the persisted lines marked for deletion.
func (s *Session) DeletedLines() []Line {
	lines := make([]Line, len(s.deletedLines))
	copy(lines, s.deletedLines)
	return lines
}

// DeletedComponents returns the persisted components marked for deletion.
func (s *Session) DeletedComponents() []Component {
	components := make([]Component, len(s.deletedComponents))
	copy(components, s.deletedComponents)
	return components
}

// Line returns the staged line with the ID.
func (s *Session) Line(id uuid.UUID) (Line, error) {
	for _, line := range s.lines {
		if line.ID == id {
			return line, nil
		}
	}

	return Line{}, fmt.Errorf("%w budget line in this session", models.ErrResourceNotFound)
}

// Component returns the staged component with the ID.
func (s *Session) Component(id uuid.UUID) (Component, error) {
	for _, component := range s.components {
		if component.ID == id {
			return component, nil
		}
	}

	return Component{}, fmt.Errorf("%w services component in this session", models.ErrResourceNotFound)
}

// LineDraft holds the values a user enters for a new budget line.
type LineDraft struct {
	Comments   string
	Amount     decimal.Decimal
	DateNeeded types.Date
	CANID      *uuid.UUID
	GroupLabel string
}

// AddLine stages a new budget line in DRAFT status.
//
// The line gets a temporary ID and its fees are priced at the current
// procurement shop rate.
func (s *Session) AddLine(draft LineDraft) (Line, error) {
	if draft.Amount.IsNegative() {
		return Line{}, models.ErrBudgetLineAmountNegative
	}

	line := Line{
		ID:         uuid.New(),
		GroupLabel: draft.GroupLabel,
		BudgetLine: models.BudgetLine{
			AgreementID:     s.agreementID,
			CANID:           draft.CANID,
			Comments:        draft.Comments,
			Amount:          draft.Amount,
			DateNeeded:      draft.DateNeeded,
			Status:          models.StatusDraft,
			Fees:            funding.Fee(draft.Amount, s.feeRate),
			ProcShopFeeRate: s.feeRate,
		},
	}

	s.lines = append(s.lines, line)
	s.dirty = true

	return line, nil
}

// LinePatch holds the fields of a staged line edit. Nil fields are left
// unchanged. ClearCAN removes the funding source reference.
type LinePatch struct {
	Comments   *string
	Amount     *decimal.Decimal
	DateNeeded *types.Date
	CANID      *uuid.UUID
	ClearCAN   bool
	GroupLabel *string
	Status     *models.BudgetLineStatus
}

// EditLine merges the patch into the staged line.
//
// For persisted lines the financial diff against the snapshot is
// recomputed and stored as the pending change, a patch reverting all
// financial fields clears it again. A financial edit that the approval
// gate rejects for the line's status is not staged at all.
func (s *Session) EditLine(id uuid.UUID, patch LinePatch) (Line, error) {
	idx := -1
	for i := range s.lines {
		if s.lines[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Line{}, fmt.Errorf("%w budget line in this session", models.ErrResourceNotFound)
	}

	line := s.lines[idx]
	if patch.Amount != nil && patch.Amount.IsNegative() {
		return Line{}, models.ErrBudgetLineAmountNegative
	}

	if patch.Comments != nil {
		line.BudgetLine.Comments = *patch.Comments
	}

	if patch.Amount != nil {
		line.BudgetLine.Amount = *patch.Amount
		line.BudgetLine.Fees = funding.Fee(*patch.Amount, s.rateFor(line))
		line.BudgetLine.ProcShopFeeRate = s.rateFor(line)
	}

	if patch.DateNeeded != nil {
		line.BudgetLine.DateNeeded = *patch.DateNeeded
	}

	if patch.ClearCAN {
		line.BudgetLine.CANID = nil
	} else if patch.CANID != nil {
		canID := *patch.CANID
		line.BudgetLine.CANID = &canID
	}

	if patch.GroupLabel != nil {
		line.GroupLabel = *patch.GroupLabel
	}

	if patch.Status != nil {
		if !patch.Status.Valid() {
			return Line{}, models.ErrBudgetLineStatusInvalid
		}
		line.BudgetLine.Status = *patch.Status
	}

	line.PendingChange = diff.ChangeSet{}
	if line.Persisted {
		set := diff.Detect(snapshotOf(line.BudgetLine), line.Snapshot)

		// A financial change the gate rejects is a validation error and
		// must not be staged.
		outcome := approval.Evaluate(s.lines[idx].BudgetLine.Status, line.BudgetLine.OBE, !set.Empty(), s.actor.Privileged)
		if outcome == approval.OutcomeRejected {
			return Line{}, approval.Err(s.lines[idx].BudgetLine.Status)
		}

		if s.lines[idx].BudgetLine.Status == models.StatusPlanned || s.lines[idx].BudgetLine.Status == models.StatusExecuting {
			line.PendingChange = set
		}
	}

	line.Edited = true
	s.lines[idx] = line
	s.dirty = true

	return line, nil
}

func (s *Session) rateFor(line Line) decimal.Decimal {
	if line.BudgetLine.ProcShopFeeRate.IsZero() {
		return s.feeRate
	}

	return line.BudgetLine.ProcShopFeeRate
}

// DuplicateLine stages a copy of the line with a new temporary ID.
//
// Identity and audit fields are not copied, the copy starts over in DRAFT
// with no pending change.
func (s *Session) DuplicateLine(id uuid.UUID) (Line, error) {
	source, err := s.Line(id)
	if err != nil {
		return Line{}, err
	}

	copied := models.BudgetLine{
		AgreementID:         source.BudgetLine.AgreementID,
		ServicesComponentID: source.BudgetLine.ServicesComponentID,
		CANID:               source.BudgetLine.CANID,
		Comments:            source.BudgetLine.Comments,
		Amount:              source.BudgetLine.Amount,
		DateNeeded:          source.BudgetLine.DateNeeded,
		Status:              models.StatusDraft,
		Fees:                funding.Fee(source.BudgetLine.Amount, s.feeRate),
		ProcShopFeeRate:     s.feeRate,
	}

	line := Line{
		ID:         uuid.New(),
		BudgetLine: copied,
		GroupLabel: source.GroupLabel,
	}

	s.lines = append(s.lines, line)
	s.dirty = true

	return line, nil
}

// DeleteLine stages the deletion of a line.
//
// Persisted lines move to the pending-deletion list so the commit issues a
// DELETE, lines that were never persisted are dropped.
func (s *Session) DeleteLine(id uuid.UUID) error {
	for i, line := range s.lines {
		if line.ID != id {
			continue
		}

		if line.BudgetLine.Status == models.StatusInReview {
			return models.ErrBudgetLineInReview
		}

		s.lines = append(s.lines[:i], s.lines[i+1:]...)
		if line.Persisted {
			s.deletedLines = append(s.deletedLines, line)
		}
		s.dirty = true

		return nil
	}

	return fmt.Errorf("%w budget line in this session", models.ErrResourceNotFound)
}

// ComponentDraft holds the values a user enters for a new services
// component.
type ComponentDraft struct {
	Number       int
	SubComponent string
	Description  string
	Optional     bool
}

// AddComponent stages a new services component.
//
// Grouping labels must be unique within the agreement, including the
// components already staged in this session.
func (s *Session) AddComponent(draft ComponentDraft) (Component, error) {
	component := Component{
		ID: uuid.New(),
		ServicesComponent: models.ServicesComponent{
			AgreementID:  s.agreementID,
			Number:       draft.Number,
			SubComponent: draft.SubComponent,
			Description:  draft.Description,
			Optional:     draft.Optional,
		},
	}

	if s.labelTaken(component.ServicesComponent.GroupingLabel(), uuid.Nil) {
		return Component{}, models.ErrServicesComponentNotUnique
	}

	s.components = append(s.components, component)
	s.dirty = true

	return component, nil
}

// ComponentPatch holds the fields of a staged component edit. Nil fields
// are left unchanged.
type ComponentPatch struct {
	Number       *int
	SubComponent *string
	Description  *string
	Optional     *bool
}

// EditComponent merges the patch into the staged component.
func (s *Session) EditComponent(id uuid.UUID, patch ComponentPatch) (Component, error) {
	idx := -1
	for i := range s.components {
		if s.components[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Component{}, fmt.Errorf("%w services component in this session", models.ErrResourceNotFound)
	}

	component := s.components[idx]
	oldLabel := component.ServicesComponent.GroupingLabel()

	if patch.Number != nil {
		component.ServicesComponent.Number = *patch.Number
	}

	if patch.SubComponent != nil {
		component.ServicesComponent.SubComponent = *patch.SubComponent
	}

	if patch.Description != nil {
		component.ServicesComponent.Description = *patch.Description
	}

	if patch.Optional != nil {
		component.ServicesComponent.Optional = *patch.Optional
	}

	newLabel := component.ServicesComponent.GroupingLabel()
	if newLabel != oldLabel && s.labelTaken(newLabel, id) {
		return Component{}, models.ErrServicesComponentNotUnique
	}

	component.Edited = true
	s.components[idx] = component
	s.dirty = true

	// Lines referencing the component by label follow the rename.
	if newLabel != oldLabel {
		for i := range s.lines {
			if s.lines[i].GroupLabel == oldLabel {
				s.lines[i].GroupLabel = newLabel
			}
		}
	}

	return component, nil
}

func (s *Session) labelTaken(label string, exclude uuid.UUID) bool {
	for _, component := range s.components {
		if component.ID != exclude && component.ServicesComponent.GroupingLabel() == label {
			return true
		}
	}

	return false
}

// DeleteComponent stages the deletion of a services component.
//
// Lines keep their grouping label, a label whose component no longer
// exists at commit time resolves to no component.
func (s *Session) DeleteComponent(id uuid.UUID) error {
	for i, component := range s.components {
		if component.ID != id {
			continue
		}

		s.components = append(s.components[:i], s.components[i+1:]...)
		if component.Persisted {
			s.deletedComponents = append(s.deletedComponents, component)
		}
		s.dirty = true

		return nil
	}

	return fmt.Errorf("%w services component in this session", models.ErrResourceNotFound)
}

// Totals aggregates the staged lines. The fee rate semantics match
// funding.ComputeTotals.
func (s *Session) Totals(feeRatePercent *decimal.Decimal, includeDrafts bool) funding.Totals {
	lines := make([]models.BudgetLine, 0, len(s.lines))
	for _, line := range s.lines {
		lines = append(lines, line.BudgetLine)
	}

	return funding.ComputeTotals(lines, feeRatePercent, includeDrafts)
}

// FinancialChanges returns the staged lines whose pending change is
// non-empty.
func (s *Session) FinancialChanges() []Line {
	var changed []Line
	for _, line := range s.lines {
		if !line.PendingChange.Empty() {
			changed = append(changed, line)
		}
	}

	return changed
}

// Discard abandons all staged changes and clears the dirty flag.
func (s *Session) Discard() {
	s.lines = nil
	s.components = nil
	s.deletedLines = nil
	s.deletedComponents = nil
	s.dirty = false
}

// Reset clears the session after a successful commit.
func (s *Session) Reset() {
	s.Discard()
}
