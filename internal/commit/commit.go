// Package commit persists a working set.
//
// A commit runs in ordered stages: services components are created and
// updated first, then budget lines are created, then existing budget lines
// are updated with approval routing applied, and deletions run last. All
// operations within a stage run in parallel and are joined before the next
// stage starts. There is no mid-commit cancellation and no rollback,
// partial commits are accepted and reported as a failed batch.
package commit

import (
	"context"
	"errors"
	"strings"

	"github.com/budget-line/backend/internal/approval"
	"github.com/budget-line/backend/internal/models"
	"github.com/budget-line/backend/internal/workingset"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrBatchFailed is returned when at least one operation of a commit
	// failed. Operations that already succeeded are not rolled back.
	ErrBatchFailed = errors.New("at least one operation failed, the working set was not fully committed")

	// ErrConfirmationDeclined is returned when the actor declined to send
	// financial changes to approval. Nothing is persisted.
	ErrConfirmationDeclined = errors.New("sending the financial changes to approval was not confirmed")
)

// Operation identifies the kind of a single commit operation.
//
// swagger:enum Operation
type Operation string

const (
	OpCreateServicesComponent Operation = "CREATE_SERVICES_COMPONENT"
	OpUpdateServicesComponent Operation = "UPDATE_SERVICES_COMPONENT"
	OpDeleteServicesComponent Operation = "DELETE_SERVICES_COMPONENT"
	OpCreateBudgetLine        Operation = "CREATE_BUDGET_LINE"
	OpUpdateBudgetLine        Operation = "UPDATE_BUDGET_LINE"
	OpDeleteBudgetLine        Operation = "DELETE_BUDGET_LINE"
)

// ItemResult is the outcome of one operation within a commit.
type ItemResult struct {
	Operation      Operation `json:"operation"`
	ID             uuid.UUID `json:"id"`             // Session ID of the affected item
	SentToApproval bool      `json:"sentToApproval"` // Was the line routed to a change request?
	Error          *string   `json:"error"`          // The error, if the operation failed
}

func (r ItemResult) failed() bool {
	return r.Error != nil
}

// Result is the aggregated outcome of a commit.
type Result struct {
	Items          []ItemResult `json:"items"`
	SentToApproval bool         `json:"sentToApproval"` // Was any line routed to approval?
	Message        string       `json:"message"`        // The session summary notification message
}

// Options control a single commit.
type Options struct {
	// Confirm is asked before queued financial changes are sent to
	// approval. A nil Confirm counts as already confirmed, e.g. when the
	// unsaved-changes guard modal served as the confirmation.
	Confirm func(queued []workingset.Line) bool
}

// Orchestrator sequences the operations that persist a working set.
type Orchestrator struct {
	client Client
}

// New returns an orchestrator committing through the client.
func New(client Client) *Orchestrator {
	return &Orchestrator{client: client}
}

// Commit persists the session.
//
// On full success the session is reset, its dirty flag cleared and a
// session summary notification is created for the actor. On any failure
// the session is left dirty so the user can retry, and ErrBatchFailed is
// returned alongside the per-item results.
func (o *Orchestrator) Commit(ctx context.Context, session *workingset.Session, opts Options) (Result, error) {
	var result Result

	var newComponents, editedComponents []workingset.Component
	for _, component := range session.Components() {
		switch {
		case !component.Persisted:
			newComponents = append(newComponents, component)
		case component.Edited:
			editedComponents = append(editedComponents, component)
		}
	}

	var newLines, directLines, queuedLines []workingset.Line
	for _, line := range session.Lines() {
		if !line.Persisted {
			newLines = append(newLines, line)
			continue
		}

		if !line.Edited {
			continue
		}

		outcome := approval.Evaluate(line.BudgetLine.Status, line.BudgetLine.OBE, !line.PendingChange.Empty(), session.Actor().Privileged)
		switch outcome {
		case approval.OutcomeDirect:
			directLines = append(directLines, line)
		case approval.OutcomeQueued:
			queuedLines = append(queuedLines, line)
		case approval.OutcomeRejected:
			// EditLine refuses to stage these, a rejected line here means
			// the session was built from an inconsistent payload.
			e := approval.Err(line.BudgetLine.Status).Error()
			result.Items = append(result.Items, ItemResult{Operation: OpUpdateBudgetLine, ID: line.ID, Error: &e})
		}
	}

	if len(result.Items) > 0 {
		return result, ErrBatchFailed
	}

	if len(queuedLines) > 0 && opts.Confirm != nil {
		if !opts.Confirm(queuedLines) {
			return Result{}, ErrConfirmationDeclined
		}
	}

	// Stage 1: create new services components. Their assigned IDs are
	// needed to resolve grouping labels for the budget line stages.
	created := make([]models.ServicesComponent, len(newComponents))
	items := o.runStage(ctx, len(newComponents), func(ctx context.Context, i int) ItemResult {
		component, err := o.client.CreateServicesComponent(ctx, newComponents[i].ServicesComponent)
		created[i] = component
		return itemResult(OpCreateServicesComponent, newComponents[i].ID, err)
	})
	result.Items = append(result.Items, items...)

	// Stage 2: update changed existing services components.
	items = o.runStage(ctx, len(editedComponents), func(ctx context.Context, i int) ItemResult {
		component := editedComponents[i]
		_, err := o.client.UpdateServicesComponent(ctx, component.ID, component.ServicesComponent)
		return itemResult(OpUpdateServicesComponent, component.ID, err)
	})
	result.Items = append(result.Items, items...)

	if failed(result.Items) {
		return result, ErrBatchFailed
	}

	// Resolve grouping labels against the now-complete component set. A
	// label matching no component resolves to no component.
	labels := make(map[string]uuid.UUID)
	for _, component := range session.Components() {
		if component.Persisted {
			labels[component.ServicesComponent.GroupingLabel()] = component.ID
		}
	}
	for _, component := range created {
		labels[component.GroupingLabel()] = component.ID
	}

	resolve := func(line workingset.Line) models.BudgetLine {
		resolved := line.BudgetLine
		resolved.ServicesComponentID = nil
		if id, ok := labels[line.GroupLabel]; ok && line.GroupLabel != "" {
			resolved.ServicesComponentID = &id
		}
		return resolved
	}

	// Stage 3: create all new budget lines, status unchanged from staging.
	items = o.runStage(ctx, len(newLines), func(ctx context.Context, i int) ItemResult {
		_, err := o.client.CreateBudgetLine(ctx, resolve(newLines[i]))
		return itemResult(OpCreateBudgetLine, newLines[i].ID, err)
	})
	result.Items = append(result.Items, items...)

	// Stage 4: update existing budget lines, split by gate outcome.
	items = o.runStage(ctx, len(directLines), func(ctx context.Context, i int) ItemResult {
		line := directLines[i]
		_, err := o.client.UpdateBudgetLine(ctx, line.ID, resolve(line))
		return itemResult(OpUpdateBudgetLine, line.ID, err)
	})
	result.Items = append(result.Items, items...)

	items = o.runStage(ctx, len(queuedLines), func(ctx context.Context, i int) ItemResult {
		item := o.queueLine(ctx, session, queuedLines[i], resolve)
		return item
	})
	result.Items = append(result.Items, items...)

	if failed(result.Items) {
		return result, ErrBatchFailed
	}

	// Stage 5: deletions run last. Budget lines go before services
	// components so a component is never deleted while lines still
	// reference it.
	deletedLines := session.DeletedLines()
	items = o.runStage(ctx, len(deletedLines), func(ctx context.Context, i int) ItemResult {
		err := o.client.DeleteBudgetLine(ctx, deletedLines[i].ID)
		return itemResult(OpDeleteBudgetLine, deletedLines[i].ID, err)
	})
	result.Items = append(result.Items, items...)

	if failed(result.Items) {
		return result, ErrBatchFailed
	}

	deletedComponents := session.DeletedComponents()
	items = o.runStage(ctx, len(deletedComponents), func(ctx context.Context, i int) ItemResult {
		err := o.client.DeleteServicesComponent(ctx, deletedComponents[i].ID)
		return itemResult(OpDeleteServicesComponent, deletedComponents[i].ID, err)
	})
	result.Items = append(result.Items, items...)

	if failed(result.Items) {
		return result, ErrBatchFailed
	}

	result.SentToApproval = len(queuedLines) > 0
	result.Message = summaryMessage(queuedLines)

	err := o.client.CreateNotification(ctx, models.Notification{
		RecipientID: session.Actor().ID,
		Title:       summaryTitle(queuedLines),
		Message:     result.Message,
	})
	if err != nil {
		// The working set is fully persisted at this point, a failed
		// notification does not fail the commit.
		log.Warn().Err(err).Msg("session summary notification could not be created")
	}

	session.Reset()

	return result, nil
}

// queueLine persists a financial edit and routes it to approval: the line
// transitions to IN_REVIEW and a change request is created for the
// division director.
func (o *Orchestrator) queueLine(ctx context.Context, session *workingset.Session, line workingset.Line, resolve func(workingset.Line) models.BudgetLine) ItemResult {
	previousStatus := line.BudgetLine.Status

	update := resolve(line)
	update.Status = models.StatusInReview

	_, err := o.client.UpdateBudgetLine(ctx, line.ID, update)
	if err != nil {
		return itemResult(OpUpdateBudgetLine, line.ID, err)
	}

	changes, err := line.PendingChange.Serialize()
	if err != nil {
		return itemResult(OpUpdateBudgetLine, line.ID, err)
	}

	_, err = o.client.CreateChangeRequest(ctx, models.ChangeRequest{
		BudgetLineID:     line.ID,
		RequestorID:      session.Actor().ID,
		RequestedChanges: changes,
		Summary:          strings.Join(line.PendingChange.Summary(), "\n"),
		PreviousStatus:   previousStatus,
	})
	if err != nil {
		return itemResult(OpUpdateBudgetLine, line.ID, err)
	}

	item := itemResult(OpUpdateBudgetLine, line.ID, nil)
	item.SentToApproval = true
	return item
}

// runStage executes all operations of one stage in parallel and joins
// them. Operations never cancel each other, an error is only visible in
// the per-item results.
func (o *Orchestrator) runStage(ctx context.Context, count int, fn func(ctx context.Context, i int) ItemResult) []ItemResult {
	if count == 0 {
		return nil
	}

	results := make([]ItemResult, count)
	g := new(errgroup.Group)

	for i := 0; i < count; i++ {
		i := i
		g.Go(func() error {
			results[i] = fn(ctx, i)
			return nil
		})
	}

	// Errors are collected per item, Wait only joins the stage.
	_ = g.Wait()

	return results
}

func itemResult(op Operation, id uuid.UUID, err error) ItemResult {
	item := ItemResult{Operation: op, ID: id}
	if err != nil {
		e := err.Error()
		item.Error = &e
	}

	return item
}

func failed(items []ItemResult) bool {
	for _, item := range items {
		if item.failed() {
			return true
		}
	}

	return false
}

func summaryTitle(queued []workingset.Line) string {
	if len(queued) > 0 {
		return "Changes sent to approval"
	}

	return "Budget lines updated"
}

func summaryMessage(queued []workingset.Line) string {
	if len(queued) == 0 {
		return "Your budget line changes have been saved."
	}

	var b strings.Builder
	b.WriteString("Your changes were sent to the division director for approval:")
	for _, line := range queued {
		for _, change := range line.PendingChange.Summary() {
			b.WriteString("\n")
			b.WriteString(change)
		}
	}

	return b.String()
}
