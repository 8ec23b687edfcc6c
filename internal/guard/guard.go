// Package guard blocks navigation away from an editing session with
// uncommitted changes.
//
// The guard does not track navigation itself. Callers ask Check before
// leaving the editing surface and, when blocked, present the returned
// prompt and feed the user's decision back through Resolve.
package guard

import (
	"context"

	"github.com/budget-line/backend/internal/commit"
	"github.com/budget-line/backend/internal/workingset"
)

// Decision is the user's answer to the unsaved-changes prompt.
//
// swagger:enum Decision
type Decision string

const (
	// DecisionSave commits the working set before leaving.
	DecisionSave Decision = "SAVE"
	// DecisionDiscard abandons the staged changes.
	DecisionDiscard Decision = "DISCARD"
	// DecisionCancel stays on the editing surface, nothing happens.
	DecisionCancel Decision = "CANCEL"
)

// Prompt describes the modal shown before leaving a dirty session.
type Prompt struct {
	Heading   string            `json:"heading"`
	SaveLabel string            `json:"saveLabel"`
	Queued    []workingset.Line `json:"-"` // Lines that will be routed to approval on save
}

// Guard watches one editing session.
type Guard struct {
	session      *workingset.Session
	orchestrator *commit.Orchestrator
}

// New returns a guard over the session, saving through the orchestrator.
func New(session *workingset.Session, orchestrator *commit.Orchestrator) *Guard {
	return &Guard{session: session, orchestrator: orchestrator}
}

// Armed reports whether the guard currently blocks navigation. It follows
// the session's dirty flag, so a commit or discard disarms it and any
// later staged edit arms it again.
func (g *Guard) Armed() bool {
	return g.session.Dirty()
}

// Check returns the prompt to show and whether navigation is blocked.
//
// The save label names what saving will do: plain saving, or sending the
// staged financial changes to approval.
func (g *Guard) Check() (Prompt, bool) {
	if !g.Armed() {
		return Prompt{}, false
	}

	queued := g.session.FinancialChanges()
	prompt := Prompt{
		Heading:   "You have unsaved changes",
		SaveLabel: "Save Changes",
		Queued:    queued,
	}
	if len(queued) > 0 {
		prompt.SaveLabel = "Send to Approval"
	}

	return prompt, true
}

// Resolve applies the user's decision.
//
// Saving commits the session without a second confirmation, the prompt
// already was one. A failed save keeps the guard armed so the user cannot
// navigate past a half-committed working set. Discarding drops the staged
// changes, cancelling leaves everything as it is.
func (g *Guard) Resolve(ctx context.Context, decision Decision) (commit.Result, error) {
	switch decision {
	case DecisionSave:
		return g.orchestrator.Commit(ctx, g.session, commit.Options{})
	case DecisionDiscard:
		g.session.Discard()
		return commit.Result{}, nil
	default:
		return commit.Result{}, nil
	}
}
