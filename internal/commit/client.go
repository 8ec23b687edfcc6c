package commit

import (
	"context"

	"github.com/budget-line/backend/internal/models"
	"github.com/google/uuid"
)

// Client is the persistence surface the orchestrator commits against.
//
// Implementations persist one resource per call. The orchestrator owns
// ordering and failure aggregation, the client owns nothing but the single
// operation.
type Client interface {
	CreateServicesComponent(ctx context.Context, component models.ServicesComponent) (models.ServicesComponent, error)
	UpdateServicesComponent(ctx context.Context, id uuid.UUID, component models.ServicesComponent) (models.ServicesComponent, error)
	DeleteServicesComponent(ctx context.Context, id uuid.UUID) error

	CreateBudgetLine(ctx context.Context, line models.BudgetLine) (models.BudgetLine, error)
	UpdateBudgetLine(ctx context.Context, id uuid.UUID, line models.BudgetLine) (models.BudgetLine, error)
	DeleteBudgetLine(ctx context.Context, id uuid.UUID) error

	CreateChangeRequest(ctx context.Context, request models.ChangeRequest) (models.ChangeRequest, error)
	CreateNotification(ctx context.Context, notification models.Notification) error
}
