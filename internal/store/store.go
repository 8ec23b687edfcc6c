// Package store is the gorm-backed persistence boundary.
//
// It implements the write surface the commit orchestrator needs and the
// read operations the API serves, always working on the persistence
// models. Staging-only data (snapshots, pending changes, grouping labels)
// never reaches this package by construction, the working set keeps it in
// its own types.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/budget-line/backend/internal/diff"
	"github.com/budget-line/backend/internal/funding"
	"github.com/budget-line/backend/internal/models"
	"github.com/budget-line/backend/internal/portfolio"
	"github.com/budget-line/backend/internal/workingset"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store reads and writes the persistence models.
type Store struct {
	db *gorm.DB
}

// New returns a store over the database.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Session loads an agreement's persisted state into a fresh working set
// for the actor.
func (s *Store) Session(ctx context.Context, agreementID uuid.UUID, actor models.User) (*workingset.Session, error) {
	var agreement models.Agreement
	err := s.db.WithContext(ctx).Preload("ProcurementShop").First(&agreement, agreementID).Error
	if err != nil {
		return nil, err
	}

	lines, err := s.BudgetLines(ctx, agreementID)
	if err != nil {
		return nil, err
	}

	components, err := s.ServicesComponents(ctx, agreementID)
	if err != nil {
		return nil, err
	}

	return workingset.New(agreement, lines, components, actor), nil
}

// BudgetLines returns an agreement's budget lines.
func (s *Store) BudgetLines(ctx context.Context, agreementID uuid.UUID) ([]models.BudgetLine, error) {
	var lines []models.BudgetLine
	err := s.db.WithContext(ctx).Where(&models.BudgetLine{AgreementID: agreementID}).Find(&lines).Error

	return lines, err
}

// ServicesComponents returns an agreement's services components, ordered
// by their grouping label components.
func (s *Store) ServicesComponents(ctx context.Context, agreementID uuid.UUID) ([]models.ServicesComponent, error) {
	var components []models.ServicesComponent
	err := s.db.WithContext(ctx).
		Where(&models.ServicesComponent{AgreementID: agreementID}).
		Order("number ASC, sub_component ASC").
		Find(&components).Error

	return components, err
}

// ProcurementShop returns the procurement shop, e.g. to preview a what-if
// fee rate.
func (s *Store) ProcurementShop(ctx context.Context, id uuid.UUID) (models.ProcurementShop, error) {
	var shop models.ProcurementShop
	err := s.db.WithContext(ctx).First(&shop, id).Error

	return shop, err
}

// CANFundingSummaries returns the funding summaries for the CANs.
//
// CANs without a persisted summary are skipped. The figures are
// maintained upstream, this is strictly a read.
func (s *Store) CANFundingSummaries(ctx context.Context, canIDs []uuid.UUID) ([]models.CANFundingSummary, error) {
	var summaries []models.CANFundingSummary
	err := s.db.WithContext(ctx).Where("can_id IN ?", canIDs).Find(&summaries).Error

	return summaries, err
}

// Portfolios returns all portfolios with their division and their funding
// summary aggregated over the portfolio's CANs.
func (s *Store) Portfolios(ctx context.Context) ([]portfolio.Summary, error) {
	var portfolios []models.Portfolio
	err := s.db.WithContext(ctx).Preload("Division").Find(&portfolios).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]portfolio.Summary, 0, len(portfolios))
	for _, p := range portfolios {
		var cans []models.CAN
		err = s.db.WithContext(ctx).Where(&models.CAN{PortfolioID: p.ID}).Find(&cans).Error
		if err != nil {
			return nil, err
		}

		canIDs := make([]uuid.UUID, 0, len(cans))
		for _, can := range cans {
			canIDs = append(canIDs, can.ID)
		}

		var total models.FundingSummary
		if len(canIDs) > 0 {
			rows, err := s.CANFundingSummaries(ctx, canIDs)
			if err != nil {
				return nil, err
			}

			for _, row := range rows {
				total = total.Add(row.FundingSummary)
			}
		}

		summaries = append(summaries, portfolio.Summary{
			Portfolio: p,
			Division:  p.Division,
			Funding:   total,
		})
	}

	return summaries, nil
}

// CreateBudgetLine persists a new budget line.
func (s *Store) CreateBudgetLine(ctx context.Context, line models.BudgetLine) (models.BudgetLine, error) {
	err := s.db.WithContext(ctx).Create(&line).Error

	return line, err
}

// UpdateBudgetLine overwrites the budget line's editable fields.
func (s *Store) UpdateBudgetLine(ctx context.Context, id uuid.UUID, line models.BudgetLine) (models.BudgetLine, error) {
	var existing models.BudgetLine
	err := s.db.WithContext(ctx).First(&existing, id).Error
	if err != nil {
		return models.BudgetLine{}, err
	}

	err = s.db.WithContext(ctx).Model(&existing).Select(
		"ServicesComponentID", "CANID", "Comments", "Amount", "DateNeeded", "Status", "OBE", "Fees", "ProcShopFeeRate",
	).Updates(line).Error

	return existing, err
}

// DeleteBudgetLine deletes the budget line.
func (s *Store) DeleteBudgetLine(ctx context.Context, id uuid.UUID) error {
	var line models.BudgetLine
	err := s.db.WithContext(ctx).First(&line, id).Error
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Delete(&line).Error
}

// CreateServicesComponent persists a new services component.
func (s *Store) CreateServicesComponent(ctx context.Context, component models.ServicesComponent) (models.ServicesComponent, error) {
	err := s.db.WithContext(ctx).Create(&component).Error

	return component, err
}

// UpdateServicesComponent overwrites the component's editable fields.
func (s *Store) UpdateServicesComponent(ctx context.Context, id uuid.UUID, component models.ServicesComponent) (models.ServicesComponent, error) {
	var existing models.ServicesComponent
	err := s.db.WithContext(ctx).First(&existing, id).Error
	if err != nil {
		return models.ServicesComponent{}, err
	}

	err = s.db.WithContext(ctx).Model(&existing).Select(
		"Number", "SubComponent", "Description", "Optional",
	).Updates(component).Error

	return existing, err
}

// DeleteServicesComponent deletes the services component. Components that
// still have budget lines referencing them cannot be deleted.
func (s *Store) DeleteServicesComponent(ctx context.Context, id uuid.UUID) error {
	var component models.ServicesComponent
	err := s.db.WithContext(ctx).First(&component, id).Error
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Delete(&component).Error
}

// CreateChangeRequest persists a new change request in PENDING.
func (s *Store) CreateChangeRequest(ctx context.Context, request models.ChangeRequest) (models.ChangeRequest, error) {
	err := s.db.WithContext(ctx).Create(&request).Error

	return request, err
}

// ChangeRequests returns change requests, optionally filtered by status.
func (s *Store) ChangeRequests(ctx context.Context, status *models.ChangeRequestStatus) ([]models.ChangeRequest, error) {
	query := s.db.WithContext(ctx)
	if status != nil {
		query = query.Where(&models.ChangeRequest{Status: *status})
	}

	var requests []models.ChangeRequest
	err := query.Order("created_at ASC").Find(&requests).Error

	return requests, err
}

// ChangeRequest returns the change request with the ID.
func (s *Store) ChangeRequest(ctx context.Context, id uuid.UUID) (models.ChangeRequest, error) {
	var request models.ChangeRequest
	err := s.db.WithContext(ctx).First(&request, id).Error

	return request, err
}

// ReviewChangeRequest resolves a pending change request.
//
// Approving restores the status the requestor asked for, the requested
// values are already persisted on the line. Rejecting reverts the
// financial fields to their values before the request and restores the
// previous status, repricing fees at the line's snapshot rate. Both run
// in one transaction together with the request bookkeeping, and the
// requestor is notified of the outcome.
func (s *Store) ReviewChangeRequest(ctx context.Context, id uuid.UUID, action models.ReviewAction, notes string, reviewer models.User) (models.ChangeRequest, error) {
	if !action.Valid() {
		return models.ChangeRequest{}, models.ErrChangeRequestActionInvalid
	}

	var request models.ChangeRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, id).Error; err != nil {
			return err
		}

		if request.Status != models.ChangeRequestPending {
			return models.ErrChangeRequestAlreadyReviewed
		}

		var line models.BudgetLine
		if err := tx.First(&line, request.BudgetLineID).Error; err != nil {
			return err
		}

		changes, err := diff.Parse(request.RequestedChanges)
		if err != nil {
			return err
		}

		line.Status = request.PreviousStatus
		if action == models.ReviewReject {
			revert(&line, changes)
		}

		err = tx.Model(&models.BudgetLine{DefaultModel: line.DefaultModel}).Select(
			"CANID", "Amount", "DateNeeded", "Status", "Fees",
		).Updates(line).Error
		if err != nil {
			return err
		}

		now := time.Now().In(time.UTC)
		request.Status = models.ChangeRequestApproved
		if action == models.ReviewReject {
			request.Status = models.ChangeRequestRejected
		}
		request.ReviewerID = &reviewer.ID
		request.ReviewerNotes = notes
		request.ReviewedAt = &now

		if err := tx.Save(&request).Error; err != nil {
			return err
		}

		return tx.Create(&models.Notification{
			RecipientID: request.RequestorID,
			Title:       fmt.Sprintf("Budget line change %s", request.Status),
			Message:     request.Summary,
		}).Error
	})

	return request, err
}

// revert restores the financial fields a change set touched to their old
// values.
func revert(line *models.BudgetLine, changes diff.ChangeSet) {
	if changes.Amount != nil {
		line.Amount = changes.Amount.Old
		line.Fees = funding.Fee(line.Amount, line.ProcShopFeeRate)
	}

	if changes.DateNeeded != nil {
		line.DateNeeded = changes.DateNeeded.Old
	}

	if changes.CANID != nil {
		line.CANID = changes.CANID.Old
	}
}

// CreateNotification persists a notification.
func (s *Store) CreateNotification(ctx context.Context, notification models.Notification) error {
	return s.db.WithContext(ctx).Create(&notification).Error
}

// Notifications returns a recipient's notifications, newest first.
func (s *Store) Notifications(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	query := s.db.WithContext(ctx).Where(&models.Notification{RecipientID: recipientID})
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	err := query.Order("created_at DESC").Find(&notifications).Error

	return notifications, err
}

// DismissNotification marks the notification as read.
func (s *Store) DismissNotification(ctx context.Context, id uuid.UUID) (models.Notification, error) {
	var notification models.Notification
	err := s.db.WithContext(ctx).First(&notification, id).Error
	if err != nil {
		return models.Notification{}, err
	}

	err = s.db.WithContext(ctx).Model(&notification).Select("IsRead").Updates(models.Notification{IsRead: true}).Error

	return notification, err
}
