package service

import (
	"time"

	"github.com/magazine-next/internal/constants"
	"github.com/magazine-next/internal/logger"
	"github.com/magazine-next/internal/models"
	"github.com/magazine-next/internal/repository"

	"gorm.io/gorm"
)

// DispatchService generates and reconciles the dispatch calendar.
type DispatchService struct {
	dispatchRepo repository.DispatchRepository
	subRepo      repository.SubscriptionRepository
	editionRepo  repository.EditionRepository
}

// NewDispatchService creates a dispatch service.
func NewDispatchService(
	dispatchRepo repository.DispatchRepository,
	subRepo repository.SubscriptionRepository,
	editionRepo repository.EditionRepository,
) *DispatchService {
	return &DispatchService{
		dispatchRepo: dispatchRepo,
		subRepo:      subRepo,
		editionRepo:  editionRepo,
	}
}

// GenerateCalendar creates the subscription's dispatch rows inside the
// caller's transaction. One row per frequency step from StartsAt inclusive
// up to but excluding EndsAt. Editions already published at or before a slot
// are pre-resolved; the rest stay nil for reconciliation. Returns the row count.
func (s *DispatchService) GenerateCalendar(tx *gorm.DB, sub *models.UserSubscription, frequencyDays int) (int, error) {
	if sub.EndsAt == nil {
		return 0, nil
	}
	if frequencyDays <= 0 {
		frequencyDays = constants.DefaultDispatchFrequencyDays
	}

	editionRepo := s.editionRepo.WithTx(tx)

	var rows []models.DispatchSchedule
	for next := sub.StartsAt; next.Before(*sub.EndsAt); next = next.AddDate(0, 0, frequencyDays) {
		row := models.DispatchSchedule{
			SubscriptionID: sub.ID,
			ScheduledAt:    next,
			Status:         constants.DispatchStatusScheduled,
		}
		if sub.MagazineID != nil {
			edition, err := editionRepo.LatestPublishedAtOrBefore(*sub.MagazineID, next)
			if err != nil {
				return 0, err
			}
			if edition != nil {
				row.EditionID = &edition.ID
			}
		}
		rows = append(rows, row)
	}

	if err := s.dispatchRepo.WithTx(tx).CreateBatch(rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// AssignResult reports one reconciliation pass.
type AssignResult struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
}

// AssignEditions is the reconciliation pass: it walks up to limit rows still
// missing an edition, oldest due first, and fills in the latest edition
// published at or before each row's scheduled date. Only rows whose
// subscription names a magazine are candidates. Each write is an independent
// conditional update, so concurrent passes are safe and re-running is a
// no-op.
func (s *DispatchService) AssignEditions(limit int) (AssignResult, error) {
	result := AssignResult{}

	rows, err := s.dispatchRepo.ListUnassigned(limit)
	if err != nil {
		return result, err
	}
	result.Scanned = len(rows)

	for i := range rows {
		row := &rows[i]
		sub, err := s.subRepo.GetByID(row.SubscriptionID)
		if err != nil {
			return result, err
		}
		if sub == nil || sub.MagazineID == nil {
			continue
		}
		edition, err := s.editionRepo.LatestPublishedAtOrBefore(*sub.MagazineID, row.ScheduledAt)
		if err != nil {
			return result, err
		}
		if edition == nil {
			continue
		}
		updated, err := s.dispatchRepo.AssignEdition(row.ID, edition.ID)
		if err != nil {
			return result, err
		}
		if updated {
			result.Updated++
		}
	}

	if result.Updated > 0 {
		logger.Infow("dispatch_editions_assigned",
			"scanned", result.Scanned,
			"updated", result.Updated,
		)
	}
	return result, nil
}

// UpdateStatusParams carries the courier fields an operator can set.
type UpdateStatusParams struct {
	Status       string
	Courier      string
	TrackingCode string
	Notes        string
}

// UpdateStatus moves a dispatch row through its lifecycle, stamping
// dispatch and delivery times as the status advances.
func (s *DispatchService) UpdateStatus(id uint, params UpdateStatusParams) (*models.DispatchSchedule, error) {
	row, err := s.dispatchRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrDispatchNotFound
	}

	now := time.Now()
	switch params.Status {
	case constants.DispatchStatusDispatched:
		row.DispatchedAt = &now
	case constants.DispatchStatusDelivered:
		if row.DispatchedAt == nil {
			row.DispatchedAt = &now
		}
		row.DeliveredAt = &now
	}
	row.Status = params.Status
	if params.Courier != "" {
		row.Courier = params.Courier
	}
	if params.TrackingCode != "" {
		row.TrackingCode = params.TrackingCode
	}
	if params.Notes != "" {
		row.Notes = params.Notes
	}

	if err := s.dispatchRepo.Update(row); err != nil {
		return nil, err
	}
	return row, nil
}

// ListBySubscription returns a subscription's calendar.
func (s *DispatchService) ListBySubscription(subscriptionID uint) ([]models.DispatchSchedule, error) {
	return s.dispatchRepo.ListBySubscription(subscriptionID)
}

// List returns dispatch rows matching the filter.
func (s *DispatchService) List(filter repository.DispatchListFilter) ([]models.DispatchSchedule, int64, error) {
	return s.dispatchRepo.List(filter)
}

// Get fetches one dispatch row.
func (s *DispatchService) Get(id uint) (*models.DispatchSchedule, error) {
	row, err := s.dispatchRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrDispatchNotFound
	}
	return row, nil
}
