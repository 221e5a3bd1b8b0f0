package service

import (
	"time"

	"github.com/magazine-next/internal/constants"
	"github.com/magazine-next/internal/logger"
	"github.com/magazine-next/internal/models"
	"github.com/magazine-next/internal/repository"
)

// SubscriptionService exposes subscription queries and lifecycle edits.
// Creation is owned by the verification path, never by this service.
type SubscriptionService struct {
	subRepo      repository.SubscriptionRepository
	dispatchRepo repository.DispatchRepository
	purchaseRepo repository.EditionPurchaseRepository
}

// NewSubscriptionService creates a subscription service.
func NewSubscriptionService(
	subRepo repository.SubscriptionRepository,
	dispatchRepo repository.DispatchRepository,
	purchaseRepo repository.EditionPurchaseRepository,
) *SubscriptionService {
	return &SubscriptionService{
		subRepo:      subRepo,
		dispatchRepo: dispatchRepo,
		purchaseRepo: purchaseRepo,
	}
}

// ListForUser returns the caller's subscriptions.
func (s *SubscriptionService) ListForUser(userID uint, page, pageSize int) ([]models.UserSubscription, int64, error) {
	return s.subRepo.List(repository.SubscriptionListFilter{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetForUser fetches a subscription, enforcing ownership.
func (s *SubscriptionService) GetForUser(id, userID uint) (*models.UserSubscription, error) {
	sub, err := s.subRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrForbidden
	}
	if sub.UserID != userID {
		return nil, ErrForbidden
	}
	return sub, nil
}

// Cancel turns off auto renewal and marks the subscription CANCELLED.
// Access continues until the paid window closes.
func (s *SubscriptionService) Cancel(id, userID uint) (*models.UserSubscription, error) {
	sub, err := s.GetForUser(id, userID)
	if err != nil {
		return nil, err
	}
	sub.Status = constants.SubscriptionStatusCancelled
	sub.AutoRenew = false
	if err := s.subRepo.Update(sub); err != nil {
		return nil, err
	}
	logger.Infow("subscription_cancelled", "subscription_id", id, "user_id", userID)
	return sub, nil
}

// DispatchesForUser returns a subscription's calendar, enforcing ownership.
func (s *SubscriptionService) DispatchesForUser(id, userID uint) ([]models.DispatchSchedule, error) {
	if _, err := s.GetForUser(id, userID); err != nil {
		return nil, err
	}
	return s.dispatchRepo.ListBySubscription(id)
}

// LibraryOverview bundles everything a reader can open: editions bought
// outright plus the magazines covered by active subscriptions.
type LibraryOverview struct {
	Purchases     []models.EditionPurchase  `json:"purchases"`
	Subscriptions []models.UserSubscription `json:"subscriptions"`
}

// Library returns the caller's library overview.
func (s *SubscriptionService) Library(userID uint) (*LibraryOverview, error) {
	purchases, err := s.purchaseRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}
	subs, _, err := s.subRepo.List(repository.SubscriptionListFilter{
		UserID: userID,
		Status: constants.SubscriptionStatusActive,
	})
	if err != nil {
		return nil, err
	}
	return &LibraryOverview{Purchases: purchases, Subscriptions: subs}, nil
}

// List returns subscriptions matching the filter.
func (s *SubscriptionService) List(filter repository.SubscriptionListFilter) ([]models.UserSubscription, int64, error) {
	return s.subRepo.List(filter)
}

// ExpireEnded sweeps ACTIVE subscriptions whose window has closed.
func (s *SubscriptionService) ExpireEnded() (int64, error) {
	return s.subRepo.ExpireEnded(time.Now())
}
