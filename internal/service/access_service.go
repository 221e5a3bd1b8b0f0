package service

import (
	"time"

	"github.com/magazine-next/internal/models"
	"github.com/magazine-next/internal/repository"
)

// AccessService answers whether a user may read an edition.
type AccessService struct {
	editionRepo  repository.EditionRepository
	purchaseRepo repository.EditionPurchaseRepository
	subRepo      repository.SubscriptionRepository
}

// NewAccessService creates an access service.
func NewAccessService(
	editionRepo repository.EditionRepository,
	purchaseRepo repository.EditionPurchaseRepository,
	subRepo repository.SubscriptionRepository,
) *AccessService {
	return &AccessService{
		editionRepo:  editionRepo,
		purchaseRepo: purchaseRepo,
		subRepo:      subRepo,
	}
}

// CanAccess checks edition readability for a user. Admins always pass.
// Evaluated per request; subscription expiry takes effect in real time.
func (s *AccessService) CanAccess(userID uint, isAdmin bool, editionID uint) (*models.MagazineEdition, error) {
	edition, err := s.editionRepo.GetByID(editionID)
	if err != nil {
		return nil, err
	}
	if edition == nil {
		return nil, ErrEditionNotFound
	}

	if isAdmin {
		return edition, nil
	}

	purchased, err := s.purchaseRepo.Exists(userID, editionID)
	if err != nil {
		return nil, err
	}
	if purchased {
		return edition, nil
	}

	active, err := s.subRepo.HasActiveForMagazine(userID, edition.MagazineID, time.Now())
	if err != nil {
		return nil, err
	}
	if active {
		return edition, nil
	}

	return nil, ErrAccessDenied
}
