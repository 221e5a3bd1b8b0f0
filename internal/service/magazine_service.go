package service

import (
	"strings"
	"time"

	"github.com/magazine-next/internal/logger"
	"github.com/magazine-next/internal/models"
	"github.com/magazine-next/internal/queue"
	"github.com/magazine-next/internal/repository"

	"github.com/gosimple/slug"
)

// MagazineService manages magazines and their editions.
type MagazineService struct {
	magazineRepo repository.MagazineRepository
	editionRepo  repository.EditionRepository
	queueClient  *queue.Client
}

// NewMagazineService creates a magazine service.
func NewMagazineService(
	magazineRepo repository.MagazineRepository,
	editionRepo repository.EditionRepository,
	queueClient *queue.Client,
) *MagazineService {
	return &MagazineService{
		magazineRepo: magazineRepo,
		editionRepo:  editionRepo,
		queueClient:  queueClient,
	}
}

// CreateMagazine inserts a magazine, deriving the slug from the title when
// none is supplied.
func (s *MagazineService) CreateMagazine(magazine *models.Magazine) error {
	if strings.TrimSpace(magazine.Slug) == "" {
		magazine.Slug = slug.Make(magazine.Title)
	}
	exist, err := s.magazineRepo.GetBySlug(magazine.Slug)
	if err != nil {
		return err
	}
	if exist != nil {
		return ErrSlugTaken
	}
	return s.magazineRepo.Create(magazine)
}

// UpdateMagazine saves magazine edits.
func (s *MagazineService) UpdateMagazine(magazine *models.Magazine) error {
	return s.magazineRepo.Update(magazine)
}

// GetMagazine fetches a magazine by id.
func (s *MagazineService) GetMagazine(id uint) (*models.Magazine, error) {
	magazine, err := s.magazineRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if magazine == nil {
		return nil, ErrMagazineNotFound
	}
	return magazine, nil
}

// GetMagazineBySlug fetches a magazine by slug.
func (s *MagazineService) GetMagazineBySlug(sg string) (*models.Magazine, error) {
	magazine, err := s.magazineRepo.GetBySlug(sg)
	if err != nil {
		return nil, err
	}
	if magazine == nil {
		return nil, ErrMagazineNotFound
	}
	return magazine, nil
}

// ListMagazines returns magazines matching the filter.
func (s *MagazineService) ListMagazines(filter repository.MagazineListFilter) ([]models.Magazine, int64, error) {
	return s.magazineRepo.List(filter)
}

// DeleteMagazine removes a magazine.
func (s *MagazineService) DeleteMagazine(id uint) error {
	return s.magazineRepo.Delete(id)
}

// CreateEdition inserts an edition under a magazine.
func (s *MagazineService) CreateEdition(edition *models.MagazineEdition) error {
	magazine, err := s.magazineRepo.GetByID(edition.MagazineID)
	if err != nil {
		return err
	}
	if magazine == nil {
		return ErrMagazineNotFound
	}
	return s.editionRepo.Create(edition)
}

// UpdateEdition saves edition edits.
func (s *MagazineService) UpdateEdition(edition *models.MagazineEdition) error {
	return s.editionRepo.Update(edition)
}

// GetEdition fetches an edition by id.
func (s *MagazineService) GetEdition(id uint) (*models.MagazineEdition, error) {
	edition, err := s.editionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if edition == nil {
		return nil, ErrEditionNotFound
	}
	return edition, nil
}

// ListEditions returns editions matching the filter.
func (s *MagazineService) ListEditions(filter repository.EditionListFilter) ([]models.MagazineEdition, int64, error) {
	return s.editionRepo.List(filter)
}

// PublishEdition stamps the publish time and kicks off reconciliation so
// waiting dispatch slots pick the new edition up promptly.
func (s *MagazineService) PublishEdition(id uint) (*models.MagazineEdition, error) {
	edition, err := s.editionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if edition == nil {
		return nil, ErrEditionNotFound
	}
	if edition.PublishedAt == nil {
		now := time.Now()
		edition.PublishedAt = &now
		if err := s.editionRepo.Update(edition); err != nil {
			return nil, err
		}
	}

	if err := s.queueClient.EnqueueDispatchAssign(queue.DispatchAssignPayload{}); err != nil {
		logger.Warnw("dispatch_assign_enqueue_failed", "edition_id", id, "error", err)
	}
	return edition, nil
}

// DeleteEdition removes an edition.
func (s *MagazineService) DeleteEdition(id uint) error {
	return s.editionRepo.Delete(id)
}
