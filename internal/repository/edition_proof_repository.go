package repository

import (
	"errors"

	"github.com/magazine-next/internal/models"

	"gorm.io/gorm"
)

// EditionProofRepository is the single-issue payment proof data access interface.
type EditionProofRepository interface {
	GetByID(id uint) (*models.EditionOrderProof, error)
	ListByOrderID(orderID uint) ([]models.EditionOrderProof, error)
	ListUnverified(page, pageSize int) ([]models.EditionOrderProof, int64, error)
	Create(proof *models.EditionOrderProof) error
	Update(proof *models.EditionOrderProof) error
	WithTx(tx *gorm.DB) *GormEditionProofRepository
}

// GormEditionProofRepository is the GORM implementation.
type GormEditionProofRepository struct {
	db *gorm.DB
}

// NewEditionProofRepository creates an edition proof repository.
func NewEditionProofRepository(db *gorm.DB) *GormEditionProofRepository {
	return &GormEditionProofRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormEditionProofRepository) WithTx(tx *gorm.DB) *GormEditionProofRepository {
	if tx == nil {
		return r
	}
	return &GormEditionProofRepository{db: tx}
}

// GetByID fetches a proof by id.
func (r *GormEditionProofRepository) GetByID(id uint) (*models.EditionOrderProof, error) {
	var proof models.EditionOrderProof
	if err := r.db.First(&proof, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &proof, nil
}

// ListByOrderID returns all proofs uploaded for an edition order.
func (r *GormEditionProofRepository) ListByOrderID(orderID uint) ([]models.EditionOrderProof, error) {
	var proofs []models.EditionOrderProof
	if err := r.db.Where("order_id = ?", orderID).Order("id desc").Find(&proofs).Error; err != nil {
		return nil, err
	}
	return proofs, nil
}

// ListUnverified returns proofs awaiting admin review, oldest first.
func (r *GormEditionProofRepository) ListUnverified(page, pageSize int) ([]models.EditionOrderProof, int64, error) {
	query := r.db.Model(&models.EditionOrderProof{}).Where("verified = ?", false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)

	var proofs []models.EditionOrderProof
	if err := query.Order("id asc").Find(&proofs).Error; err != nil {
		return nil, 0, err
	}
	return proofs, total, nil
}

// Create inserts a proof.
func (r *GormEditionProofRepository) Create(proof *models.EditionOrderProof) error {
	return r.db.Create(proof).Error
}

// Update saves a proof.
func (r *GormEditionProofRepository) Update(proof *models.EditionOrderProof) error {
	return r.db.Save(proof).Error
}
