package repository

import (
	"errors"

	"github.com/magazine-next/internal/models"

	"gorm.io/gorm"
)

// ProofRepository is the subscription payment proof data access interface.
type ProofRepository interface {
	GetByID(id uint) (*models.PaymentProof, error)
	ListByOrderID(orderID uint) ([]models.PaymentProof, error)
	ListUnverified(page, pageSize int) ([]models.PaymentProof, int64, error)
	Create(proof *models.PaymentProof) error
	Update(proof *models.PaymentProof) error
	WithTx(tx *gorm.DB) *GormProofRepository
}

// GormProofRepository is the GORM implementation.
type GormProofRepository struct {
	db *gorm.DB
}

// NewProofRepository creates a proof repository.
func NewProofRepository(db *gorm.DB) *GormProofRepository {
	return &GormProofRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormProofRepository) WithTx(tx *gorm.DB) *GormProofRepository {
	if tx == nil {
		return r
	}
	return &GormProofRepository{db: tx}
}

// GetByID fetches a proof by id.
func (r *GormProofRepository) GetByID(id uint) (*models.PaymentProof, error) {
	var proof models.PaymentProof
	if err := r.db.First(&proof, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &proof, nil
}

// ListByOrderID returns all proofs uploaded for an order.
func (r *GormProofRepository) ListByOrderID(orderID uint) ([]models.PaymentProof, error) {
	var proofs []models.PaymentProof
	if err := r.db.Where("order_id = ?", orderID).Order("id desc").Find(&proofs).Error; err != nil {
		return nil, err
	}
	return proofs, nil
}

// ListUnverified returns proofs awaiting admin review, oldest first.
func (r *GormProofRepository) ListUnverified(page, pageSize int) ([]models.PaymentProof, int64, error) {
	query := r.db.Model(&models.PaymentProof{}).Where("verified = ?", false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)

	var proofs []models.PaymentProof
	if err := query.Order("id asc").Find(&proofs).Error; err != nil {
		return nil, 0, err
	}
	return proofs, total, nil
}

// Create inserts a proof.
func (r *GormProofRepository) Create(proof *models.PaymentProof) error {
	return r.db.Create(proof).Error
}

// Update saves a proof.
func (r *GormProofRepository) Update(proof *models.PaymentProof) error {
	return r.db.Save(proof).Error
}
