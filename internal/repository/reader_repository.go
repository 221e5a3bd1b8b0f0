package repository

import (
	"errors"

	"github.com/magazine-next/internal/models"

	"gorm.io/gorm"
)

// ReaderRepository is the reader profile data access interface.
type ReaderRepository interface {
	GetByID(id uint) (*models.Reader, error)
	ListByUserID(userID uint) ([]models.Reader, error)
	Create(reader *models.Reader) error
	Update(reader *models.Reader) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormReaderRepository
}

// GormReaderRepository is the GORM implementation.
type GormReaderRepository struct {
	db *gorm.DB
}

// NewReaderRepository creates a reader repository.
func NewReaderRepository(db *gorm.DB) *GormReaderRepository {
	return &GormReaderRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormReaderRepository) WithTx(tx *gorm.DB) *GormReaderRepository {
	if tx == nil {
		return r
	}
	return &GormReaderRepository{db: tx}
}

// GetByID fetches a reader by id.
func (r *GormReaderRepository) GetByID(id uint) (*models.Reader, error) {
	var reader models.Reader
	if err := r.db.First(&reader, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reader, nil
}

// ListByUserID returns all readers owned by a user.
func (r *GormReaderRepository) ListByUserID(userID uint) ([]models.Reader, error) {
	var readers []models.Reader
	if err := r.db.Where("user_id = ?", userID).Order("id asc").Find(&readers).Error; err != nil {
		return nil, err
	}
	return readers, nil
}

// Create inserts a reader.
func (r *GormReaderRepository) Create(reader *models.Reader) error {
	return r.db.Create(reader).Error
}

// Update saves a reader.
func (r *GormReaderRepository) Update(reader *models.Reader) error {
	return r.db.Save(reader).Error
}

// Delete removes a reader.
func (r *GormReaderRepository) Delete(id uint) error {
	return r.db.Delete(&models.Reader{}, id).Error
}
