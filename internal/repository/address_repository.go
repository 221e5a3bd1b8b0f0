package repository

import (
	"errors"

	"github.com/magazine-next/internal/models"

	"gorm.io/gorm"
)

// AddressRepository is the shipping address data access interface.
type AddressRepository interface {
	GetByID(id uint) (*models.Address, error)
	FirstByReaderID(readerID uint) (*models.Address, error)
	FirstByUserID(userID uint) (*models.Address, error)
	ListByUserID(userID uint) ([]models.Address, error)
	Create(address *models.Address) error
	Update(address *models.Address) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormAddressRepository
}

// GormAddressRepository is the GORM implementation.
type GormAddressRepository struct {
	db *gorm.DB
}

// NewAddressRepository creates an address repository.
func NewAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormAddressRepository) WithTx(tx *gorm.DB) *GormAddressRepository {
	if tx == nil {
		return r
	}
	return &GormAddressRepository{db: tx}
}

// GetByID fetches an address by id.
func (r *GormAddressRepository) GetByID(id uint) (*models.Address, error) {
	var address models.Address
	if err := r.db.First(&address, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

// FirstByReaderID returns the reader's address, if one exists.
func (r *GormAddressRepository) FirstByReaderID(readerID uint) (*models.Address, error) {
	var address models.Address
	if err := r.db.Where("reader_id = ?", readerID).
		Order("is_default desc, id asc").
		First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

// FirstByUserID returns the user's default address, falling back to the oldest one.
func (r *GormAddressRepository) FirstByUserID(userID uint) (*models.Address, error) {
	var address models.Address
	if err := r.db.Where("user_id = ?", userID).
		Order("is_default desc, id asc").
		First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

// ListByUserID returns all addresses owned by a user.
func (r *GormAddressRepository) ListByUserID(userID uint) ([]models.Address, error) {
	var addresses []models.Address
	if err := r.db.Where("user_id = ?", userID).Order("id asc").Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

// Create inserts an address.
func (r *GormAddressRepository) Create(address *models.Address) error {
	return r.db.Create(address).Error
}

// Update saves an address.
func (r *GormAddressRepository) Update(address *models.Address) error {
	return r.db.Save(address).Error
}

// Delete removes an address.
func (r *GormAddressRepository) Delete(id uint) error {
	return r.db.Delete(&models.Address{}, id).Error
}
