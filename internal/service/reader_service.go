package service

import (
	"github.com/magazine-next/internal/models"
	"github.com/magazine-next/internal/repository"
)

// ReaderService manages reader profiles and shipping addresses. Every
// operation enforces ownership by the calling user.
type ReaderService struct {
	readerRepo  repository.ReaderRepository
	addressRepo repository.AddressRepository
}

// NewReaderService creates a reader service.
func NewReaderService(readerRepo repository.ReaderRepository, addressRepo repository.AddressRepository) *ReaderService {
	return &ReaderService{
		readerRepo:  readerRepo,
		addressRepo: addressRepo,
	}
}

// ListReaders returns the caller's readers.
func (s *ReaderService) ListReaders(userID uint) ([]models.Reader, error) {
	return s.readerRepo.ListByUserID(userID)
}

// GetReader fetches a reader, enforcing ownership.
func (s *ReaderService) GetReader(id, userID uint) (*models.Reader, error) {
	reader, err := s.readerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if reader == nil {
		return nil, ErrReaderNotFound
	}
	if reader.UserID != userID {
		return nil, ErrForbidden
	}
	return reader, nil
}

// CreateReader inserts a reader under the caller.
func (s *ReaderService) CreateReader(reader *models.Reader) error {
	return s.readerRepo.Create(reader)
}

// UpdateReader saves reader edits, enforcing ownership.
func (s *ReaderService) UpdateReader(id, userID uint, apply func(*models.Reader)) (*models.Reader, error) {
	reader, err := s.GetReader(id, userID)
	if err != nil {
		return nil, err
	}
	apply(reader)
	if err := s.readerRepo.Update(reader); err != nil {
		return nil, err
	}
	return reader, nil
}

// DeleteReader removes a reader, enforcing ownership.
func (s *ReaderService) DeleteReader(id, userID uint) error {
	if _, err := s.GetReader(id, userID); err != nil {
		return err
	}
	return s.readerRepo.Delete(id)
}

// ListAddresses returns the caller's addresses.
func (s *ReaderService) ListAddresses(userID uint) ([]models.Address, error) {
	return s.addressRepo.ListByUserID(userID)
}

// GetAddress fetches an address, enforcing ownership.
func (s *ReaderService) GetAddress(id, userID uint) (*models.Address, error) {
	address, err := s.addressRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	if address.UserID != userID {
		return nil, ErrForbidden
	}
	return address, nil
}

// CreateAddress inserts an address under the caller. The reader, when set,
// must also belong to the caller.
func (s *ReaderService) CreateAddress(address *models.Address) error {
	if address.ReaderID != nil && *address.ReaderID > 0 {
		if _, err := s.GetReader(*address.ReaderID, address.UserID); err != nil {
			return err
		}
	}
	return s.addressRepo.Create(address)
}

// UpdateAddress saves address edits, enforcing ownership.
func (s *ReaderService) UpdateAddress(id, userID uint, apply func(*models.Address)) (*models.Address, error) {
	address, err := s.GetAddress(id, userID)
	if err != nil {
		return nil, err
	}
	apply(address)
	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}
	return address, nil
}

// DeleteAddress removes an address, enforcing ownership.
func (s *ReaderService) DeleteAddress(id, userID uint) error {
	if _, err := s.GetAddress(id, userID); err != nil {
		return err
	}
	return s.addressRepo.Delete(id)
}
