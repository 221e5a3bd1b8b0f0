package service

import (
	"fmt"
	"time"

	"github.com/magazine-next/internal/constants"
	"github.com/magazine-next/internal/logger"
	"github.com/magazine-next/internal/models"
	"github.com/magazine-next/internal/repository"

	"gorm.io/gorm"
)

// VerificationService is the transactional pivot: admin verification of a
// payment proof promotes a PENDING order into an active subscription plus a
// successful payment, records coupon usage and generates the dispatch
// calendar, all atomically.
type VerificationService struct {
	proofRepo        repository.ProofRepository
	editionProofRepo repository.EditionProofRepository
	orderRepo        repository.OrderRepository
	editionOrderRepo repository.EditionOrderRepository
	planRepo         repository.PlanRepository
	subRepo          repository.SubscriptionRepository
	paymentRepo      repository.PaymentRepository
	purchaseRepo     repository.EditionPurchaseRepository
	coupons          *CouponService
	dispatch         *DispatchService
}

// NewVerificationService creates a verification service.
func NewVerificationService(
	proofRepo repository.ProofRepository,
	editionProofRepo repository.EditionProofRepository,
	orderRepo repository.OrderRepository,
	editionOrderRepo repository.EditionOrderRepository,
	planRepo repository.PlanRepository,
	subRepo repository.SubscriptionRepository,
	paymentRepo repository.PaymentRepository,
	purchaseRepo repository.EditionPurchaseRepository,
	coupons *CouponService,
	dispatch *DispatchService,
) *VerificationService {
	return &VerificationService{
		proofRepo:        proofRepo,
		editionProofRepo: editionProofRepo,
		orderRepo:        orderRepo,
		editionOrderRepo: editionOrderRepo,
		planRepo:         planRepo,
		subRepo:          subRepo,
		paymentRepo:      paymentRepo,
		purchaseRepo:     purchaseRepo,
		coupons:          coupons,
		dispatch:         dispatch,
	}
}

// VerifyResult is returned from subscription proof verification.
type VerifyResult struct {
	SubscriptionID uint `json:"subscription_id"`
	PaymentID      uint `json:"payment_id"`
}

// VerifyProof activates the subscription behind a payment proof. The order
// row is locked for the duration of the transaction so two concurrent
// verifications cannot both pass the already-paid check.
func (s *VerificationService) VerifyProof(proofID, adminID uint) (*VerifyResult, error) {
	var result *VerifyResult
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		proofRepo := s.proofRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)
		subRepo := s.subRepo.WithTx(tx)
		paymentRepo := s.paymentRepo.WithTx(tx)
		coupons := s.coupons.WithTx(tx)

		proof, err := proofRepo.GetByID(proofID)
		if err != nil {
			return err
		}
		if proof == nil {
			return ErrProofNotFound
		}

		order, err := orderRepo.GetByIDForUpdate(proof.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status == constants.OrderStatusPaid {
			return ErrOrderAlreadyPaid
		}

		plan, err := s.planRepo.WithTx(tx).GetByID(order.PlanID)
		if err != nil {
			return err
		}
		if plan == nil {
			return ErrPlanNotFound
		}

		now := time.Now()
		endsAt := now.AddDate(0, order.Months, 0)
		sub := &models.UserSubscription{
			UserID:       order.UserID,
			ReaderID:     order.ReaderID,
			MagazineID:   order.MagazineID,
			PlanID:       order.PlanID,
			DeliveryMode: order.DeliveryMode,
			AddressID:    order.AddressID,
			Status:       constants.SubscriptionStatusActive,
			StartsAt:     now,
			EndsAt:       &endsAt,
			AutoRenew:    true,
			PriceCents:   order.FinalCents,
			Currency:     order.Currency,
			CouponID:     order.CouponID,
		}
		if err := subRepo.Create(sub); err != nil {
			return err
		}

		payment := &models.Payment{
			UserID:            order.UserID,
			SubscriptionID:    &sub.ID,
			AmountCents:       order.FinalCents,
			Currency:          order.Currency,
			Provider:          constants.PaymentProviderUPI,
			ProviderPaymentID: fmt.Sprintf("%d", proof.ID),
			Status:            constants.PaymentStatusSuccess,
			Metadata: models.JSON{
				"order_no": order.OrderNo,
				"proof_id": proof.ID,
			},
		}
		if err := paymentRepo.Create(payment); err != nil {
			return err
		}

		if order.CouponID != nil {
			if err := coupons.RecordUsage(*order.CouponID, &order.UserID, &sub.ID); err != nil {
				return err
			}
		}

		order.Status = constants.OrderStatusPaid
		order.PaidAt = &now
		if err := orderRepo.Update(order); err != nil {
			return err
		}

		proof.Verified = true
		proof.VerifiedAt = &now
		proof.VerifiedBy = &adminID
		if err := proofRepo.Update(proof); err != nil {
			return err
		}

		if plan.AutoDispatch && constants.IsPhysicalDelivery(order.DeliveryMode) {
			if _, err := s.dispatch.GenerateCalendar(tx, sub, plan.DispatchFrequencyDays); err != nil {
				return err
			}
		}

		result = &VerifyResult{SubscriptionID: sub.ID, PaymentID: payment.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("proof_verified",
		"proof_id", proofID,
		"admin_id", adminID,
		"subscription_id", result.SubscriptionID,
		"payment_id", result.PaymentID,
	)
	return result, nil
}

// EditionVerifyResult is returned from edition proof verification.
type EditionVerifyResult struct {
	PaymentID uint `json:"payment_id"`
}

// VerifyEditionProof settles a single-issue purchase: creates the payment
// and the ownership row, then flips order and proof state. Same idempotency
// guard as the subscription path, no subscription or dispatch steps.
func (s *VerificationService) VerifyEditionProof(proofID, adminID uint) (*EditionVerifyResult, error) {
	var result *EditionVerifyResult
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		proofRepo := s.editionProofRepo.WithTx(tx)
		orderRepo := s.editionOrderRepo.WithTx(tx)
		paymentRepo := s.paymentRepo.WithTx(tx)
		purchaseRepo := s.purchaseRepo.WithTx(tx)

		proof, err := proofRepo.GetByID(proofID)
		if err != nil {
			return err
		}
		if proof == nil {
			return ErrProofNotFound
		}

		order, err := orderRepo.GetByIDForUpdate(proof.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status == constants.OrderStatusPaid {
			return ErrOrderAlreadyPaid
		}

		now := time.Now()
		payment := &models.Payment{
			UserID:            order.UserID,
			EditionOrderID:    &order.ID,
			AmountCents:       order.FinalCents,
			Currency:          order.Currency,
			Provider:          constants.PaymentProviderUPI,
			ProviderPaymentID: fmt.Sprintf("%d", proof.ID),
			Status:            constants.PaymentStatusSuccess,
			Metadata: models.JSON{
				"order_no": order.OrderNo,
				"proof_id": proof.ID,
			},
		}
		if err := paymentRepo.Create(payment); err != nil {
			return err
		}

		purchase := &models.EditionPurchase{
			UserID:    order.UserID,
			EditionID: order.EditionID,
			OrderID:   &order.ID,
		}
		if err := purchaseRepo.Create(purchase); err != nil {
			return err
		}

		order.Status = constants.OrderStatusPaid
		order.PaidAt = &now
		if err := orderRepo.Update(order); err != nil {
			return err
		}

		proof.Verified = true
		proof.VerifiedAt = &now
		proof.VerifiedBy = &adminID
		if err := proofRepo.Update(proof); err != nil {
			return err
		}

		result = &EditionVerifyResult{PaymentID: payment.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("edition_proof_verified",
		"proof_id", proofID,
		"admin_id", adminID,
		"payment_id", result.PaymentID,
	)
	return result, nil
}
