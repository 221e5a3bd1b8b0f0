package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/magazine-next/internal/constants"
	"github.com/magazine-next/internal/logger"
	"github.com/magazine-next/internal/models"
	"github.com/magazine-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UPIAccount is the merchant collection account encoded in payment URIs.
type UPIAccount struct {
	VPA  string
	Name string
}

// OrderService creates pending orders and issues payment-collection URIs.
type OrderService struct {
	orderRepo        repository.OrderRepository
	editionOrderRepo repository.EditionOrderRepository
	proofRepo        repository.ProofRepository
	editionProofRepo repository.EditionProofRepository
	planRepo         repository.PlanRepository
	magazineRepo     repository.MagazineRepository
	editionRepo      repository.EditionRepository
	addressRepo      repository.AddressRepository
	readerRepo       repository.ReaderRepository
	pricing          *PricingService
	coupons          *CouponService
	upi              UPIAccount
	editionPrice     int64
}

// NewOrderService creates an order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	editionOrderRepo repository.EditionOrderRepository,
	proofRepo repository.ProofRepository,
	editionProofRepo repository.EditionProofRepository,
	planRepo repository.PlanRepository,
	magazineRepo repository.MagazineRepository,
	editionRepo repository.EditionRepository,
	addressRepo repository.AddressRepository,
	readerRepo repository.ReaderRepository,
	pricing *PricingService,
	coupons *CouponService,
	upi UPIAccount,
	editionPrice int64,
) *OrderService {
	if editionPrice <= 0 {
		editionPrice = constants.DefaultEditionPriceCents
	}
	return &OrderService{
		orderRepo:        orderRepo,
		editionOrderRepo: editionOrderRepo,
		proofRepo:        proofRepo,
		editionProofRepo: editionProofRepo,
		planRepo:         planRepo,
		magazineRepo:     magazineRepo,
		editionRepo:      editionRepo,
		addressRepo:      addressRepo,
		readerRepo:       readerRepo,
		pricing:          pricing,
		coupons:          coupons,
		upi:              upi,
		editionPrice:     editionPrice,
	}
}

// CreateOrderParams is the subscribe-intent input.
type CreateOrderParams struct {
	UserID       uint
	PlanID       uint
	Months       int
	ReaderID     *uint
	DeliveryMode string
	AddressID    *uint
	CouponCode   string
	MagazineID   *uint
}

// OrderSummary is returned from order creation.
type OrderSummary struct {
	OrderID     uint   `json:"order_id"`
	OrderNo     string `json:"order_no"`
	AmountCents int64  `json:"amount_cents"`
	FinalCents  int64  `json:"final_cents"`
	Currency    string `json:"currency"`
	UPI         string `json:"upi"`
}

// CreateOrder validates the subscribe intent and persists a PENDING order.
// All checks and the insert run in one transaction; any failure leaves no rows.
func (s *OrderService) CreateOrder(params CreateOrderParams) (*OrderSummary, error) {
	var summary *OrderSummary
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		planRepo := s.planRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)
		coupons := s.coupons.WithTx(tx)

		plan, err := planRepo.GetByID(params.PlanID)
		if err != nil {
			return err
		}
		if plan == nil || !plan.IsActive {
			return ErrPlanNotFound
		}

		if params.Months < plan.MinMonths {
			return ErrMonthsBelowMinimum
		}
		if plan.MaxMonths > 0 && params.Months > plan.MaxMonths {
			return ErrMonthsAboveMaximum
		}

		deliveryMode := strings.ToUpper(strings.TrimSpace(params.DeliveryMode))
		if deliveryMode == "" {
			deliveryMode = plan.DeliveryMode
		}
		if !constants.IsValidDeliveryMode(deliveryMode) {
			return ErrInvalidDeliveryMode
		}

		addressID, err := s.resolveShippingAddress(tx, params, deliveryMode)
		if err != nil {
			return err
		}

		price, err := s.pricing.ResolvePrice(plan, params.MagazineID, deliveryMode)
		if err != nil {
			return err
		}

		baseCents := price.PriceCents * int64(params.Months)
		finalCents := baseCents

		var couponID *uint
		if code := strings.TrimSpace(params.CouponCode); code != "" {
			coupon, err := coupons.Validate(code, &params.UserID, &params.PlanID, params.MagazineID)
			if err != nil {
				if isCouponReason(err) {
					return fmt.Errorf("invalid_coupon:%w", err)
				}
				return err
			}
			finalCents = coupons.Discount(coupon, baseCents)
			couponID = &coupon.ID
		}

		order := &models.PaymentOrder{
			OrderNo:      generateOrderNo(),
			UserID:       params.UserID,
			PlanID:       plan.ID,
			MagazineID:   params.MagazineID,
			ReaderID:     params.ReaderID,
			Months:       params.Months,
			DeliveryMode: deliveryMode,
			AddressID:    addressID,
			CouponID:     couponID,
			AmountCents:  baseCents,
			FinalCents:   finalCents,
			Currency:     price.Currency,
			Status:       constants.OrderStatusPending,
		}
		if err := orderRepo.Create(order); err != nil {
			return err
		}

		summary = &OrderSummary{
			OrderID:     order.ID,
			OrderNo:     order.OrderNo,
			AmountCents: order.AmountCents,
			FinalCents:  order.FinalCents,
			Currency:    order.Currency,
			UPI:         s.buildUPIURI(order.OrderNo, order.FinalCents, order.Currency),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_id", summary.OrderID,
		"user_id", params.UserID,
		"plan_id", params.PlanID,
		"final_cents", summary.FinalCents,
	)
	return summary, nil
}

// resolveShippingAddress enforces the physical-delivery address requirement,
// trying the explicit address, then the reader's, then the user's.
func (s *OrderService) resolveShippingAddress(tx *gorm.DB, params CreateOrderParams, deliveryMode string) (*uint, error) {
	if !constants.IsPhysicalDelivery(deliveryMode) {
		return params.AddressID, nil
	}

	addressRepo := s.addressRepo.WithTx(tx)

	if params.AddressID != nil && *params.AddressID > 0 {
		address, err := addressRepo.GetByID(*params.AddressID)
		if err != nil {
			return nil, err
		}
		if address != nil {
			return &address.ID, nil
		}
	}
	if params.ReaderID != nil && *params.ReaderID > 0 {
		address, err := addressRepo.FirstByReaderID(*params.ReaderID)
		if err != nil {
			return nil, err
		}
		if address != nil {
			return &address.ID, nil
		}
	}
	address, err := addressRepo.FirstByUserID(params.UserID)
	if err != nil {
		return nil, err
	}
	if address != nil {
		return &address.ID, nil
	}
	return nil, ErrPhysicalAddressRequired
}

// CreateEditionOrder persists a PENDING single-issue order. Only checks that
// the edition exists and is published; no coupon, address or dispatch.
func (s *OrderService) CreateEditionOrder(userID, editionID uint) (*OrderSummary, error) {
	if editionID == 0 {
		return nil, ErrEditionIDRequired
	}

	var summary *OrderSummary
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		edition, err := s.editionRepo.WithTx(tx).GetByID(editionID)
		if err != nil {
			return err
		}
		if edition == nil || !edition.IsPublished() {
			return ErrEditionNotFound
		}

		priceCents := edition.PriceCents
		currency := edition.Currency
		if priceCents <= 0 {
			priceCents = s.editionPrice
		}
		if currency == "" {
			currency = constants.DefaultCurrency
		}

		order := &models.EditionOrder{
			OrderNo:     generateOrderNo(),
			UserID:      userID,
			EditionID:   edition.ID,
			AmountCents: priceCents,
			FinalCents:  priceCents,
			Currency:    currency,
			Status:      constants.OrderStatusPending,
		}
		if err := s.editionOrderRepo.WithTx(tx).Create(order); err != nil {
			return err
		}

		summary = &OrderSummary{
			OrderID:     order.ID,
			OrderNo:     order.OrderNo,
			AmountCents: order.AmountCents,
			FinalCents:  order.FinalCents,
			Currency:    order.Currency,
			UPI:         s.buildUPIURI(order.OrderNo, order.FinalCents, order.Currency),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("edition_order_created",
		"order_id", summary.OrderID,
		"user_id", userID,
		"edition_id", editionID,
	)
	return summary, nil
}

// AttachProof records an uploaded payment proof against a subscription order.
// The order must belong to the uploader and still be unpaid.
func (s *OrderService) AttachProof(orderID, userID uint, fileKey, proofURL string) (*models.PaymentProof, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	if order.Status == constants.OrderStatusPaid {
		return nil, ErrOrderAlreadyPaid
	}
	if fileKey == "" && proofURL == "" {
		return nil, ErrInvalidUpload
	}

	proof := &models.PaymentProof{
		OrderID: order.ID,
		UserID:  userID,
		FileKey: fileKey,
		URL:     proofURL,
	}
	if err := s.proofRepo.Create(proof); err != nil {
		return nil, err
	}
	return proof, nil
}

// AttachEditionProof records an uploaded payment proof against an edition order.
func (s *OrderService) AttachEditionProof(orderID, userID uint, fileKey, proofURL string) (*models.EditionOrderProof, error) {
	order, err := s.editionOrderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	if order.Status == constants.OrderStatusPaid {
		return nil, ErrOrderAlreadyPaid
	}
	if fileKey == "" && proofURL == "" {
		return nil, ErrInvalidUpload
	}

	proof := &models.EditionOrderProof{
		OrderID: order.ID,
		UserID:  userID,
		FileKey: fileKey,
		URL:     proofURL,
	}
	if err := s.editionProofRepo.Create(proof); err != nil {
		return nil, err
	}
	return proof, nil
}

// GetOrderForUser fetches an order, enforcing ownership.
func (s *OrderService) GetOrderForUser(orderID, userID uint) (*models.PaymentOrder, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	return order, nil
}

// ListOrders returns orders matching the filter.
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.PaymentOrder, int64, error) {
	return s.orderRepo.List(filter)
}

// ListEditionOrders returns edition orders matching the filter.
func (s *OrderService) ListEditionOrders(filter repository.EditionOrderListFilter) ([]models.EditionOrder, int64, error) {
	return s.editionOrderRepo.List(filter)
}

// buildUPIURI renders the upi://pay collection URI for an order. The amount
// is formatted in major units with two decimals.
func (s *OrderService) buildUPIURI(orderNo string, finalCents int64, currency string) string {
	amount := decimal.NewFromInt(finalCents).Div(decimal.NewFromInt(100)).StringFixed(2)
	values := url.Values{}
	values.Set("pa", s.upi.VPA)
	values.Set("pn", s.upi.Name)
	values.Set("tn", "Order "+orderNo)
	values.Set("am", amount)
	values.Set("cu", currency)
	return "upi://pay?" + values.Encode()
}

// isCouponReason reports whether err is one of the coupon validation codes
// that gets wrapped as invalid_coupon:<reason>.
func isCouponReason(err error) bool {
	switch err {
	case ErrCouponNotFound, ErrCouponInactive, ErrCouponExpired,
		ErrCouponInvalidForPlan, ErrCouponInvalidForMag,
		ErrCouponExhausted, ErrCouponUserLimitExceeded:
		return true
	}
	return false
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("MG%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
