package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/thriveverse/backend/internal/domain"
	"github.com/thriveverse/backend/pkg/logger"
	"github.com/thriveverse/backend/pkg/payment"
)

// PaymentStore is the persistence surface for payment records.
// Implemented by repository.PaymentRepository.
type PaymentStore interface {
	RecordCompleted(ctx context.Context, p *domain.Payment, sub *domain.Subscription) (bool, error)
	FindByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Payment, error)
}

// LedgerStore is the account view the payment service needs.
// Implemented by repository.UserRepository.
type LedgerStore interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	CancelSubscription(ctx context.Context, id string) error
}

// PaymentService creates gateway orders and turns verified confirmations
// into ledger credits. Verification is idempotent per gateway order: the
// same confirmation delivered twice credits the account exactly once.
type PaymentService struct {
	store    PaymentStore
	ledger   LedgerStore
	gateway  payment.Gateway
	secret   string
	validate *validator.Validate
	log      *logger.Logger
}

// NewPaymentService creates a new PaymentService. secret is the gateway
// shared secret used to verify confirmation signatures.
func NewPaymentService(store PaymentStore, ledger LedgerStore, gw payment.Gateway, secret string, log *logger.Logger) *PaymentService {
	return &PaymentService{
		store:    store,
		ledger:   ledger,
		gateway:  gw,
		secret:   secret,
		validate: validator.New(),
		log:      log,
	}
}

// CreateOrder creates a gateway order for the given plan. The order
// notes carry the account, plan and credit count so verification never
// has to trust client-supplied values. Orders are not persisted locally;
// the gateway is the system of record until verification.
func (s *PaymentService) CreateOrder(ctx context.Context, userID string, req *domain.CreateOrderRequest) (*domain.CreateOrderResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	plan, ok := domain.GetPlan(req.Plan)
	if !ok {
		return nil, domain.ErrBadRequest("invalid plan selected")
	}

	receipt := fmt.Sprintf("order_%d", time.Now().UnixMilli())
	notes := map[string]string{
		"userId":  userID,
		"plan":    plan.ID,
		"credits": strconv.FormatInt(plan.Credits, 10),
	}

	// Gateway amounts are in currency subunits (paise).
	order, err := s.gateway.CreateOrder(ctx, plan.Amount*100, plan.Currency, receipt, notes)
	if err != nil {
		return nil, domain.ErrUnavailable("failed to create payment order", err)
	}

	return &domain.CreateOrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Plan:     plan,
	}, nil
}

// Verify checks the confirmation signature and, on first delivery,
// records the payment, credits the account and activates a one-year
// subscription. A tampered signature rejects before any state is read or
// written; a repeated delivery reports AlreadyProcessed without touching
// the ledger; a gateway fetch failure is surfaced as retryable with no
// partial credit.
func (s *PaymentService) Verify(ctx context.Context, req *domain.VerifyPaymentRequest) (*domain.VerifyPaymentResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	if !payment.VerifySignature(s.secret, req.OrderID, req.PaymentID, req.Signature) {
		// Same rejection whether or not the order exists.
		return nil, domain.ErrBadRequest("invalid payment signature")
	}

	order, err := s.gateway.FetchOrder(ctx, req.OrderID)
	if err != nil {
		return nil, domain.ErrUnavailable("failed to fetch payment order", err)
	}

	userID := order.Notes["userId"]
	plan, ok := domain.GetPlan(order.Notes["plan"])
	if !ok || userID == "" {
		return nil, domain.ErrInternal("payment order carries no valid metadata", nil)
	}

	now := time.Now()
	pay := &domain.Payment{
		ID:               domain.NewPaymentID(),
		UserID:           userID,
		GatewayOrderID:   req.OrderID,
		GatewayPaymentID: req.PaymentID,
		Amount:           order.Amount / 100,
		Currency:         order.Currency,
		Plan:             plan.ID,
		Credits:          plan.Credits,
		Status:           domain.PaymentCompleted,
		PaymentMethod:    "razorpay",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	sub := &domain.Subscription{
		Plan:      plan.ID,
		StartDate: now,
		EndDate:   now.AddDate(1, 0, 0),
		Status:    domain.SubscriptionActive,
	}

	inserted, err := s.store.RecordCompleted(ctx, pay, sub)
	if err != nil {
		return nil, domain.ErrInternal("failed to record payment", err)
	}

	if !inserted {
		existing, err := s.store.FindByOrderID(ctx, req.OrderID)
		if err != nil {
			return nil, domain.ErrInternal("failed to load payment record", err)
		}
		credits, err := s.currentCredits(ctx, userID)
		if err != nil {
			return nil, err
		}
		s.log.WithField("orderId", req.OrderID).Info("payment confirmation replayed, no credit issued")
		return &domain.VerifyPaymentResponse{
			Payment:          existing,
			Credits:          credits,
			AlreadyProcessed: true,
		}, nil
	}

	credits, err := s.currentCredits(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(map[string]interface{}{
		"orderId": req.OrderID,
		"plan":    plan.ID,
		"credits": plan.Credits,
	}).Info("payment verified, account credited")

	return &domain.VerifyPaymentResponse{Payment: pay, Credits: credits}, nil
}

// Details returns the account's credit balance and subscription.
func (s *PaymentService) Details(ctx context.Context, userID string) (*domain.SubscriptionDetailsResponse, error) {
	user, err := s.ledger.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrInternal("failed to load account", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound("user not found")
	}
	return &domain.SubscriptionDetailsResponse{
		Credits:      user.Credits,
		Subscription: user.Subscription,
	}, nil
}

// History returns the account's payment records, newest first.
func (s *PaymentService) History(ctx context.Context, userID string) ([]*domain.Payment, error) {
	payments, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.ErrInternal("failed to list payments", err)
	}
	return payments, nil
}

// Cancel marks the account's active subscription as cancelled. Credits
// already purchased are kept.
func (s *PaymentService) Cancel(ctx context.Context, userID string) (*domain.Subscription, error) {
	if err := s.ledger.CancelSubscription(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrBadRequest("no active subscription to cancel")
		}
		return nil, domain.ErrInternal("failed to cancel subscription", err)
	}

	user, err := s.ledger.FindByID(ctx, userID)
	if err != nil || user == nil {
		return nil, domain.ErrInternal("failed to load account", err)
	}
	return user.Subscription, nil
}

func (s *PaymentService) currentCredits(ctx context.Context, userID string) (int64, error) {
	user, err := s.ledger.FindByID(ctx, userID)
	if err != nil {
		return 0, domain.ErrInternal("failed to load account", err)
	}
	if user == nil {
		return 0, domain.ErrNotFound("user not found")
	}
	return user.Credits, nil
}
