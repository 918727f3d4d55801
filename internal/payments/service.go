package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Shaivan19/rentease-payments/internal/checkout"
	"github.com/Shaivan19/rentease-payments/pkg/db/models"
	"github.com/Shaivan19/rentease-payments/pkg/enums"
	pkgerrors "github.com/Shaivan19/rentease-payments/pkg/errors"
	"github.com/Shaivan19/rentease-payments/pkg/events"
	"github.com/Shaivan19/rentease-payments/pkg/logger"
	"github.com/Shaivan19/rentease-payments/pkg/metrics"
	"github.com/Shaivan19/rentease-payments/pkg/razorpay"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gatewayClient interface {
	KeyID() string
	NewReceipt(prefix string) string
	CreateOrder(ctx context.Context, params razorpay.OrderCreateParams) (*razorpay.Order, error)
	VerifyPaymentSignature(ctx context.Context, orderID, paymentID, signature string) bool
}

type readinessGate interface {
	EnsureReady(ctx context.Context) error
}

type settleGuard interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	SettlementKey(orderID string) string
}

type settlementPublisher interface {
	Publish(ctx context.Context, evt events.SettlementEvent)
}

// ServiceParams groups dependencies for the payments service.
type ServiceParams struct {
	Repo     Repository
	Tx       txRunner
	Gateway  gatewayClient
	Checkout readinessGate
	Settle   settleGuard
	Bus      settlementPublisher
	Metrics  *metrics.PaymentFlowMetrics
	Logger   *logger.Logger
	DedupTTL time.Duration
	Now      func() time.Time
}

// Service orchestrates the order, verification, and settlement lifecycle.
type Service struct {
	repo     Repository
	tx       txRunner
	gateway  gatewayClient
	checkout readinessGate
	settle   settleGuard
	bus      settlementPublisher
	metrics  *metrics.PaymentFlowMetrics
	logger   *logger.Logger
	dedupTTL time.Duration
	now      func() time.Time
}

// NewService builds a payments service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Tx == nil {
		return nil, errors.New("tx runner is required")
	}
	if params.Gateway == nil {
		return nil, errors.New("gateway client is required")
	}
	if params.Checkout == nil {
		return nil, errors.New("checkout coordinator is required")
	}
	if params.Settle == nil {
		return nil, errors.New("settle guard is required")
	}
	if params.Bus == nil {
		return nil, errors.New("settlement bus is required")
	}
	if params.DedupTTL <= 0 {
		params.DedupTTL = 24 * time.Hour
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &Service{
		repo:     params.Repo,
		tx:       params.Tx,
		gateway:  params.Gateway,
		checkout: params.Checkout,
		settle:   params.Settle,
		bus:      params.Bus,
		metrics:  params.Metrics,
		logger:   params.Logger,
		dedupTTL: params.DedupTTL,
		now:      params.Now,
	}, nil
}

// CreateOrder registers a gateway order and opens a checkout session for it.
// The gateway's echoed amount must match the requested amount; on mismatch the
// order is discarded and checkout never opens.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (*CheckoutDescriptor, error) {
	if err := validateCreateOrder(input); err != nil {
		return nil, err
	}

	if err := s.checkout.EnsureReady(ctx); err != nil {
		return nil, err
	}

	started := s.now()
	gwOrder, err := s.gateway.CreateOrder(ctx, razorpay.OrderCreateParams{
		AmountRupees: input.AmountRupees,
		Receipt:      s.gateway.NewReceipt(string(input.PaymentType)),
		Notes: map[string]string{
			"tenant_id":    input.TenantID.String(),
			"landlord_id":  input.LandlordID.String(),
			"property_id":  input.PropertyID.String(),
			"payment_type": string(input.PaymentType),
		},
	})
	s.metrics.ObserveGatewayDuration("create_order", s.now().Sub(started))
	if err != nil {
		return nil, err
	}

	if gwOrder.AmountPaise != input.AmountRupees*100 {
		err := pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("gateway echoed %d paise for a %d rupee order", gwOrder.AmountPaise, input.AmountRupees))
		s.logError(ctx, "gateway amount echo mismatch", err, gwOrder.ID)
		return nil, err
	}

	order := &models.PaymentOrder{
		ID:             uuid.New(),
		GatewayOrderID: gwOrder.ID,
		Receipt:        gwOrder.Receipt,
		AmountRupees:   input.AmountRupees,
		Currency:       gwOrder.Currency,
		PaymentType:    input.PaymentType,
		TenantID:       input.TenantID,
		LandlordID:     input.LandlordID,
		PropertyID:     input.PropertyID,
		Description:    input.Description,
		SessionState:   enums.CheckoutStateOpen,
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.metrics.IncOrderCreated(string(input.PaymentType))
	s.logInfo(ctx, "checkout session opened", order.GatewayOrderID)

	return &CheckoutDescriptor{
		OrderID:        order.ID,
		GatewayOrderID: order.GatewayOrderID,
		AmountRupees:   order.AmountRupees,
		Currency:       order.Currency,
		KeyID:          s.gateway.KeyID(),
		Description:    order.Description,
	}, nil
}

// Verify checks the gateway callback signature and, on success, records the
// completed payment and settles the order exactly once. A callback for an
// abandoned session is recorded but never settles.
func (s *Service) Verify(ctx context.Context, input VerifyInput) (*VerifyResult, error) {
	if input.GatewayOrderID == "" || input.GatewayPaymentID == "" || input.Signature == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id, payment id, and signature are required")
	}

	order, err := s.repo.FindOrderByGatewayID(ctx, input.GatewayOrderID)
	if err != nil {
		return nil, err
	}

	verified := s.gateway.VerifyPaymentSignature(ctx, input.GatewayOrderID, input.GatewayPaymentID, input.Signature)
	if !verified {
		s.metrics.IncVerification("failed")
		if err := s.recordPayment(ctx, order, input, enums.PaymentStatusFailed); err != nil {
			return nil, err
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment verification failed")
	}

	// Late callback after the user abandoned the session: keep the money trail
	// but leave the session terminal and never settle.
	if order.SessionState == enums.CheckoutStateUserAbandoned {
		s.metrics.IncVerification("verified_after_abandon")
		payment, err := s.upsertPayment(ctx, order, input, enums.PaymentStatusCompleted)
		if err != nil {
			return nil, err
		}
		s.logInfo(ctx, "verified callback on abandoned session, not settling", order.GatewayOrderID)
		return &VerifyResult{
			OrderID:   order.ID,
			PaymentID: payment.ID,
			Status:    payment.Status,
			Settled:   false,
		}, nil
	}

	if order.SessionState == enums.CheckoutStateOpen {
		if err := checkout.Transition(order.SessionState, enums.CheckoutStateCallbackReceived); err != nil {
			return nil, err
		}
	}

	var payment *models.Payment
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if order.SessionState != enums.CheckoutStateCallbackReceived {
			if err := repo.UpdateOrderSessionState(ctx, order.ID, enums.CheckoutStateCallbackReceived); err != nil {
				return err
			}
		}
		var upsertErr error
		payment, upsertErr = s.upsertPaymentWith(ctx, repo, order, input, enums.PaymentStatusCompleted)
		return upsertErr
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncVerification("verified")

	settled, err := s.claimSettlement(ctx, order)
	if err != nil {
		s.logError(ctx, "settlement claim failed", err, order.GatewayOrderID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settlement deduplication unavailable")
	}
	if settled {
		s.metrics.IncSettlement()
		s.bus.Publish(ctx, events.SettlementEvent{
			OrderID:        order.ID,
			GatewayOrderID: order.GatewayOrderID,
			TenantID:       order.TenantID,
			LandlordID:     order.LandlordID,
			PropertyID:     order.PropertyID,
			PaymentType:    order.PaymentType,
			AmountRupees:   order.AmountRupees,
			OccurredAt:     payment.PaymentDate,
		})
		s.logInfo(ctx, "payment settled", order.GatewayOrderID)
	}

	return &VerifyResult{
		OrderID:   order.ID,
		PaymentID: payment.ID,
		Status:    payment.Status,
		Settled:   settled,
	}, nil
}

// Abandon closes an open checkout session without payment. Closing an already
// abandoned session is a no-op; a completed session cannot be abandoned.
func (s *Service) Abandon(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	switch order.SessionState {
	case enums.CheckoutStateUserAbandoned:
		return nil
	case enums.CheckoutStateCallbackReceived:
		return pkgerrors.New(pkgerrors.CodeConflict, "payment already completed for this order")
	}

	if err := checkout.Transition(order.SessionState, enums.CheckoutStateUserAbandoned); err != nil {
		return err
	}
	if err := s.repo.UpdateOrderSessionState(ctx, order.ID, enums.CheckoutStateUserAbandoned); err != nil {
		return err
	}

	s.metrics.IncAbandon()
	s.logInfo(ctx, "checkout session abandoned", order.GatewayOrderID)
	return nil
}

// History lists payments for one side of a tenancy, newest first.
func (s *Service) History(ctx context.Context, userType enums.UserType, userID uuid.UUID) ([]models.Payment, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	switch userType {
	case enums.UserTypeTenant:
		return s.repo.ListPaymentsByTenant(ctx, userID)
	case enums.UserTypeLandlord:
		return s.repo.ListPaymentsByLandlord(ctx, userID)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid user type %q", userType))
	}
}

func (s *Service) claimSettlement(ctx context.Context, order *models.PaymentOrder) (bool, error) {
	key := s.settle.SettlementKey(order.GatewayOrderID)
	return s.settle.SetNX(ctx, key, order.ID.String(), s.dedupTTL)
}

func (s *Service) recordPayment(ctx context.Context, order *models.PaymentOrder, input VerifyInput, status enums.PaymentStatus) error {
	_, err := s.upsertPayment(ctx, order, input, status)
	return err
}

func (s *Service) upsertPayment(ctx context.Context, order *models.PaymentOrder, input VerifyInput, status enums.PaymentStatus) (*models.Payment, error) {
	return s.upsertPaymentWith(ctx, s.repo, order, input, status)
}

func (s *Service) upsertPaymentWith(ctx context.Context, repo Repository, order *models.PaymentOrder, input VerifyInput, status enums.PaymentStatus) (*models.Payment, error) {
	existing, err := repo.FindPaymentByGatewayOrderID(ctx, order.GatewayOrderID)
	if err != nil {
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			return nil, err
		}
		payment := &models.Payment{
			ID:               uuid.New(),
			OrderID:          order.ID,
			GatewayOrderID:   order.GatewayOrderID,
			GatewayPaymentID: input.GatewayPaymentID,
			AmountRupees:     order.AmountRupees,
			Status:           status,
			PaymentDate:      s.now(),
			PaymentType:      order.PaymentType,
			TenantID:         order.TenantID,
			LandlordID:       order.LandlordID,
			PropertyID:       order.PropertyID,
		}
		if err := repo.CreatePayment(ctx, payment); err != nil {
			return nil, err
		}
		return payment, nil
	}

	// A completed payment never regresses to failed on a duplicate callback.
	if existing.Status == enums.PaymentStatusCompleted && status == enums.PaymentStatusFailed {
		return existing, nil
	}
	existing.Status = status
	existing.GatewayPaymentID = input.GatewayPaymentID
	if status == enums.PaymentStatusCompleted {
		existing.PaymentDate = s.now()
	}
	if err := repo.UpdatePayment(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func validateCreateOrder(input CreateOrderInput) error {
	if input.AmountRupees <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if !input.PaymentType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment type %q", input.PaymentType))
	}
	if input.TenantID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "tenant id is required")
	}
	if input.LandlordID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "landlord id is required")
	}
	if input.PropertyID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "property id is required")
	}
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg, gatewayOrderID string) {
	if s.logger == nil {
		return
	}
	s.logger.Info(s.logger.WithOrderID(ctx, gatewayOrderID), msg)
}

func (s *Service) logError(ctx context.Context, msg string, err error, gatewayOrderID string) {
	if s.logger == nil {
		return
	}
	s.logger.Error(s.logger.WithOrderID(ctx, gatewayOrderID), msg, err)
}
