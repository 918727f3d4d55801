package payments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Shaivan19/rentease-payments/pkg/db/models"
	"github.com/Shaivan19/rentease-payments/pkg/enums"
	pkgerrors "github.com/Shaivan19/rentease-payments/pkg/errors"
)

// Repository handles payment persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.PaymentOrder) error
	FindOrderByID(ctx context.Context, orderID uuid.UUID) (*models.PaymentOrder, error)
	FindOrderByGatewayID(ctx context.Context, gatewayOrderID string) (*models.PaymentOrder, error)
	UpdateOrderSessionState(ctx context.Context, orderID uuid.UUID, state enums.CheckoutState) error
	CreatePayment(ctx context.Context, payment *models.Payment) error
	FindPaymentByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Payment, error)
	UpdatePayment(ctx context.Context, payment *models.Payment) error
	ListPaymentsByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Payment, error)
	ListPaymentsByLandlord(ctx context.Context, landlordID uuid.UUID) ([]models.Payment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a payments repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.PaymentOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindOrderByID(ctx context.Context, orderID uuid.UUID) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment order not found")
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrderByGatewayID(ctx context.Context, gatewayOrderID string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := r.db.WithContext(ctx).
		Where("gateway_order_id = ?", gatewayOrderID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment order not found")
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateOrderSessionState(ctx context.Context, orderID uuid.UUID, state enums.CheckoutState) error {
	res := r.db.WithContext(ctx).
		Model(&models.PaymentOrder{}).
		Where("id = ?", orderID).
		Update("session_state", state)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "payment order not found")
	}
	return nil
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) FindPaymentByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("gateway_order_id = ?", gatewayOrderID).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, err
	}
	return &payment, nil
}

func (r *repository) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *repository) ListPaymentsByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Payment, error) {
	var list []models.Payment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("payment_date DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) ListPaymentsByLandlord(ctx context.Context, landlordID uuid.UUID) ([]models.Payment, error) {
	var list []models.Payment
	if err := r.db.WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Order("payment_date DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
