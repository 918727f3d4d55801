package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Shaivan19/rentease-payments/pkg/enums"
)

// Payment is the verified record of money movement for one order. Status only
// reaches completed through the verification path.
type Payment struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderID          uuid.UUID           `gorm:"column:order_id;type:uuid;not null"`
	GatewayOrderID   string              `gorm:"column:gateway_order_id;uniqueIndex;not null"`
	GatewayPaymentID string              `gorm:"column:gateway_payment_id;not null"`
	AmountRupees     int64               `gorm:"column:amount_rupees;not null"`
	Status           enums.PaymentStatus `gorm:"column:status;not null;default:'pending'"`
	PaymentDate      time.Time           `gorm:"column:payment_date;not null"`
	PaymentType      enums.PaymentType   `gorm:"column:payment_type;not null"`
	TenantID         uuid.UUID           `gorm:"column:tenant_id;type:uuid;not null"`
	LandlordID       uuid.UUID           `gorm:"column:landlord_id;type:uuid;not null"`
	PropertyID       uuid.UUID           `gorm:"column:property_id;type:uuid;not null"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
