package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Shaivan19/rentease-payments/pkg/enums"
)

// PaymentOrder is the client-held copy of a gateway order plus the checkout
// session state bound to it. One order maps to at most one completed payment.
type PaymentOrder struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	GatewayOrderID string              `gorm:"column:gateway_order_id;uniqueIndex;not null"`
	Receipt        string              `gorm:"column:receipt;not null"`
	AmountRupees   int64               `gorm:"column:amount_rupees;not null"`
	Currency       string              `gorm:"column:currency;not null;default:'INR'"`
	PaymentType    enums.PaymentType   `gorm:"column:payment_type;not null"`
	TenantID       uuid.UUID           `gorm:"column:tenant_id;type:uuid;not null"`
	LandlordID     uuid.UUID           `gorm:"column:landlord_id;type:uuid;not null"`
	PropertyID     uuid.UUID           `gorm:"column:property_id;type:uuid;not null"`
	Description    string              `gorm:"column:description"`
	SessionState   enums.CheckoutState `gorm:"column:session_state;not null;default:'checkout_open'"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
