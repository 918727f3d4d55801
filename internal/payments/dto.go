package payments

import (
	"github.com/google/uuid"

	"github.com/Shaivan19/rentease-payments/pkg/enums"
)

// CreateOrderInput captures a rent payment request before it reaches the gateway.
type CreateOrderInput struct {
	AmountRupees int64
	PaymentType  enums.PaymentType
	TenantID     uuid.UUID
	LandlordID   uuid.UUID
	PropertyID   uuid.UUID
	Description  string
}

// CheckoutDescriptor is everything a client needs to open gateway checkout for
// an order. KeyID is the publishable gateway key, never the secret.
type CheckoutDescriptor struct {
	OrderID        uuid.UUID
	GatewayOrderID string
	AmountRupees   int64
	Currency       string
	KeyID          string
	Description    string
}

// VerifyInput is the callback payload forwarded for backend verification.
type VerifyInput struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}

// VerifyResult reports the outcome of a verification. Settled is true only on
// the call that actually claimed the settlement for this order.
type VerifyResult struct {
	OrderID   uuid.UUID
	PaymentID uuid.UUID
	Status    enums.PaymentStatus
	Settled   bool
}
