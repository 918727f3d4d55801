package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Shaivan19/rentease-payments/api/middleware"
	"github.com/Shaivan19/rentease-payments/api/responses"
	"github.com/Shaivan19/rentease-payments/api/validators"
	paymentsvc "github.com/Shaivan19/rentease-payments/internal/payments"
	"github.com/Shaivan19/rentease-payments/pkg/db/models"
	"github.com/Shaivan19/rentease-payments/pkg/enums"
	pkgerrors "github.com/Shaivan19/rentease-payments/pkg/errors"
	"github.com/Shaivan19/rentease-payments/pkg/logger"
)

// PaymentsService is the slice of the payments service the HTTP layer needs.
type PaymentsService interface {
	CreateOrder(ctx context.Context, input paymentsvc.CreateOrderInput) (*paymentsvc.CheckoutDescriptor, error)
	Verify(ctx context.Context, input paymentsvc.VerifyInput) (*paymentsvc.VerifyResult, error)
	Abandon(ctx context.Context, orderID uuid.UUID) error
	History(ctx context.Context, userType enums.UserType, userID uuid.UUID) ([]models.Payment, error)
}

// CreateOrder opens a gateway order for the authenticated tenant and returns
// the checkout descriptor the client hands to the gateway widget.
func CreateOrder(svc PaymentsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		tenantID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if middleware.UserTypeFromContext(r.Context()) != string(enums.UserTypeTenant) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "only tenants can initiate payments"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		descriptor, err := svc.CreateOrder(r.Context(), paymentsvc.CreateOrderInput{
			AmountRupees: payload.AmountRupees,
			PaymentType:  enums.PaymentType(payload.PaymentType),
			TenantID:     tenantID,
			LandlordID:   payload.LandlordID,
			PropertyID:   payload.PropertyID,
			Description:  payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(descriptor))
	}
}

// VerifyPayment checks the gateway callback signature and records the payment.
func VerifyPayment(svc PaymentsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		var payload verifyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Verify(r.Context(), paymentsvc.VerifyInput{
			GatewayOrderID:   payload.GatewayOrderID,
			GatewayPaymentID: payload.GatewayPaymentID,
			Signature:        payload.Signature,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, verifyResponse{
			OrderID:   result.OrderID,
			PaymentID: result.PaymentID,
			Status:    string(result.Status),
			Settled:   result.Settled,
		})
	}
}

// AbandonOrder marks a checkout session the user walked away from.
func AbandonOrder(svc PaymentsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id must be a valid uuid"))
			return
		}

		if err := svc.Abandon(r.Context(), orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "abandoned"})
	}
}

// PaymentHistory lists payments for the authenticated tenant or landlord.
func PaymentHistory(svc PaymentsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		userType, err := enums.ParseUserType(chi.URLParam(r, "userType"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user type must be tenant or landlord"))
			return
		}
		userID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user id must be a valid uuid"))
			return
		}

		caller, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if caller != userID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "payment history belongs to another user"))
			return
		}

		records, err := svc.History(r.Context(), userType, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]paymentResponse, 0, len(records))
		for _, record := range records {
			items = append(items, newPaymentResponse(record))
		}
		responses.WriteSuccess(w, historyResponse{Payments: items})
	}
}

func callerID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid user identity")
	}
	return id, nil
}

type createOrderRequest struct {
	AmountRupees int64     `json:"amount_rupees" validate:"required,gt=0"`
	PaymentType  string    `json:"payment_type" validate:"required,oneof=rent deposit maintenance other"`
	LandlordID   uuid.UUID `json:"landlord_id" validate:"required"`
	PropertyID   uuid.UUID `json:"property_id" validate:"required"`
	Description  string    `json:"description,omitempty" validate:"omitempty,max=255"`
}

type verifyRequest struct {
	GatewayOrderID   string `json:"razorpay_order_id" validate:"required"`
	GatewayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature        string `json:"razorpay_signature" validate:"required"`
}

type orderResponse struct {
	OrderID        uuid.UUID `json:"order_id"`
	GatewayOrderID string    `json:"gateway_order_id"`
	AmountRupees   int64     `json:"amount_rupees"`
	Currency       string    `json:"currency"`
	KeyID          string    `json:"key_id"`
	Description    string    `json:"description,omitempty"`
}

type verifyResponse struct {
	OrderID   uuid.UUID `json:"order_id"`
	PaymentID uuid.UUID `json:"payment_id"`
	Status    string    `json:"status"`
	Settled   bool      `json:"settled"`
}

type historyResponse struct {
	Payments []paymentResponse `json:"payments"`
}

type paymentResponse struct {
	PaymentID        uuid.UUID `json:"payment_id"`
	OrderID          uuid.UUID `json:"order_id"`
	GatewayOrderID   string    `json:"gateway_order_id"`
	GatewayPaymentID string    `json:"gateway_payment_id,omitempty"`
	AmountRupees     int64     `json:"amount_rupees"`
	Status           string    `json:"status"`
	PaymentDate      string    `json:"payment_date"`
	PaymentType      string    `json:"payment_type"`
	PropertyID       uuid.UUID `json:"property_id"`
}

func newOrderResponse(descriptor *paymentsvc.CheckoutDescriptor) orderResponse {
	if descriptor == nil {
		return orderResponse{}
	}
	return orderResponse{
		OrderID:        descriptor.OrderID,
		GatewayOrderID: descriptor.GatewayOrderID,
		AmountRupees:   descriptor.AmountRupees,
		Currency:       descriptor.Currency,
		KeyID:          descriptor.KeyID,
		Description:    descriptor.Description,
	}
}

func newPaymentResponse(record models.Payment) paymentResponse {
	return paymentResponse{
		PaymentID:        record.ID,
		OrderID:          record.OrderID,
		GatewayOrderID:   record.GatewayOrderID,
		GatewayPaymentID: record.GatewayPaymentID,
		AmountRupees:     record.AmountRupees,
		Status:           string(record.Status),
		PaymentDate:      record.PaymentDate.UTC().Format("2006-01-02T15:04:05Z07:00"),
		PaymentType:      string(record.PaymentType),
		PropertyID:       record.PropertyID,
	}
}
