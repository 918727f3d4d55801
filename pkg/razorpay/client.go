package razorpay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	rzp "github.com/razorpay/razorpay-go"
	rzputils "github.com/razorpay/razorpay-go/utils"

	"github.com/Shaivan19/rentease-payments/pkg/config"
	pkgerrors "github.com/Shaivan19/rentease-payments/pkg/errors"
	"github.com/Shaivan19/rentease-payments/pkg/logger"
)

var (
	errKeyIDRequired     = errors.New("razorpay key id is required")
	errKeySecretRequired = errors.New("razorpay key secret is required")
	errLoggerRequired    = errors.New("razorpay logger is required")
)

type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Client exposes Razorpay primitives with centralized logging, receipts, and error mapping.
type Client struct {
	orders    orderAPI
	keyID     string
	keySecret string
	logger    *logger.Logger
}

// NewClient initializes the Razorpay wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.RazorpayConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}

	keyID := strings.TrimSpace(cfg.KeyID)
	if keyID == "" {
		return nil, errKeyIDRequired
	}
	keySecret := strings.TrimSpace(cfg.KeySecret)
	if keySecret == "" {
		return nil, errKeySecretRequired
	}

	sdk := rzp.NewClient(keyID, keySecret)

	c := &Client{
		orders:    sdk.Order,
		keyID:     keyID,
		keySecret: keySecret,
		logger:    logg,
	}

	logg.Info(ctx, "razorpay client initialized")
	return c, nil
}

// KeyID returns the publishable key checkout clients embed.
func (c *Client) KeyID() string {
	if c == nil {
		return ""
	}
	return c.keyID
}

// NewReceipt returns a unique receipt reference for gateway orders.
func (c *Client) NewReceipt(prefix string) string {
	ref := strings.TrimSpace(prefix)
	if ref == "" {
		ref = "re"
	}
	return fmt.Sprintf("%s-%s", ref, uuid.NewString())
}

// CreateOrder registers an order with the gateway and returns its identifiers.
// Amounts cross the wire in paise; everything above this package stays in rupees.
func (c *Client) CreateOrder(ctx context.Context, params OrderCreateParams) (*Order, error) {
	if err := params.validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order parameters")
	}

	receipt := params.Receipt
	if receipt == "" {
		receipt = c.NewReceipt("re")
	}

	c.log(ctx, "request", "create_order", map[string]any{
		"amount_rupees": params.AmountRupees,
		"currency":      params.currency(),
		"receipt":       receipt,
	})

	resp, err := c.orders.Create(params.toRequest(receipt), nil)
	if err != nil {
		c.log(ctx, "error", "create_order", map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "razorpay create order failed")
	}

	order, err := orderFromResponse(resp, receipt)
	if err != nil {
		c.log(ctx, "error", "create_order", map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "razorpay create order failed")
	}

	c.log(ctx, "response", "create_order", map[string]any{
		"order_id": order.ID,
		"status":   order.Status,
	})
	return order, nil
}

// VerifyPaymentSignature recomputes the callback HMAC over "order_id|payment_id"
// with the key secret and compares it to the gateway-provided signature.
func (c *Client) VerifyPaymentSignature(ctx context.Context, orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	ok := rzputils.VerifyPaymentSignature(params, signature, c.keySecret)
	c.log(ctx, "response", "verify_signature", map[string]any{
		"order_id": orderID,
		"verified": ok,
	})
	return ok
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = c.redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("razorpay %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("razorpay %s", phase))
	}
}

func (c *Client) redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"secret", "signature", "token", "card", "email", "phone"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}
