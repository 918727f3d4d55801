package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"testing"

	pkgerrors "github.com/Shaivan19/rentease-payments/pkg/errors"
	"github.com/Shaivan19/rentease-payments/pkg/logger"
	"github.com/rs/zerolog"
)

type fakeOrderAPI struct {
	resp map[string]interface{}
	err  error
	got  map[string]interface{}
}

func (f *fakeOrderAPI) Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error) {
	f.got = data
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

func TestCreateOrderConvertsRupeesToPaise(t *testing.T) {
	fake := &fakeOrderAPI{resp: map[string]interface{}{
		"id":       "order_abc",
		"amount":   float64(250000),
		"currency": "INR",
		"receipt":  "re-receipt",
		"status":   "created",
	}}
	c := &Client{orders: fake, keyID: "rzp_test_key", keySecret: "secret", logger: testLogger()}

	order, err := c.CreateOrder(context.Background(), OrderCreateParams{
		AmountRupees: 2500,
		Receipt:      "re-receipt",
		Notes:        map[string]string{"property_id": "prop-1"},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if fake.got["amount"] != int64(250000) {
		t.Fatalf("expected 250000 paise on the wire, got %v", fake.got["amount"])
	}
	if fake.got["currency"] != "INR" {
		t.Fatalf("expected INR currency, got %v", fake.got["currency"])
	}
	if order.ID != "order_abc" {
		t.Fatalf("unexpected order id %s", order.ID)
	}
	if order.AmountPaise != 250000 {
		t.Fatalf("expected echoed paise preserved, got %d", order.AmountPaise)
	}
	if order.AmountRupees != 2500 {
		t.Fatalf("expected amount echoed back in rupees, got %d", order.AmountRupees)
	}
	if order.Receipt != "re-receipt" {
		t.Fatalf("unexpected receipt %s", order.Receipt)
	}
}

func TestCreateOrderKeepsSubRupeeEchoDistinct(t *testing.T) {
	fake := &fakeOrderAPI{resp: map[string]interface{}{
		"id":     "order_abc",
		"amount": float64(250099),
	}}
	c := &Client{orders: fake, keyID: "rzp_test_key", keySecret: "secret", logger: testLogger()}

	order, err := c.CreateOrder(context.Background(), OrderCreateParams{AmountRupees: 2500})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.AmountPaise != 250099 {
		t.Fatalf("expected 250099 paise preserved, got %d", order.AmountPaise)
	}
	if order.AmountPaise == 2500*100 {
		t.Fatal("a 99 paise drift must stay distinguishable from a faithful echo")
	}
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	c := &Client{orders: &fakeOrderAPI{}, keySecret: "secret", logger: testLogger()}
	_, err := c.CreateOrder(context.Background(), OrderCreateParams{AmountRupees: 0})
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestCreateOrderMapsGatewayFailure(t *testing.T) {
	fake := &fakeOrderAPI{err: errors.New("BAD_REQUEST_ERROR: amount exceeds maximum")}
	c := &Client{orders: fake, keySecret: "secret", logger: testLogger()}

	_, err := c.CreateOrder(context.Background(), OrderCreateParams{AmountRupees: 2500})
	if err == nil {
		t.Fatal("expected gateway error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %v", err)
	}
}

func TestCreateOrderRejectsResponseWithoutID(t *testing.T) {
	fake := &fakeOrderAPI{resp: map[string]interface{}{"amount": float64(100)}}
	c := &Client{orders: fake, keySecret: "secret", logger: testLogger()}

	if _, err := c.CreateOrder(context.Background(), OrderCreateParams{AmountRupees: 1}); err == nil {
		t.Fatal("expected error for response missing order id")
	}
}

func TestVerifyPaymentSignature(t *testing.T) {
	secret := "gateway-secret"
	c := &Client{keySecret: secret, logger: testLogger()}
	orderID := "order_abc"
	paymentID := "pay_xyz"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	signature := hex.EncodeToString(mac.Sum(nil))

	if !c.VerifyPaymentSignature(context.Background(), orderID, paymentID, signature) {
		t.Fatal("expected matching signature to verify")
	}
	if c.VerifyPaymentSignature(context.Background(), orderID, paymentID, signature[:len(signature)-2]+"ff") {
		t.Fatal("tampered signature should fail")
	}
	if c.VerifyPaymentSignature(context.Background(), orderID, "pay_other", signature) {
		t.Fatal("signature for another payment should fail")
	}
	if c.VerifyPaymentSignature(context.Background(), orderID, paymentID, "") {
		t.Fatal("empty signature should fail")
	}
}

func TestNewReceipt(t *testing.T) {
	c := &Client{}
	if got := c.NewReceipt("rent"); !strings.HasPrefix(got, "rent-") {
		t.Fatalf("generated receipt %q missing prefix", got)
	}
	if got := c.NewReceipt(" "); !strings.HasPrefix(got, "re-") {
		t.Fatalf("blank prefix should fall back, got %q", got)
	}
}

func TestRedact(t *testing.T) {
	c := &Client{}
	if out := c.redact("razorpay_signature", "abc123"); out != "[REDACTED]" {
		t.Fatalf("expected redacted value, got %v", out)
	}
	if v := c.redact("status", "created"); v != "created" {
		t.Fatalf("unexpected redaction for safe key")
	}
}
