package razorpay

import (
	"errors"
	"fmt"
	"strings"
)

const defaultCurrency = "INR"

// OrderCreateParams describes a gateway order in whole rupees.
type OrderCreateParams struct {
	AmountRupees int64
	Currency     string
	Receipt      string
	Notes        map[string]string
}

func (p OrderCreateParams) validate() error {
	if p.AmountRupees <= 0 {
		return errors.New("amount must be positive")
	}
	return nil
}

func (p OrderCreateParams) currency() string {
	cur := strings.TrimSpace(strings.ToUpper(p.Currency))
	if cur == "" {
		return defaultCurrency
	}
	return cur
}

func (p OrderCreateParams) toRequest(receipt string) map[string]interface{} {
	req := map[string]interface{}{
		"amount":   p.AmountRupees * 100, // paise
		"currency": p.currency(),
		"receipt":  receipt,
	}
	if len(p.Notes) > 0 {
		notes := make(map[string]interface{}, len(p.Notes))
		for k, v := range p.Notes {
			notes[k] = v
		}
		req["notes"] = notes
	}
	return req
}

// Order is the subset of the gateway order response the service relies on.
// AmountPaise carries the echoed amount exactly as the gateway returned it;
// AmountRupees is its whole-rupee rendering and loses sub-rupee drift.
type Order struct {
	ID           string
	AmountPaise  int64
	AmountRupees int64
	Currency     string
	Receipt      string
	Status       string
}

func orderFromResponse(resp map[string]interface{}, receipt string) (*Order, error) {
	if resp == nil {
		return nil, errors.New("empty gateway response")
	}
	id, _ := resp["id"].(string)
	if id == "" {
		return nil, errors.New("gateway response missing order id")
	}

	amountPaise, err := numericField(resp, "amount")
	if err != nil {
		return nil, err
	}

	order := &Order{
		ID:           id,
		AmountPaise:  amountPaise,
		AmountRupees: amountPaise / 100,
		Currency:     defaultCurrency,
		Receipt:      receipt,
	}
	if cur, ok := resp["currency"].(string); ok && cur != "" {
		order.Currency = cur
	}
	if rcpt, ok := resp["receipt"].(string); ok && rcpt != "" {
		order.Receipt = rcpt
	}
	if status, ok := resp["status"].(string); ok {
		order.Status = status
	}
	return order, nil
}

// numericField tolerates the json/int drift in the SDK's map responses.
func numericField(resp map[string]interface{}, key string) (int64, error) {
	switch v := resp[key].(type) {
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("gateway response missing numeric %q", key)
	}
}
