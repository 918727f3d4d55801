package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPaymentsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_payments.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no payments migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"-- +goose Up",
		"-- +goose Down",
		"CREATE TABLE payment_orders",
		"CREATE UNIQUE INDEX idx_payment_orders_gateway_order_id ON payment_orders (gateway_order_id)",
		"CREATE TABLE payments",
		"CREATE UNIQUE INDEX idx_payments_gateway_order_id ON payments (gateway_order_id)",
		"REFERENCES payment_orders (id)",
		"CREATE TABLE earnings_periods",
		"CREATE UNIQUE INDEX idx_earnings_landlord_period ON earnings_periods (landlord_id, period)",
		"DROP TABLE payment_orders",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
