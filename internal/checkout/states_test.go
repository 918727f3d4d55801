package checkout

import (
	"testing"

	"github.com/Shaivan19/rentease-payments/pkg/enums"
	pkgerrors "github.com/Shaivan19/rentease-payments/pkg/errors"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from enums.CheckoutState
		to   enums.CheckoutState
		want bool
	}{
		{enums.CheckoutStateUninitialized, enums.CheckoutStateLoading, true},
		{enums.CheckoutStateLoading, enums.CheckoutStateReady, true},
		{enums.CheckoutStateLoading, enums.CheckoutStateUninitialized, true},
		{enums.CheckoutStateReady, enums.CheckoutStateOpen, true},
		{enums.CheckoutStateOpen, enums.CheckoutStateCallbackReceived, true},
		{enums.CheckoutStateOpen, enums.CheckoutStateUserAbandoned, true},
		{enums.CheckoutStateUninitialized, enums.CheckoutStateReady, false},
		{enums.CheckoutStateReady, enums.CheckoutStateCallbackReceived, false},
		{enums.CheckoutStateUserAbandoned, enums.CheckoutStateCallbackReceived, false},
		{enums.CheckoutStateCallbackReceived, enums.CheckoutStateUserAbandoned, false},
		{enums.CheckoutStateUserAbandoned, enums.CheckoutStateOpen, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTransitionReturnsStateConflict(t *testing.T) {
	err := Transition(enums.CheckoutStateUserAbandoned, enums.CheckoutStateCallbackReceived)
	if err == nil {
		t.Fatal("expected state conflict for terminal transition")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict code, got %v", err)
	}

	if err := Transition(enums.CheckoutStateOpen, enums.CheckoutStateUserAbandoned); err != nil {
		t.Fatalf("valid transition should pass: %v", err)
	}
}
