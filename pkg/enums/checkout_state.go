package enums

import "fmt"

// CheckoutState tracks a checkout session bound to one gateway order.
//
// Ready and CheckoutOpen are reached while the session is live; the terminal
// states are CallbackReceived (the gateway invoked the completion callback)
// and UserAbandoned (the tenant closed checkout without paying). An abandoned
// session never transitions again.
type CheckoutState string

const (
	CheckoutStateUninitialized    CheckoutState = "uninitialized"
	CheckoutStateLoading          CheckoutState = "loading"
	CheckoutStateReady            CheckoutState = "ready"
	CheckoutStateOpen             CheckoutState = "checkout_open"
	CheckoutStateCallbackReceived CheckoutState = "callback_received"
	CheckoutStateUserAbandoned    CheckoutState = "user_abandoned"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateUninitialized,
	CheckoutStateLoading,
	CheckoutStateReady,
	CheckoutStateOpen,
	CheckoutStateCallbackReceived,
	CheckoutStateUserAbandoned,
}

// String implements fmt.Stringer.
func (s CheckoutState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CheckoutState.
func (s CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the session can no longer transition.
func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStateCallbackReceived || s == CheckoutStateUserAbandoned
}

// ParseCheckoutState converts raw input into a CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
