package checkout

import (
	"fmt"

	"github.com/Shaivan19/rentease-payments/pkg/enums"
	pkgerrors "github.com/Shaivan19/rentease-payments/pkg/errors"
)

// allowedTransitions encodes the checkout lifecycle. Terminal states have no
// outgoing edges; a failed load falls back to uninitialized so it can retry.
var allowedTransitions = map[enums.CheckoutState][]enums.CheckoutState{
	enums.CheckoutStateUninitialized: {enums.CheckoutStateLoading},
	enums.CheckoutStateLoading:       {enums.CheckoutStateReady, enums.CheckoutStateUninitialized},
	enums.CheckoutStateReady:         {enums.CheckoutStateOpen},
	enums.CheckoutStateOpen:          {enums.CheckoutStateCallbackReceived, enums.CheckoutStateUserAbandoned},
}

// CanTransition reports whether the lifecycle permits moving from one state to
// another.
func CanTransition(from, to enums.CheckoutState) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a state change and returns a state-conflict error when
// the lifecycle forbids it.
func Transition(from, to enums.CheckoutState) error {
	if !CanTransition(from, to) {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("checkout session cannot move from %s to %s", from, to))
	}
	return nil
}
