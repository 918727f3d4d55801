package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/Shaivan19/rentease-payments/pkg/enums"
	pkgerrors "github.com/Shaivan19/rentease-payments/pkg/errors"
	"github.com/Shaivan19/rentease-payments/pkg/logger"
)

// InitFunc prepares the checkout capability, typically by probing gateway
// credentials. It runs at most once per readiness attempt.
type InitFunc func(ctx context.Context) error

// Coordinator gates checkout on a lazily initialized gateway capability.
// The capability starts uninitialized, loads on first use, and falls back to
// uninitialized when loading fails so the next request retries from scratch.
type Coordinator struct {
	mu     sync.Mutex
	state  enums.CheckoutState
	init   InitFunc
	logger *logger.Logger
}

// NewCoordinator builds a coordinator around the given initializer.
func NewCoordinator(init InitFunc, logg *logger.Logger) (*Coordinator, error) {
	if init == nil {
		return nil, errors.New("init func is required")
	}
	return &Coordinator{
		state:  enums.CheckoutStateUninitialized,
		init:   init,
		logger: logg,
	}, nil
}

// State reports the current capability state.
func (c *Coordinator) State() enums.CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// EnsureReady drives the capability to ready, initializing it on first use.
// Concurrent callers serialize; each either observes ready or triggers its own
// load attempt.
func (c *Coordinator) EnsureReady(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == enums.CheckoutStateReady {
		return nil
	}

	if err := Transition(c.state, enums.CheckoutStateLoading); err != nil {
		return err
	}
	c.state = enums.CheckoutStateLoading
	if c.logger != nil {
		c.logger.Info(ctx, "initializing checkout capability")
	}

	if err := c.init(ctx); err != nil {
		c.state = enums.CheckoutStateUninitialized
		if c.logger != nil {
			c.logger.Error(ctx, "checkout capability load failed", err)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout is unavailable")
	}

	c.state = enums.CheckoutStateReady
	if c.logger != nil {
		c.logger.Info(ctx, "checkout capability ready")
	}
	return nil
}

// Reset returns the capability to uninitialized, forcing the next request to
// reload it. Used when the gateway starts rejecting calls mid-flight.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = enums.CheckoutStateUninitialized
}
