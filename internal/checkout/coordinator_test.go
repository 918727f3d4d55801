package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Shaivan19/rentease-payments/pkg/enums"
	pkgerrors "github.com/Shaivan19/rentease-payments/pkg/errors"
)

func TestEnsureReadyInitializesOnce(t *testing.T) {
	calls := 0
	coord, err := NewCoordinator(func(ctx context.Context) error {
		calls++
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("new coordinator: %v", err)
	}

	if got := coord.State(); got != enums.CheckoutStateUninitialized {
		t.Fatalf("expected uninitialized start, got %s", got)
	}

	for i := 0; i < 3; i++ {
		if err := coord.EnsureReady(context.Background()); err != nil {
			t.Fatalf("ensure ready: %v", err)
		}
	}

	if calls != 1 {
		t.Fatalf("expected a single init call, got %d", calls)
	}
	if got := coord.State(); got != enums.CheckoutStateReady {
		t.Fatalf("expected ready state, got %s", got)
	}
}

func TestEnsureReadyRetriesAfterFailure(t *testing.T) {
	calls := 0
	coord, err := NewCoordinator(func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("gateway unreachable")
		}
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("new coordinator: %v", err)
	}

	err = coord.EnsureReady(context.Background())
	if err == nil {
		t.Fatal("expected first attempt to fail")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %v", err)
	}
	if got := coord.State(); got != enums.CheckoutStateUninitialized {
		t.Fatalf("failed load should fall back to uninitialized, got %s", got)
	}

	if err := coord.EnsureReady(context.Background()); err != nil {
		t.Fatalf("second attempt should succeed: %v", err)
	}
	if got := coord.State(); got != enums.CheckoutStateReady {
		t.Fatalf("expected ready after retry, got %s", got)
	}
}

func TestResetForcesReload(t *testing.T) {
	calls := 0
	coord, _ := NewCoordinator(func(ctx context.Context) error {
		calls++
		return nil
	}, nil)

	if err := coord.EnsureReady(context.Background()); err != nil {
		t.Fatalf("ensure ready: %v", err)
	}
	coord.Reset()
	if got := coord.State(); got != enums.CheckoutStateUninitialized {
		t.Fatalf("expected uninitialized after reset, got %s", got)
	}
	if err := coord.EnsureReady(context.Background()); err != nil {
		t.Fatalf("ensure ready after reset: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected reload after reset, got %d init calls", calls)
	}
}

func TestEnsureReadyConcurrent(t *testing.T) {
	calls := 0
	coord, _ := NewCoordinator(func(ctx context.Context) error {
		calls++
		return nil
	}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := coord.EnsureReady(context.Background()); err != nil {
				t.Errorf("ensure ready: %v", err)
			}
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Fatalf("init should run once under contention, ran %d times", calls)
	}
}

func TestNewCoordinatorRequiresInit(t *testing.T) {
	if _, err := NewCoordinator(nil, nil); err == nil {
		t.Fatal("expected error for nil init func")
	}
}
