package earnings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Shaivan19/rentease-payments/pkg/db"
	"github.com/Shaivan19/rentease-payments/pkg/db/models"
	pkgerrors "github.com/Shaivan19/rentease-payments/pkg/errors"
	"github.com/Shaivan19/rentease-payments/pkg/events"
	"github.com/Shaivan19/rentease-payments/pkg/logger"
)

// periodKey is the month bucket settlements aggregate into.
const periodLayout = "2006-01"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the earnings service.
type ServiceParams struct {
	Repo           Repository
	Tx             txRunner
	BaselineTarget int64
	Logger         *logger.Logger
}

// Service maintains per-landlord monthly earnings aggregates.
type Service struct {
	repo           Repository
	tx             txRunner
	baselineTarget decimal.Decimal
	logger         *logger.Logger
}

// NewService builds an earnings service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Tx == nil {
		return nil, errors.New("tx runner is required")
	}
	if params.BaselineTarget < 0 {
		return nil, errors.New("baseline target must not be negative")
	}
	return &Service{
		repo:           params.Repo,
		tx:             params.Tx,
		baselineTarget: decimal.NewFromInt(params.BaselineTarget),
		logger:         params.Logger,
	}, nil
}

// RecordSettlement folds one settlement into the landlord's month. The first
// settlement of a month creates the period seeded with the baseline target.
func (s *Service) RecordSettlement(ctx context.Context, evt events.SettlementEvent) error {
	if evt.LandlordID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "settlement missing landlord id")
	}
	if evt.AmountRupees <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "settlement amount must be positive")
	}

	period := PeriodFor(evt.OccurredAt)
	amount := decimal.NewFromInt(evt.AmountRupees)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.fold(ctx, s.repo.WithTx(tx), evt.LandlordID, period, amount)
	})
	if err != nil {
		return err
	}

	if s.logger != nil {
		fields := map[string]any{
			"landlord_id":   evt.LandlordID.String(),
			"period":        period,
			"amount_rupees": evt.AmountRupees,
		}
		s.logger.Info(s.logger.WithFields(ctx, fields), "settlement recorded in earnings")
	}
	return nil
}

func (s *Service) fold(ctx context.Context, repo Repository, landlordID uuid.UUID, period string, amount decimal.Decimal) error {
	row, err := repo.FindPeriod(ctx, landlordID, period)
	if err != nil {
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			return err
		}
		created := &models.EarningsPeriod{
			ID:           uuid.New(),
			LandlordID:   landlordID,
			Period:       period,
			EarnedRupees: amount,
			TargetRupees: s.baselineTarget,
		}
		createErr := repo.CreatePeriod(ctx, created)
		if createErr == nil {
			return nil
		}
		// Two settlements racing on a fresh month: fall through to the update path.
		if !db.IsUniqueViolation(createErr, "idx_earnings_landlord_period") {
			return createErr
		}
		row, err = repo.FindPeriod(ctx, landlordID, period)
		if err != nil {
			return err
		}
	}

	row.EarnedRupees = row.EarnedRupees.Add(amount)
	return repo.UpdatePeriod(ctx, row)
}

// Overview returns the landlord's earnings months, newest first.
func (s *Service) Overview(ctx context.Context, landlordID uuid.UUID) ([]models.EarningsPeriod, error) {
	if landlordID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "landlord id is required")
	}
	return s.repo.ListByLandlord(ctx, landlordID)
}

// AttachTo subscribes the service to the settlement bus and returns the
// unsubscribe function.
func (s *Service) AttachTo(bus *events.Bus) func() {
	return bus.Subscribe(s.RecordSettlement)
}

// PeriodFor maps an instant to its month bucket.
func PeriodFor(at time.Time) string {
	if at.IsZero() {
		at = time.Now()
	}
	return at.UTC().Format(periodLayout)
}
