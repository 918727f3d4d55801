package earnings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Shaivan19/rentease-payments/pkg/db/models"
	pkgerrors "github.com/Shaivan19/rentease-payments/pkg/errors"
)

// Repository handles earnings persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindPeriod(ctx context.Context, landlordID uuid.UUID, period string) (*models.EarningsPeriod, error)
	CreatePeriod(ctx context.Context, period *models.EarningsPeriod) error
	UpdatePeriod(ctx context.Context, period *models.EarningsPeriod) error
	ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]models.EarningsPeriod, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an earnings repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindPeriod(ctx context.Context, landlordID uuid.UUID, period string) (*models.EarningsPeriod, error) {
	var row models.EarningsPeriod
	err := r.db.WithContext(ctx).
		Where("landlord_id = ? AND period = ?", landlordID, period).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "earnings period not found")
		}
		return nil, err
	}
	return &row, nil
}

func (r *repository) CreatePeriod(ctx context.Context, period *models.EarningsPeriod) error {
	return r.db.WithContext(ctx).Create(period).Error
}

func (r *repository) UpdatePeriod(ctx context.Context, period *models.EarningsPeriod) error {
	return r.db.WithContext(ctx).Save(period).Error
}

func (r *repository) ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]models.EarningsPeriod, error) {
	var rows []models.EarningsPeriod
	if err := r.db.WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Order("period DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
