package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EarningsPeriod is one month of a landlord's earnings series. Earned grows as
// settlements land; Target is the baseline every new period is seeded with.
type EarningsPeriod struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	LandlordID   uuid.UUID       `gorm:"column:landlord_id;type:uuid;not null;uniqueIndex:idx_earnings_landlord_period"`
	Period       string          `gorm:"column:period;not null;uniqueIndex:idx_earnings_landlord_period"`
	EarnedRupees decimal.Decimal `gorm:"column:earned_rupees;type:numeric(14,2);not null"`
	TargetRupees decimal.Decimal `gorm:"column:target_rupees;type:numeric(14,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
