package migrate

import (
	"context"
	"fmt"

	"github.com/Shaivan19/rentease-payments/pkg/db"
	"github.com/Shaivan19/rentease-payments/pkg/db/models"
	"github.com/Shaivan19/rentease-payments/pkg/logger"
)

// autoMigrateSQLite builds the schema from the gorm models. Goose migrations
// target Postgres; local SQLite runs get the equivalent schema this way.
func autoMigrateSQLite(ctx context.Context, logg *logger.Logger, client *db.Client) error {
	logg.Info(ctx, "running gorm AutoMigrate (sqlite)")
	if err := client.DB().WithContext(ctx).AutoMigrate(
		&models.PaymentOrder{},
		&models.Payment{},
		&models.EarningsPeriod{},
	); err != nil {
		return fmt.Errorf("sqlite auto-migrate: %w", err)
	}
	return nil
}
