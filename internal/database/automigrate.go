package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"trellone-sync/internal/domain"
)

// AutoMigrate creates or updates the preference store tables
func AutoMigrate(db *gorm.DB, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	models := []interface{}{
		&domain.UIPreference{},
	}

	for _, m := range models {
		existed := db.Migrator().HasTable(m)
		if err := db.AutoMigrate(m); err != nil {
			logger.Error("Failed to migrate table",
				zap.String("model", fmt.Sprintf("%T", m)),
				zap.Bool("table_existed", existed),
				zap.Error(err),
			)
			return fmt.Errorf("failed to run auto-migration: %w", err)
		}
		logger.Debug("Migrated table",
			zap.String("model", fmt.Sprintf("%T", m)),
			zap.Bool("was_existing", existed),
		)
	}

	return nil
}
