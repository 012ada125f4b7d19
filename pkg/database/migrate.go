package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sambrocindrela-ctrl/gestor-examens/internal/model"
)

// AutoMigrate brings the embedded database schema up to date.
func AutoMigrate(db *gorm.DB, logger *zap.Logger) error {
	if err := db.AutoMigrate(&model.Plan{}); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	logger.Info("database schema migrated")
	return nil
}
