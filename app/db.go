package app

import (
	"fmt"

	"alfredoramos.mx/rescue-reporter/models"
	"alfredoramos.mx/rescue-reporter/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(dsn string) (*gorm.DB, error) {
	logLevel := logger.Warn

	if utils.IsDebug() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction:                   true,
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("Could not connect to PostgreSQL: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the tables. Reports keep a plain reference to
// their NGO, without a foreign key, so removing an NGO never touches reports.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Ngo{},
		&models.Report{},
		&models.Notification{},
	); err != nil {
		return fmt.Errorf("Could not migrate models: %w", err)
	}

	return nil
}
