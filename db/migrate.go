package db

import (
	"fmt"

	"github.com/meinhoongagan/amigos-app/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Migrate runs AutoMigrate for every persisted model.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Availability{},
		&models.Booking{},
		&models.Review{},
		&models.Favorite{},
	)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	log.Info().Msg("migrations applied successfully")
	return nil
}
