package database

import (
	"fmt"

	"github.com/yeremiapane/catering-app/models"
	"github.com/yeremiapane/catering-app/utils"
	"gorm.io/gorm"
)

// Models lists every persisted type in dependency order.
var Models = []interface{}{
	&models.User{},
	&models.Menu{},
	&models.Booking{},
	&models.BookingLine{},
	&models.Order{},
	&models.OrderItem{},
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
