package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/catering-app/models"
)

func TestMigrateCreatesTables(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:migrate_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	// running twice must be harmless
	require.NoError(t, Migrate(db))

	for _, table := range []interface{}{
		&models.User{}, &models.Menu{}, &models.Booking{},
		&models.BookingLine{}, &models.Order{}, &models.OrderItem{},
	} {
		assert.True(t, db.Migrator().HasTable(table))
	}
	assert.True(t, db.Migrator().HasIndex(&models.Booking{}, "idx_booking_idempotency"))
}
