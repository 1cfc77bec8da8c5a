package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/catering-app/database"
	"github.com/yeremiapane/catering-app/events"
	"github.com/yeremiapane/catering-app/models"
)

var dbSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:services_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) Identity {
	t.Helper()
	user := models.User{Name: email, Email: email, Password: "x", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
}

func seedMenus(t *testing.T, db *gorm.DB, prices ...float64) []uint {
	t.Helper()
	ids := make([]uint, len(prices))
	for i, p := range prices {
		menu := models.Menu{Title: fmt.Sprintf("Dish %d", i+1), Category: "Main", EventType: models.MenuEventTypeAll, Price: p}
		require.NoError(t, db.Create(&menu).Error)
		ids[i] = menu.ID
	}
	return ids
}

func bookingRequest(guests int, menuIDs ...uint) CreateBookingRequest {
	return CreateBookingRequest{
		FullName:  "Alice Doe",
		Email:     "alice@example.com",
		EventType: "Wedding",
		EventDate: "2026-12-24",
		Venue:     "Grand Hall",
		Guests:    GuestCount(guests),
		MenuIDs:   menuIDs,
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type recordingRecorder struct {
	created     []string
	revenue     float64
	transitions []string
}

func (r *recordingRecorder) BookingCreated(eventType string, total float64) {
	r.created = append(r.created, eventType)
	r.revenue += total
}

func (r *recordingRecorder) StatusTransition(entity, from, to string) {
	r.transitions = append(r.transitions, entity+":"+from+"->"+to)
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
