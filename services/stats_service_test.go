package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/catering-app/models"
)

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	bookings := NewBookingService(db, nil, nil, BookingOptions{})
	orders := NewOrderService(db, nil, nil, bookings)
	alice := seedUser(t, db, "alice@example.com", models.RoleCustomer)
	staff := seedUser(t, db, "staff@example.com", models.RoleStaff)
	menus := seedMenus(t, db, 100)
	ctx := context.Background()

	soon := bookingRequest(2, menus...)
	soon.EventDate = "2026-12-10"
	later := bookingRequest(3, menus...)
	later.EventDate = "2027-06-01"
	dropped := bookingRequest(5, menus...)
	dropped.EventDate = "2026-12-12"

	_, err := bookings.CreateBooking(ctx, alice, soon, "")
	require.NoError(t, err)
	_, err = bookings.CreateBooking(ctx, alice, later, "")
	require.NoError(t, err)
	c, err := bookings.CreateBooking(ctx, alice, dropped, "")
	require.NoError(t, err)
	_, err = bookings.UpdateBookingStatus(ctx, alice, c.Booking.ID, "Cancelled")
	require.NoError(t, err)
	_, err = orders.UpdateOrderStatus(ctx, staff, c.Order.ID, "Preparing")
	require.NoError(t, err)

	svc := NewStatsService(db)
	svc.Now = func() time.Time { return time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC) }

	stats, err := svc.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalBookings)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(2), stats.BookingsByStatus["Pending"])
	assert.Equal(t, int64(1), stats.BookingsByStatus["Cancelled"])
	assert.Equal(t, int64(0), stats.BookingsByStatus["Completed"])
	assert.Equal(t, int64(2), stats.OrdersByStatus["Pending"])
	assert.Equal(t, int64(1), stats.OrdersByStatus["Preparing"])
	assert.Equal(t, 500.0, stats.BookedRevenue)
	assert.Equal(t, int64(1), stats.UpcomingEvents)
}
