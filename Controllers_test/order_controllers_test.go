package Controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeremiapane/catering-app/controllers"
	"github.com/yeremiapane/catering-app/middlewares"
	"github.com/yeremiapane/catering-app/models"
	"github.com/yeremiapane/catering-app/services"
)

func setupOrderRouter(db *gorm.DB) http.Handler {
	bookingSvc := services.NewBookingService(db, nil, nil, services.BookingOptions{})
	bookingCtrl := controllers.NewBookingController(bookingSvc)
	orderCtrl := controllers.NewOrderController(services.NewOrderService(db, nil, nil, bookingSvc))

	router := newRouter()
	router.POST("/bookings", asUser(db), bookingCtrl.CreateBooking)
	orders := router.Group("/orders", asUser(db))
	orders.GET("", orderCtrl.GetMyOrders)
	orders.POST("", orderCtrl.CreateOrder)
	orders.GET("/:id", orderCtrl.GetOrderByID)
	orders.PATCH("/:id", orderCtrl.UpdateOrderStatus)
	router.GET("/admin/orders", asUser(db), middlewares.RequireRoles(models.RoleAdmin, models.RoleStaff), orderCtrl.ListAllOrders)
	return router
}

func TestOrderListingAndStatus(t *testing.T) {
	db := setupTestDB(t)
	router := setupOrderRouter(db)
	alice := seedUser(t, db, "alice@example.com", models.RoleCustomer)
	bob := seedUser(t, db, "bob@example.com", models.RoleCustomer)
	staff := seedUser(t, db, "staff@example.com", models.RoleStaff)
	m := seedMenu(t, db, "Satay", 100)

	w, env := doJSON(t, router, "POST", "/bookings", bookingBody(2, m.ID), userHeader(alice))
	require.Equal(t, http.StatusCreated, w.Code)
	var pair bookingPair
	require.NoError(t, json.Unmarshal(env.Data, &pair))

	w, env = doJSON(t, router, "GET", "/orders", nil, userHeader(alice))
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	require.Len(t, orders, 1)
	require.NotNil(t, orders[0].Booking)
	assert.Equal(t, pair.Booking.ID, orders[0].Booking.ID)
	assert.Equal(t, []uint{m.ID}, orders[0].Booking.MenuIDs)
	require.Len(t, orders[0].MenuItems, 1)
	assert.Equal(t, "Satay", orders[0].MenuItems[0].Title)

	w, env = doJSON(t, router, "GET", "/orders", nil, userHeader(bob))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	path := fmt.Sprintf("/orders/%d", pair.Order.ID)
	w, _ = doJSON(t, router, "GET", path, nil, userHeader(bob))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, router, "PATCH", path, map[string]string{"status": "Preparing"}, userHeader(alice))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = doJSON(t, router, "PATCH", path, map[string]string{"status": "Preparing"}, userHeader(staff))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"status":"Preparing"`)

	var booking models.Booking
	require.NoError(t, db.First(&booking, pair.Booking.ID).Error)
	assert.Equal(t, models.BookingPending, booking.Status)

	w, env = doJSON(t, router, "GET", "/admin/orders?status=Preparing", nil, userHeader(staff))
	require.Equal(t, http.StatusOK, w.Code)
	var preparing []models.Order
	require.NoError(t, json.Unmarshal(env.Data, &preparing))
	assert.Len(t, preparing, 1)
}

func TestCreateManualOrder(t *testing.T) {
	db := setupTestDB(t)
	router := setupOrderRouter(db)
	alice := seedUser(t, db, "alice@example.com", models.RoleCustomer)
	m := seedMenu(t, db, "Satay", 100)

	w, env := doJSON(t, router, "POST", "/orders", map[string]interface{}{
		"menuItems":  []uint{m.ID},
		"totalPrice": 250,
	}, userHeader(alice))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order models.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, 250.0, order.TotalPrice)
	assert.Equal(t, []uint{m.ID}, order.MenuItemIDs)
	assert.Nil(t, order.BookingID)

	w, env = doJSON(t, router, "POST", "/orders", map[string]interface{}{"menuItems": []uint{m.ID}}, userHeader(alice))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "totalPrice is required", env.Message)

	w, _ = doJSON(t, router, "POST", "/orders", map[string]interface{}{"booking": 4242, "totalPrice": 1}, userHeader(alice))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, router, "GET", "/orders", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEmptyListsReturnArrays(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice@example.com", models.RoleCustomer)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin)

	orderRouter := setupOrderRouter(db)
	bookingRouter := setupBookingRouter(db, services.BookingOptions{})

	for _, tc := range []struct {
		router http.Handler
		path   string
		user   models.User
	}{
		{orderRouter, "/orders", alice},
		{orderRouter, "/admin/orders", admin},
		{bookingRouter, "/bookings", alice},
		{bookingRouter, "/admin/bookings", admin},
	} {
		w, env := doJSON(t, tc.router, "GET", tc.path, nil, userHeader(tc.user))
		require.Equal(t, http.StatusOK, w.Code, tc.path)
		assert.JSONEq(t, `[]`, string(env.Data), tc.path)
	}
}
