package services

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/catering-app/events"
	"github.com/yeremiapane/catering-app/models"
	"github.com/yeremiapane/catering-app/utils"
)

type CreateOrderRequest struct {
	Booking    *uint    `json:"booking"`
	MenuItems  []uint   `json:"menuItems"`
	TotalPrice *float64 `json:"totalPrice"`
}

type OrderFilter struct {
	Status string
}

// OrderService handles orders placed directly and the order status
// lifecycle. Orders created from a booking come from BookingService.
type OrderService struct {
	db        *gorm.DB
	publisher events.Publisher
	recorder  Recorder
	bookings  *BookingService
}

func NewOrderService(db *gorm.DB, publisher events.Publisher, recorder Recorder, bookings *BookingService) *OrderService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if bookings == nil {
		bookings = NewBookingService(db, publisher, recorder, BookingOptions{})
	}
	return &OrderService{db: db, publisher: publisher, recorder: recorder, bookings: bookings}
}

// CreateOrder stores a manual order. The total is taken as given; a linked
// booking must be visible to the caller.
func (s *OrderService) CreateOrder(ctx context.Context, id Identity, req CreateOrderRequest) (*models.Order, error) {
	if !id.Authenticated() {
		return nil, Unauthorized("authentication required")
	}
	if req.TotalPrice == nil {
		return nil, ValidationError("totalPrice is required")
	}
	if *req.TotalPrice < 0 {
		return nil, ValidationError("totalPrice must not be negative")
	}

	if req.Booking != nil {
		if *req.Booking == 0 {
			return nil, ValidationError("invalid booking id")
		}
		if _, err := s.bookings.GetBooking(ctx, id, *req.Booking); err != nil {
			return nil, err
		}
	}

	menus, err := resolveMenus(ctx, s.db, req.MenuItems, s.bookings.opts.StrictMenuIDs)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		UserID:     id.UserID,
		BookingID:  req.Booking,
		TotalPrice: *req.TotalPrice,
		Status:     models.OrderPending,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return err
		}
		if len(menus) == 0 {
			return nil
		}
		items := make([]models.OrderItem, len(menus))
		for i, m := range menus {
			items[i] = models.OrderItem{OrderID: order.ID, MenuID: m.ID, Position: i, UnitPrice: m.Price}
		}
		return tx.Omit(clause.Associations).Create(&items).Error
	})
	if err != nil {
		utils.ErrorLogger.Printf("Failed to create order for user %d: %v", id.UserID, err)
		return nil, wrapDBError("order", err)
	}

	created, err := s.GetOrder(ctx, id, order.ID)
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Infof("Order %d created for user %d", order.ID, id.UserID)
	e := events.Event{
		Type:       events.OrderCreated,
		OrderID:    order.ID,
		UserID:     id.UserID,
		Status:     string(models.OrderPending),
		TotalPrice: order.TotalPrice,
	}
	if order.BookingID != nil {
		e.BookingID = *order.BookingID
	}
	publish(ctx, s.publisher, e)
	return created, nil
}

// orderScope: staff and admins see every order, everyone else only their own.
func orderScope(id Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id.IsStaff() {
			return db
		}
		return db.Where("orders.user_id = ?", id.UserID)
	}
}

// ListOrdersForUser returns only orders whose user is the caller, whatever
// the caller's role.
func (s *OrderService) ListOrdersForUser(ctx context.Context, id Identity, page utils.Pagination) ([]models.Order, error) {
	if !id.Authenticated() {
		return nil, Unauthorized("authentication required")
	}
	orders := []models.Order{}
	err := preloadOrder(s.db.WithContext(ctx)).
		Where("orders.user_id = ?", id.UserID).
		Scopes(newestFirst, page.Scope).
		Find(&orders).Error
	if err != nil {
		return nil, wrapDBError("order", err)
	}
	for i := range orders {
		orders[i].Resolve()
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id Identity, orderID uint) (*models.Order, error) {
	if !id.Authenticated() {
		return nil, Unauthorized("authentication required")
	}
	var order models.Order
	err := preloadOrder(s.db.WithContext(ctx)).
		Scopes(orderScope(id)).
		First(&order, orderID).Error
	if err != nil {
		return nil, wrapDBError("order", err)
	}
	order.Resolve()
	return &order, nil
}

func (s *OrderService) ListAllOrders(ctx context.Context, filter OrderFilter, page utils.Pagination) ([]models.Order, error) {
	db := preloadOrder(s.db.WithContext(ctx)).Scopes(newestFirst, page.Scope)
	if filter.Status != "" {
		status := models.OrderStatus(filter.Status)
		if !status.Valid() {
			return nil, ValidationError("invalid order status %q", filter.Status)
		}
		db = db.Where("status = ?", status)
	}

	orders := []models.Order{}
	if err := db.Find(&orders).Error; err != nil {
		return nil, wrapDBError("order", err)
	}
	for i := range orders {
		orders[i].Resolve()
	}
	return orders, nil
}

// UpdateOrderStatus applies one legal transition. Staff and admins may apply
// any of them, the owner may only cancel. The linked booking is left alone.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id Identity, orderID uint, status string) (*models.Order, error) {
	if !id.Authenticated() {
		return nil, Unauthorized("authentication required")
	}
	next := models.OrderStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return nil, ValidationError("invalid order status %q", status)
	}

	var prev models.OrderStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(orderScope(id)).
			First(&order, orderID).Error
		if err != nil {
			return err
		}
		prev = order.Status

		if !id.IsStaff() && next != models.OrderCancelled {
			return Forbidden("only staff can set an order to " + string(next))
		}
		if !prev.CanTransitionTo(next) {
			return ValidationError("cannot change order status from %s to %s", prev, next)
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, prev).
			Update("status", next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return Conflict("order status was changed by another request", nil)
		}
		return nil
	})
	if err != nil {
		return nil, wrapDBError("order", err)
	}

	order, err := s.GetOrder(ctx, id, orderID)
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Infof("Order %d status %s -> %s by user %d", orderID, prev, next, id.UserID)
	s.recorder.StatusTransition("order", string(prev), string(next))
	e := events.Event{
		Type:           events.OrderStatusChanged,
		OrderID:        order.ID,
		UserID:         order.UserID,
		Status:         string(next),
		PreviousStatus: string(prev),
		TotalPrice:     order.TotalPrice,
	}
	if order.BookingID != nil {
		e.BookingID = *order.BookingID
	}
	publish(ctx, s.publisher, e)
	return order, nil
}
