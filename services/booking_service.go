package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/catering-app/events"
	"github.com/yeremiapane/catering-app/models"
	"github.com/yeremiapane/catering-app/utils"
)

const (
	ScopeUser  = "user"
	ScopeEmail = "email"
)

const dateOnly = "2006-01-02"

type BookingOptions struct {
	MinGuests     int
	StrictMenuIDs bool
	// Scope selects how bookings are matched to their owner: by user id, or
	// by the contact email on the booking.
	Scope string
}

type CreateBookingRequest struct {
	FullName  string     `json:"fullName" binding:"required"`
	Email     string     `json:"email" binding:"required,email"`
	EventType string     `json:"eventType" binding:"required"`
	EventDate string     `json:"eventDate" binding:"required"`
	Venue     string     `json:"venue" binding:"required"`
	Guests    GuestCount `json:"guests"`
	Notes     string     `json:"notes"`
	MenuIDs   []uint     `json:"menuIds"`
}

// GuestCount accepts a JSON number or a numeric string, as submitted by
// HTML form inputs.
type GuestCount int

func (g *GuestCount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return ValidationError("guests must be a whole number")
	}
	*g = GuestCount(n)
	return nil
}

type BookingResult struct {
	Booking  *models.Booking `json:"booking"`
	Order    *models.Order   `json:"order"`
	Replayed bool            `json:"-"`
}

type BookingFilter struct {
	Status string
}

// BookingService creates bookings together with their order and manages the
// booking status lifecycle.
type BookingService struct {
	db        *gorm.DB
	publisher events.Publisher
	recorder  Recorder
	opts      BookingOptions
}

func NewBookingService(db *gorm.DB, publisher events.Publisher, recorder Recorder, opts BookingOptions) *BookingService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if opts.MinGuests < 1 {
		opts.MinGuests = 1
	}
	if opts.Scope == "" {
		opts.Scope = ScopeUser
	}
	return &BookingService{db: db, publisher: publisher, recorder: recorder, opts: opts}
}

// CreateBooking validates and prices the request, then writes the booking and
// its order in one transaction. A repeated idempotency key from the same user
// returns the pair created the first time.
func (s *BookingService) CreateBooking(ctx context.Context, id Identity, req CreateBookingRequest, idempotencyKey string) (*BookingResult, error) {
	if !id.Authenticated() {
		return nil, Unauthorized("authentication required")
	}

	eventDate, err := s.validate(&req)
	if err != nil {
		return nil, err
	}

	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if len(idempotencyKey) > 100 {
		return nil, ValidationError("Idempotency-Key must be at most 100 characters")
	}
	if idempotencyKey != "" {
		if res, err := s.findReplay(ctx, id.UserID, idempotencyKey); res != nil || err != nil {
			return res, err
		}
	}

	menus, err := resolveMenus(ctx, s.db, req.MenuIDs, s.opts.StrictMenuIDs)
	if err != nil {
		return nil, err
	}
	total := ComputeTotal(menus, int(req.Guests))

	booking := models.Booking{
		UserID:     id.UserID,
		FullName:   req.FullName,
		Email:      req.Email,
		EventType:  models.EventType(req.EventType),
		EventDate:  eventDate,
		Venue:      req.Venue,
		Guests:     int(req.Guests),
		TotalPrice: total,
		Notes:      req.Notes,
		Status:     models.BookingPending,
	}
	if idempotencyKey != "" {
		booking.IdempotencyKey = &idempotencyKey
	}

	var orderID uint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&booking).Error; err != nil {
			return err
		}

		lines := make([]models.BookingLine, len(menus))
		items := make([]models.OrderItem, len(menus))
		for i, m := range menus {
			lines[i] = models.BookingLine{BookingID: booking.ID, MenuID: m.ID, Position: i, UnitPrice: m.Price}
		}
		if len(lines) > 0 {
			if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
				return err
			}
		}

		order := models.Order{
			UserID:     id.UserID,
			BookingID:  &booking.ID,
			TotalPrice: booking.TotalPrice,
			Status:     models.OrderPending,
		}
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return err
		}
		for i, line := range lines {
			items[i] = models.OrderItem{OrderID: order.ID, MenuID: line.MenuID, Position: line.Position, UnitPrice: line.UnitPrice}
		}
		if len(items) > 0 {
			if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
				return err
			}
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		// A concurrent request with the same key won the race.
		if idempotencyKey != "" && isDuplicateKey(err) {
			if res, rerr := s.findReplay(ctx, id.UserID, idempotencyKey); res != nil {
				return res, nil
			} else if rerr != nil {
				return nil, rerr
			}
		}
		utils.ErrorLogger.Printf("Failed to create booking for user %d: %v", id.UserID, err)
		return nil, wrapDBError("booking", err)
	}

	result, err := s.loadResult(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Infof("Booking %d and order %d created for user %d (total %s)",
		booking.ID, orderID, id.UserID, utils.FormatCurrency(total))
	s.recorder.BookingCreated(string(booking.EventType), total)

	now := time.Now().UTC()
	publish(ctx, s.publisher, events.Event{
		Type:       events.BookingCreated,
		BookingID:  booking.ID,
		OrderID:    orderID,
		UserID:     id.UserID,
		Status:     string(models.BookingPending),
		TotalPrice: total,
		OccurredAt: now,
	})
	publish(ctx, s.publisher, events.Event{
		Type:       events.OrderCreated,
		BookingID:  booking.ID,
		OrderID:    orderID,
		UserID:     id.UserID,
		Status:     string(models.OrderPending),
		TotalPrice: total,
		OccurredAt: now,
	})
	return result, nil
}

func (s *BookingService) validate(req *CreateBookingRequest) (time.Time, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.Venue = strings.TrimSpace(req.Venue)
	req.EventType = strings.TrimSpace(req.EventType)
	req.Notes = strings.TrimSpace(req.Notes)

	switch {
	case req.FullName == "":
		return time.Time{}, ValidationError("fullName is required")
	case req.Email == "":
		return time.Time{}, ValidationError("email is required")
	case req.Venue == "":
		return time.Time{}, ValidationError("venue is required")
	case req.EventType == "":
		return time.Time{}, ValidationError("eventType is required")
	}
	if !models.EventType(req.EventType).Valid() {
		return time.Time{}, ValidationError("invalid eventType %q", req.EventType)
	}
	if int(req.Guests) < s.opts.MinGuests {
		return time.Time{}, ValidationError("guests must be at least %d", s.opts.MinGuests)
	}
	return parseEventDate(req.EventDate)
}

func parseEventDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ValidationError("eventDate is required")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateOnly, value); err == nil {
		return t, nil
	}
	return time.Time{}, ValidationError("invalid eventDate %q", value)
}

func (s *BookingService) findReplay(ctx context.Context, userID uint, key string) (*BookingResult, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapDBError("booking", err)
	}

	res, err := s.loadResult(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	res.Replayed = true
	utils.InfoLogger.Infof("Replaying booking %d for user %d", booking.ID, userID)
	return res, nil
}

func (s *BookingService) loadResult(ctx context.Context, bookingID uint) (*BookingResult, error) {
	db := s.db.WithContext(ctx)

	var booking models.Booking
	if err := preloadBooking(db).First(&booking, bookingID).Error; err != nil {
		return nil, wrapDBError("booking", err)
	}
	booking.Resolve()

	var order models.Order
	if err := preloadOrder(db).Where("booking_id = ?", bookingID).Order("id ASC").First(&order).Error; err != nil {
		return nil, wrapDBError("order", err)
	}
	order.Resolve()

	return &BookingResult{Booking: &booking, Order: &order}, nil
}

// ownerScope limits a booking query to what id may see. Admins see all.
func (s *BookingService) ownerScope(id Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id.IsAdmin() {
			return db
		}
		if s.opts.Scope == ScopeEmail {
			return db.Where("bookings.email = ?", id.Email)
		}
		return db.Where("bookings.user_id = ?", id.UserID)
	}
}

// ListBookingsForUser returns the caller's own bookings, newest first. Admins
// get no special treatment here.
func (s *BookingService) ListBookingsForUser(ctx context.Context, id Identity, page utils.Pagination) ([]models.Booking, error) {
	if !id.Authenticated() {
		return nil, Unauthorized("authentication required")
	}
	owner := id
	owner.Role = models.RoleCustomer

	bookings := []models.Booking{}
	err := preloadBooking(s.db.WithContext(ctx)).
		Scopes(s.ownerScope(owner), newestFirst, page.Scope).
		Find(&bookings).Error
	if err != nil {
		return nil, wrapDBError("booking", err)
	}
	for i := range bookings {
		bookings[i].Resolve()
	}
	return bookings, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id Identity, bookingID uint) (*models.Booking, error) {
	if !id.Authenticated() {
		return nil, Unauthorized("authentication required")
	}
	var booking models.Booking
	err := preloadBooking(s.db.WithContext(ctx)).
		Scopes(s.ownerScope(id)).
		First(&booking, bookingID).Error
	if err != nil {
		return nil, wrapDBError("booking", err)
	}
	booking.Resolve()
	return &booking, nil
}

// ListAllBookings is the admin and staff view, optionally filtered by status.
func (s *BookingService) ListAllBookings(ctx context.Context, filter BookingFilter, page utils.Pagination) ([]models.Booking, error) {
	db := preloadBooking(s.db.WithContext(ctx)).Scopes(newestFirst, page.Scope)
	if filter.Status != "" {
		status := models.BookingStatus(filter.Status)
		if !status.Valid() {
			return nil, ValidationError("invalid booking status %q", filter.Status)
		}
		db = db.Where("status = ?", status)
	}

	bookings := []models.Booking{}
	if err := db.Find(&bookings).Error; err != nil {
		return nil, wrapDBError("booking", err)
	}
	for i := range bookings {
		bookings[i].Resolve()
	}
	return bookings, nil
}

// UpdateBookingStatus applies one legal transition. Owners may only cancel;
// admins may apply any legal transition. The linked order is left alone.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id Identity, bookingID uint, status string) (*models.Booking, error) {
	if !id.Authenticated() {
		return nil, Unauthorized("authentication required")
	}
	next := models.BookingStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return nil, ValidationError("invalid booking status %q", status)
	}

	var prev models.BookingStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(s.ownerScope(id)).
			First(&booking, bookingID).Error
		if err != nil {
			return err
		}
		prev = booking.Status

		if !id.IsAdmin() && next != models.BookingCancelled {
			return Forbidden("only administrators can set a booking to " + string(next))
		}
		if !prev.CanTransitionTo(next) {
			return ValidationError("cannot change booking status from %s to %s", prev, next)
		}

		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, prev).
			Update("status", next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return Conflict("booking status was changed by another request", nil)
		}
		return nil
	})
	if err != nil {
		return nil, wrapDBError("booking", err)
	}

	booking, err := s.GetBooking(ctx, id, bookingID)
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Infof("Booking %d status %s -> %s by user %d", bookingID, prev, next, id.UserID)
	s.recorder.StatusTransition("booking", string(prev), string(next))
	publish(ctx, s.publisher, events.Event{
		Type:           events.BookingStatusChanged,
		BookingID:      booking.ID,
		UserID:         booking.UserID,
		Status:         string(next),
		PreviousStatus: string(prev),
		TotalPrice:     booking.TotalPrice,
	})
	return booking, nil
}
