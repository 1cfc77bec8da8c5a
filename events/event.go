// Package events carries booking and order lifecycle notifications to
// interested consumers (live feed, message broker).
package events

import (
	"context"
	"errors"
	"time"
)

type Type string

const (
	BookingCreated       Type = "booking.created"
	BookingStatusChanged Type = "booking.status"
	OrderCreated         Type = "order.created"
	OrderStatusChanged   Type = "order.status"
)

type Event struct {
	Type           Type      `json:"type"`
	BookingID      uint      `json:"bookingId,omitempty"`
	OrderID        uint      `json:"orderId,omitempty"`
	UserID         uint      `json:"userId"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previousStatus,omitempty"`
	TotalPrice     float64   `json:"totalPrice"`
	OccurredAt     time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi publishes to every publisher, even when some fail.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
