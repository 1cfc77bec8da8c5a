package models

import (
	"sort"
	"time"
)

// Booking is a catering request for one event. Its menu selection and price
// are fixed when it is created; only Status changes afterwards.
type Booking struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	UserID         uint          `gorm:"not null;uniqueIndex:idx_booking_idempotency,priority:1" json:"userId"`
	User           *User         `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	FullName       string        `gorm:"type:varchar(255);not null" json:"fullName"`
	Email          string        `gorm:"type:varchar(255);not null;index" json:"email"`
	EventType      EventType     `gorm:"type:varchar(20);not null" json:"eventType"`
	EventDate      time.Time     `gorm:"not null;index" json:"eventDate"`
	Venue          string        `gorm:"type:varchar(255);not null" json:"venue"`
	Guests         int           `gorm:"not null" json:"guests"`
	TotalPrice     float64       `gorm:"type:decimal(12,2);not null;default:0" json:"totalPrice"`
	Notes          string        `gorm:"type:text" json:"notes,omitempty"`
	Status         BookingStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	IdempotencyKey *string       `gorm:"type:varchar(100);uniqueIndex:idx_booking_idempotency,priority:2" json:"-"`
	Lines          []BookingLine `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`

	// Filled from Lines by Resolve.
	MenuIDs []uint `gorm:"-" json:"menuIds"`
	Menus   []Menu `gorm:"-" json:"menus"`
}

// BookingLine is one selected menu of a booking with the unit price it was
// priced at.
type BookingLine struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	BookingID uint    `gorm:"not null;index" json:"bookingId"`
	MenuID    uint    `gorm:"not null" json:"menuId"`
	Menu      Menu    `gorm:"foreignKey:MenuID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu"`
	Position  int     `gorm:"not null" json:"position"`
	UnitPrice float64 `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
}

// Resolve flattens the preloaded lines into MenuIDs and Menus, in selection
// order. The menus carry the snapshotted unit price.
func (b *Booking) Resolve() {
	sort.SliceStable(b.Lines, func(i, j int) bool { return b.Lines[i].Position < b.Lines[j].Position })
	b.MenuIDs = make([]uint, 0, len(b.Lines))
	b.Menus = make([]Menu, 0, len(b.Lines))
	for _, line := range b.Lines {
		b.MenuIDs = append(b.MenuIDs, line.MenuID)
		menu := line.Menu
		menu.Price = line.UnitPrice
		b.Menus = append(b.Menus, menu)
	}
}
