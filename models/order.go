package models

import (
	"sort"
	"time"
)

// Order tracks fulfilment of a booking. Its status lifecycle is independent
// of the booking it was created from.
type Order struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	UserID     uint        `gorm:"not null;index" json:"userId"`
	User       *User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	BookingID  *uint       `gorm:"index" json:"bookingId"`
	Booking    *Booking    `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"booking,omitempty"`
	Items      []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	TotalPrice float64     `gorm:"type:decimal(12,2);not null" json:"totalPrice"`
	Status     OrderStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`

	MenuItemIDs []uint `gorm:"-" json:"menuItemIds"`
	MenuItems   []Menu `gorm:"-" json:"menuItems"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"not null;index" json:"orderId"`
	MenuID    uint    `gorm:"not null" json:"menuId"`
	Menu      Menu    `gorm:"foreignKey:MenuID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu"`
	Position  int     `gorm:"not null" json:"position"`
	UnitPrice float64 `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
}

// Resolve flattens the preloaded items (and the linked booking, when loaded).
func (o *Order) Resolve() {
	sort.SliceStable(o.Items, func(i, j int) bool { return o.Items[i].Position < o.Items[j].Position })
	o.MenuItemIDs = make([]uint, 0, len(o.Items))
	o.MenuItems = make([]Menu, 0, len(o.Items))
	for _, item := range o.Items {
		o.MenuItemIDs = append(o.MenuItemIDs, item.MenuID)
		menu := item.Menu
		menu.Price = item.UnitPrice
		o.MenuItems = append(o.MenuItems, menu)
	}
	if o.Booking != nil {
		o.Booking.Resolve()
	}
}
