package models

import "time"

// MenuEventTypeAll marks a dish offered for every kind of event.
const MenuEventTypeAll = "All"

type Menu struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Category    string    `gorm:"type:varchar(100);not null;index" json:"category"`
	EventType   string    `gorm:"type:varchar(50);not null;default:'All'" json:"eventType"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Image       string    `gorm:"type:varchar(500)" json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
