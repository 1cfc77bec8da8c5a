package services

import "github.com/yeremiapane/catering-app/models"

// Identity is the authenticated caller, taken from the bearer token and
// passed explicitly into every service call.
type Identity struct {
	UserID uint
	Email  string
	Role   string
}

func (i Identity) Authenticated() bool {
	return i.UserID != 0
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// IsStaff is true for staff and admins.
func (i Identity) IsStaff() bool {
	return i.Role == models.RoleStaff || i.Role == models.RoleAdmin
}

// Recorder receives domain metrics. metrics.Collector implements it.
type Recorder interface {
	BookingCreated(eventType string, total float64)
	StatusTransition(entity, from, to string)
}

type nopRecorder struct{}

func (nopRecorder) BookingCreated(string, float64)          {}
func (nopRecorder) StatusTransition(string, string, string) {}
