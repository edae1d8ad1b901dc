package domain

import "time"

// AppointmentStatus reflects the clergy decision on a booking request.
type AppointmentStatus string

const (
	AppointmentPending  AppointmentStatus = "pending"
	AppointmentApproved AppointmentStatus = "approved"
	AppointmentRejected AppointmentStatus = "rejected"
)

// ValidAppointmentStatus reports whether the value is a known status.
func ValidAppointmentStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentPending, AppointmentApproved, AppointmentRejected:
		return true
	}
	return false
}

// Appointment is a member's request to meet a reverend or evangelist.
type Appointment struct {
	ID              string
	UserID          string
	AppointmentWith Role
	Reason          string
	Date            time.Time
	Status          AppointmentStatus
	CreatedAt       time.Time
}
