package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeAttendanceAutoClosed NotificationType = "attendance_auto_closed"
	TypeAttendanceClockIn    NotificationType = "attendance_clock_in"
	TypeAttendanceClockOut   NotificationType = "attendance_clock_out"
)

// Notification is a message delivered to a user. Delivery is best-effort:
// attendance processing never depends on it.
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	CreatedAt   time.Time
}
