package domain

import "time"

// DateLayout is the ISO calendar-day form used for AttendanceRecord.Date.
const DateLayout = "2006-01-02"

// AttendanceStatus is the outcome recorded for an employee on a given day.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "Present"
	StatusAbsent  AttendanceStatus = "Absent"
)

// Valid reports whether s is one of the known statuses.
func (s AttendanceStatus) Valid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// AttendanceRecord marks one employee for one day. The store guarantees at
// most one record per (EmployeeID, Date).
type AttendanceRecord struct {
	ID         Key              `json:"id,omitempty"`
	EmployeeID Key              `json:"employee_id"`
	Date       string           `json:"date"`
	Status     AttendanceStatus `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
}

// NewAttendance is the insert payload for the attendance collection.
type NewAttendance struct {
	EmployeeID Key              `json:"employee_id"`
	Date       string           `json:"date"`
	Status     AttendanceStatus `json:"status"`
}

// DateOf returns the calendar day of t in loc.
func DateOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}
