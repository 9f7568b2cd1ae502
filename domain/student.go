package domain

import "time"

// Student belongs to the student performance service. ParentUserID points
// into the user service and is only ever validated remotely, never
// enforced by a local constraint.
type Student struct {
	ID            int64  `json:"id"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	StudentNumber string `json:"studentNumber"`
	ParentUserID  int64  `json:"parentUserId"`
}

type Result struct {
	ID        int64     `json:"id"`
	StudentID int64     `json:"studentId"`
	Subject   string    `json:"subject"`
	Grade     string    `json:"grade"`
	Score     float64   `json:"score"`
	Date      time.Time `json:"date"`
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	}
	return false
}

type Attendance struct {
	ID        int64            `json:"id"`
	StudentID int64            `json:"studentId"`
	Date      time.Time        `json:"date"`
	Status    AttendanceStatus `json:"status"`
	Reason    string           `json:"reason,omitempty"`
}
