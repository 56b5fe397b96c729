package models

import "time"

// AttendanceRecord is one student's mark for one day
type AttendanceRecord struct {
	StudentID    string           `json:"student_id" example:"MVGR2025001"`
	StudentName  string           `json:"student_name,omitempty" example:"Ann Lee"`
	Date         Date             `json:"date" swaggertype:"string" example:"2025-01-10"`
	Status       AttendanceStatus `json:"status" example:"present"`
	MarkedBy     int64            `json:"marked_by" example:"1"`
	MarkedByName string           `json:"marked_by_name,omitempty" example:"admin"`
	CreatedAt    time.Time        `json:"created_at"`
}

// AttendanceDayStats aggregates one day of the ledger
type AttendanceDayStats struct {
	Date    Date `json:"date" swaggertype:"string" example:"2025-01-10"`
	Total   int  `json:"total"`
	Present int  `json:"present"`
	Absent  int  `json:"absent"`
	Late    int  `json:"late"`
}

// Add counts one record towards the day's totals
func (s *AttendanceDayStats) Add(status AttendanceStatus) {
	s.Total++
	switch status {
	case AttendancePresent:
		s.Present++
	case AttendanceAbsent:
		s.Absent++
	case AttendanceLate:
		s.Late++
	}
}
