package model

import "time"

// HomeworkStatus is the closed set of per-day completion outcomes.
type HomeworkStatus string

const (
	StatusDone    HomeworkStatus = "done"
	StatusPartial HomeworkStatus = "partial"
	StatusNotDone HomeworkStatus = "not_done"
	StatusAbsent  HomeworkStatus = "absent"
)

// Valid reports whether s is one of the four known statuses.
func (s HomeworkStatus) Valid() bool {
	switch s {
	case StatusDone, StatusPartial, StatusNotDone, StatusAbsent:
		return true
	}
	return false
}

// HomeworkRecord is one status observation for one student on one date.
// Date is a YYYY-MM-DD string; lexicographic order equals chronological order.
type HomeworkRecord struct {
	ID        int            `json:"id"`
	StudentID int            `json:"student_id"`
	Date      string         `json:"date"`
	Status    HomeworkStatus `json:"status"`
	Note      string         `json:"note"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// SaveHomeworkRequest is the payload for recording a day's homework status.
// Saving twice for the same (student, date) updates the existing record.
type SaveHomeworkRequest struct {
	Status HomeworkStatus `json:"status" binding:"required,oneof=done partial not_done absent"`
	Note   string         `json:"note" binding:"max=500"`
}
