package model

// ClassMonthlyStat is the per-class homework tally for one calendar month.
// Classes with no matching records in the month are omitted entirely.
type ClassMonthlyStat struct {
	ClassID   int    `json:"class_id"`
	ClassName string `json:"class_name"`
	Total     int    `json:"total"`
	Done      int    `json:"done"`
	Partial   int    `json:"partial"`
	NotDone   int    `json:"not_done"`
	Absent    int    `json:"absent"`
}

// StudentMonthlyStat is the per-student tally for one calendar month.
// CompletionRate is a rounded percentage counting partial completion as half.
type StudentMonthlyStat struct {
	StudentID      int    `json:"student_id"`
	StudentName    string `json:"student_name"`
	ClassName      string `json:"class_name"`
	Total          int    `json:"total"`
	Done           int    `json:"done"`
	Partial        int    `json:"partial"`
	NotDone        int    `json:"not_done"`
	Absent         int    `json:"absent"`
	CompletionRate int    `json:"completion_rate"`
}
