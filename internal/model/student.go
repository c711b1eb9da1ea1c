package model

import "time"

// Student represents a student enrolled in exactly one class.
type Student struct {
	ID          int       `json:"id"`
	ClassID     int       `json:"class_id"`
	Name        string    `json:"name"`
	Grade       string    `json:"grade"`
	Phone       string    `json:"phone"`
	ParentPhone string    `json:"parent_phone"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateStudentRequest is the payload for creating a new student.
type CreateStudentRequest struct {
	ClassID     int    `json:"class_id" binding:"required"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Grade       string `json:"grade" binding:"max=20"`
	Phone       string `json:"phone" binding:"max=20"`
	ParentPhone string `json:"parent_phone" binding:"max=20"`
	Note        string `json:"note" binding:"max=500"`
}

// UpdateStudentRequest is the payload for updating an existing student.
type UpdateStudentRequest struct {
	ClassID     int    `json:"class_id" binding:"required"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Grade       string `json:"grade" binding:"max=20"`
	Phone       string `json:"phone" binding:"max=20"`
	ParentPhone string `json:"parent_phone" binding:"max=20"`
	Note        string `json:"note" binding:"max=500"`
}
