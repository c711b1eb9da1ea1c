package service

import (
	"context"
	"strings"

	"github.com/hakwonlab/homework-backend/internal/model"
	"github.com/hakwonlab/homework-backend/internal/store"
)

// StudentService handles student business logic over the storage contract.
type StudentService struct {
	store store.Store
}

// NewStudentService creates a new StudentService.
func NewStudentService(st store.Store) *StudentService {
	return &StudentService{store: st}
}

// ListByClass retrieves a class's students ordered by name.
func (s *StudentService) ListByClass(ctx context.Context, classID int) ([]model.Student, error) {
	return s.store.StudentsByClass(ctx, classID)
}

// Create creates a new student and returns its id.
func (s *StudentService) Create(ctx context.Context, student *model.Student) (int, error) {
	if strings.TrimSpace(student.Name) == "" {
		return 0, ErrEmptyName
	}
	return s.store.CreateStudent(ctx, student)
}

// Update modifies an existing student.
func (s *StudentService) Update(ctx context.Context, student *model.Student) error {
	if strings.TrimSpace(student.Name) == "" {
		return ErrEmptyName
	}
	return s.store.UpdateStudent(ctx, student)
}

// Delete removes a student; homework records cascade.
func (s *StudentService) Delete(ctx context.Context, id int) error {
	return s.store.DeleteStudent(ctx, id)
}
