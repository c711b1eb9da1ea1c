package service

import (
	"context"
	"strings"

	"github.com/hakwonlab/homework-backend/internal/model"
	"github.com/hakwonlab/homework-backend/internal/store"
)

// ClassService handles class business logic over the storage contract.
type ClassService struct {
	store store.Store
}

// NewClassService creates a new ClassService.
func NewClassService(st store.Store) *ClassService {
	return &ClassService{store: st}
}

// List retrieves all classes ordered by name.
func (s *ClassService) List(ctx context.Context) ([]model.Class, error) {
	return s.store.Classes(ctx)
}

// Create creates a new class and returns its id. Empty or whitespace-only
// names are rejected here; the store accepts any string.
func (s *ClassService) Create(ctx context.Context, name, description string) (int, error) {
	if strings.TrimSpace(name) == "" {
		return 0, ErrEmptyName
	}
	return s.store.CreateClass(ctx, name, description)
}

// Update modifies an existing class.
func (s *ClassService) Update(ctx context.Context, id int, name, description string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return s.store.UpdateClass(ctx, id, name, description)
}

// Delete removes a class; students and homework records cascade.
func (s *ClassService) Delete(ctx context.Context, id int) error {
	return s.store.DeleteClass(ctx, id)
}
