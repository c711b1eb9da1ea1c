package service

import (
	"context"

	"github.com/hakwonlab/homework-backend/internal/model"
	"github.com/hakwonlab/homework-backend/internal/store"
)

// StatsService exposes the monthly aggregations. Stats are recomputed from
// the raw records on every call; nothing is cached across mutations.
type StatsService struct {
	store store.Store
}

// NewStatsService creates a new StatsService.
func NewStatsService(st store.Store) *StatsService {
	return &StatsService{store: st}
}

// MonthlyClassStats returns the month's per-class tallies. Classes without
// matching records are omitted.
func (s *StatsService) MonthlyClassStats(ctx context.Context, year, month int) ([]model.ClassMonthlyStat, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	return s.store.MonthlyClassStats(ctx, year, month)
}

// MonthlyStudentStats returns the month's per-student tallies sorted by
// completion rate ascending, so at-risk students come first.
func (s *StatsService) MonthlyStudentStats(ctx context.Context, year, month int) ([]model.StudentMonthlyStat, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	return s.store.MonthlyStudentStats(ctx, year, month)
}
