package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hakwonlab/homework-backend/internal/model"
	"github.com/hakwonlab/homework-backend/internal/store"
)

// HomeworkService handles homework record business logic.
type HomeworkService struct {
	store store.Store
	log   zerolog.Logger
}

// NewHomeworkService creates a new HomeworkService.
func NewHomeworkService(st store.Store, log zerolog.Logger) *HomeworkService {
	return &HomeworkService{store: st, log: log}
}

// validDate reports whether date is a well-formed YYYY-MM-DD string.
func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// Get returns the record for (studentID, date), or nil when none exists.
func (s *HomeworkService) Get(ctx context.Context, studentID int, date string) (*model.HomeworkRecord, error) {
	if !validDate(date) {
		return nil, ErrInvalidDate
	}
	return s.store.HomeworkRecord(ctx, studentID, date)
}

// List returns a student's records newest first, optionally bounded by an
// inclusive date range. Empty bounds mean unbounded.
func (s *HomeworkService) List(ctx context.Context, studentID int, startDate, endDate string) ([]model.HomeworkRecord, error) {
	if startDate != "" && !validDate(startDate) {
		return nil, ErrInvalidDate
	}
	if endDate != "" && !validDate(endDate) {
		return nil, ErrInvalidDate
	}
	return s.store.HomeworkRecords(ctx, studentID, startDate, endDate)
}

// Save upserts the status for (studentID, date) and returns the record id.
// Saving twice for the same pair keeps the first id.
func (s *HomeworkService) Save(ctx context.Context, studentID int, date string, status model.HomeworkStatus, note string) (int, error) {
	if !validDate(date) {
		return 0, ErrInvalidDate
	}
	if !status.Valid() {
		return 0, ErrInvalidStatus
	}
	return s.store.SaveHomeworkRecord(ctx, studentID, date, status, note)
}

// ListByClassAndDate returns one date's records for every student of a class.
// It uses the store's batch capability when present and otherwise falls back
// to a per-student lookup, so any Store implementation works.
func (s *HomeworkService) ListByClassAndDate(ctx context.Context, classID int, date string) ([]model.HomeworkRecord, error) {
	if !validDate(date) {
		return nil, ErrInvalidDate
	}

	if batch, ok := s.store.(store.BatchReader); ok {
		return batch.HomeworkByClassAndDate(ctx, classID, date)
	}

	s.log.Debug().Int("class_id", classID).Msg("store has no batch reader, fetching per student")
	students, err := s.store.StudentsByClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	records := make([]model.HomeworkRecord, 0, len(students))
	for _, st := range students {
		rec, err := s.store.HomeworkRecord(ctx, st.ID, date)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, nil
}
