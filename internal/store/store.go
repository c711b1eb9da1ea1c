// Package store defines the storage contract for classes, students and
// homework records, with two interchangeable implementations: a PostgreSQL
// backed store and an in-memory store snapshotted to an external key-value
// slot. Both honor the same invariants: at most one record per
// (student, date) pair, and cascading deletes from class to student to record.
package store

import (
	"context"
	"errors"

	"github.com/hakwonlab/homework-backend/internal/model"
)

var (
	// ErrNotFound is returned when an update or lookup references a class or
	// student id that does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrNotInitialized is returned when an operation is invoked on a store
	// that has been closed or never finished setup.
	ErrNotInitialized = errors.New("store: not initialized")
)

// Store is the capability set shared by both backends. Results are ordered as
// documented per method; slice results are never nil.
type Store interface {
	// Classes lists all classes ordered by name ascending.
	Classes(ctx context.Context) ([]model.Class, error)
	// CreateClass inserts a class and returns its assigned id.
	CreateClass(ctx context.Context, name, description string) (int, error)
	// UpdateClass replaces a class's name and description.
	// Returns ErrNotFound if the id does not exist.
	UpdateClass(ctx context.Context, id int, name, description string) error
	// DeleteClass removes a class and cascades to its students and their
	// homework records. Deleting a missing id is a no-op.
	DeleteClass(ctx context.Context, id int) error

	// StudentsByClass lists a class's students ordered by name ascending.
	StudentsByClass(ctx context.Context, classID int) ([]model.Student, error)
	// CreateStudent inserts a student (id and timestamps are assigned by the
	// store) and returns the assigned id. Returns ErrNotFound if the class
	// does not exist.
	CreateStudent(ctx context.Context, s *model.Student) (int, error)
	// UpdateStudent replaces a student's mutable fields.
	// Returns ErrNotFound if the id does not exist.
	UpdateStudent(ctx context.Context, s *model.Student) error
	// DeleteStudent removes a student and cascades to its homework records.
	// Deleting a missing id is a no-op.
	DeleteStudent(ctx context.Context, id int) error

	// HomeworkRecord returns the record for (studentID, date), or nil if none.
	HomeworkRecord(ctx context.Context, studentID int, date string) (*model.HomeworkRecord, error)
	// HomeworkRecords lists a student's records ordered by date descending,
	// optionally bounded inclusively by startDate/endDate (empty = unbounded).
	HomeworkRecords(ctx context.Context, studentID int, startDate, endDate string) ([]model.HomeworkRecord, error)
	// SaveHomeworkRecord upserts the record keyed by (studentID, date) and
	// returns the record's id. For an existing pair only status, note and
	// updated_at change; the id is preserved.
	SaveHomeworkRecord(ctx context.Context, studentID int, date string, status model.HomeworkStatus, note string) (int, error)

	// MonthlyClassStats tallies the month's records per class.
	MonthlyClassStats(ctx context.Context, year, month int) ([]model.ClassMonthlyStat, error)
	// MonthlyStudentStats tallies the month's records per student, sorted by
	// completion rate ascending so at-risk students surface first.
	MonthlyStudentStats(ctx context.Context, year, month int) ([]model.StudentMonthlyStat, error)

	Close()
}

// BatchReader is an optional capability: fetching a whole class's records for
// one date in a single call. Callers must type-assert and fall back to
// per-student HomeworkRecord lookups when a Store does not provide it.
type BatchReader interface {
	// HomeworkByClassAndDate lists the date's records for all students of a
	// class, ordered by student id ascending.
	HomeworkByClassAndDate(ctx context.Context, classID int, date string) ([]model.HomeworkRecord, error)
}
