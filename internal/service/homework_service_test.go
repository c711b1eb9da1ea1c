package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hakwonlab/homework-backend/internal/model"
	"github.com/hakwonlab/homework-backend/internal/store"
)

// plainStore implements store.Store without the batch capability, so the
// service must take the per-student fallback path.
type plainStore struct {
	students map[int][]model.Student
	records  map[int]map[string]model.HomeworkRecord
	lookups  int
}

func newPlainStore() *plainStore {
	return &plainStore{
		students: make(map[int][]model.Student),
		records:  make(map[int]map[string]model.HomeworkRecord),
	}
}

func (p *plainStore) Classes(ctx context.Context) ([]model.Class, error) { return nil, nil }
func (p *plainStore) CreateClass(ctx context.Context, name, description string) (int, error) {
	return 0, nil
}
func (p *plainStore) UpdateClass(ctx context.Context, id int, name, description string) error {
	return nil
}
func (p *plainStore) DeleteClass(ctx context.Context, id int) error { return nil }

func (p *plainStore) StudentsByClass(ctx context.Context, classID int) ([]model.Student, error) {
	return p.students[classID], nil
}
func (p *plainStore) CreateStudent(ctx context.Context, s *model.Student) (int, error) {
	return 0, nil
}
func (p *plainStore) UpdateStudent(ctx context.Context, s *model.Student) error { return nil }
func (p *plainStore) DeleteStudent(ctx context.Context, id int) error           { return nil }

func (p *plainStore) HomeworkRecord(ctx context.Context, studentID int, date string) (*model.HomeworkRecord, error) {
	p.lookups++
	rec, ok := p.records[studentID][date]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}
func (p *plainStore) HomeworkRecords(ctx context.Context, studentID int, startDate, endDate string) ([]model.HomeworkRecord, error) {
	return nil, nil
}
func (p *plainStore) SaveHomeworkRecord(ctx context.Context, studentID int, date string, status model.HomeworkStatus, note string) (int, error) {
	return 0, nil
}
func (p *plainStore) MonthlyClassStats(ctx context.Context, year, month int) ([]model.ClassMonthlyStat, error) {
	return nil, nil
}
func (p *plainStore) MonthlyStudentStats(ctx context.Context, year, month int) ([]model.StudentMonthlyStat, error) {
	return nil, nil
}
func (p *plainStore) Close() {}

func TestListByClassAndDateFallsBackPerStudent(t *testing.T) {
	ctx := context.Background()
	p := newPlainStore()
	p.students[1] = []model.Student{
		{ID: 10, ClassID: 1, Name: "Kim"},
		{ID: 11, ClassID: 1, Name: "Lee"},
		{ID: 12, ClassID: 1, Name: "Park"},
	}
	p.records[10] = map[string]model.HomeworkRecord{
		"2024-05-01": {ID: 1, StudentID: 10, Date: "2024-05-01", Status: model.StatusDone},
	}
	p.records[12] = map[string]model.HomeworkRecord{
		"2024-05-01": {ID: 2, StudentID: 12, Date: "2024-05-01", Status: model.StatusAbsent},
	}

	var st store.Store = p
	if _, ok := st.(store.BatchReader); ok {
		t.Fatal("plainStore must not implement BatchReader for this test")
	}

	svc := NewHomeworkService(p, zerolog.Nop())
	records, err := svc.ListByClassAndDate(ctx, 1, "2024-05-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (students without a record are skipped)", len(records))
	}
	if p.lookups != 3 {
		t.Errorf("made %d per-student lookups, want 3", p.lookups)
	}
}

func TestServiceInputValidation(t *testing.T) {
	ctx := context.Background()
	p := newPlainStore()

	classes := NewClassService(p)
	if _, err := classes.Create(ctx, "   ", ""); err != ErrEmptyName {
		t.Errorf("whitespace-only class name: got %v, want ErrEmptyName", err)
	}
	if err := classes.Update(ctx, 1, "", ""); err != ErrEmptyName {
		t.Errorf("empty class name on update: got %v, want ErrEmptyName", err)
	}

	students := NewStudentService(p)
	if _, err := students.Create(ctx, &model.Student{ClassID: 1, Name: " "}); err != ErrEmptyName {
		t.Errorf("whitespace-only student name: got %v, want ErrEmptyName", err)
	}

	homework := NewHomeworkService(p, zerolog.Nop())
	if _, err := homework.Save(ctx, 1, "2024-13-45", model.StatusDone, ""); err != ErrInvalidDate {
		t.Errorf("malformed date: got %v, want ErrInvalidDate", err)
	}
	if _, err := homework.Save(ctx, 1, "2024-05-01", "skipped", ""); err != ErrInvalidStatus {
		t.Errorf("unknown status: got %v, want ErrInvalidStatus", err)
	}

	stats := NewStatsService(p)
	if _, err := stats.MonthlyClassStats(ctx, 2024, 13); err != ErrInvalidMonth {
		t.Errorf("month 13: got %v, want ErrInvalidMonth", err)
	}
	if _, err := stats.MonthlyStudentStats(ctx, 2024, 0); err != ErrInvalidMonth {
		t.Errorf("month 0: got %v, want ErrInvalidMonth", err)
	}
}
