package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hakwonlab/homework-backend/internal/model"
)

// MemoryStore implements Store over id-keyed in-process maps. Durability comes
// only from writing a full-state snapshot to an external key-value slot after
// every mutation; the mutation does not complete until the snapshot is saved,
// and a failed save rolls the in-memory change back so the maps never drift
// ahead of the slot.
// Cascade deletion is traversed manually and must reproduce exactly what the
// relational backend's ON DELETE CASCADE constraints enforce.
//
// The maps are guarded by a mutex because Go serves HTTP concurrently; the
// snapshot slot itself still has no cross-process coordination (last writer
// wins between independent processes).
type MemoryStore struct {
	mu            sync.Mutex
	classes       map[int]model.Class
	students      map[int]model.Student
	records       map[int]model.HomeworkRecord
	nextClassID   int
	nextStudentID int
	nextRecordID  int

	snaps SnapshotStore
	log   zerolog.Logger
}

// memorySnapshot is the serialized representation of the full store state.
// Counter values are clamped on load so they never fall below max(id)+1.
type memorySnapshot struct {
	Classes         []model.Class          `json:"classes"`
	Students        []model.Student        `json:"students"`
	HomeworkRecords []model.HomeworkRecord `json:"homeworkRecords"`
	NextClassID     int                    `json:"nextClassId"`
	NextStudentID   int                    `json:"nextStudentId"`
	NextRecordID    int                    `json:"nextRecordId"`
}

// NewMemoryStore restores state from the snapshot slot, or seeds sample data
// when no snapshot exists yet.
func NewMemoryStore(ctx context.Context, snaps SnapshotStore, log zerolog.Logger) (*MemoryStore, error) {
	s := &MemoryStore{
		classes:       make(map[int]model.Class),
		students:      make(map[int]model.Student),
		records:       make(map[int]model.HomeworkRecord),
		nextClassID:   1,
		nextStudentID: 1,
		nextRecordID:  1,
		snaps:         snaps,
		log:           log,
	}

	data, err := snaps.Load(ctx)
	if err != nil {
		return nil, err
	}
	if data != nil {
		if err := s.restore(data); err != nil {
			return nil, err
		}
		log.Info().
			Int("classes", len(s.classes)).
			Int("students", len(s.students)).
			Int("records", len(s.records)).
			Msg("Memory store restored from snapshot")
		return s, nil
	}

	s.seedSampleData()
	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	log.Info().Msg("Memory store seeded with sample data")
	return s, nil
}

func (s *MemoryStore) restore(data []byte) error {
	var snap memorySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	for _, c := range snap.Classes {
		s.classes[c.ID] = c
		if c.ID >= s.nextClassID {
			s.nextClassID = c.ID + 1
		}
	}
	for _, st := range snap.Students {
		s.students[st.ID] = st
		if st.ID >= s.nextStudentID {
			s.nextStudentID = st.ID + 1
		}
	}
	for _, r := range snap.HomeworkRecords {
		s.records[r.ID] = r
		if r.ID >= s.nextRecordID {
			s.nextRecordID = r.ID + 1
		}
	}
	if snap.NextClassID > s.nextClassID {
		s.nextClassID = snap.NextClassID
	}
	if snap.NextStudentID > s.nextStudentID {
		s.nextStudentID = snap.NextStudentID
	}
	if snap.NextRecordID > s.nextRecordID {
		s.nextRecordID = snap.NextRecordID
	}
	return nil
}

// persist serializes the whole state to the snapshot slot. Callers hold mu.
func (s *MemoryStore) persist(ctx context.Context) error {
	snap := memorySnapshot{
		Classes:         make([]model.Class, 0, len(s.classes)),
		Students:        make([]model.Student, 0, len(s.students)),
		HomeworkRecords: make([]model.HomeworkRecord, 0, len(s.records)),
		NextClassID:     s.nextClassID,
		NextStudentID:   s.nextStudentID,
		NextRecordID:    s.nextRecordID,
	}
	for _, c := range s.classes {
		snap.Classes = append(snap.Classes, c)
	}
	for _, st := range s.students {
		snap.Students = append(snap.Students, st)
	}
	for _, r := range s.records {
		snap.HomeworkRecords = append(snap.HomeworkRecords, r)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.snaps.Save(ctx, data)
}

// seedSampleData populates one class, one student and thirty days of random
// homework records. Convenience only, nothing about the values is contractual.
func (s *MemoryStore) seedSampleData() {
	now := time.Now().UTC()

	class := model.Class{
		ID:          s.nextClassID,
		Name:        "Math A",
		Description: "7th grade mathematics",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.nextClassID++
	s.classes[class.ID] = class

	student := model.Student{
		ID:          s.nextStudentID,
		ClassID:     class.ID,
		Name:        "Kim Minjun",
		Grade:       "7",
		Phone:       "010-1234-5678",
		ParentPhone: "010-8765-4321",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.nextStudentID++
	s.students[student.ID] = student

	statuses := []model.HomeworkStatus{
		model.StatusDone, model.StatusPartial, model.StatusNotDone, model.StatusAbsent,
	}
	for i := 0; i < 30; i++ {
		rec := model.HomeworkRecord{
			ID:        s.nextRecordID,
			StudentID: student.ID,
			Date:      now.AddDate(0, 0, -i).Format("2006-01-02"),
			Status:    statuses[rand.Intn(len(statuses))],
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.nextRecordID++
		s.records[rec.ID] = rec
	}
}

// Classes lists all classes ordered by name ascending.
func (s *MemoryStore) Classes(ctx context.Context) ([]model.Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	classes := make([]model.Class, 0, len(s.classes))
	for _, c := range s.classes {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes, nil
}

// CreateClass inserts a class and persists a snapshot.
func (s *MemoryStore) CreateClass(ctx context.Context, name, description string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	c := model.Class{
		ID:          s.nextClassID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.nextClassID++
	s.classes[c.ID] = c

	if err := s.persist(ctx); err != nil {
		delete(s.classes, c.ID)
		s.nextClassID--
		return 0, err
	}
	return c.ID, nil
}

// UpdateClass replaces a class's name and description.
func (s *MemoryStore) UpdateClass(ctx context.Context, id int, name, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.classes[id]
	if !ok {
		return ErrNotFound
	}
	c := prev
	c.Name = name
	c.Description = description
	c.UpdatedAt = time.Now().UTC()
	s.classes[id] = c

	if err := s.persist(ctx); err != nil {
		s.classes[id] = prev
		return err
	}
	return nil
}

// DeleteClass removes a class, its students and their homework records.
// Missing ids are tolerated as a no-op without touching the snapshot slot.
func (s *MemoryStore) DeleteClass(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	class, ok := s.classes[id]
	if !ok {
		return nil
	}

	removedStudents := make(map[int]model.Student)
	removedRecords := make(map[int]model.HomeworkRecord)
	for sid, st := range s.students {
		if st.ClassID != id {
			continue
		}
		removedStudents[sid] = st
		s.removeRecordsOfLocked(sid, removedRecords)
		delete(s.students, sid)
	}
	delete(s.classes, id)

	if err := s.persist(ctx); err != nil {
		s.classes[id] = class
		for sid, st := range removedStudents {
			s.students[sid] = st
		}
		for rid, r := range removedRecords {
			s.records[rid] = r
		}
		return err
	}
	return nil
}

// StudentsByClass lists a class's students ordered by name ascending.
func (s *MemoryStore) StudentsByClass(ctx context.Context, classID int) ([]model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	students := make([]model.Student, 0)
	for _, st := range s.students {
		if st.ClassID == classID {
			students = append(students, st)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

// CreateStudent inserts a student. The owning class must exist.
func (s *MemoryStore) CreateStudent(ctx context.Context, in *model.Student) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.classes[in.ClassID]; !ok {
		return 0, ErrNotFound
	}

	now := time.Now().UTC()
	st := *in
	st.ID = s.nextStudentID
	st.CreatedAt = now
	st.UpdatedAt = now
	s.nextStudentID++
	s.students[st.ID] = st

	if err := s.persist(ctx); err != nil {
		delete(s.students, st.ID)
		s.nextStudentID--
		return 0, err
	}
	return st.ID, nil
}

// UpdateStudent replaces a student's mutable fields.
func (s *MemoryStore) UpdateStudent(ctx context.Context, in *model.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.students[in.ID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := s.classes[in.ClassID]; !ok {
		return ErrNotFound
	}
	st := prev
	st.ClassID = in.ClassID
	st.Name = in.Name
	st.Grade = in.Grade
	st.Phone = in.Phone
	st.ParentPhone = in.ParentPhone
	st.Note = in.Note
	st.UpdatedAt = time.Now().UTC()
	s.students[st.ID] = st

	if err := s.persist(ctx); err != nil {
		s.students[prev.ID] = prev
		return err
	}
	return nil
}

// DeleteStudent removes a student and its homework records. Missing ids are
// tolerated as a no-op without touching the snapshot slot.
func (s *MemoryStore) DeleteStudent(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[id]
	if !ok {
		return nil
	}

	removed := make(map[int]model.HomeworkRecord)
	s.removeRecordsOfLocked(id, removed)
	delete(s.students, id)

	if err := s.persist(ctx); err != nil {
		s.students[id] = st
		for rid, r := range removed {
			s.records[rid] = r
		}
		return err
	}
	return nil
}

// removeRecordsOfLocked deletes a student's records, collecting them into
// removed so a failed persist can put them back. Callers hold mu.
func (s *MemoryStore) removeRecordsOfLocked(studentID int, removed map[int]model.HomeworkRecord) {
	for rid, r := range s.records {
		if r.StudentID == studentID {
			removed[rid] = r
			delete(s.records, rid)
		}
	}
}

// HomeworkRecord returns the record for (studentID, date), or nil if none.
func (s *MemoryStore) HomeworkRecord(ctx context.Context, studentID int, date string) (*model.HomeworkRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.StudentID == studentID && r.Date == date {
			rec := r
			return &rec, nil
		}
	}
	return nil, nil
}

// HomeworkRecords lists a student's records ordered by date descending.
func (s *MemoryStore) HomeworkRecords(ctx context.Context, studentID int, startDate, endDate string) ([]model.HomeworkRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]model.HomeworkRecord, 0)
	for _, r := range s.records {
		if r.StudentID != studentID {
			continue
		}
		if startDate != "" && r.Date < startDate {
			continue
		}
		if endDate != "" && r.Date > endDate {
			continue
		}
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date > records[j].Date })
	return records, nil
}

// SaveHomeworkRecord upserts by linear search over (studentID, date). An
// existing record keeps its id; only status, note and updated_at change.
func (s *MemoryStore) SaveHomeworkRecord(ctx context.Context, studentID int, date string, status model.HomeworkStatus, note string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[studentID]; !ok {
		return 0, ErrNotFound
	}

	now := time.Now().UTC()
	for rid, prev := range s.records {
		if prev.StudentID == studentID && prev.Date == date {
			r := prev
			r.Status = status
			r.Note = note
			r.UpdatedAt = now
			s.records[rid] = r
			if err := s.persist(ctx); err != nil {
				s.records[rid] = prev
				return 0, err
			}
			return rid, nil
		}
	}

	rec := model.HomeworkRecord{
		ID:        s.nextRecordID,
		StudentID: studentID,
		Date:      date,
		Status:    status,
		Note:      note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextRecordID++
	s.records[rec.ID] = rec

	if err := s.persist(ctx); err != nil {
		delete(s.records, rec.ID)
		s.nextRecordID--
		return 0, err
	}
	return rec.ID, nil
}

// HomeworkByClassAndDate lists the date's records for all students of a
// class, ordered by student id ascending.
func (s *MemoryStore) HomeworkByClassAndDate(ctx context.Context, classID int, date string) ([]model.HomeworkRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inClass := make(map[int]bool)
	for _, st := range s.students {
		if st.ClassID == classID {
			inClass[st.ID] = true
		}
	}

	records := make([]model.HomeworkRecord, 0)
	for _, r := range s.records {
		if r.Date == date && inClass[r.StudentID] {
			records = append(records, r)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].StudentID < records[j].StudentID })
	return records, nil
}

// MonthlyClassStats recomputes class stats from scratch via the shared engine.
func (s *MemoryStore) MonthlyClassStats(ctx context.Context, year, month int) ([]model.ClassMonthlyStat, error) {
	records, students, classes := s.stateCopy()
	return ClassStatsForMonth(records, students, classes, year, month), nil
}

// MonthlyStudentStats recomputes student stats from scratch via the shared engine.
func (s *MemoryStore) MonthlyStudentStats(ctx context.Context, year, month int) ([]model.StudentMonthlyStat, error) {
	records, students, classes := s.stateCopy()
	return StudentStatsForMonth(records, students, classes, year, month), nil
}

func (s *MemoryStore) stateCopy() ([]model.HomeworkRecord, map[int]model.Student, map[int]model.Class) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]model.HomeworkRecord, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	students := make(map[int]model.Student, len(s.students))
	for id, st := range s.students {
		students[id] = st
	}
	classes := make(map[int]model.Class, len(s.classes))
	for id, c := range s.classes {
		classes[id] = c
	}
	return records, students, classes
}

// Close is a no-op; the memory store holds no external resources of its own.
func (s *MemoryStore) Close() {}
