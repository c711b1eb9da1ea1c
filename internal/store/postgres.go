package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/hakwonlab/homework-backend/internal/model"
)

// PostgresStore implements Store over a pgx connection pool. Referential
// integrity is enforced by the schema itself: ON DELETE CASCADE foreign keys
// carry the cascade invariant and UNIQUE(student_id, date) carries the upsert
// invariant, so application code never traverses relations manually here.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewPostgresStore ensures the schema exists, seeds sample data into an empty
// database and returns the ready store. Any error here is the signal for the
// caller to fall back to the memory store.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) (*PostgresStore, error) {
	s := &PostgresStore{pool: pool, log: log}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	if err := s.seedSampleData(ctx); err != nil {
		return nil, fmt.Errorf("seed sample data: %w", err)
	}
	return s, nil
}

// ensureSchema creates the three tables when missing. The canonical
// migrations under migrations/ create the same schema; this keeps a fresh
// database usable without running them first.
func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS classes (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS students (
			id SERIAL PRIMARY KEY,
			class_id INTEGER NOT NULL REFERENCES classes (id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			grade TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			parent_phone TEXT NOT NULL DEFAULT '',
			note TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS homework_records (
			id SERIAL PRIMARY KEY,
			student_id INTEGER NOT NULL REFERENCES students (id) ON DELETE CASCADE,
			date TEXT NOT NULL,
			status TEXT NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (student_id, date)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// seedSampleData inserts two classes and four students the first time the
// store sees an empty database. Convenience only, not part of the contract.
func (s *PostgresStore) seedSampleData(ctx context.Context) error {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM classes`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var mathID, englishID int
	err := s.pool.QueryRow(ctx,
		`INSERT INTO classes (name, description) VALUES ('Math A', '7th grade mathematics') RETURNING id`,
	).Scan(&mathID)
	if err != nil {
		return err
	}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO classes (name, description) VALUES ('English B', '11th grade English') RETURNING id`,
	).Scan(&englishID)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO students (class_id, name, grade, phone) VALUES
			($1, 'Kim Minjun', '7', '010-1234-5678'),
			($1, 'Lee Seoyeon', '7', '010-2345-6789'),
			($2, 'Park Jihoo', '11', '010-3456-7890'),
			($2, 'Jung Sujin', '11', '010-4567-8901')`,
		mathID, englishID,
	)
	if err != nil {
		return err
	}

	s.log.Info().Msg("Seeded sample classes and students")
	return nil
}

// Classes lists all classes ordered by name ascending.
func (s *PostgresStore) Classes(ctx context.Context) ([]model.Class, error) {
	if s.pool == nil {
		return nil, ErrNotInitialized
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, description, created_at, updated_at
		 FROM classes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := []model.Class{}
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// CreateClass inserts a class and returns its assigned id.
func (s *PostgresStore) CreateClass(ctx context.Context, name, description string) (int, error) {
	if s.pool == nil {
		return 0, ErrNotInitialized
	}
	var id int
	err := s.pool.QueryRow(ctx,
		`INSERT INTO classes (name, description) VALUES ($1, $2) RETURNING id`,
		name, description,
	).Scan(&id)
	return id, err
}

// UpdateClass replaces a class's name and description.
func (s *PostgresStore) UpdateClass(ctx context.Context, id int, name, description string) error {
	if s.pool == nil {
		return ErrNotInitialized
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE classes SET name = $1, description = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3`,
		name, description, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteClass removes a class; the schema cascades to students and records.
// Missing ids are tolerated as a no-op.
func (s *PostgresStore) DeleteClass(ctx context.Context, id int) error {
	if s.pool == nil {
		return ErrNotInitialized
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
	return err
}

// StudentsByClass lists a class's students ordered by name ascending.
func (s *PostgresStore) StudentsByClass(ctx context.Context, classID int) ([]model.Student, error) {
	if s.pool == nil {
		return nil, ErrNotInitialized
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, class_id, name, grade, phone, parent_phone, note, created_at, updated_at
		 FROM students WHERE class_id = $1 ORDER BY name`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		var st model.Student
		if err := rows.Scan(&st.ID, &st.ClassID, &st.Name, &st.Grade, &st.Phone,
			&st.ParentPhone, &st.Note, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

// CreateStudent inserts a student and returns its assigned id. A missing
// class surfaces as ErrNotFound via the foreign key.
func (s *PostgresStore) CreateStudent(ctx context.Context, st *model.Student) (int, error) {
	if s.pool == nil {
		return 0, ErrNotInitialized
	}
	var id int
	err := s.pool.QueryRow(ctx,
		`INSERT INTO students (class_id, name, grade, phone, parent_phone, note)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		st.ClassID, st.Name, st.Grade, st.Phone, st.ParentPhone, st.Note,
	).Scan(&id)
	if err != nil {
		return 0, mapFKViolation(err)
	}
	return id, nil
}

// UpdateStudent replaces a student's mutable fields.
func (s *PostgresStore) UpdateStudent(ctx context.Context, st *model.Student) error {
	if s.pool == nil {
		return ErrNotInitialized
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE students
		 SET class_id = $1, name = $2, grade = $3, phone = $4, parent_phone = $5,
		     note = $6, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $7`,
		st.ClassID, st.Name, st.Grade, st.Phone, st.ParentPhone, st.Note, st.ID,
	)
	if err != nil {
		return mapFKViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteStudent removes a student; the schema cascades to homework records.
func (s *PostgresStore) DeleteStudent(ctx context.Context, id int) error {
	if s.pool == nil {
		return ErrNotInitialized
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	return err
}

// HomeworkRecord returns the record for (studentID, date), or nil if none.
func (s *PostgresStore) HomeworkRecord(ctx context.Context, studentID int, date string) (*model.HomeworkRecord, error) {
	if s.pool == nil {
		return nil, ErrNotInitialized
	}
	var r model.HomeworkRecord
	err := s.pool.QueryRow(ctx,
		`SELECT id, student_id, date, status, note, created_at, updated_at
		 FROM homework_records WHERE student_id = $1 AND date = $2`,
		studentID, date,
	).Scan(&r.ID, &r.StudentID, &r.Date, &r.Status, &r.Note, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

// HomeworkRecords lists a student's records ordered by date descending,
// optionally bounded inclusively by startDate/endDate.
func (s *PostgresStore) HomeworkRecords(ctx context.Context, studentID int, startDate, endDate string) ([]model.HomeworkRecord, error) {
	if s.pool == nil {
		return nil, ErrNotInitialized
	}
	query := `SELECT id, student_id, date, status, note, created_at, updated_at
	          FROM homework_records WHERE student_id = $1`
	args := []any{studentID}
	if startDate != "" {
		args = append(args, startDate)
		query += fmt.Sprintf(` AND date >= $%d`, len(args))
	}
	if endDate != "" {
		args = append(args, endDate)
		query += fmt.Sprintf(` AND date <= $%d`, len(args))
	}
	query += ` ORDER BY date DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []model.HomeworkRecord{}
	for rows.Next() {
		var r model.HomeworkRecord
		if err := rows.Scan(&r.ID, &r.StudentID, &r.Date, &r.Status, &r.Note,
			&r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// SaveHomeworkRecord upserts atomically on the (student_id, date) constraint.
// A conflicting row keeps its id; only status, note and updated_at change.
func (s *PostgresStore) SaveHomeworkRecord(ctx context.Context, studentID int, date string, status model.HomeworkStatus, note string) (int, error) {
	if s.pool == nil {
		return 0, ErrNotInitialized
	}
	var id int
	err := s.pool.QueryRow(ctx,
		`INSERT INTO homework_records (student_id, date, status, note)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (student_id, date)
		 DO UPDATE SET status = EXCLUDED.status, note = EXCLUDED.note,
		               updated_at = CURRENT_TIMESTAMP
		 RETURNING id`,
		studentID, date, status, note,
	).Scan(&id)
	if err != nil {
		return 0, mapFKViolation(err)
	}
	return id, nil
}

// HomeworkByClassAndDate lists the date's records for all students of a
// class, ordered by student id ascending.
func (s *PostgresStore) HomeworkByClassAndDate(ctx context.Context, classID int, date string) ([]model.HomeworkRecord, error) {
	if s.pool == nil {
		return nil, ErrNotInitialized
	}
	rows, err := s.pool.Query(ctx,
		`SELECT hr.id, hr.student_id, hr.date, hr.status, hr.note, hr.created_at, hr.updated_at
		 FROM homework_records hr
		 JOIN students s ON s.id = hr.student_id
		 WHERE s.class_id = $1 AND hr.date = $2
		 ORDER BY hr.student_id`,
		classID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []model.HomeworkRecord{}
	for rows.Next() {
		var r model.HomeworkRecord
		if err := rows.Scan(&r.ID, &r.StudentID, &r.Date, &r.Status, &r.Note,
			&r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// MonthlyClassStats tallies the month's records per class with a grouped
// count in SQL. Classes with no matching records produce no row. Rows come
// back in first-matching-record order, same as the shared engine emits them.
func (s *PostgresStore) MonthlyClassStats(ctx context.Context, year, month int) ([]model.ClassMonthlyStat, error) {
	if s.pool == nil {
		return nil, ErrNotInitialized
	}
	start, end := MonthRange(year, month)

	rows, err := s.pool.Query(ctx,
		`SELECT s.class_id,
		        c.name,
		        COUNT(*),
		        SUM(CASE WHEN hr.status = 'done' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN hr.status = 'partial' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN hr.status = 'not_done' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN hr.status = 'absent' THEN 1 ELSE 0 END)
		 FROM homework_records hr
		 JOIN students s ON s.id = hr.student_id
		 JOIN classes c ON c.id = s.class_id
		 WHERE hr.date BETWEEN $1 AND $2
		 GROUP BY s.class_id, c.name
		 ORDER BY MIN(hr.id)`,
		start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []model.ClassMonthlyStat{}
	for rows.Next() {
		var st model.ClassMonthlyStat
		if err := rows.Scan(&st.ClassID, &st.ClassName, &st.Total, &st.Done,
			&st.Partial, &st.NotDone, &st.Absent); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// MonthlyStudentStats tallies the month's records per student. The completion
// rate is rounded on a numeric expression (half away from zero, matching
// math.Round in the shared engine) and rows are ordered by rate ascending
// with ties broken by the student's first matching record.
func (s *PostgresStore) MonthlyStudentStats(ctx context.Context, year, month int) ([]model.StudentMonthlyStat, error) {
	if s.pool == nil {
		return nil, ErrNotInitialized
	}
	start, end := MonthRange(year, month)

	rows, err := s.pool.Query(ctx,
		`SELECT s.id,
		        s.name,
		        c.name,
		        COUNT(*),
		        SUM(CASE WHEN hr.status = 'done' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN hr.status = 'partial' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN hr.status = 'not_done' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN hr.status = 'absent' THEN 1 ELSE 0 END),
		        ROUND(100 * (SUM(CASE WHEN hr.status = 'done' THEN 1 ELSE 0 END)
		                     + 0.5 * SUM(CASE WHEN hr.status = 'partial' THEN 1 ELSE 0 END))
		              / COUNT(*))::int AS completion_rate
		 FROM homework_records hr
		 JOIN students s ON s.id = hr.student_id
		 JOIN classes c ON c.id = s.class_id
		 WHERE hr.date BETWEEN $1 AND $2
		 GROUP BY s.id, s.name, c.name
		 ORDER BY completion_rate ASC, MIN(hr.id) ASC`,
		start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []model.StudentMonthlyStat{}
	for rows.Next() {
		var st model.StudentMonthlyStat
		if err := rows.Scan(&st.StudentID, &st.StudentName, &st.ClassName, &st.Total,
			&st.Done, &st.Partial, &st.NotDone, &st.Absent, &st.CompletionRate); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// Close releases the pool; subsequent operations return ErrNotInitialized.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
}

// mapFKViolation converts foreign key violations (SQLSTATE 23503) into
// ErrNotFound so both backends report missing parents the same way.
func mapFKViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ErrNotFound
	}
	return err
}
