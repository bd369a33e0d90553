package enrollments

import (
	"context"
	"database/sql"
	"errors"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// ResolveCohortID: ULID → 内部ID（lends の management_number 引き当てと同じ流儀）
func (s *Store) ResolveCohortID(ctx context.Context, cohortULID string) (int64, error) {
	const q = `SELECT cohort_id FROM cohorts WHERE cohort_ulid = ?`
	var id int64
	err := s.db.QueryRowContext(ctx, q, cohortULID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound("cohort not found")
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) Insert(ctx context.Context, st *Student) error {
	const q = `
	INSERT INTO students (student_ulid, cohort_id, name, national_id, school, contact, member_id, status, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, UTC_TIMESTAMP())`
	res, err := s.db.ExecContext(ctx, q,
		st.StudentULID, st.CohortID, st.Name, st.NationalID, st.School, st.Contact, st.MemberID, st.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	st.StudentID = id
	return nil
}

func (s *Store) ListByCohort(ctx context.Context, cohortID int64, activeOnly bool) ([]Student, error) {
	q := `
	SELECT student_id, student_ulid, cohort_id, name, national_id, school, contact, member_id, status
	FROM students
	WHERE cohort_id = ?`
	if activeOnly {
		q += ` AND status = '` + StatusActive + `'`
	}
	q += ` ORDER BY student_id` // 在籍順

	rows, err := s.db.QueryContext(ctx, q, cohortID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(
			&st.StudentID, &st.StudentULID, &st.CohortID, &st.Name,
			&st.NationalID, &st.School, &st.Contact, &st.MemberID, &st.Status,
		); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) UpdateStatus(ctx context.Context, cohortID int64, studentULID, status string) (int64, error) {
	const q = `
	UPDATE students SET status = ?
	WHERE cohort_id = ? AND student_ulid = ? AND status <> ?`
	res, err := s.db.ExecContext(ctx, q, status, cohortID, studentULID, status)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		// 既に同じstatusなら成功扱いにするため存在確認で切り分け
		var one int
		err := s.db.QueryRowContext(ctx,
			`SELECT 1 FROM students WHERE cohort_id = ? AND student_ulid = ? LIMIT 1`,
			cohortID, studentULID,
		).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		return 1, nil
	}
	return n, nil
}
