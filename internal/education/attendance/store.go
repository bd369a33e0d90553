package attendance

import (
	"context"
	"database/sql"
	"errors"

	"ATLAS-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

// ===== Roster 参照（cohorts / students） =====

func (s *Store) ResolveCohort(ctx context.Context, cohortULID string) (*Cohort, error) {
	const q = `
	SELECT cohort_id, cohort_ulid, name
	FROM cohorts WHERE cohort_ulid = ?`
	var c Cohort
	err := s.db.QueryRowContext(ctx, q, cohortULID).Scan(&c.CohortID, &c.CohortULID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListStudents(ctx context.Context, cohortID int64, activeOnly bool) ([]Student, error) {
	q := `
	SELECT student_id, student_ulid, name, status
	FROM students
	WHERE cohort_id = ?`
	if activeOnly {
		q += ` AND status = 'active'`
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
		if err := rows.Scan(&st.StudentID, &st.StudentULID, &st.Name, &st.Status); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// ===== 出欠記録（attendance_records, UNIQUE(student_id, attended_on)） =====

func (s *Store) GetByDate(ctx context.Context, cohortID int64, on string) (map[int64]string, error) {
	const q = `
	SELECT r.student_id, r.status
	FROM attendance_records r
	JOIN students st ON st.student_id = r.student_id
	WHERE st.cohort_id = ? AND r.attended_on = ?`

	rows, err := s.db.QueryContext(ctx, q, cohortID, on)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]string{}
	for rows.Next() {
		var id int64
		var status string
		if err := rows.Scan(&id, &status); err != nil {
			return nil, err
		}
		out[id] = status
	}
	return out, rows.Err()
}

// GetRange: 期間内に記録のある日だけを生徒ごとの内側mapに持つ。
// 記録ゼロの日はキー自体が無い（no-data判定はService側）。
func (s *Store) GetRange(ctx context.Context, cohortID int64, from, to string) (map[int64]map[string]string, error) {
	const q = `
	SELECT r.student_id, DATE_FORMAT(r.attended_on, '%Y-%m-%d') AS attended_on, r.status
	FROM attendance_records r
	JOIN students st ON st.student_id = r.student_id
	WHERE st.cohort_id = ? AND r.attended_on BETWEEN ? AND ?`

	rows, err := s.db.QueryContext(ctx, q, cohortID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]map[string]string{}
	for rows.Next() {
		var id int64
		var on, status string
		if err := rows.Scan(&id, &on, &status); err != nil {
			return nil, err
		}
		if out[id] == nil {
			out[id] = map[string]string{}
		}
		out[id][on] = status
	}
	return out, rows.Err()
}

// UpsertMany: (student_id, attended_on) 単位の置き換え。1トランザクションで
// 全件成功か全件なしか。提出に含まれない生徒の既存行は触らない。
func (s *Store) UpsertMany(ctx context.Context, on string, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	const q = `
	INSERT INTO attendance_records (student_id, attended_on, status, recorded_at)
	VALUES (?, ?, ?, UTC_TIMESTAMP())
	ON DUPLICATE KEY UPDATE
	status      = VALUES(status),
	recorded_at = VALUES(recorded_at)`

	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		for _, r := range records {
			if _, err := tx.ExecContext(ctx, q, r.StudentID, on, r.Status); err != nil {
				return err
			}
		}
		return nil
	})
}
