package cohorts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ATLAS-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

const selectColumns = `
	cohort_id, cohort_ulid, name, teacher_id, section,
	DATE_FORMAT(start_on, '%Y-%m-%d'), DATE_FORMAT(end_on, '%Y-%m-%d'),
	TIME_FORMAT(starts_at, '%H:%i'), TIME_FORMAT(ends_at, '%H:%i')`

func scanCohort(row interface{ Scan(...any) error }) (*Cohort, error) {
	var c Cohort
	err := row.Scan(
		&c.CohortID, &c.CohortULID, &c.Name, &c.TeacherID, &c.Section,
		&c.StartOn, &c.EndOn, &c.StartsAt, &c.EndsAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) Insert(ctx context.Context, c *Cohort) error {
	const q = `
	INSERT INTO cohorts (cohort_ulid, name, teacher_id, section, start_on, end_on, starts_at, ends_at, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, UTC_TIMESTAMP())`
	res, err := s.db.ExecContext(ctx, q,
		c.CohortULID, c.Name, c.TeacherID, c.Section, c.StartOn, c.EndOn, c.StartsAt, c.EndsAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.CohortID = id
	return nil
}

func (s *Store) GetByULID(ctx context.Context, cohortULID string) (*Cohort, error) {
	q := `SELECT` + selectColumns + ` FROM cohorts WHERE cohort_ulid = ?`
	c, err := scanCohort(s.db.QueryRowContext(ctx, q, cohortULID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Cohort, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	q := `SELECT` + selectColumns + ` FROM cohorts ORDER BY cohort_id DESC` +
		fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	var out []Cohort
	var total int64
	// ページと総数を同一スナップショットで読む
	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		rows, err := tx.QueryContext(ctx, q)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			c, err := scanCohort(rows)
			if err != nil {
				return err
			}
			out = append(out, *c)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM cohorts`).Scan(&total)
	})
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UpdateByULID: 動的アップデート。変更なしでも現行値を返す。
func (s *Store) UpdateByULID(ctx context.Context, cohortULID string, in UpdateCohortRequest) (*Cohort, error) {
	sets := []string{}
	args := []any{}
	if in.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *in.Name)
	}
	if in.TeacherID != nil {
		sets = append(sets, "teacher_id = ?")
		args = append(args, *in.TeacherID)
	}
	if in.Section != nil {
		sets = append(sets, "section = ?")
		args = append(args, *in.Section)
	}
	if in.StartOn != nil {
		sets = append(sets, "start_on = ?")
		args = append(args, *in.StartOn)
	}
	if in.EndOn != nil {
		sets = append(sets, "end_on = ?")
		args = append(args, *in.EndOn)
	}
	if in.StartsAt != nil {
		sets = append(sets, "starts_at = ?")
		args = append(args, *in.StartsAt)
	}
	if in.EndsAt != nil {
		sets = append(sets, "ends_at = ?")
		args = append(args, *in.EndsAt)
	}
	if len(sets) == 0 {
		return s.GetByULID(ctx, cohortULID)
	}

	q := "UPDATE cohorts SET " + strings.Join(sets, ", ") + " WHERE cohort_ulid = ?"
	args = append(args, cohortULID)
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		// 変更値が同一の場合も0になり得るので存在確認で切り分け
		cur, gerr := s.GetByULID(ctx, cohortULID)
		if gerr != nil {
			return nil, gerr
		}
		if cur == nil {
			return nil, ErrNotFound("cohort not found")
		}
		return cur, nil
	}
	return s.GetByULID(ctx, cohortULID)
}
