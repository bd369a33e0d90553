package members

import (
	"context"
	"database/sql"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) List(ctx context.Context, includeDisabled bool) ([]Member, error) {
	q := `
		SELECT member_id, member_code, name, COALESCE(national_id, ''), is_disabled
		FROM members
	`
	if !includeDisabled {
		q += ` WHERE is_disabled = 0`
	}
	q += ` ORDER BY member_id`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]Member, 0, 16)
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.MemberID, &m.MemberCode, &m.Name, &m.NationalID, &m.IsDisabled); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) GetByNationalID(ctx context.Context, nationalID string) (*Member, error) {
	const q = `
		SELECT member_id, member_code, name, COALESCE(national_id, ''), is_disabled
		FROM members
		WHERE national_id = ?
	`
	var m Member
	err := s.db.QueryRowContext(ctx, q, nationalID).Scan(&m.MemberID, &m.MemberCode, &m.Name, &m.NationalID, &m.IsDisabled)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) GetByCode(ctx context.Context, code string) (*Member, error) {
	const q = `
		SELECT member_id, member_code, name, COALESCE(national_id, ''), is_disabled
		FROM members
		WHERE member_code = ?
	`
	var m Member
	err := s.db.QueryRowContext(ctx, q, code).Scan(&m.MemberID, &m.MemberCode, &m.Name, &m.NationalID, &m.IsDisabled)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) Insert(ctx context.Context, code, name, nationalID string) (*Member, error) {
	const q = `
		INSERT INTO members (member_code, name, national_id, is_disabled)
		VALUES (?, ?, NULLIF(?, ''), 0)
	`
	r, err := s.db.ExecContext(ctx, q, code, name, nationalID)
	if err != nil {
		return nil, err
	}
	lastID, err := r.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Member{
		MemberID:   lastID,
		MemberCode: code,
		Name:       name,
		NationalID: nationalID,
		IsDisabled: false,
	}, nil
}

// DELETE相当: is_disabled=1 にする
func (s *Store) Disable(ctx context.Context, code string) error {
	const q = `
		UPDATE members
		SET is_disabled = 1
		WHERE member_code = ?
	`
	r, err := s.db.ExecContext(ctx, q, code)
	if err != nil {
		return err
	}
	aff, err := r.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}
