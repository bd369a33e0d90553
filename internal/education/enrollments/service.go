package enrollments

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// ===== Error model (attendance/cohorts と同型) =====

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError { return &APIError{Code: CodeConflict, Message: msg} }
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict:
			return 409
		default:
			return 500
		}
	}
	return 500
}

// ===== インターフェース群 =====

type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// MemberDirectory は会員基盤側の find-or-create 照会。本体実装は別システム。
// 未接続時は member_id なしで登録する。
type MemberDirectory interface {
	EnsureMember(ctx context.Context, name, nationalID string) (string, error)
}

type noopDirectory struct{}

func (noopDirectory) EnsureMember(context.Context, string, string) (string, error) {
	return "", nil
}

// ===== Service =====

type Service struct {
	store   *Store
	id      IDGen
	members MemberDirectory
}

func NewService(db *sql.DB) *Service {
	return &Service{
		store:   NewStore(db),
		id:      ulidGen{},
		members: noopDirectory{},
	}
}

// WithMemberDirectory は会員基盤クライアント差し替え用
func (s *Service) WithMemberDirectory(d MemberDirectory) *Service {
	if d != nil {
		s.members = d
	}
	return s
}

// POST /cohorts/:cohort_ulid/students
func (s *Service) Register(ctx context.Context, cohortULID string, req RegisterStudentRequest) (*StudentResponse, error) {
	cohortID, err := s.store.ResolveCohortID(ctx, cohortULID)
	if err != nil {
		return nil, err
	}

	idStr, err := s.id.New()
	if err != nil {
		return nil, err
	}

	st := &Student{
		StudentULID: idStr,
		CohortID:    cohortID,
		Name:        req.Name,
		Status:      StatusActive,
	}
	if req.NationalID != nil && *req.NationalID != "" {
		st.NationalID.String = *req.NationalID
		st.NationalID.Valid = true
	}
	if req.School != nil && *req.School != "" {
		st.School.String = *req.School
		st.School.Valid = true
	}
	if req.Contact != nil && *req.Contact != "" {
		st.Contact.String = *req.Contact
		st.Contact.Valid = true
	}

	nationalID := ""
	if st.NationalID.Valid {
		nationalID = st.NationalID.String
	}
	memberID, err := s.members.EnsureMember(ctx, req.Name, nationalID)
	if err != nil {
		return nil, err
	}
	if memberID != "" {
		st.MemberID.String = memberID
		st.MemberID.Valid = true
	}

	if err := s.store.Insert(ctx, st); err != nil {
		return nil, err
	}
	resp := st.toDTO(cohortULID)
	return &resp, nil
}

// GET /cohorts/:cohort_ulid/students?active=1
func (s *Service) List(ctx context.Context, cohortULID string, activeOnly bool) (*ListStudentsResponse, error) {
	cohortID, err := s.store.ResolveCohortID(ctx, cohortULID)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListByCohort(ctx, cohortID, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]StudentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDTO(cohortULID))
	}
	return &ListStudentsResponse{CohortULID: cohortULID, Students: out}, nil
}

// DELETE /cohorts/:cohort_ulid/students/:student_ulid
//
// 物理削除せず status=removed に落とす。過去の出欠記録は保持され、
// 編集用ビューのデフォルト補完対象からだけ外れる。
func (s *Service) Remove(ctx context.Context, cohortULID, studentULID string) error {
	return s.setStatus(ctx, cohortULID, studentULID, StatusRemoved)
}

// POST /cohorts/:cohort_ulid/students/:student_ulid/reactivate
func (s *Service) Reactivate(ctx context.Context, cohortULID, studentULID string) error {
	return s.setStatus(ctx, cohortULID, studentULID, StatusActive)
}

func (s *Service) setStatus(ctx context.Context, cohortULID, studentULID, status string) error {
	cohortID, err := s.store.ResolveCohortID(ctx, cohortULID)
	if err != nil {
		return err
	}
	n, err := s.store.UpdateStatus(ctx, cohortID, studentULID, status)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound("student not found in cohort")
	}
	return nil
}
