package cohorts

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// ===== Error model (attendance/enrollments と同型) =====

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

// UserDirectory は会員基盤側の find-or-create 照会。本体実装は別システム。
type UserDirectory interface {
	EnsureUser(ctx context.Context, userID string) (string, error)
}

// 会員基盤未接続時はIDをそのまま通す
type passthroughDirectory struct{}

func (passthroughDirectory) EnsureUser(_ context.Context, userID string) (string, error) {
	return userID, nil
}

// ===== Service =====

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type Service struct {
	store *Store
	id    IDGen
	users UserDirectory
}

func NewService(db *sql.DB) *Service {
	return &Service{
		store: NewStore(db),
		id:    ulidGen{},
		users: passthroughDirectory{},
	}
}

// WithUserDirectory は会員基盤クライアント差し替え用
func (s *Service) WithUserDirectory(d UserDirectory) *Service {
	if d != nil {
		s.users = d
	}
	return s
}

// POST /cohorts
func (s *Service) Create(ctx context.Context, req CreateCohortRequest) (*CohortResponse, error) {
	startOn, endOn, err := validateWindow(req.StartOn, req.EndOn)
	if err != nil {
		return nil, err
	}
	startsAt, endsAt, err := validateHours(req.StartsAt, req.EndsAt)
	if err != nil {
		return nil, err
	}

	teacherID, err := s.users.EnsureUser(ctx, req.TeacherID)
	if err != nil {
		return nil, err
	}

	idStr, err := s.id.New()
	if err != nil {
		return nil, err
	}

	cohort := &Cohort{
		CohortULID: idStr,
		Name:       req.Name,
		TeacherID:  teacherID,
		StartOn:    startOn,
		EndOn:      endOn,
		StartsAt:   startsAt,
		EndsAt:     endsAt,
	}
	if req.Section != nil && *req.Section != "" {
		cohort.Section.String = *req.Section
		cohort.Section.Valid = true
	}

	if err := s.store.Insert(ctx, cohort); err != nil {
		return nil, err
	}
	resp := cohort.toDTO()
	return &resp, nil
}

// GET /cohorts/:cohort_ulid
func (s *Service) Get(ctx context.Context, cohortULID string) (*CohortResponse, error) {
	cohort, err := s.store.GetByULID(ctx, cohortULID)
	if err != nil {
		return nil, err
	}
	if cohort == nil {
		return nil, ErrNotFound("cohort not found")
	}
	resp := cohort.toDTO()
	return &resp, nil
}

// GET /cohorts
func (s *Service) List(ctx context.Context, limit, offset int) (*ListCohortsResponse, error) {
	rows, total, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]CohortResponse, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDTO())
	}
	return &ListCohortsResponse{Cohorts: out, Total: total}, nil
}

// PUT /cohorts/:cohort_ulid （管理者修正）
func (s *Service) Update(ctx context.Context, cohortULID string, req UpdateCohortRequest) (*CohortResponse, error) {
	current, err := s.store.GetByULID(ctx, cohortULID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound("cohort not found")
	}

	// 期間・時間帯は片側だけの指定でも現行値と合わせて整合性を見る
	startOn := current.StartOn
	endOn := current.EndOn
	if req.StartOn != nil {
		startOn = *req.StartOn
	}
	if req.EndOn != nil {
		endOn = *req.EndOn
	}
	if _, _, err := validateWindow(startOn, endOn); err != nil {
		return nil, err
	}

	startsAt := current.StartsAt
	endsAt := current.EndsAt
	if req.StartsAt != nil {
		startsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		endsAt = *req.EndsAt
	}
	if _, _, err := validateHours(startsAt, endsAt); err != nil {
		return nil, err
	}

	if req.TeacherID != nil && *req.TeacherID != "" {
		resolved, err := s.users.EnsureUser(ctx, *req.TeacherID)
		if err != nil {
			return nil, err
		}
		req.TeacherID = &resolved
	}

	updated, err := s.store.UpdateByULID(ctx, cohortULID, req)
	if err != nil {
		return nil, err
	}
	resp := updated.toDTO()
	return &resp, nil
}

// ===== validation helpers =====

func validateWindow(startOn, endOn string) (string, string, error) {
	from, err := time.ParseInLocation(dateLayout, startOn, time.UTC)
	if err != nil {
		return "", "", ErrInvalid("start_on must be YYYY-MM-DD")
	}
	to, err := time.ParseInLocation(dateLayout, endOn, time.UTC)
	if err != nil {
		return "", "", ErrInvalid("end_on must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return "", "", ErrInvalid("end_on must be >= start_on")
	}
	return from.Format(dateLayout), to.Format(dateLayout), nil
}

func validateHours(startsAt, endsAt string) (string, string, error) {
	from, err := time.Parse(timeLayout, startsAt)
	if err != nil {
		return "", "", ErrInvalid("starts_at must be HH:MM")
	}
	to, err := time.Parse(timeLayout, endsAt)
	if err != nil {
		return "", "", ErrInvalid("ends_at must be HH:MM")
	}
	if !to.After(from) {
		return "", "", ErrInvalid("ends_at must be after starts_at")
	}
	return from.Format(timeLayout), to.Format(timeLayout), nil
}
