package members

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/oklog/ulid/v2"
)

// ===== Error model =====

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

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return false
}

// ===== Service =====

type Service struct {
	store *Store
}

func NewService(db *sql.DB) *Service { return &Service{store: NewStore(db)} }

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalid("name is required")
	}
	return name, nil
}

func newMemberCode() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// EnsureMember は national_id で会員を引き当て、無ければ新規発番する。
// national_id 未提示の受講者は会員とひも付けない（空文字を返す）。
// enrollments.MemberDirectory を満たす。
func (s *Service) EnsureMember(ctx context.Context, name, nationalID string) (string, error) {
	nationalID = strings.TrimSpace(nationalID)
	if nationalID == "" {
		return "", nil
	}
	n, err := normalizeName(name)
	if err != nil {
		return "", err
	}

	m, err := s.store.GetByNationalID(ctx, nationalID)
	if err == nil {
		return m.MemberCode, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", ErrInternal("failed to look up member")
	}

	code, err := newMemberCode()
	if err != nil {
		return "", ErrInternal("failed to issue member code")
	}
	created, err := s.store.Insert(ctx, code, n, nationalID)
	if err != nil {
		// 同時登録で先を越された場合は引き直す
		if isDuplicateKey(err) {
			m, err2 := s.store.GetByNationalID(ctx, nationalID)
			if err2 != nil {
				return "", ErrInternal("failed to look up member")
			}
			return m.MemberCode, nil
		}
		return "", ErrInternal("failed to create member")
	}
	return created.MemberCode, nil
}

func (s *Service) List(ctx context.Context, all string) ([]Member, error) {
	includeDisabled := parseBoolish(all)
	return s.store.List(ctx, includeDisabled)
}

func (s *Service) Get(ctx context.Context, code string) (*Member, error) {
	m, err := s.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound("member not found")
		}
		return nil, ErrInternal("failed to get member")
	}
	return m, nil
}

func (s *Service) Disable(ctx context.Context, code string) error {
	err := s.store.Disable(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound("member not found")
		}
		return ErrInternal("failed to disable member")
	}
	return nil
}

func parseBoolish(s string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	return s == "1" || s == "true" || s == "yes" || s == "all"
}
