package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
)

// ===== Error model (cohorts/enrollments と同型 + 出欠固有コード) =====

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeInvalidDate     Code = "INVALID_DATE"
	CodeInvalidRange    Code = "INVALID_RANGE"
	CodeInvalidStatus   Code = "INVALID_STATUS"
	CodeUnknownStudent  Code = "UNKNOWN_STUDENT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func ErrInvalid(msg string) *APIError        { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError       { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrInvalidDate(msg string) *APIError    { return &APIError{Code: CodeInvalidDate, Message: msg} }
func ErrInvalidRange(msg string) *APIError   { return &APIError{Code: CodeInvalidRange, Message: msg} }
func ErrInvalidStatus(msg string) *APIError  { return &APIError{Code: CodeInvalidStatus, Message: msg} }
func ErrUnknownStudent(msg string) *APIError { return &APIError{Code: CodeUnknownStudent, Message: msg} }
func ErrInternal(msg string) *APIError       { return &APIError{Code: CodeInternal, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeNotFound:
			return 404
		case CodeInvalidArgument, CodeInvalidDate, CodeInvalidRange, CodeInvalidStatus:
			return 400
		case CodeUnknownStudent:
			return 422
		default:
			return 500
		}
	}
	return 500
}

// ===== インターフェース群 =====

// Roster は名簿側（cohorts / students テーブル）への参照。
type Roster interface {
	ResolveCohort(ctx context.Context, cohortULID string) (*Cohort, error)
	ListStudents(ctx context.Context, cohortID int64, activeOnly bool) ([]Student, error)
}

// RecordStore は出欠記録の永続化。
type RecordStore interface {
	GetByDate(ctx context.Context, cohortID int64, on string) (map[int64]string, error)
	GetRange(ctx context.Context, cohortID int64, from, to string) (map[int64]map[string]string, error)
	// UpsertMany は全件成功か全件なしか（1トランザクション）
	UpsertMany(ctx context.Context, on string, records []Record) error
}

// ===== Service =====

type Service struct {
	roster  Roster
	records RecordStore
}

func NewService(db *sql.DB) *Service {
	st := NewStore(db)
	return &Service{roster: st, records: st}
}

// テスト用シーム
func newService(roster Roster, records RecordStore) *Service {
	return &Service{roster: roster, records: records}
}

// GET /cohorts/:cohort_ulid/attendance?date=
//
// 編集用ビュー。在籍中（active）の全生徒を返し、記録の無い生徒は present で補完する。
// 「記録なし=present」は編集画面専用の方針。レポート側は no-data（report.go）。
func (s *Service) LoadForEditing(ctx context.Context, cohortULID, dateStr string) (*DaySheetResponse, error) {
	on, err := parseDate(dateStr)
	if err != nil {
		return nil, ErrInvalidDate("date must be YYYY-MM-DD")
	}

	cohort, err := s.roster.ResolveCohort(ctx, cohortULID)
	if err != nil {
		return nil, err
	}
	if cohort == nil {
		return nil, ErrNotFound("cohort not found")
	}

	students, err := s.roster.ListStudents(ctx, cohort.CohortID, true)
	if err != nil {
		return nil, err
	}

	recorded, err := s.records.GetByDate(ctx, cohort.CohortID, on.Format(DateLayout))
	if err != nil {
		return nil, err
	}

	entries := make([]DaySheetEntryDTO, 0, len(students))
	for _, st := range students {
		e := DaySheetEntryDTO{
			StudentULID: st.StudentULID,
			Name:        st.Name,
			Status:      StatusPresent, // デフォルト補完
		}
		if v, ok := recorded[st.StudentID]; ok {
			e.Status = v
			e.Recorded = true
		}
		entries = append(entries, e)
	}

	return &DaySheetResponse{
		CohortULID: cohort.CohortULID,
		Date:       on.Format(DateLayout),
		Entries:    entries,
	}, nil
}

// PUT /cohorts/:cohort_ulid/attendance
//
// 一括upsert。edits 内に在籍外の生徒が1人でも居れば UNKNOWN_STUDENT で全体を拒否し、
// 1件も書き込まない。同一生徒が重複した場合は後勝ち。
func (s *Service) Commit(ctx context.Context, cohortULID string, req CommitRequest) (*CommitResponse, error) {
	on, err := parseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDate("date must be YYYY-MM-DD")
	}
	for _, r := range req.Records {
		if r.Status != StatusPresent && r.Status != StatusAbsent {
			return nil, ErrInvalidStatus("status must be 'present' or 'absent'")
		}
	}

	cohort, err := s.roster.ResolveCohort(ctx, cohortULID)
	if err != nil {
		return nil, err
	}
	if cohort == nil {
		return nil, ErrNotFound("cohort not found")
	}

	students, err := s.roster.ListStudents(ctx, cohort.CohortID, true)
	if err != nil {
		return nil, err
	}
	byULID := make(map[string]Student, len(students))
	for _, st := range students {
		byULID[st.StudentULID] = st
	}

	// ULID → 内部ID 解決（重複は後勝ちでまとめる）
	merged := make(map[int64]string, len(req.Records))
	order := make([]int64, 0, len(req.Records))
	for _, r := range req.Records {
		st, ok := byULID[r.StudentULID]
		if !ok {
			return nil, ErrUnknownStudent("student not enrolled: " + r.StudentULID)
		}
		if _, seen := merged[st.StudentID]; !seen {
			order = append(order, st.StudentID)
		}
		merged[st.StudentID] = r.Status
	}

	records := make([]Record, 0, len(merged))
	for _, id := range order {
		records = append(records, Record{StudentID: id, Status: merged[id]})
	}

	if len(records) > 0 {
		if err := s.records.UpsertMany(ctx, on.Format(DateLayout), records); err != nil {
			return nil, err
		}
	}

	return &CommitResponse{
		CohortULID: cohort.CohortULID,
		Date:       on.Format(DateLayout),
		Saved:      len(records),
	}, nil
}

// 行順は在籍順（student_id 昇順）で安定させる
func sortRowsByEnrollment(students []Student) {
	sort.Slice(students, func(i, j int) bool { return students[i].StudentID < students[j].StudentID })
}
