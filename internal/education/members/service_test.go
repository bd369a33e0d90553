package members

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mysql "github.com/go-sql-driver/mysql"
)

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock, func()) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return NewService(conn), mock, func() { conn.Close() }
}

func memberRow(id int64, code, name, nationalID string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"member_id", "member_code", "name", "national_id", "is_disabled"}).
		AddRow(id, code, name, nationalID, false)
}

func TestEnsureMemberWithoutNationalID(t *testing.T) {
	svc, mock, done := newMockService(t)
	defer done()

	code, err := svc.EnsureMember(context.Background(), "山田太郎", "")
	if err != nil {
		t.Fatalf("EnsureMember() error = %v", err)
	}
	if code != "" {
		t.Errorf("code = %q, want empty (no linkage)", code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected queries: %v", err)
	}
}

func TestEnsureMemberFindsExisting(t *testing.T) {
	svc, mock, done := newMockService(t)
	defer done()

	mock.ExpectQuery("SELECT member_id, member_code").
		WithArgs("AB-123").
		WillReturnRows(memberRow(1, "01MEMBER", "山田太郎", "AB-123"))

	code, err := svc.EnsureMember(context.Background(), "山田太郎", "AB-123")
	if err != nil {
		t.Fatalf("EnsureMember() error = %v", err)
	}
	if code != "01MEMBER" {
		t.Errorf("code = %q, want 01MEMBER", code)
	}
}

func TestEnsureMemberCreatesWhenMissing(t *testing.T) {
	svc, mock, done := newMockService(t)
	defer done()

	mock.ExpectQuery("SELECT member_id, member_code").
		WithArgs("AB-123").
		WillReturnRows(sqlmock.NewRows([]string{"member_id", "member_code", "name", "national_id", "is_disabled"}))
	mock.ExpectExec("INSERT INTO members").
		WillReturnResult(sqlmock.NewResult(7, 1))

	code, err := svc.EnsureMember(context.Background(), "山田太郎", "AB-123")
	if err != nil {
		t.Fatalf("EnsureMember() error = %v", err)
	}
	if len(code) != 26 {
		t.Errorf("code length = %d, want 26 (ULID)", len(code))
	}
}

// 同時登録で重複キーになった場合は再照会で既存codeを返す
func TestEnsureMemberDuplicateKeyRace(t *testing.T) {
	svc, mock, done := newMockService(t)
	defer done()

	mock.ExpectQuery("SELECT member_id, member_code").
		WithArgs("AB-123").
		WillReturnRows(sqlmock.NewRows([]string{"member_id", "member_code", "name", "national_id", "is_disabled"}))
	mock.ExpectExec("INSERT INTO members").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectQuery("SELECT member_id, member_code").
		WithArgs("AB-123").
		WillReturnRows(memberRow(3, "01RIVAL", "山田太郎", "AB-123"))

	code, err := svc.EnsureMember(context.Background(), "山田太郎", "AB-123")
	if err != nil {
		t.Fatalf("EnsureMember() error = %v", err)
	}
	if code != "01RIVAL" {
		t.Errorf("code = %q, want 01RIVAL", code)
	}
}
