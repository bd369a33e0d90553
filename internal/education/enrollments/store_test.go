package enrollments

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return NewStore(conn), mock, func() { conn.Close() }
}

func TestResolveCohortIDNotFound(t *testing.T) {
	store, mock, done := newMockStore(t)
	defer done()

	mock.ExpectQuery("SELECT cohort_id FROM cohorts").
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows([]string{"cohort_id"}))

	_, err := store.ResolveCohortID(context.Background(), "NOPE")
	api, ok := err.(*APIError)
	if !ok || api.Code != CodeNotFound {
		t.Fatalf("error = %v, want NOT_FOUND", err)
	}
}

// 除籍は物理削除ではなくstatus更新
func TestUpdateStatusSoftRemove(t *testing.T) {
	store, mock, done := newMockStore(t)
	defer done()

	mock.ExpectExec("UPDATE students SET status").
		WithArgs(StatusRemoved, int64(1), "01S1", StatusRemoved).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := store.UpdateStatus(context.Background(), 1, "01S1", StatusRemoved)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if n != 1 {
		t.Errorf("n = %d, want 1", n)
	}
}

// 既に同statusの場合は存在確認で成功扱い
func TestUpdateStatusAlreadyRemoved(t *testing.T) {
	store, mock, done := newMockStore(t)
	defer done()

	mock.ExpectExec("UPDATE students SET status").
		WithArgs(StatusRemoved, int64(1), "01S1", StatusRemoved).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM students").
		WithArgs(int64(1), "01S1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	n, err := store.UpdateStatus(context.Background(), 1, "01S1", StatusRemoved)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if n != 1 {
		t.Errorf("n = %d, want 1 (treated as success)", n)
	}
}

func TestUpdateStatusMissingStudent(t *testing.T) {
	store, mock, done := newMockStore(t)
	defer done()

	mock.ExpectExec("UPDATE students SET status").
		WithArgs(StatusRemoved, int64(1), "GHOST", StatusRemoved).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM students").
		WithArgs(int64(1), "GHOST").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	n, err := store.UpdateStatus(context.Background(), 1, "GHOST", StatusRemoved)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if n != 0 {
		t.Errorf("n = %d, want 0", n)
	}
}
