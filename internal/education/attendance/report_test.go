package attendance

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

func TestBuildReportPivot(t *testing.T) {
	svc, _, _ := setup()
	ctx := context.Background()

	mustCommit(t, svc, "2024-01-10", RecordEntry{StudentULID: "01S1", Status: StatusPresent})
	mustCommit(t, svc, "2024-01-11", RecordEntry{StudentULID: "01S1", Status: StatusAbsent})

	rep, err := svc.BuildReport(ctx, "01COHORT", "2024-01-10", "2024-01-12")
	if err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}

	wantDates := []string{"2024-01-10", "2024-01-11", "2024-01-12"}
	if !reflect.DeepEqual(rep.Dates, wantDates) {
		t.Fatalf("dates = %v, want %v", rep.Dates, wantDates)
	}

	rows := map[string]ReportRow{}
	for _, r := range rep.Students {
		rows[r.StudentULID] = r
	}
	if got := rows["01S1"].Cells; !reflect.DeepEqual(got, []string{StatusPresent, StatusAbsent, MarkerNoData}) {
		t.Errorf("S1 cells = %v", got)
	}
	// 記録のない在籍生徒は全列no-data（presentに捏造しない）
	if got := rows["01S2"].Cells; !reflect.DeepEqual(got, []string{MarkerNoData, MarkerNoData, MarkerNoData}) {
		t.Errorf("S2 cells = %v", got)
	}
}

func TestBuildReportValidation(t *testing.T) {
	svc, _, _ := setup()

	tests := []struct {
		name     string
		cohort   string
		from, to string
		want     Code
	}{
		{name: "inverted range", cohort: "01COHORT", from: "2024-01-12", to: "2024-01-10", want: CodeInvalidRange},
		{name: "bad from", cohort: "01COHORT", from: "notadate", to: "2024-01-10", want: CodeInvalidDate},
		{name: "bad to", cohort: "01COHORT", from: "2024-01-10", to: "2024-1-2", want: CodeInvalidDate},
		{name: "unknown cohort", cohort: "NOPE", from: "2024-01-10", to: "2024-01-10", want: CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.BuildReport(context.Background(), tt.cohort, tt.from, tt.to)
			assertCode(t, err, tt.want)
		})
	}
}

func TestBuildReportEmptyRangeIsValid(t *testing.T) {
	svc, _, _ := setup()

	rep, err := svc.BuildReport(context.Background(), "01COHORT", "2024-02-01", "2024-02-02")
	if err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}
	if len(rep.Students) != 3 || len(rep.Dates) != 2 {
		t.Fatalf("students=%d dates=%d, want 3/2", len(rep.Students), len(rep.Dates))
	}
	for _, row := range rep.Students {
		for i, c := range row.Cells {
			if c != MarkerNoData {
				t.Errorf("%s cell[%d] = %s, want no-data", row.StudentULID, i, c)
			}
		}
	}
}

// 除籍済み生徒: 期間内に記録があれば行に残り、無ければ行ごと消える
func TestBuildReportRemovedStudents(t *testing.T) {
	svc, roster, _ := setup()
	ctx := context.Background()

	mustCommit(t, svc, "2024-01-10", RecordEntry{StudentULID: "01S3", Status: StatusAbsent})
	roster.students[2].Status = "removed"

	rep, err := svc.BuildReport(ctx, "01COHORT", "2024-01-10", "2024-01-10")
	if err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}
	found := false
	for _, row := range rep.Students {
		if row.StudentULID == "01S3" {
			found = true
			if row.Enrollment != "removed" {
				t.Errorf("S3 enrollment = %s, want removed", row.Enrollment)
			}
			if row.Cells[0] != StatusAbsent {
				t.Errorf("S3 cell = %s, want absent", row.Cells[0])
			}
		}
	}
	if !found {
		t.Fatal("removed student with in-range record missing from report")
	}

	// 記録の無い期間では行ごと消える
	rep2, err := svc.BuildReport(ctx, "01COHORT", "2024-02-01", "2024-02-01")
	if err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}
	for _, row := range rep2.Students {
		if row.StudentULID == "01S3" {
			t.Error("removed student without in-range records should be excluded")
		}
	}
}

func TestBuildReportRowOrderIsStable(t *testing.T) {
	svc, roster, _ := setup()
	// 名簿が逆順で返ってきても在籍順（student_id昇順）に並べ直す
	roster.students = []Student{
		{StudentID: 3, StudentULID: "01S3", Name: "S3", Status: "active"},
		{StudentID: 1, StudentULID: "01S1", Name: "S1", Status: "active"},
		{StudentID: 2, StudentULID: "01S2", Name: "S2", Status: "active"},
	}

	rep, err := svc.BuildReport(context.Background(), "01COHORT", "2024-01-10", "2024-01-10")
	if err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}
	var got []string
	for _, row := range rep.Students {
		got = append(got, row.StudentULID)
	}
	if !reflect.DeepEqual(got, []string{"01S1", "01S2", "01S3"}) {
		t.Errorf("row order = %v", got)
	}
}

// ===== CSV =====

func TestWriteReportCSV(t *testing.T) {
	rep := &ReportResponse{
		CohortULID: "01COHORT",
		From:       "2024-01-10",
		To:         "2024-01-11",
		Dates:      []string{"2024-01-10", "2024-01-11"},
		Students: []ReportRow{
			{StudentULID: "01S1", Name: "山田太郎", Enrollment: "active", Cells: []string{StatusPresent, MarkerNoData}},
		},
	}

	var buf bytes.Buffer
	if err := WriteReportCSV(&buf, rep, EncodingUTF8); err != nil {
		t.Fatalf("WriteReportCSV() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lines[0] != "student_ulid,name,enrollment,2024-01-10,2024-01-11" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "01S1,山田太郎,active,present,no-data" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestWriteReportCSVShiftJIS(t *testing.T) {
	rep := &ReportResponse{
		Dates: []string{"2024-01-10"},
		Students: []ReportRow{
			{StudentULID: "01S1", Name: "山田太郎", Enrollment: "active", Cells: []string{StatusAbsent}},
		},
	}

	var buf bytes.Buffer
	if err := WriteReportCSV(&buf, rep, EncodingSJIS); err != nil {
		t.Fatalf("WriteReportCSV() error = %v", err)
	}

	// cp932で出ていることをデコードし直して確認
	decoded, _, err := transform.String(japanese.ShiftJIS.NewDecoder(), buf.String())
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if !strings.Contains(decoded, "山田太郎") {
		t.Errorf("decoded CSV missing name: %q", decoded)
	}
	if strings.Contains(buf.String(), "山田太郎") {
		t.Error("output is not actually encoded (raw UTF-8 found)")
	}
}
