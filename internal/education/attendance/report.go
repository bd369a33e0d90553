package attendance

import (
	"context"
	"encoding/csv"
	"io"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// GET /cohorts/:cohort_ulid/attendance/report?from=&to=
//
// ピボットレポート生成。
//  1. 列 = from..to（両端含む）の暦日、昇順固定。記録の有無に依らない。
//  2. 行 = 在籍中の全生徒 ∪ 期間内に記録を持つ生徒（除籍済み含む）。student_id で重複排除。
//  3. セル = 記録があればその値、無ければ no-data。編集画面と違い present への補完はしない。
// 単日エクスポートも同じ経路（from == to）を通す。
func (s *Service) BuildReport(ctx context.Context, cohortULID, fromStr, toStr string) (*ReportResponse, error) {
	from, err := parseDate(fromStr)
	if err != nil {
		return nil, ErrInvalidDate("from must be YYYY-MM-DD")
	}
	to, err := parseDate(toStr)
	if err != nil {
		return nil, ErrInvalidDate("to must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, ErrInvalidRange("to must be >= from")
	}

	cohort, err := s.roster.ResolveCohort(ctx, cohortULID)
	if err != nil {
		return nil, err
	}
	if cohort == nil {
		return nil, ErrNotFound("cohort not found")
	}

	// 除籍済みも含めて引く（期間内に記録があれば行に残すため）
	students, err := s.roster.ListStudents(ctx, cohort.CohortID, false)
	if err != nil {
		return nil, err
	}

	recorded, err := s.records.GetRange(ctx, cohort.CohortID, from.Format(DateLayout), to.Format(DateLayout))
	if err != nil {
		return nil, err
	}

	dates := datesBetween(from, to)

	rows := make([]Student, 0, len(students))
	for _, st := range students {
		if st.isActive() || len(recorded[st.StudentID]) > 0 {
			rows = append(rows, st)
		}
	}
	sortRowsByEnrollment(rows)

	out := make([]ReportRow, 0, len(rows))
	for _, st := range rows {
		cells := make([]string, len(dates))
		for i, d := range dates {
			if v, ok := recorded[st.StudentID][d]; ok {
				cells[i] = v
			} else {
				cells[i] = MarkerNoData
			}
		}
		out = append(out, ReportRow{
			StudentULID: st.StudentULID,
			Name:        st.Name,
			Enrollment:  st.Status,
			Cells:       cells,
		})
	}

	return &ReportResponse{
		CohortULID: cohort.CohortULID,
		From:       from.Format(DateLayout),
		To:         to.Format(DateLayout),
		Dates:      dates,
		Students:   out,
	}, nil
}

// ===== CSVシリアライズ =====

const (
	EncodingUTF8 = "utf8"
	EncodingSJIS = "sjis" // Windows版Excel向け（cp932）
)

// WriteReportCSV はピボットモデルをそのままCSVに落とす。
// ヘッダ行: student_ulid, name, enrollment, <date>...
func WriteReportCSV(w io.Writer, rep *ReportResponse, encoding string) error {
	var tw *transform.Writer
	if encoding == EncodingSJIS {
		tw = transform.NewWriter(w, japanese.ShiftJIS.NewEncoder())
		w = tw
	}
	cw := csv.NewWriter(w)

	header := append([]string{"student_ulid", "name", "enrollment"}, rep.Dates...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rep.Students {
		rec := append([]string{row.StudentULID, row.Name, row.Enrollment}, row.Cells...)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if tw != nil {
		// 変換バッファの吐き出し
		return tw.Close()
	}
	return nil
}
