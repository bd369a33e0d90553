package attendance

const (
	DateLayout = "2006-01-02"

	StatusPresent = "present"
	StatusAbsent  = "absent"

	// 記録なしセル（historical レポート専用。present とは別物）
	MarkerNoData = "no-data"
)

// 一括登録リクエスト（1コホート×1日分）
type CommitRequest struct {
	Date    string        `json:"date" binding:"required"` // "YYYY-MM-DD"
	Records []RecordEntry `json:"records" binding:"required"`
}

type RecordEntry struct {
	StudentULID string `json:"student_ulid" binding:"required"`
	Status      string `json:"status" binding:"required"` // present / absent
}

type CommitResponse struct {
	CohortULID string `json:"cohort_ulid"`
	Date       string `json:"date"`
	Saved      int    `json:"saved"`
}

// 編集用ビュー（在籍中の全生徒を必ず含む）
type DaySheetResponse struct {
	CohortULID string             `json:"cohort_ulid"`
	Date       string             `json:"date"`
	Entries    []DaySheetEntryDTO `json:"entries"`
}

type DaySheetEntryDTO struct {
	StudentULID string `json:"student_ulid"`
	Name        string `json:"name"`
	Status      string `json:"status"`   // present / absent
	Recorded    bool   `json:"recorded"` // false = デフォルト補完（DB未記録）
}

// ピボットレポート（行=生徒, 列=日付）
type ReportResponse struct {
	CohortULID string      `json:"cohort_ulid"`
	From       string      `json:"from"`
	To         string      `json:"to"`
	Dates      []string    `json:"dates"`
	Students   []ReportRow `json:"students"`
}

type ReportRow struct {
	StudentULID string   `json:"student_ulid"`
	Name        string   `json:"name"`
	Enrollment  string   `json:"enrollment"` // active / removed
	Cells       []string `json:"cells"`      // Dates と同順。present / absent / no-data
}
