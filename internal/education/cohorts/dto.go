package cohorts

// コース（定期開催クラス）登録リクエスト
type CreateCohortRequest struct {
	Name      string  `json:"name" binding:"required"`
	TeacherID string  `json:"teacher_id" binding:"required"`
	Section   *string `json:"section,omitempty"`
	// 開催期間（DATE, "2006-01-02"）
	StartOn string `json:"start_on" binding:"required"`
	EndOn   string `json:"end_on" binding:"required"`
	// 開催時間帯（"15:04"）
	StartsAt string `json:"starts_at" binding:"required"`
	EndsAt   string `json:"ends_at" binding:"required"`
}

// 管理者による事後修正用。指定フィールドのみ更新。
type UpdateCohortRequest struct {
	Name      *string `json:"name,omitempty"`
	TeacherID *string `json:"teacher_id,omitempty"`
	Section   *string `json:"section,omitempty"`
	StartOn   *string `json:"start_on,omitempty"`
	EndOn     *string `json:"end_on,omitempty"`
	StartsAt  *string `json:"starts_at,omitempty"`
	EndsAt    *string `json:"ends_at,omitempty"`
}

type CohortResponse struct {
	CohortULID string  `json:"cohort_ulid"`
	Name       string  `json:"name"`
	TeacherID  string  `json:"teacher_id"`
	Section    *string `json:"section,omitempty"`
	StartOn    string  `json:"start_on"`
	EndOn      string  `json:"end_on"`
	StartsAt   string  `json:"starts_at"`
	EndsAt     string  `json:"ends_at"`
}

type ListCohortsResponse struct {
	Cohorts []CohortResponse `json:"cohorts"`
	Total   int64            `json:"total"`
}
