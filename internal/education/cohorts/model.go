package cohorts

import "database/sql"

// Cohort は cohorts テーブルの1行を表す
type Cohort struct {
	CohortID   int64
	CohortULID string
	Name       string
	TeacherID  string
	Section    sql.NullString
	StartOn    string // DATE → "YYYY-MM-DD"
	EndOn      string
	StartsAt   string // TIME → "HH:MM"
	EndsAt     string
}

func (c *Cohort) toDTO() CohortResponse {
	resp := CohortResponse{
		CohortULID: c.CohortULID,
		Name:       c.Name,
		TeacherID:  c.TeacherID,
		StartOn:    c.StartOn,
		EndOn:      c.EndOn,
		StartsAt:   c.StartsAt,
		EndsAt:     c.EndsAt,
	}
	if c.Section.Valid {
		v := c.Section.String
		resp.Section = &v
	}
	return resp
}
