package enrollments

import "database/sql"

// Student は students テーブルの1行（コホートごとの在籍レコード）を表す
type Student struct {
	StudentID   int64
	StudentULID string
	CohortID    int64
	Name        string
	NationalID  sql.NullString
	School      sql.NullString
	Contact     sql.NullString
	MemberID    sql.NullString
	Status      string // active / removed
}

func (st *Student) toDTO(cohortULID string) StudentResponse {
	resp := StudentResponse{
		StudentULID: st.StudentULID,
		CohortULID:  cohortULID,
		Name:        st.Name,
		Status:      st.Status,
	}
	if st.NationalID.Valid {
		v := st.NationalID.String
		resp.NationalID = &v
	}
	if st.School.Valid {
		v := st.School.String
		resp.School = &v
	}
	if st.Contact.Valid {
		v := st.Contact.String
		resp.Contact = &v
	}
	if st.MemberID.Valid {
		v := st.MemberID.String
		resp.MemberID = &v
	}
	return resp
}
