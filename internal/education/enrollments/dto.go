package enrollments

const (
	StatusActive  = "active"
	StatusRemoved = "removed"
)

// 受講登録リクエスト
type RegisterStudentRequest struct {
	Name       string  `json:"name" binding:"required"`
	NationalID *string `json:"national_id,omitempty"`
	School     *string `json:"school,omitempty"`
	Contact    *string `json:"contact,omitempty"`
}

type StudentResponse struct {
	StudentULID string  `json:"student_ulid"`
	CohortULID  string  `json:"cohort_ulid"`
	Name        string  `json:"name"`
	NationalID  *string `json:"national_id,omitempty"`
	School      *string `json:"school,omitempty"`
	Contact     *string `json:"contact,omitempty"`
	MemberID    *string `json:"member_id,omitempty"`
	Status      string  `json:"status"` // active / removed
}

type ListStudentsResponse struct {
	CohortULID string            `json:"cohort_ulid"`
	Students   []StudentResponse `json:"students"`
}
