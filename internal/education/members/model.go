package members

// Member は施設会員基盤の1レコード。教育モジュールからは
// 受講者登録時の find-or-create でのみ触る。
type Member struct {
	MemberID   int64  `json:"-"`
	MemberCode string `json:"member_code"`
	Name       string `json:"name"`
	NationalID string `json:"national_id,omitempty"`
	IsDisabled bool   `json:"is_disabled"`
}
