package attendance

// Service ↔ Store で使うモデル（必要最小限）

// Cohort は cohorts テーブルの参照用サブセット
type Cohort struct {
	CohortID   int64
	CohortULID string
	Name       string
}

// Student は students テーブルの参照用サブセット（名簿1行）
type Student struct {
	StudentID   int64
	StudentULID string
	Name        string
	Status      string // active / removed
}

// Record は upsert 対象の1件（内部IDに解決済み）
type Record struct {
	StudentID int64
	Status    string
}

func (st Student) isActive() bool { return st.Status == "active" }
