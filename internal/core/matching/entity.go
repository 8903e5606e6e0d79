package matching

import "time"

const (
	MinScore = 0
	MaxScore = 100
)

// Assessment はプロフィールと企業の適合度評価です。
type Assessment struct {
	CompanyID   string
	Score       float64
	Fit         bool
	Summary     string
	Strengths   []string
	Concerns    []string
	Advice      string
	Model       string
	EvaluatedAt time.Time
}
