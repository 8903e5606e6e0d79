package selection

import (
	"strings"
	"time"
)

// StepStatus は選考ステップの状態を表します。
type StepStatus string

const (
	StepStatusNotStarted StepStatus = "not_started"
	StepStatusScheduled  StepStatus = "scheduled"
	StepStatusInReview   StepStatus = "in_review"
	StepStatusPassed     StepStatus = "passed"
	StepStatusFailed     StepStatus = "failed"
)

// offerMarker を名前に含む合格済みステップは内定とみなします。
const offerMarker = "内定"

// Step は企業ごとの選考ステップです。
type Step struct {
	ID          string
	CompanyID   string
	UserID      string
	Order       int
	Name        string
	Status      StepStatus
	PlannedDate *time.Time
	ActualDate  *time.Time
	Memo        *string
	Offer       bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOffer はステップが内定を表すかどうかを返します。
func (s *Step) IsOffer() bool {
	return s.Offer || strings.Contains(s.Name, offerMarker)
}

// Valid はステータスが既知の値かどうかを返します。
func (s StepStatus) Valid() bool {
	switch s {
	case StepStatusNotStarted, StepStatusScheduled, StepStatusInReview, StepStatusPassed, StepStatusFailed:
		return true
	default:
		return false
	}
}

// DefaultTemplate は ApplyTemplate で追加される標準的な選考フローです。
var DefaultTemplate = []string{"ES提出", "Webテスト", "一次面接", "二次面接", "最終面接", "内定"}
