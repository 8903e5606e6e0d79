package company

import "time"

// Priority は志望度を表します。
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DefaultStatus は選考ステップが無い企業の表示ステータスです。
const DefaultStatus = "未エントリー"

// Company は利用者が管理する応募先企業です。
// Status, NextStep, NextDeadline は選考ステップから導出されますが、利用者が直接編集することもできます。
type Company struct {
	ID           string
	UserID       string
	Name         string
	Industry     *string
	WebsiteURL   *string
	MyPageURL    *string
	Priority     Priority
	Memo         *string
	Status       string
	NextStep     *string
	NextDeadline *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Valid は志望度が既知の値かどうかを返します。
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}
