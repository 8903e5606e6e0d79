package event

import "time"

// Kind は予定の種類を表します。
type Kind string

const (
	KindInterview Kind = "interview"
	KindBriefing  Kind = "briefing"
	KindDeadline  Kind = "deadline"
	KindOther     Kind = "other"
)

// MaxRemindBeforeMinutes はリマインドを設定できる最大の事前時間(7 日)です。
const MaxRemindBeforeMinutes = 7 * 24 * 60

// Event はカレンダー上の予定です。
type Event struct {
	ID                  string
	UserID              string
	CompanyID           *string
	Title               string
	Kind                Kind
	StartsAt            time.Time
	EndsAt              *time.Time
	Location            *string
	RemindBeforeMinutes *int
	Memo                *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (k Kind) Valid() bool {
	switch k {
	case KindInterview, KindBriefing, KindDeadline, KindOther:
		return true
	default:
		return false
	}
}

// RemindAt はリマインド時刻を返します。リマインドが無い場合は false です。
func (e *Event) RemindAt() (time.Time, bool) {
	if e.RemindBeforeMinutes == nil {
		return time.Time{}, false
	}
	return e.StartsAt.Add(-time.Duration(*e.RemindBeforeMinutes) * time.Minute), true
}

// ReminderDue は now がリマインド時刻以降かつ開始前であるかを返します。
func (e *Event) ReminderDue(now time.Time) bool {
	at, ok := e.RemindAt()
	if !ok {
		return false
	}
	return !at.After(now) && now.Before(e.StartsAt)
}
