package interview

import "time"

// Format は面接の実施形式です。
type Format string

const (
	FormatOnline Format = "online"
	FormatOnsite Format = "onsite"
	FormatPhone  Format = "phone"
)

// Note は面接の振り返りメモです。選考ステップに紐付けることもできます。
type Note struct {
	ID            string
	UserID        string
	CompanyID     string
	StepID        *string
	Title         string
	InterviewedOn *time.Time
	Format        Format
	Interviewers  *string
	Questions     *string
	Reflection    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (f Format) Valid() bool {
	switch f {
	case FormatOnline, FormatOnsite, FormatPhone:
		return true
	default:
		return false
	}
}
