package task

import "time"

// Category はタスクの種類を表します。
type Category string

const (
	CategoryEntrySheet Category = "entry_sheet"
	CategoryWebTest    Category = "web_test"
	CategoryInterview  Category = "interview"
	CategoryDocument   Category = "document"
	CategoryOther      Category = "other"
)

// Status はタスクの進行状態を表します。
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Task は応募に伴う作業項目です。企業に紐付かないタスクもあります。
type Task struct {
	ID        string
	UserID    string
	CompanyID *string
	Title     string
	Category  Category
	Status    Status
	DueDate   *time.Time
	Memo      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Category) Valid() bool {
	switch c {
	case CategoryEntrySheet, CategoryWebTest, CategoryInterview, CategoryDocument, CategoryOther:
		return true
	default:
		return false
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}
