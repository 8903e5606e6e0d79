package task

import (
	"context"
	"time"
)

// Repository はタスクの永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, task *Task) (*Task, error)
	Update(ctx context.Context, task *Task) (*Task, error)
	Delete(ctx context.Context, id, userID string) error
	FindByID(ctx context.Context, id, userID string) (*Task, error)
	List(ctx context.Context, filter ListTasksFilter) ([]*Task, string, error)
}

// CompanyOwnership は企業が利用者のものかを判定します。
type CompanyOwnership interface {
	CompanyOwned(ctx context.Context, companyID, userID string) (bool, error)
}

// ListTasksFilter は一覧取得時の検索条件です。期限は DueBefore より前(含まない)のものに絞り込みます。
type ListTasksFilter struct {
	UserID    string
	CompanyID *string
	Status    *Status
	DueBefore *time.Time
	Limit     int
	Offset    int
}
