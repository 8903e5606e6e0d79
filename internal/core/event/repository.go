package event

import (
	"context"
	"time"
)

// Repository は予定の永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, event *Event) (*Event, error)
	Update(ctx context.Context, event *Event) (*Event, error)
	Delete(ctx context.Context, id, userID string) error
	FindByID(ctx context.Context, id, userID string) (*Event, error)
	// ListInRange は開始時刻が [From, To) に含まれる予定を開始時刻順に返します。
	ListInRange(ctx context.Context, filter RangeFilter) ([]*Event, error)
	// ListDueReminders は now 時点でリマインド対象の予定を開始時刻順に返します。
	ListDueReminders(ctx context.Context, userID string, now time.Time) ([]*Event, error)
}

// CompanyOwnership は企業が利用者のものかを判定します。
type CompanyOwnership interface {
	CompanyOwned(ctx context.Context, companyID, userID string) (bool, error)
}

// RangeFilter は期間指定の検索条件です。
type RangeFilter struct {
	UserID    string
	From      time.Time
	To        time.Time
	CompanyID *string
}
