package selection

import (
	"context"
	"time"
)

// Repository は選考ステップの永続化を行うインターフェースです。
// すべての操作は利用者 ID でスコープされます。
type Repository interface {
	Create(ctx context.Context, step *Step) (*Step, error)
	Update(ctx context.Context, step *Step) (*Step, error)
	Delete(ctx context.Context, id, userID string) error
	FindByID(ctx context.Context, id, userID string) (*Step, error)
	ListByCompany(ctx context.Context, companyID, userID string) ([]*Step, error)
	// DetachNotes はステップを参照する面接メモの紐付けを外します。
	DetachNotes(ctx context.Context, stepID, userID string, updatedAt time.Time) error
}

// CompanyStore は進捗の書き込み先となる企業ストアです。
type CompanyStore interface {
	// EnsureOwned は企業が利用者のものであることを確認します。
	EnsureOwned(ctx context.Context, companyID, userID string) error
	// LockOwned は企業が利用者のものであることを確認し、トランザクション終了まで行をロックします。
	LockOwned(ctx context.Context, companyID, userID string) error
	// ApplyProgress は導出した進捗を企業へ書き込みます。
	ApplyProgress(ctx context.Context, companyID, userID string, progress Progress, updatedAt time.Time) error
}
