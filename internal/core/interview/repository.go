package interview

import "context"

// Repository は面接メモの永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, note *Note) (*Note, error)
	Update(ctx context.Context, note *Note) (*Note, error)
	Delete(ctx context.Context, id, userID string) error
	FindByID(ctx context.Context, id, userID string) (*Note, error)
	// ListByCompany は面接日の新しい順(未設定は末尾)、作成日時の新しい順に返します。
	ListByCompany(ctx context.Context, companyID, userID string) ([]*Note, error)
}

// Ownership は紐付け先の企業と選考ステップの所有を判定します。
type Ownership interface {
	CompanyOwned(ctx context.Context, companyID, userID string) (bool, error)
	// StepInCompany はステップが利用者の指定企業に属するかを返します。
	StepInCompany(ctx context.Context, stepID, companyID, userID string) (bool, error)
}
