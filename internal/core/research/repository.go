package research

import "context"

// Repository は研究シートの永続化を行うインターフェースです。
type Repository interface {
	Find(ctx context.Context, companyID, userID string) (*Research, error)
	Upsert(ctx context.Context, research *Research) (*Research, error)
	Delete(ctx context.Context, companyID, userID string) error
}

// CompanyOwnership は企業が利用者のものかを判定します。
type CompanyOwnership interface {
	CompanyOwned(ctx context.Context, companyID, userID string) (bool, error)
}
