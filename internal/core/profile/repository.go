package profile

import "context"

// Repository はプロフィールの永続化を行うインターフェースです。
type Repository interface {
	Find(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, profile *Profile) (*Profile, error)
}
