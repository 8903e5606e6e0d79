package postgres

import (
	"context"

	pgdb "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/db/postgres"
)

// OwnershipRepository はタスクや予定などの紐付け先が利用者のものかを判定します。
type OwnershipRepository struct {
	pool pgdb.Queryer
}

// NewOwnershipRepository は OwnershipRepository を生成します。
func NewOwnershipRepository(pool pgdb.Queryer) *OwnershipRepository {
	return &OwnershipRepository{pool: pool}
}

// CompanyOwned は企業が利用者のものかを返します。
func (r *OwnershipRepository) CompanyOwned(ctx context.Context, companyID, userID string) (bool, error) {
	return companyOwned(ctx, pgdb.QueryerFromContext(ctx, r.pool), companyID, userID)
}

// StepInCompany は選考ステップが利用者の指定企業に属するかを返します。
func (r *OwnershipRepository) StepInCompany(ctx context.Context, stepID, companyID, userID string) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	var exists bool
	err := exec.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1
              FROM selection_steps
             WHERE id = $1
               AND company_id = $2
               AND user_id = $3
        )
    `, stepID, companyID, userID).Scan(&exists)
	if err != nil {
		if isMalformedID(err) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func companyOwned(ctx context.Context, exec pgdb.Queryer, companyID, userID string) (bool, error) {
	var exists bool
	err := exec.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1
              FROM companies
             WHERE id = $1
               AND user_id = $2
        )
    `, companyID, userID).Scan(&exists)
	if err != nil {
		if isMalformedID(err) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}
