package ledgerrepo

import (
	"context"

	"github.com/tiply/tiply/internal/domain"
	"github.com/tiply/tiply/internal/pg"
	"go.uber.org/zap"
)

// Repository derives the balance view. There is no balances table: the
// ledger is always recomputed from the two append-only record sets.
type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetUserBalance(ctx context.Context, userID int) (*domain.Balance, error) {
	query := `
		SELECT
			COALESCE((SELECT SUM(amount - fee) FROM transactions
				WHERE user_id = $1 AND status = $2), 0) AS received,
			COALESCE((SELECT SUM(amount + fee) FROM payout_requests
				WHERE user_id = $1 AND status = $3), 0) AS withdrawn
	`
	var balance domain.Balance
	err := r.db.QueryRow(ctx, query, userID, domain.TxStatusSuccess, domain.PayoutStatusCompleted).
		Scan(&balance.Received, &balance.Withdrawn)
	if err != nil {
		zap.L().Error("can't compute user balance", zap.Error(err))
		return nil, err
	}
	balance.Balance = balance.Received - balance.Withdrawn
	return &balance, nil
}
