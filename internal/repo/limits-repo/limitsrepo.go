package limitsrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/tiply/tiply/internal/domain"
	"github.com/tiply/tiply/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

// Get returns the system-wide defaults row, or nil when none is
// configured and the hardcoded fallbacks apply.
func (r *Repository) Get(ctx context.Context) (*domain.LimitSettings, error) {
	query := `
		SELECT id, daily_limit_count, daily_limit_amount, monthly_limit_count, monthly_limit_amount
		FROM limit_settings
		ORDER BY id
		LIMIT 1
	`
	var s domain.LimitSettings
	err := r.db.QueryRow(ctx, query).Scan(
		&s.ID, &s.DailyLimitCount, &s.DailyLimitAmount, &s.MonthlyLimitCount, &s.MonthlyLimitAmount,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't get limit settings", zap.Error(err))
		return nil, err
	}
	return &s, nil
}
