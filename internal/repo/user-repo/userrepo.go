package userrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/tiply/tiply/internal/domain"
	"github.com/tiply/tiply/internal/pg"
	"go.uber.org/zap"
)

const userColumns = `id, login, password_hash, role, sub_account_ref,
		auto_confirm_limit, daily_limit_count, daily_limit_amount,
		monthly_limit_count, monthly_limit_amount, created_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.Login, &user.PasswordHash, &user.Role, &user.SubAccountRef,
		&user.AutoConfirmLimit, &user.DailyLimitCount, &user.DailyLimitAmount,
		&user.MonthlyLimitCount, &user.MonthlyLimitAmount, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (repo *Repository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	user, err := scanUser(repo.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE login = $1`, login))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (repo *Repository) FindByID(ctx context.Context, id int) (*domain.User, error) {
	user, err := scanUser(repo.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (repo *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (login, password_hash, role, sub_account_ref)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := repo.db.QueryRow(ctx, query, user.Login, user.PasswordHash, user.Role, user.SubAccountRef).Scan(&user.ID)
	if err != nil {
		zap.L().Error("can't save user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

// UpdateLimits overwrites the per-user override fields; nil clears an
// override back to the system default.
func (repo *Repository) UpdateLimits(ctx context.Context, userID int, limits *domain.User) error {
	query := `
		UPDATE users
		SET daily_limit_count = $1,
			daily_limit_amount = $2,
			monthly_limit_count = $3,
			monthly_limit_amount = $4
		WHERE id = $5
	`
	_, err := repo.db.Exec(ctx, query,
		limits.DailyLimitCount, limits.DailyLimitAmount,
		limits.MonthlyLimitCount, limits.MonthlyLimitAmount, userID)
	if err != nil {
		zap.L().Error("can't update user limits", zap.Error(err))
		return err
	}
	return nil
}
