package payoutrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tiply/tiply/internal/domain"
	"github.com/tiply/tiply/internal/pg"
	"go.uber.org/zap"
)

const payoutColumns = `id, user_id, amount, fee, status, order_id, details,
		reject_reason, completed_by, created_at, updated_at`

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func scanPayout(row pgx.Row) (*domain.PayoutRequest, error) {
	var p domain.PayoutRequest
	err := row.Scan(
		&p.ID, &p.UserID, &p.Amount, &p.Fee, &p.Status, &p.OrderID, &p.Details,
		&p.RejectReason, &p.CompletedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Create(ctx context.Context, p *domain.PayoutRequest) (*domain.PayoutRequest, error) {
	query := `
		INSERT INTO payout_requests (user_id, amount, fee, status, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, p.UserID, p.Amount, p.Fee, p.Status, p.Details).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		zap.L().Error("can't save payout request", zap.Error(err))
		return nil, err
	}
	return p, nil
}

// Delete is the compensating action for a failed gateway registration.
// It only removes rows still in CREATED, so a request that progressed
// concurrently is left alone.
func (r *Repository) Delete(ctx context.Context, id int) error {
	query := `
		DELETE FROM payout_requests
		WHERE id = $1 AND status = $2
	`
	_, err := r.db.Exec(ctx, query, id, domain.PayoutStatusCreated)
	if err != nil {
		zap.L().Error("can't delete payout request", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.PayoutRequest, error) {
	p, err := scanPayout(r.db.QueryRow(ctx,
		`SELECT `+payoutColumns+` FROM payout_requests WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find payout request", zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.PayoutRequest, error) {
	query := `
		SELECT ` + payoutColumns + `
		FROM payout_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get payout requests", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var payouts []domain.PayoutRequest
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			zap.L().Error("can't scan payout request row", zap.Error(err))
			return nil, err
		}
		payouts = append(payouts, *p)
	}
	return payouts, nil
}

// CountSumSince aggregates all requests created at or after the given
// instant, regardless of status. Used for quota windows.
func (r *Repository) CountSumSince(ctx context.Context, userID int, since time.Time) (int64, int64, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(amount), 0)
		FROM payout_requests
		WHERE user_id = $1 AND created_at >= $2
	`
	var count, sum int64
	err := r.db.QueryRow(ctx, query, userID, since).Scan(&count, &sum)
	if err != nil {
		zap.L().Error("can't aggregate payout requests", zap.Error(err))
		return 0, 0, err
	}
	return count, sum, nil
}

// UpdateStatusIf moves a request to the target status only while it is
// still in one of the expected source statuses. Returns false when the
// guard did not match, which callers treat as "already resolved".
func (r *Repository) UpdateStatusIf(ctx context.Context, id int, from []string, update *domain.PayoutRequest) (bool, error) {
	query := `
		UPDATE payout_requests
		SET status = $1,
			order_id = COALESCE($2, order_id),
			reject_reason = COALESCE($3, reject_reason),
			completed_by = COALESCE($4, completed_by),
			updated_at = now()
		WHERE id = $5 AND status = ANY($6)
	`
	var updated bool
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, query,
			update.Status, update.OrderID, update.RejectReason, update.CompletedBy, id, from)
		if err != nil {
			zap.L().Error("can't update payout request status", zap.Error(err))
			return err
		}
		updated = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return updated, nil
}

// FindForReconcile selects requests stuck in PROCESSING that did reach
// the gateway.
func (r *Repository) FindForReconcile(ctx context.Context, limit uint32) ([]domain.PayoutRequest, error) {
	query := `
		SELECT ` + payoutColumns + `
		FROM payout_requests
		WHERE status = $1 AND order_id IS NOT NULL
		ORDER BY created_at ASC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, domain.PayoutStatusProcessing, int(limit))
	if err != nil {
		zap.L().Error("can't get payout requests for reconcile", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var payouts []domain.PayoutRequest
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			zap.L().Error("can't scan payout request row", zap.Error(err))
			return nil, err
		}
		payouts = append(payouts, *p)
	}
	return payouts, nil
}
