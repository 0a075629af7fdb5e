package transactionrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/tiply/tiply/internal/domain"
	"github.com/tiply/tiply/internal/pg"
	"go.uber.org/zap"
)

const txColumns = `id, user_id, amount, fee, status, order_id, created_at`

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

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.Amount, &t.Fee, &t.Status, &t.OrderID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, amount, fee, status, order_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, t.UserID, t.Amount, t.Fee, t.Status, t.OrderID).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		zap.L().Error("can't save transaction", zap.Error(err))
		return nil, err
	}
	return t, nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRow(ctx,
		`SELECT `+txColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find transaction", zap.Error(err))
		return nil, err
	}
	return t, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.Transaction, error) {
	query := `
		SELECT ` + txColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			zap.L().Error("can't scan transaction row", zap.Error(err))
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, nil
}

// SetOrderID stores the gateway order id assigned at registration.
func (r *Repository) SetOrderID(ctx context.Context, id int, orderID string) error {
	query := `
		UPDATE transactions
		SET order_id = $1
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, orderID, id)
	if err != nil {
		zap.L().Error("can't set transaction order id", zap.Error(err))
		return err
	}
	return nil
}

// UpdateStatusIf transitions the transaction only while it is in one of
// the expected source statuses.
func (r *Repository) UpdateStatusIf(ctx context.Context, id int, from []string, to string) (bool, error) {
	query := `
		UPDATE transactions
		SET status = $1
		WHERE id = $2 AND status = ANY($3)
	`
	var updated bool
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, query, to, id, from)
		if err != nil {
			zap.L().Error("can't update transaction status", zap.Error(err))
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

// FindByOrderID looks a transaction up by its gateway order id, used by
// the webhook dispatcher.
func (r *Repository) FindByOrderID(ctx context.Context, orderID string) (*domain.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRow(ctx,
		`SELECT `+txColumns+` FROM transactions WHERE order_id = $1`, orderID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find transaction by order id", zap.Error(err))
		return nil, err
	}
	return t, nil
}

// FindForReconcile selects optimistically settled or pending transactions
// that reached the gateway and may need correction.
func (r *Repository) FindForReconcile(ctx context.Context, limit uint32) ([]domain.Transaction, error) {
	query := `
		SELECT ` + txColumns + `
		FROM transactions
		WHERE status = ANY($1) AND order_id IS NOT NULL
		ORDER BY created_at ASC
		LIMIT $2
	`
	statuses := []string{domain.TxStatusPending, domain.TxStatusSuccess}
	rows, err := r.db.Query(ctx, query, statuses, int(limit))
	if err != nil {
		zap.L().Error("can't get transactions for reconcile", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			zap.L().Error("can't scan transaction row", zap.Error(err))
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, nil
}
