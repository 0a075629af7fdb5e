package transactionrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiply/tiply/internal/domain"
	"github.com/tiply/tiply/internal/pg"
	gomock "go.uber.org/mock/gomock"
)

var txCols = []string{"id", "user_id", "amount", "fee", "status", "order_id", "created_at"}

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface, *pg.MockTXManager) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	ctrl := gomock.NewController(t)
	txManager := pg.NewMockTXManager(ctrl)
	repo := New(mockDB, txManager)
	defer mockDB.Close()

	return repo, mockDB, txManager
}

func TestRepository_Create(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()

	t.Run("Pending transaction created", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO transactions`)).
			WithArgs(1, int64(50_000), int64(0), domain.TxStatusPending, (*string)(nil)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(9, now))

		tx, err := repo.Create(context.Background(), &domain.Transaction{
			UserID: 1,
			Amount: 50_000,
			Status: domain.TxStatusPending,
		})
		require.NoError(t, err)
		assert.Equal(t, 9, tx.ID)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO transactions`)).
			WithArgs(1, int64(50_000), int64(0), domain.TxStatusPending, (*string)(nil)).
			WillReturnError(errors.New("database error"))

		_, err := repo.Create(context.Background(), &domain.Transaction{
			UserID: 1,
			Amount: 50_000,
			Status: domain.TxStatusPending,
		})
		assert.Error(t, err)
	})
}

func TestRepository_FindByOrderID(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()
	orderID := "ord-9"

	t.Run("Transaction found", func(t *testing.T) {
		rows := pgxmock.NewRows(txCols).
			AddRow(9, 1, int64(50_000), int64(0), domain.TxStatusPending, &orderID, now)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).WithArgs("ord-9").WillReturnRows(rows)

		tx, err := repo.FindByOrderID(context.Background(), "ord-9")
		require.NoError(t, err)
		require.NotNil(t, tx.OrderID)
		assert.Equal(t, "ord-9", *tx.OrderID)
	})

	t.Run("Unknown order", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).WithArgs("ord-9").WillReturnError(pgx.ErrNoRows)

		tx, err := repo.FindByOrderID(context.Background(), "ord-9")
		assert.NoError(t, err)
		assert.Nil(t, tx)
	})
}

func TestRepository_SetOrderID(t *testing.T) {
	repo, mock, _ := NewMock(t)

	t.Run("Order id stored", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE transactions`)).
			WithArgs("ord-9", 9).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.SetOrderID(context.Background(), 9, "ord-9"))
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE transactions`)).
			WithArgs("ord-9", 9).
			WillReturnError(errors.New("database error"))

		assert.Error(t, repo.SetOrderID(context.Background(), 9, "ord-9"))
	})
}

func TestRepository_UpdateStatusIf(t *testing.T) {
	t.Run("Guard matched", func(t *testing.T) {
		repo, mock, txManager := NewMock(t)
		txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, fn pg.TransactionalFn) error {
				return fn(ctx)
			})
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE transactions`)).
			WithArgs(domain.TxStatusSuccess, 9, []string{domain.TxStatusPending}).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		updated, err := repo.UpdateStatusIf(context.Background(), 9,
			[]string{domain.TxStatusPending}, domain.TxStatusSuccess)
		require.NoError(t, err)
		assert.True(t, updated)
	})

	t.Run("Guard did not match", func(t *testing.T) {
		repo, mock, txManager := NewMock(t)
		txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, fn pg.TransactionalFn) error {
				return fn(ctx)
			})
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE transactions`)).
			WithArgs(domain.TxStatusFailed, 9, []string{domain.TxStatusPending, domain.TxStatusSuccess}).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		updated, err := repo.UpdateStatusIf(context.Background(), 9,
			[]string{domain.TxStatusPending, domain.TxStatusSuccess}, domain.TxStatusFailed)
		require.NoError(t, err)
		assert.False(t, updated)
	})
}

func TestRepository_FindForReconcile(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()
	orderID := "ord-1"

	t.Run("Pending and success rows returned", func(t *testing.T) {
		rows := pgxmock.NewRows(txCols).
			AddRow(1, 1, int64(50_000), int64(0), domain.TxStatusPending, &orderID, now)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).
			WithArgs([]string{domain.TxStatusPending, domain.TxStatusSuccess}, 500).
			WillReturnRows(rows)

		transactions, err := repo.FindForReconcile(context.Background(), 500)
		require.NoError(t, err)
		require.Len(t, transactions, 1)
		assert.Equal(t, domain.TxStatusPending, transactions[0].Status)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).
			WithArgs([]string{domain.TxStatusPending, domain.TxStatusSuccess}, 500).
			WillReturnError(errors.New("database error"))

		_, err := repo.FindForReconcile(context.Background(), 500)
		assert.Error(t, err)
	})
}
