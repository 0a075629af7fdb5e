package tipservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiply/tiply/internal/config"
	"github.com/tiply/tiply/internal/domain"
	"github.com/tiply/tiply/internal/paygine"
	gomock "go.uber.org/mock/gomock"
)

type mocks struct {
	transactionRepo *MockTransactionRepo
	userRepo        *MockUserRepo
	gateway         *MockGateway
	notifier        *MockNotifier
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		transactionRepo: NewMockTransactionRepo(ctrl),
		userRepo:        NewMockUserRepo(ctrl),
		gateway:         NewMockGateway(ctrl),
		notifier:        NewMockNotifier(ctrl),
	}
	cfg := &config.Config{PublicURL: "http://localhost:8080"}
	service := New(cfg, m.transactionRepo, m.userRepo, m.gateway, m.notifier)
	return service, m
}

func TestCreate(t *testing.T) {
	recipient := &domain.User{ID: 1, Login: "streamer", SubAccountRef: "sub-1"}

	t.Run("Non-positive amount", func(t *testing.T) {
		service, _ := NewMock(t)
		_, _, err := service.Create(context.Background(), 1, 0)
		assert.ErrorIs(t, err, ErrAmountInvalid)
	})

	t.Run("Unknown recipient", func(t *testing.T) {
		service, m := NewMock(t)
		m.userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(nil, nil)

		_, _, err := service.Create(context.Background(), 1, 50_000)
		assert.ErrorIs(t, err, ErrRecipientNotFound)
	})

	t.Run("Registration failure cancels the transaction", func(t *testing.T) {
		service, m := NewMock(t)
		m.userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(recipient, nil)
		m.transactionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
				tx.ID = 9
				return tx, nil
			})
		m.gateway.EXPECT().RegisterOrder(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))
		m.transactionRepo.EXPECT().UpdateStatusIf(gomock.Any(), 9,
			[]string{domain.TxStatusPending}, domain.TxStatusCancelled).Return(true, nil)

		_, _, err := service.Create(context.Background(), 1, 50_000)
		assert.Error(t, err)
	})

	t.Run("Gateway not configured", func(t *testing.T) {
		service, m := NewMock(t)
		m.userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(recipient, nil)
		m.transactionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
				tx.ID = 9
				return tx, nil
			})
		m.gateway.EXPECT().RegisterOrder(gomock.Any(), gomock.Any()).Return(nil, paygine.ErrNotConfigured)
		m.transactionRepo.EXPECT().UpdateStatusIf(gomock.Any(), 9, gomock.Any(), gomock.Any()).Return(true, nil)

		_, _, err := service.Create(context.Background(), 1, 50_000)
		assert.ErrorIs(t, err, ErrGatewayUnavailable)
	})

	t.Run("Successful registration returns the payment URL", func(t *testing.T) {
		service, m := NewMock(t)
		m.userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(recipient, nil)
		m.transactionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
				tx.ID = 9
				return tx, nil
			})
		m.gateway.EXPECT().RegisterOrder(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p paygine.RegisterOrderParams) (*paygine.Result, error) {
				assert.Equal(t, "tip:9", p.Reference)
				assert.Equal(t, "sub-1", p.SubAccountRef)
				return &paygine.Result{OK: true, OrderID: "ord-9"}, nil
			})
		m.transactionRepo.EXPECT().SetOrderID(gomock.Any(), 9, "ord-9").Return(nil)
		m.gateway.EXPECT().PaymentURL("ord-9").Return("https://test.paygine.com/webapi/Purchase?id=ord-9")

		tx, paymentURL, err := service.Create(context.Background(), 1, 50_000)
		assert.NoError(t, err)
		assert.Equal(t, "https://test.paygine.com/webapi/Purchase?id=ord-9", paymentURL)
		require.NotNil(t, tx.OrderID)
		assert.Equal(t, "ord-9", *tx.OrderID)
	})
}

func TestSettle(t *testing.T) {
	t.Run("Unknown order", func(t *testing.T) {
		service, m := NewMock(t)
		m.transactionRepo.EXPECT().FindByOrderID(gomock.Any(), "ord-9").Return(nil, nil)

		_, _, err := service.Settle(context.Background(), "ord-9", true)
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})

	t.Run("Already settled is reported back untouched", func(t *testing.T) {
		service, m := NewMock(t)
		tx := &domain.Transaction{ID: 9, Status: domain.TxStatusSuccess}
		m.transactionRepo.EXPECT().FindByOrderID(gomock.Any(), "ord-9").Return(tx, nil)

		got, already, err := service.Settle(context.Background(), "ord-9", true)
		assert.NoError(t, err)
		assert.True(t, already)
		assert.Equal(t, domain.TxStatusSuccess, got.Status)
	})

	t.Run("Success settles and notifies", func(t *testing.T) {
		service, m := NewMock(t)
		done := make(chan struct{})
		tx := &domain.Transaction{ID: 9, UserID: 1, Status: domain.TxStatusPending}
		m.transactionRepo.EXPECT().FindByOrderID(gomock.Any(), "ord-9").Return(tx, nil)
		m.transactionRepo.EXPECT().UpdateStatusIf(gomock.Any(), 9,
			[]string{domain.TxStatusPending}, domain.TxStatusSuccess).Return(true, nil)
		m.notifier.EXPECT().BalanceChanged(gomock.Any(), 1).Do(
			func(_ context.Context, _ int) { close(done) })

		got, already, err := service.Settle(context.Background(), "ord-9", true)
		assert.NoError(t, err)
		assert.False(t, already)
		assert.Equal(t, domain.TxStatusSuccess, got.Status)

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("balance notification never fired")
		}
	})

	t.Run("Failure settles silently", func(t *testing.T) {
		service, m := NewMock(t)
		tx := &domain.Transaction{ID: 9, UserID: 1, Status: domain.TxStatusPending}
		m.transactionRepo.EXPECT().FindByOrderID(gomock.Any(), "ord-9").Return(tx, nil)
		m.transactionRepo.EXPECT().UpdateStatusIf(gomock.Any(), 9,
			[]string{domain.TxStatusPending}, domain.TxStatusFailed).Return(true, nil)

		got, already, err := service.Settle(context.Background(), "ord-9", false)
		assert.NoError(t, err)
		assert.False(t, already)
		assert.Equal(t, domain.TxStatusFailed, got.Status)
	})

	t.Run("Lost race reports the winner", func(t *testing.T) {
		service, m := NewMock(t)
		pending := &domain.Transaction{ID: 9, Status: domain.TxStatusPending}
		won := &domain.Transaction{ID: 9, Status: domain.TxStatusFailed}
		m.transactionRepo.EXPECT().FindByOrderID(gomock.Any(), "ord-9").Return(pending, nil)
		m.transactionRepo.EXPECT().UpdateStatusIf(gomock.Any(), 9, gomock.Any(), gomock.Any()).Return(false, nil)
		m.transactionRepo.EXPECT().FindByOrderID(gomock.Any(), "ord-9").Return(won, nil)

		got, already, err := service.Settle(context.Background(), "ord-9", true)
		assert.NoError(t, err)
		assert.True(t, already)
		assert.Equal(t, domain.TxStatusFailed, got.Status)
	})
}
