package tipservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tiply/tiply/internal/config"
	"github.com/tiply/tiply/internal/domain"
	"github.com/tiply/tiply/internal/paygine"
	"go.uber.org/zap"
)

type TransactionRepo interface {
	Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error)
	FindByOrderID(ctx context.Context, orderID string) (*domain.Transaction, error)
	SetOrderID(ctx context.Context, id int, orderID string) error
	UpdateStatusIf(ctx context.Context, id int, from []string, to string) (bool, error)
}
type UserRepo interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
}
type Gateway interface {
	RegisterOrder(ctx context.Context, p paygine.RegisterOrderParams) (*paygine.Result, error)
	PaymentURL(orderID string) string
}
type Notifier interface {
	BalanceChanged(ctx context.Context, userID int)
}

var (
	ErrRecipientNotFound   = errors.New("recipient not found")
	ErrAmountInvalid       = errors.New("tip amount must be positive")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrGatewayUnavailable  = errors.New("payment gateway is not configured")
)

type Service struct {
	transactionRepo TransactionRepo
	userRepo        UserRepo
	gateway         Gateway
	notifier        Notifier
	publicURL       string
}

func New(cfg *config.Config, transactionRepo TransactionRepo, userRepo UserRepo, gateway Gateway, notifier Notifier) *Service {
	return &Service{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		gateway:         gateway,
		notifier:        notifier,
		publicURL:       cfg.PublicURL,
	}
}

// Create registers a tip payment for a recipient and returns the hosted
// payment page URL the payer is redirected to. The transaction stays
// PENDING until the webhook or reconciliation settles it.
func (s *Service) Create(ctx context.Context, recipientID int, amount int64) (*domain.Transaction, string, error) {
	if amount <= 0 {
		return nil, "", ErrAmountInvalid
	}

	user, err := s.userRepo.FindByID(ctx, recipientID)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrRecipientNotFound
	}

	t := &domain.Transaction{
		UserID: recipientID,
		Amount: amount,
		Status: domain.TxStatusPending,
	}
	if t, err = s.transactionRepo.Create(ctx, t); err != nil {
		return nil, "", err
	}

	reference := paygine.RefPrefixTip + strconv.Itoa(t.ID)
	res, err := s.gateway.RegisterOrder(ctx, paygine.RegisterOrderParams{
		Amount:        amount,
		Reference:     reference,
		Description:   "tiply tip for " + user.Login,
		SuccessURL:    s.publicURL + "/tips/thanks",
		FailURL:       s.publicURL + "/tips/failed",
		NotifyURL:     s.publicURL + "/api/paygine/notify",
		SubAccountRef: user.SubAccountRef,
	})
	if err != nil || !res.OK {
		// A tip that never registered is dead weight; cancel it so it
		// can't be settled later.
		if _, cErr := s.transactionRepo.UpdateStatusIf(ctx, t.ID,
			[]string{domain.TxStatusPending}, domain.TxStatusCancelled); cErr != nil {
			zap.L().Error("can't cancel unregistered tip", zap.Int("txID", t.ID), zap.Error(cErr))
		}
		if err != nil {
			if errors.Is(err, paygine.ErrNotConfigured) {
				return nil, "", ErrGatewayUnavailable
			}
			return nil, "", fmt.Errorf("tip registration failed: %w", err)
		}
		return nil, "", fmt.Errorf("gateway rejected tip: code=%d %s", res.Code, res.Description)
	}

	if err := s.transactionRepo.SetOrderID(ctx, t.ID, res.OrderID); err != nil {
		return nil, "", err
	}
	t.OrderID = &res.OrderID

	return t, s.gateway.PaymentURL(res.OrderID), nil
}

// Settle applies a payment outcome delivered by webhook. Idempotent: a
// transaction already out of PENDING is reported back unchanged.
func (s *Service) Settle(ctx context.Context, orderID string, success bool) (*domain.Transaction, bool, error) {
	t, err := s.transactionRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	if t == nil {
		return nil, false, ErrTransactionNotFound
	}
	if t.Status != domain.TxStatusPending {
		return t, true, nil
	}

	to := domain.TxStatusSuccess
	if !success {
		to = domain.TxStatusFailed
	}
	updated, err := s.transactionRepo.UpdateStatusIf(ctx, t.ID, []string{domain.TxStatusPending}, to)
	if err != nil {
		return nil, false, err
	}
	if !updated {
		t, err = s.transactionRepo.FindByOrderID(ctx, orderID)
		if err != nil {
			return nil, false, err
		}
		return t, true, nil
	}

	t.Status = to
	if to == domain.TxStatusSuccess {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			s.notifier.BalanceChanged(ctx, t.UserID)
		}()
	}
	return t, false, nil
}
