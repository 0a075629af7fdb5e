package ledgerservice

import (
	"context"

	"github.com/tiply/tiply/internal/domain"
	"go.uber.org/zap"
)

type LedgerRepo interface {
	GetUserBalance(ctx context.Context, userID int) (*domain.Balance, error)
}
type TransactionRepo interface {
	FindByUserID(ctx context.Context, userID int) ([]domain.Transaction, error)
}

type Service struct {
	ledgerRepo      LedgerRepo
	transactionRepo TransactionRepo
}

func New(ledgerRepo LedgerRepo, transactionRepo TransactionRepo) *Service {
	return &Service{
		ledgerRepo:      ledgerRepo,
		transactionRepo: transactionRepo,
	}
}

// GetBalance recomputes the spendable balance from the append-only
// records. Pure read: safe to call concurrently and repeatedly.
func (s *Service) GetBalance(ctx context.Context, userID int) (*domain.Balance, error) {
	balance, err := s.ledgerRepo.GetUserBalance(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get balance", zap.Error(err))
		return nil, err
	}
	return balance, nil
}

func (s *Service) GetTransactions(ctx context.Context, userID int) ([]domain.Transaction, error) {
	transactions, err := s.transactionRepo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, err
	}
	return transactions, nil
}
