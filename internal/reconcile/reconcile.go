package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tiply/tiply/internal/config"
	"github.com/tiply/tiply/internal/domain"
	"github.com/tiply/tiply/internal/metrics"
	"github.com/tiply/tiply/internal/paygine"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type PayoutRepo interface {
	FindForReconcile(ctx context.Context, limit uint32) ([]domain.PayoutRequest, error)
}
type TransactionRepo interface {
	FindForReconcile(ctx context.Context, limit uint32) ([]domain.Transaction, error)
	UpdateStatusIf(ctx context.Context, id int, from []string, to string) (bool, error)
}
type PayoutService interface {
	CompleteFromGateway(ctx context.Context, payoutID int, success bool) (*domain.PayoutRequest, bool, error)
}
type Gateway interface {
	OrderStatus(ctx context.Context, orderID string) (*paygine.Result, error)
}
type Notifier interface {
	BalanceChanged(ctx context.Context, userID int)
}

// processingItems de-duplicates work between overlapping sweeps; each
// item transition is additionally guarded by its current status.
var processingItems sync.Map

// Report is the outcome of one sweep. For the transaction side,
// Completed counts settles and Rejected counts downgrades to FAILED.
type Report struct {
	Total     int      `json:"total"`
	Completed int      `json:"completed"`
	Rejected  int      `json:"rejected"`
	Errors    []string `json:"errors"`

	mu sync.Mutex
}

func (r *Report) addError(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) add(completed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if completed {
		r.Completed++
	} else {
		r.Rejected++
	}
}

type Service struct {
	payoutRepo      PayoutRepo
	transactionRepo TransactionRepo
	payoutService   PayoutService
	gateway         Gateway
	notifier        Notifier
	limit           uint32
	workerPool      WorkerPoolI
	updateInterval  time.Duration
}

func New(cfg *config.Config, payoutRepo PayoutRepo, transactionRepo TransactionRepo, payoutService PayoutService, gateway Gateway, notifier Notifier) *Service {
	return &Service{
		payoutRepo:      payoutRepo,
		transactionRepo: transactionRepo,
		payoutService:   payoutService,
		gateway:         gateway,
		notifier:        notifier,
		limit:           1000,
		workerPool:      NewWorkerPool(10),
		updateInterval:  cfg.ReconcileInterval,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Reconcile service started")
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping reconcile service")
			return
		case <-ticker.C:
			if _, err := s.ReconcilePayouts(ctx); err != nil {
				zap.L().Error("payout sweep failed", zap.Error(err))
			}
			if _, err := s.ReconcileTransactions(ctx); err != nil {
				zap.L().Error("transaction sweep failed", zap.Error(err))
			}
		}
	}
}

// ReconcilePayouts resolves requests stuck in PROCESSING against the
// gateway's authoritative order state. One-way: COMPLETED upstream
// completes the payout, anything else rejects it. Per-item failures are
// collected, never fatal to the batch.
func (s *Service) ReconcilePayouts(ctx context.Context) (*Report, error) {
	payouts, err := s.payoutRepo.FindForReconcile(ctx, s.limit)
	if err != nil {
		zap.L().Error("Failed to fetch payouts for reconcile", zap.Error(err))
		return nil, err
	}

	report := &Report{Total: len(payouts)}

	var g errgroup.Group
	for _, payout := range payouts {
		payout := payout
		key := fmt.Sprintf("payout:%d", payout.ID)

		if _, loaded := processingItems.LoadOrStore(key, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer processingItems.Delete(key)
				s.handlePayout(ctx, payout, report)
				return nil
			})
			if err != nil {
				processingItems.Delete(key)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error reconciling payouts", zap.Error(err))
	}
	return report, nil
}

func (s *Service) handlePayout(ctx context.Context, payout domain.PayoutRequest, report *Report) {
	res, err := s.gateway.OrderStatus(ctx, payout.ExternalOrderID())
	if err != nil {
		metrics.GatewayErrors.Inc()
		report.addError("payout %d: order status failed: %v", payout.ID, err)
		return
	}

	success := res.OK && res.OrderState == paygine.OrderStateCompleted
	_, alreadyProcessed, err := s.payoutService.CompleteFromGateway(ctx, payout.ID, success)
	if err != nil {
		report.addError("payout %d: transition failed: %v", payout.ID, err)
		return
	}
	if alreadyProcessed {
		return
	}

	report.add(success)
	outcome := domain.PayoutStatusRejected
	if success {
		outcome = domain.PayoutStatusCompleted
	}
	metrics.ReconcileItems.WithLabelValues("payout", outcome).Inc()
}

// ReconcileTransactions corrects the credit side: a PENDING transaction
// whose order settled upstream becomes SUCCESS, and a transaction whose
// order did not settle is downgraded to FAILED, reversing an optimistic
// SUCCESS if needed.
func (s *Service) ReconcileTransactions(ctx context.Context) (*Report, error) {
	transactions, err := s.transactionRepo.FindForReconcile(ctx, s.limit)
	if err != nil {
		zap.L().Error("Failed to fetch transactions for reconcile", zap.Error(err))
		return nil, err
	}

	report := &Report{Total: len(transactions)}

	var g errgroup.Group
	for _, transaction := range transactions {
		transaction := transaction
		key := fmt.Sprintf("tx:%d", transaction.ID)

		if _, loaded := processingItems.LoadOrStore(key, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer processingItems.Delete(key)
				s.handleTransaction(ctx, transaction, report)
				return nil
			})
			if err != nil {
				processingItems.Delete(key)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error reconciling transactions", zap.Error(err))
	}
	return report, nil
}

func (s *Service) handleTransaction(ctx context.Context, transaction domain.Transaction, report *Report) {
	res, err := s.gateway.OrderStatus(ctx, *transaction.OrderID)
	if err != nil {
		metrics.GatewayErrors.Inc()
		report.addError("transaction %d: order status failed: %v", transaction.ID, err)
		return
	}

	settled := res.OK && res.OrderState == paygine.OrderStateCompleted
	if settled {
		if transaction.Status != domain.TxStatusPending {
			return
		}
		updated, err := s.transactionRepo.UpdateStatusIf(ctx, transaction.ID,
			[]string{domain.TxStatusPending}, domain.TxStatusSuccess)
		if err != nil {
			report.addError("transaction %d: transition failed: %v", transaction.ID, err)
			return
		}
		if updated {
			report.add(true)
			metrics.ReconcileItems.WithLabelValues("transaction", domain.TxStatusSuccess).Inc()
			s.notifier.BalanceChanged(ctx, transaction.UserID)
		}
		return
	}

	// Non-terminal upstream states are left alone for the next sweep;
	// only a settled-check that positively failed downgrades.
	if res.OK && res.OrderState == paygine.OrderStateRegistered {
		return
	}

	updated, err := s.transactionRepo.UpdateStatusIf(ctx, transaction.ID,
		[]string{domain.TxStatusPending, domain.TxStatusSuccess}, domain.TxStatusFailed)
	if err != nil {
		report.addError("transaction %d: transition failed: %v", transaction.ID, err)
		return
	}
	if updated {
		report.add(false)
		metrics.ReconcileItems.WithLabelValues("transaction", domain.TxStatusFailed).Inc()
		if transaction.Status == domain.TxStatusSuccess {
			s.notifier.BalanceChanged(ctx, transaction.UserID)
		}
	}
}
