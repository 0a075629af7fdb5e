package payoutservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tiply/tiply/internal/config"
	"github.com/tiply/tiply/internal/domain"
	"github.com/tiply/tiply/internal/metrics"
	"github.com/tiply/tiply/internal/paygine"
	"github.com/tiply/tiply/pkg/validate"
	"go.uber.org/zap"
)

type PayoutRepo interface {
	Create(ctx context.Context, p *domain.PayoutRequest) (*domain.PayoutRequest, error)
	Delete(ctx context.Context, id int) error
	FindByID(ctx context.Context, id int) (*domain.PayoutRequest, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.PayoutRequest, error)
	UpdateStatusIf(ctx context.Context, id int, from []string, update *domain.PayoutRequest) (bool, error)
}
type UserRepo interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
}
type Ledger interface {
	GetBalance(ctx context.Context, userID int) (*domain.Balance, error)
}
type LimitChecker interface {
	CheckCreate(ctx context.Context, userID int, amount int64) error
}
type Gateway interface {
	RegisterOrder(ctx context.Context, p paygine.RegisterOrderParams) (*paygine.Result, error)
	PayOutToCard(ctx context.Context, p paygine.PayoutParams) (*paygine.Result, error)
	PayOutToPhone(ctx context.Context, p paygine.PayoutParams) (*paygine.Result, error)
	SubAccountBalance(ctx context.Context, subAccountRef string) (*paygine.Result, error)
}
type Locker interface {
	WithUserLock(ctx context.Context, userID int, fn func(ctx context.Context) error) error
}
type Notifier interface {
	BalanceChanged(ctx context.Context, userID int)
	PayoutResolved(ctx context.Context, payout *domain.PayoutRequest)
}

var (
	ErrAmountOutOfRange    = errors.New("payout amount is out of the allowed range")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPayoutNotFound      = errors.New("payout request not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidState        = errors.New("payout request is not in a sendable state")
	ErrBadDestination      = errors.New("destination is neither a card nor a phone number")
	ErrGatewayUnavailable  = errors.New("payment gateway is not configured")
)

// GatewayError carries the processor's business rejection through to the
// caller without conflating it with transport failures.
type GatewayError struct {
	Code        int
	Description string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway rejected operation: code=%d %s", e.Code, e.Description)
}

type Service struct {
	payoutRepo PayoutRepo
	userRepo   UserRepo
	ledger     Ledger
	limits     LimitChecker
	gateway    Gateway
	locker     Locker
	notifier   Notifier

	minAmount int64
	maxAmount int64
	feeBP     int64
	feeMin    int64
	publicURL string
}

func New(cfg *config.Config, payoutRepo PayoutRepo, userRepo UserRepo, ledger Ledger, limits LimitChecker, gateway Gateway, locker Locker, notifier Notifier) *Service {
	return &Service{
		payoutRepo: payoutRepo,
		userRepo:   userRepo,
		ledger:     ledger,
		limits:     limits,
		gateway:    gateway,
		locker:     locker,
		notifier:   notifier,
		minAmount:  cfg.PayoutMinAmount,
		maxAmount:  cfg.PayoutMaxAmount,
		feeBP:      cfg.PayoutFeeBP,
		feeMin:     cfg.PayoutFeeMin,
		publicURL:  cfg.PublicURL,
	}
}

// Fee is the deterministic fee schedule: basis points of the amount with
// an optional floor.
func (s *Service) Fee(amount int64) int64 {
	fee := amount * s.feeBP / 10000
	if fee > 0 && fee < s.feeMin {
		fee = s.feeMin
	}
	return fee
}

// Create runs the whole creation sequence while holding the per-user
// lock, so two simultaneous requests from one user cannot jointly pass
// the same balance check.
//
// On gateway failure the just-created row is removed again; nothing
// partial survives. Once the order is registered remotely the row is
// never rolled back, whatever happens next.
func (s *Service) Create(ctx context.Context, userID int, amount int64, details string) (*domain.PayoutRequest, error) {
	if amount < s.minAmount || amount > s.maxAmount {
		return nil, ErrAmountOutOfRange
	}
	if details == "" {
		return nil, ErrBadDestination
	}

	var payout *domain.PayoutRequest
	err := s.locker.WithUserLock(ctx, userID, func(ctx context.Context) error {
		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		if err := s.limits.CheckCreate(ctx, userID, amount); err != nil {
			return err
		}

		fee := s.Fee(amount)
		balance, err := s.ledger.GetBalance(ctx, userID)
		if err != nil {
			return err
		}
		if amount+fee > balance.Balance {
			return ErrInsufficientBalance
		}

		p := &domain.PayoutRequest{
			UserID:  userID,
			Amount:  amount,
			Fee:     fee,
			Status:  domain.PayoutStatusCreated,
			Details: details,
		}
		if p, err = s.payoutRepo.Create(ctx, p); err != nil {
			return err
		}

		reference := paygine.RefPrefixPayout + strconv.Itoa(p.ID)
		res, err := s.gateway.RegisterOrder(ctx, paygine.RegisterOrderParams{
			Amount:        amount,
			Reference:     reference,
			Description:   "tiply payout " + reference,
			Fee:           fee,
			SuccessURL:    fmt.Sprintf("%s/api/user/payouts/%d/return?success=true", s.publicURL, p.ID),
			FailURL:       fmt.Sprintf("%s/api/user/payouts/%d/return?success=false", s.publicURL, p.ID),
			NotifyURL:     s.publicURL + "/api/paygine/notify",
			SubAccountRef: user.SubAccountRef,
		})
		if err != nil {
			s.rollbackCreated(ctx, p.ID)
			if errors.Is(err, paygine.ErrNotConfigured) {
				return ErrGatewayUnavailable
			}
			metrics.GatewayErrors.Inc()
			return fmt.Errorf("gateway registration failed: %w", err)
		}
		if !res.OK {
			s.rollbackCreated(ctx, p.ID)
			return &GatewayError{Code: res.Code, Description: res.Description}
		}

		orderID := res.OrderID
		update := &domain.PayoutRequest{Status: domain.PayoutStatusProcessing, OrderID: &orderID}
		if _, err := s.payoutRepo.UpdateStatusIf(ctx, p.ID, []string{domain.PayoutStatusCreated}, update); err != nil {
			// The order exists remotely; keep the row for the
			// reconciliation sweep instead of rolling back.
			zap.L().Error("payout registered but local transition failed",
				zap.Int("payoutID", p.ID), zap.Error(err))
			return err
		}

		p.Status = domain.PayoutStatusProcessing
		p.OrderID = &orderID
		payout = p
		metrics.PayoutsCreated.Inc()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payout, nil
}

// rollbackCreated is the compensating delete. Its own failure is logged
// and swallowed: the enclosing error is already being reported, and an
// orphaned CREATED row is recoverable by admin review.
func (s *Service) rollbackCreated(ctx context.Context, id int) {
	if err := s.payoutRepo.Delete(ctx, id); err != nil {
		zap.L().Error("compensating delete of payout request failed", zap.Int("payoutID", id), zap.Error(err))
	}
}

// CompleteFromGateway applies the outcome reported by the gateway
// redirect or webhook. Idempotent: a request no longer in PROCESSING is
// reported back unchanged with alreadyProcessed=true and no side effects
// fire a second time.
func (s *Service) CompleteFromGateway(ctx context.Context, payoutID int, success bool) (*domain.PayoutRequest, bool, error) {
	p, err := s.payoutRepo.FindByID(ctx, payoutID)
	if err != nil {
		return nil, false, err
	}
	if p == nil {
		return nil, false, ErrPayoutNotFound
	}
	if p.Status != domain.PayoutStatusProcessing {
		return p, true, nil
	}

	update := &domain.PayoutRequest{Status: domain.PayoutStatusCompleted}
	if !success {
		reason := "rejected by gateway"
		update.Status = domain.PayoutStatusRejected
		update.RejectReason = &reason
	}

	updated, err := s.payoutRepo.UpdateStatusIf(ctx, payoutID, []string{domain.PayoutStatusProcessing}, update)
	if err != nil {
		return nil, false, err
	}
	if !updated {
		// Lost the race against another callback; report whatever won.
		p, err = s.payoutRepo.FindByID(ctx, payoutID)
		if err != nil {
			return nil, false, err
		}
		return p, true, nil
	}

	p.Status = update.Status
	p.RejectReason = update.RejectReason
	metrics.PayoutsResolved.WithLabelValues(p.Status).Inc()
	if p.Status == domain.PayoutStatusCompleted {
		s.afterCompleted(p)
	}
	return p, false, nil
}

// SendToCard is the admin direct-payout path. Permitted while the
// request is CREATED or PROCESSING, and for a COMPLETED request that
// never reached the gateway, which may be retroactively routed through
// it. The only legal revisit of a terminal state.
func (s *Service) SendToCard(ctx context.Context, adminID, payoutID int) (*domain.PayoutRequest, error) {
	p, err := s.payoutRepo.FindByID(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPayoutNotFound
	}

	switch {
	case p.Status == domain.PayoutStatusCreated, p.Status == domain.PayoutStatusProcessing:
	case p.Status == domain.PayoutStatusCompleted && p.ExternalOrderID() == "":
	default:
		return nil, ErrInvalidState
	}

	user, err := s.userRepo.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	// A COMPLETED request already counts as withdrawn in the ledger;
	// re-checking would double-charge it.
	if p.Status != domain.PayoutStatusCompleted {
		balance, err := s.ledger.GetBalance(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		if p.Amount+p.Fee > balance.Balance {
			return nil, ErrInsufficientBalance
		}
	}

	params := paygine.PayoutParams{
		SubAccountRef: user.SubAccountRef,
		Destination:   p.Details,
		Amount:        p.Amount,
		Fee:           p.Fee,
		Description:   "tiply payout " + strconv.Itoa(p.ID),
	}

	var res *paygine.Result
	switch {
	case validate.IsCardNumber(p.Details):
		res, err = s.gateway.PayOutToCard(ctx, params)
	case validate.IsPhoneNumber(p.Details):
		res, err = s.gateway.PayOutToPhone(ctx, params)
	default:
		return nil, ErrBadDestination
	}
	if err != nil {
		if errors.Is(err, paygine.ErrNotConfigured) {
			return nil, ErrGatewayUnavailable
		}
		metrics.GatewayErrors.Inc()
		return nil, fmt.Errorf("direct payout failed: %w", err)
	}
	if !res.OK {
		return nil, &GatewayError{Code: res.Code, Description: res.Description}
	}

	operationID := res.OperationID
	if operationID == "" {
		operationID = res.OrderID
	}
	update := &domain.PayoutRequest{
		Status:      domain.PayoutStatusCompleted,
		OrderID:     &operationID,
		CompletedBy: &adminID,
	}
	updated, err := s.payoutRepo.UpdateStatusIf(ctx, payoutID, []string{p.Status}, update)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrInvalidState
	}

	p.Status = domain.PayoutStatusCompleted
	p.OrderID = &operationID
	p.CompletedBy = &adminID
	metrics.PayoutsResolved.WithLabelValues(p.Status).Inc()
	s.afterCompleted(p)
	return p, nil
}

func (s *Service) GetPayouts(ctx context.Context, userID int) ([]domain.PayoutRequest, error) {
	payouts, err := s.payoutRepo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch payout requests", zap.Error(err))
		return nil, err
	}
	return payouts, nil
}

// afterCompleted fires the balance-changed fan-out and a gateway-side
// balance refresh. Best effort only: detached from the caller's context
// and never reported back.
func (s *Service) afterCompleted(p *domain.PayoutRequest) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.notifier.BalanceChanged(ctx, p.UserID)
		s.notifier.PayoutResolved(ctx, p)

		user, err := s.userRepo.FindByID(ctx, p.UserID)
		if err != nil || user == nil {
			return
		}
		if _, err := s.gateway.SubAccountBalance(ctx, user.SubAccountRef); err != nil {
			zap.L().Debug("sub-account balance refresh failed", zap.Int("userID", p.UserID), zap.Error(err))
		}
	}()
}
