package limitservice

import (
	"context"
	"errors"
	"time"

	"github.com/tiply/tiply/internal/domain"
	"go.uber.org/zap"
)

// Hardcoded fallbacks used when neither the user nor the system-wide
// settings row define a value. Monthly limits have no fallback: nil
// means uncapped.
const (
	DefaultDailyLimitCount  int64 = 5
	DefaultDailyLimitAmount int64 = 20_000_000
)

type UserRepo interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
	UpdateLimits(ctx context.Context, userID int, limits *domain.User) error
}
type SettingsRepo interface {
	Get(ctx context.Context) (*domain.LimitSettings, error)
}
type PayoutRepo interface {
	CountSumSince(ctx context.Context, userID int, since time.Time) (int64, int64, error)
}

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrDailyCountExceeded    = errors.New("daily payout count limit exceeded")
	ErrDailyAmountExceeded   = errors.New("daily payout amount limit exceeded")
	ErrMonthlyCountExceeded  = errors.New("monthly payout count limit exceeded")
	ErrMonthlyAmountExceeded = errors.New("monthly payout amount limit exceeded")
)

// Limits is the ephemeral per-request snapshot of effective ceilings.
type Limits struct {
	DailyCount    int64
	DailyAmount   int64
	MonthlyCount  *int64
	MonthlyAmount *int64
}

type Service struct {
	userRepo     UserRepo
	settingsRepo SettingsRepo
	payoutRepo   PayoutRepo
}

func New(userRepo UserRepo, settingsRepo SettingsRepo, payoutRepo PayoutRepo) *Service {
	return &Service{
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		payoutRepo:   payoutRepo,
	}
}

// EffectiveLimits resolves each field through the priority chain:
// user override, then the system defaults row, then the hardcoded
// constant.
func (s *Service) EffectiveLimits(ctx context.Context, userID int) (*Limits, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		zap.L().Error("can't load user for limits", zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		zap.L().Error("can't load limit settings", zap.Error(err))
		return nil, err
	}
	if settings == nil {
		settings = &domain.LimitSettings{}
	}

	limits := &Limits{
		DailyCount:    resolve(user.DailyLimitCount, settings.DailyLimitCount, DefaultDailyLimitCount),
		DailyAmount:   resolve(user.DailyLimitAmount, settings.DailyLimitAmount, DefaultDailyLimitAmount),
		MonthlyCount:  resolveOptional(user.MonthlyLimitCount, settings.MonthlyLimitCount),
		MonthlyAmount: resolveOptional(user.MonthlyLimitAmount, settings.MonthlyLimitAmount),
	}
	return limits, nil
}

func resolve(override, configured *int64, fallback int64) int64 {
	if override != nil {
		return *override
	}
	if configured != nil {
		return *configured
	}
	return fallback
}

func resolveOptional(override, configured *int64) *int64 {
	if override != nil {
		return override
	}
	return configured
}

// UpdateUserLimits overwrites a user's override fields. Admin only;
// enforced by the route middleware.
func (s *Service) UpdateUserLimits(ctx context.Context, userID int, limits *domain.User) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.userRepo.UpdateLimits(ctx, userID, limits)
}

// CheckCreate verifies that creating one more request for the given
// amount stays within the daily and monthly windows. All requests since
// the window start count, whatever their current status: every row is an
// attempt, and pending ones must not let the cap be raced past.
func (s *Service) CheckCreate(ctx context.Context, userID int, amount int64) error {
	limits, err := s.EffectiveLimits(ctx, userID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	count, sum, err := s.payoutRepo.CountSumSince(ctx, userID, dayStart)
	if err != nil {
		zap.L().Error("can't aggregate daily payout window", zap.Error(err))
		return err
	}
	if count+1 > limits.DailyCount {
		return ErrDailyCountExceeded
	}
	if sum+amount > limits.DailyAmount {
		return ErrDailyAmountExceeded
	}

	if limits.MonthlyCount == nil && limits.MonthlyAmount == nil {
		return nil
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	count, sum, err = s.payoutRepo.CountSumSince(ctx, userID, monthStart)
	if err != nil {
		zap.L().Error("can't aggregate monthly payout window", zap.Error(err))
		return err
	}
	if limits.MonthlyCount != nil && count+1 > *limits.MonthlyCount {
		return ErrMonthlyCountExceeded
	}
	if limits.MonthlyAmount != nil && sum+amount > *limits.MonthlyAmount {
		return ErrMonthlyAmountExceeded
	}

	return nil
}
