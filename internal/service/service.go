package service

import (
	"github.com/tiply/tiply/internal/config"
	"github.com/tiply/tiply/internal/notify"
	"github.com/tiply/tiply/internal/paygine"
	"github.com/tiply/tiply/internal/repo"
	authservice "github.com/tiply/tiply/internal/service/authservice"
	ledgerservice "github.com/tiply/tiply/internal/service/ledgerservice"
	limitservice "github.com/tiply/tiply/internal/service/limitservice"
	payoutservice "github.com/tiply/tiply/internal/service/payoutservice"
	tipservice "github.com/tiply/tiply/internal/service/tipservice"
	"github.com/tiply/tiply/pkg/lock"

	pkgauth "github.com/tiply/tiply/pkg/auth"
)

type Services struct {
	AuthService   *authservice.Service
	LedgerService *ledgerservice.Service
	LimitService  *limitservice.Service
	PayoutService *payoutservice.Service
	TipService    *tipservice.Service
}

func New(cfg *config.Config, repo *repo.Repositories, gateway *paygine.Client, locker *lock.Manager, notifier notify.Notifier) *Services {
	ledgerService := ledgerservice.New(repo.LedgerRepo, repo.TransactionRepo)
	limitService := limitservice.New(repo.UserRepo, repo.LimitsRepo, repo.PayoutRepo)
	payoutService := payoutservice.New(cfg, repo.PayoutRepo, repo.UserRepo, ledgerService, limitService, gateway, locker, notifier)
	tipService := tipservice.New(cfg, repo.TransactionRepo, repo.UserRepo, gateway, notifier)
	authService := authservice.New(repo.UserRepo, &pkgauth.HashService{}, &pkgauth.JWTService{})

	return &Services{
		AuthService:   authService,
		LedgerService: ledgerService,
		LimitService:  limitService,
		PayoutService: payoutService,
		TipService:    tipService,
	}
}
