package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "github.com/tiply/tiply/docs"
	"github.com/tiply/tiply/internal/domain"
	adminhandlers "github.com/tiply/tiply/internal/handlers/admin"
	authhandlers "github.com/tiply/tiply/internal/handlers/auth"
	balancehandlers "github.com/tiply/tiply/internal/handlers/balance"
	payouthandlers "github.com/tiply/tiply/internal/handlers/payout"
	tiphandlers "github.com/tiply/tiply/internal/handlers/tip"
	webhookhandlers "github.com/tiply/tiply/internal/handlers/webhook"
	"github.com/tiply/tiply/internal/metrics"
	"github.com/tiply/tiply/internal/service"
	"github.com/tiply/tiply/pkg/auth"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type BalanceHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	GetTransactions(w http.ResponseWriter, r *http.Request)
}

type PayoutHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetPayouts(w http.ResponseWriter, r *http.Request)
	Return(w http.ResponseWriter, r *http.Request)
}

type TipHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
}

type WebhookHandler interface {
	Notify(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	SendToCard(w http.ResponseWriter, r *http.Request)
	Reconcile(w http.ResponseWriter, r *http.Request)
	GetLimits(w http.ResponseWriter, r *http.Request)
	UpdateLimits(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler    AuthHandler
	BalanceHandler BalanceHandler
	PayoutHandler  PayoutHandler
	TipHandler     TipHandler
	WebhookHandler WebhookHandler
	AdminHandler   AdminHandler
}

func New(s *service.Services, parser webhookhandlers.Parser, reconciler adminhandlers.Reconciler) *Handlers {
	return &Handlers{
		AuthHandler:    authhandlers.New(s.AuthService),
		BalanceHandler: balancehandlers.New(s.LedgerService),
		PayoutHandler:  payouthandlers.New(s.PayoutService),
		TipHandler:     tiphandlers.New(s.TipService),
		WebhookHandler: webhookhandlers.New(parser, s.PayoutService, s.TipService),
		AdminHandler:   adminhandlers.New(s.PayoutService, s.LimitService, reconciler),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Handle("/metrics", metrics.Handler())

	// Public: the tipping side needs no account, and the gateway
	// authenticates its callback with a signature, not a token.
	r.Post("/api/tips", h.TipHandler.Create)
	r.Post("/api/paygine/notify", h.WebhookHandler.Notify)

	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", h.AuthHandler.Register)
		r.Post("/login", h.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)
			r.Get("/balance", h.BalanceHandler.GetBalance)
			r.Get("/transactions", h.BalanceHandler.GetTransactions)
			r.Route("/payouts", func(r chi.Router) {
				r.Post("/", h.PayoutHandler.Create)
				r.Get("/", h.PayoutHandler.GetPayouts)
				r.Get("/{id}/return", h.PayoutHandler.Return)
			})
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(auth.AuthMiddleware)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireCapability(domain.CapManagePayouts))
			r.Post("/payouts/{id}/send", h.AdminHandler.SendToCard)
		})
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireCapability(domain.CapRunReconcile))
			r.Post("/reconcile", h.AdminHandler.Reconcile)
		})
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireCapability(domain.CapManageLimits))
			r.Get("/users/{id}/limits", h.AdminHandler.GetLimits)
			r.Put("/users/{id}/limits", h.AdminHandler.UpdateLimits)
		})
	})

	return r
}
