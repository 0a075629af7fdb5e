package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiply/tiply/internal/domain"
	"github.com/tiply/tiply/pkg/auth"
	gomock "go.uber.org/mock/gomock"
)

func newRouter(t *testing.T) chi.Router {
	ctrl := gomock.NewController(t)

	authHandler := NewMockAuthHandler(ctrl)
	balanceHandler := NewMockBalanceHandler(ctrl)
	payoutHandler := NewMockPayoutHandler(ctrl)
	tipHandler := NewMockTipHandler(ctrl)
	webhookHandler := NewMockWebhookHandler(ctrl)
	adminHandler := NewMockAdminHandler(ctrl)

	authHandler.EXPECT().Register(gomock.Any(), gomock.Any()).AnyTimes()
	authHandler.EXPECT().Login(gomock.Any(), gomock.Any()).AnyTimes()
	balanceHandler.EXPECT().GetBalance(gomock.Any(), gomock.Any()).AnyTimes()
	balanceHandler.EXPECT().GetTransactions(gomock.Any(), gomock.Any()).AnyTimes()
	payoutHandler.EXPECT().Create(gomock.Any(), gomock.Any()).AnyTimes()
	payoutHandler.EXPECT().GetPayouts(gomock.Any(), gomock.Any()).AnyTimes()
	payoutHandler.EXPECT().Return(gomock.Any(), gomock.Any()).AnyTimes()
	tipHandler.EXPECT().Create(gomock.Any(), gomock.Any()).AnyTimes()
	webhookHandler.EXPECT().Notify(gomock.Any(), gomock.Any()).AnyTimes()
	adminHandler.EXPECT().SendToCard(gomock.Any(), gomock.Any()).AnyTimes()
	adminHandler.EXPECT().Reconcile(gomock.Any(), gomock.Any()).AnyTimes()
	adminHandler.EXPECT().GetLimits(gomock.Any(), gomock.Any()).AnyTimes()
	adminHandler.EXPECT().UpdateLimits(gomock.Any(), gomock.Any()).AnyTimes()

	h := &Handlers{
		AuthHandler:    authHandler,
		BalanceHandler: balanceHandler,
		PayoutHandler:  payoutHandler,
		TipHandler:     tipHandler,
		WebhookHandler: webhookHandler,
		AdminHandler:   adminHandler,
	}

	router := chi.NewRouter()
	h.InitRoutes(router)
	return router
}

func token(t *testing.T, userID int, role domain.Role) string {
	jwtService := &auth.JWTService{}
	tok, err := jwtService.GenerateJWT(userID, role, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestInitRoutes(t *testing.T) {
	router := newRouter(t)

	recipient := token(t, 1, domain.RoleRecipient)
	admin := token(t, 7, domain.RoleAdmin)
	superAdmin := token(t, 8, domain.RoleSuperAdmin)

	tests := []struct {
		method string
		url    string
		auth   string
		status int
	}{
		{"POST", "/api/user/register", "", http.StatusOK},
		{"POST", "/api/user/login", "", http.StatusOK},
		{"POST", "/api/tips", "", http.StatusOK},
		{"POST", "/api/paygine/notify", "", http.StatusOK},

		{"GET", "/api/user/balance", "", http.StatusUnauthorized},
		{"GET", "/api/user/transactions", "", http.StatusUnauthorized},
		{"POST", "/api/user/payouts", "", http.StatusUnauthorized},
		{"GET", "/api/user/payouts", "", http.StatusUnauthorized},
		{"GET", "/api/user/payouts/1/return", "", http.StatusUnauthorized},

		{"GET", "/api/user/balance", recipient, http.StatusOK},
		{"GET", "/api/user/transactions", recipient, http.StatusOK},
		{"POST", "/api/user/payouts", recipient, http.StatusOK},
		{"GET", "/api/user/payouts", recipient, http.StatusOK},
		{"GET", "/api/user/payouts/1/return", recipient, http.StatusOK},

		{"POST", "/api/admin/payouts/1/send", "", http.StatusUnauthorized},
		{"POST", "/api/admin/payouts/1/send", recipient, http.StatusForbidden},
		{"POST", "/api/admin/payouts/1/send", admin, http.StatusOK},
		{"POST", "/api/admin/reconcile", recipient, http.StatusForbidden},
		{"POST", "/api/admin/reconcile", admin, http.StatusOK},
		{"GET", "/api/admin/users/1/limits", admin, http.StatusForbidden},
		{"GET", "/api/admin/users/1/limits", superAdmin, http.StatusOK},
		{"PUT", "/api/admin/users/1/limits", superAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

// The gateway redirects the payer to the success/fail URL registered at
// order creation; that URL must resolve to the return route, id included.
func TestGatewayReturnURLResolves(t *testing.T) {
	router := newRouter(t)
	recipient := token(t, 1, domain.RoleRecipient)

	t.Run("Registered redirect URL hits the return handler", func(t *testing.T) {
		url := fmt.Sprintf("/api/user/payouts/%d/return?success=true", 42)
		req := httptest.NewRequest(http.MethodGet, url, nil)
		req.Header.Set("Authorization", recipient)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Id-less return path is not served", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/payouts/return?success=true", nil)
		req.Header.Set("Authorization", recipient)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
