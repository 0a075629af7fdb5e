package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/tiply/tiply/internal/domain"
	"github.com/tiply/tiply/internal/dto"
	"github.com/tiply/tiply/internal/reconcile"
	"github.com/tiply/tiply/internal/service/limitservice"
	"github.com/tiply/tiply/internal/service/payoutservice"
	"github.com/tiply/tiply/pkg/auth"
	gomock "go.uber.org/mock/gomock"
)

type mocks struct {
	payoutService *MockPayoutService
	limitService  *MockLimitService
	reconciler    *MockReconciler
}

func NewMock(t *testing.T) (*AdminHandler, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		payoutService: NewMockPayoutService(ctrl),
		limitService:  NewMockLimitService(ctrl),
		reconciler:    NewMockReconciler(ctrl),
	}
	handler := New(m.payoutService, m.limitService, m.reconciler)
	return handler, m
}

func requestWithParam(method, target, param, body string, adminID int) *http.Request {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", param)
	ctx := context.WithValue(context.Background(), auth.UserIDKey, adminID)
	return r.WithContext(context.WithValue(ctx, chi.RouteCtxKey, rctx))
}

func TestSendToCardHandler(t *testing.T) {
	handler, m := NewMock(t)

	tests := []struct {
		name         string
		payoutID     string
		prepareMock  func()
		expectedCode int
	}{
		{
			name:     "Payout executed",
			payoutID: "42",
			prepareMock: func() {
				m.payoutService.EXPECT().
					SendToCard(gomock.Any(), 7, 42).
					Return(&domain.PayoutRequest{
						ID:      42,
						Amount:  100_000,
						Fee:     5_000,
						Status:  domain.PayoutStatusCompleted,
						Details: "4561261212345467",
					}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Invalid payout id",
			payoutID:     "abc",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:     "Payout not found",
			payoutID: "42",
			prepareMock: func() {
				m.payoutService.EXPECT().
					SendToCard(gomock.Any(), 7, 42).
					Return(nil, payoutservice.ErrPayoutNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:     "Payout not in a sendable state",
			payoutID: "42",
			prepareMock: func() {
				m.payoutService.EXPECT().
					SendToCard(gomock.Any(), 7, 42).
					Return(nil, payoutservice.ErrInvalidState)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name:     "Balance no longer covers the payout",
			payoutID: "42",
			prepareMock: func() {
				m.payoutService.EXPECT().
					SendToCard(gomock.Any(), 7, 42).
					Return(nil, payoutservice.ErrInsufficientBalance)
			},
			expectedCode: http.StatusPaymentRequired,
		},
		{
			name:     "Bad destination",
			payoutID: "42",
			prepareMock: func() {
				m.payoutService.EXPECT().
					SendToCard(gomock.Any(), 7, 42).
					Return(nil, payoutservice.ErrBadDestination)
			},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "Gateway not configured",
			payoutID: "42",
			prepareMock: func() {
				m.payoutService.EXPECT().
					SendToCard(gomock.Any(), 7, 42).
					Return(nil, payoutservice.ErrGatewayUnavailable)
			},
			expectedCode: http.StatusServiceUnavailable,
		},
		{
			name:     "Gateway rejected the transfer",
			payoutID: "42",
			prepareMock: func() {
				m.payoutService.EXPECT().
					SendToCard(gomock.Any(), 7, 42).
					Return(nil, &payoutservice.GatewayError{Code: 700, Description: "transfer declined"})
			},
			expectedCode: http.StatusBadGateway,
		},
		{
			name:     "Internal server error",
			payoutID: "42",
			prepareMock: func() {
				m.payoutService.EXPECT().
					SendToCard(gomock.Any(), 7, 42).
					Return(nil, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := requestWithParam(http.MethodPost, "/payouts/"+tt.payoutID+"/send", tt.payoutID, "", 7)
			w := httptest.NewRecorder()
			handler.SendToCard(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body dto.PayoutResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, domain.PayoutStatusCompleted, body.Status)
			}
		})
	}
}

func TestReconcileHandler(t *testing.T) {
	handler, m := NewMock(t)

	t.Run("Both sweeps reported", func(t *testing.T) {
		m.reconciler.EXPECT().ReconcilePayouts(gomock.Any()).
			Return(&reconcile.Report{Total: 3, Completed: 2, Rejected: 1}, nil)
		m.reconciler.EXPECT().ReconcileTransactions(gomock.Any()).
			Return(&reconcile.Report{Total: 1, Completed: 1, Errors: []string{}}, nil)

		r := httptest.NewRequest(http.MethodPost, "/reconcile", nil)
		r = r.WithContext(context.WithValue(context.Background(), auth.UserIDKey, 7))
		w := httptest.NewRecorder()
		handler.Reconcile(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var body dto.ReconcileResponseDTO
		_ = json.NewDecoder(w.Body).Decode(&body)
		assert.Equal(t, 3, body.Payouts.Total)
		assert.Equal(t, 2, body.Payouts.Completed)
		assert.Equal(t, 1, body.Transactions.Completed)
	})

	t.Run("Payout sweep failed", func(t *testing.T) {
		m.reconciler.EXPECT().ReconcilePayouts(gomock.Any()).
			Return(nil, errors.New("database error"))

		r := httptest.NewRequest(http.MethodPost, "/reconcile", nil)
		r = r.WithContext(context.WithValue(context.Background(), auth.UserIDKey, 7))
		w := httptest.NewRecorder()
		handler.Reconcile(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("Transaction sweep failed", func(t *testing.T) {
		m.reconciler.EXPECT().ReconcilePayouts(gomock.Any()).
			Return(&reconcile.Report{}, nil)
		m.reconciler.EXPECT().ReconcileTransactions(gomock.Any()).
			Return(nil, errors.New("database error"))

		r := httptest.NewRequest(http.MethodPost, "/reconcile", nil)
		r = r.WithContext(context.WithValue(context.Background(), auth.UserIDKey, 7))
		w := httptest.NewRecorder()
		handler.Reconcile(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetLimitsHandler(t *testing.T) {
	handler, m := NewMock(t)
	monthlyCount := int64(50)

	tests := []struct {
		name         string
		userID       string
		prepareMock  func()
		expectedCode int
		expectedBody *dto.LimitsResponseDTO
	}{
		{
			name:   "Effective limits returned",
			userID: "1",
			prepareMock: func() {
				m.limitService.EXPECT().
					EffectiveLimits(gomock.Any(), 1).
					Return(&limitservice.Limits{
						DailyCount:   5,
						DailyAmount:  20_000_000,
						MonthlyCount: &monthlyCount,
					}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: &dto.LimitsResponseDTO{
				DailyCount:   5,
				DailyAmount:  20_000_000,
				MonthlyCount: &monthlyCount,
			},
		},
		{
			name:   "User not found",
			userID: "77",
			prepareMock: func() {
				m.limitService.EXPECT().
					EffectiveLimits(gomock.Any(), 77).
					Return(nil, limitservice.ErrUserNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Invalid user id",
			userID:       "abc",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:   "Internal server error",
			userID: "1",
			prepareMock: func() {
				m.limitService.EXPECT().
					EffectiveLimits(gomock.Any(), 1).
					Return(nil, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := requestWithParam(http.MethodGet, "/users/"+tt.userID+"/limits", tt.userID, "", 7)
			w := httptest.NewRecorder()
			handler.GetLimits(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != nil {
				var body dto.LimitsResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, *tt.expectedBody, body)
			}
		})
	}
}

func TestUpdateLimitsHandler(t *testing.T) {
	handler, m := NewMock(t)
	dailyCount := int64(10)

	t.Run("Overrides saved and effective limits returned", func(t *testing.T) {
		m.limitService.EXPECT().
			UpdateUserLimits(gomock.Any(), 1, &domain.User{DailyLimitCount: &dailyCount}).
			Return(nil)
		m.limitService.EXPECT().
			EffectiveLimits(gomock.Any(), 1).
			Return(&limitservice.Limits{DailyCount: 10, DailyAmount: 20_000_000}, nil)

		r := requestWithParam(http.MethodPut, "/users/1/limits", "1", `{"daily_limit_count":10}`, 7)
		w := httptest.NewRecorder()
		handler.UpdateLimits(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var body dto.LimitsResponseDTO
		_ = json.NewDecoder(w.Body).Decode(&body)
		assert.Equal(t, int64(10), body.DailyCount)
	})

	t.Run("User not found", func(t *testing.T) {
		m.limitService.EXPECT().
			UpdateUserLimits(gomock.Any(), 77, gomock.Any()).
			Return(limitservice.ErrUserNotFound)

		r := requestWithParam(http.MethodPut, "/users/77/limits", "77", `{"daily_limit_count":10}`, 7)
		w := httptest.NewRecorder()
		handler.UpdateLimits(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Invalid request body", func(t *testing.T) {
		r := requestWithParam(http.MethodPut, "/users/1/limits", "1", `{"daily_limit_count":invalid}`, 7)
		w := httptest.NewRecorder()
		handler.UpdateLimits(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
