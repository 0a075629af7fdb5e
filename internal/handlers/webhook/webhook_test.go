package webhook

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tiply/tiply/internal/domain"
	"github.com/tiply/tiply/internal/paygine"
	gomock "go.uber.org/mock/gomock"
)

type mocks struct {
	parser        *MockParser
	payoutService *MockPayoutService
	tipService    *MockTipService
}

func NewMock(t *testing.T) (*WebhookHandler, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		parser:        NewMockParser(ctrl),
		payoutService: NewMockPayoutService(ctrl),
		tipService:    NewMockTipService(ctrl),
	}
	handler := New(m.parser, m.payoutService, m.tipService)
	return handler, m
}

func notifyRequest(form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/paygine/notify", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestNotifyHandler(t *testing.T) {
	form := url.Values{
		"order_id":    {"ord-42"},
		"order_state": {"COMPLETED"},
		"reference":   {"payout:42"},
		"signature":   {"sig"},
	}

	tests := []struct {
		name         string
		prepareMock  func(m *mocks)
		expectedCode int
		expectedBody string
	}{
		{
			name: "Payout completion applied",
			prepareMock: func(m *mocks) {
				m.parser.EXPECT().ParseWebhook(gomock.Any()).Return(&paygine.WebhookEvent{
					OrderID:    "ord-42",
					Reference:  "payout:42",
					OrderState: paygine.OrderStateCompleted,
				}, nil)
				m.payoutService.EXPECT().
					CompleteFromGateway(gomock.Any(), 42, true).
					Return(&domain.PayoutRequest{ID: 42, Status: domain.PayoutStatusCompleted}, false, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: "OK",
		},
		{
			name: "Payout failure applied",
			prepareMock: func(m *mocks) {
				m.parser.EXPECT().ParseWebhook(gomock.Any()).Return(&paygine.WebhookEvent{
					OrderID:    "ord-42",
					Reference:  "payout:42",
					OrderState: "FAILED",
				}, nil)
				m.payoutService.EXPECT().
					CompleteFromGateway(gomock.Any(), 42, false).
					Return(&domain.PayoutRequest{ID: 42, Status: domain.PayoutStatusRejected}, false, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: "OK",
		},
		{
			name: "Tip settlement applied",
			prepareMock: func(m *mocks) {
				m.parser.EXPECT().ParseWebhook(gomock.Any()).Return(&paygine.WebhookEvent{
					OrderID:    "ord-9",
					Reference:  "tip:9",
					OrderState: paygine.OrderStateCompleted,
				}, nil)
				m.tipService.EXPECT().
					Settle(gomock.Any(), "ord-9", true).
					Return(&domain.Transaction{ID: 9, Status: domain.TxStatusSuccess}, false, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: "OK",
		},
		{
			name: "Replay still acknowledged",
			prepareMock: func(m *mocks) {
				m.parser.EXPECT().ParseWebhook(gomock.Any()).Return(&paygine.WebhookEvent{
					OrderID:    "ord-42",
					Reference:  "payout:42",
					OrderState: paygine.OrderStateCompleted,
				}, nil)
				m.payoutService.EXPECT().
					CompleteFromGateway(gomock.Any(), 42, true).
					Return(&domain.PayoutRequest{ID: 42, Status: domain.PayoutStatusCompleted}, true, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: "OK",
		},
		{
			name: "Apply failure still acknowledged",
			prepareMock: func(m *mocks) {
				m.parser.EXPECT().ParseWebhook(gomock.Any()).Return(&paygine.WebhookEvent{
					OrderID:    "ord-42",
					Reference:  "payout:42",
					OrderState: paygine.OrderStateCompleted,
				}, nil)
				m.payoutService.EXPECT().
					CompleteFromGateway(gomock.Any(), 42, true).
					Return(nil, false, errors.New("database error"))
			},
			expectedCode: http.StatusOK,
			expectedBody: "OK",
		},
		{
			name: "Unrecognized reference acknowledged without dispatch",
			prepareMock: func(m *mocks) {
				m.parser.EXPECT().ParseWebhook(gomock.Any()).Return(&paygine.WebhookEvent{
					OrderID:    "ord-3",
					Reference:  "refund:3",
					OrderState: paygine.OrderStateCompleted,
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: "OK",
		},
		{
			name: "Bad signature rejected",
			prepareMock: func(m *mocks) {
				m.parser.EXPECT().ParseWebhook(gomock.Any()).Return(nil, paygine.ErrBadSignature)
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, m := NewMock(t)
			tt.prepareMock(m)
			w := httptest.NewRecorder()
			handler.Notify(w, notifyRequest(form))
			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}
