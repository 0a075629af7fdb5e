package tip

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tiply/tiply/internal/domain"
	"github.com/tiply/tiply/internal/dto"
	"github.com/tiply/tiply/internal/service/tipservice"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*TipHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	return handler, service
}

func TestCreateHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
		expectedBody *dto.TipCreateResponseDTO
	}{
		{
			name: "Successful tip registration",
			body: `{"recipient_id":1,"amount":50000}`,
			prepareMock: func() {
				service.EXPECT().
					Create(gomock.Any(), 1, int64(50_000)).
					Return(&domain.Transaction{ID: 9, UserID: 1, Amount: 50_000, Status: domain.TxStatusPending},
						"https://test.paygine.com/webapi/Purchase?id=123", nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: &dto.TipCreateResponseDTO{
				ID:         9,
				PaymentURL: "https://test.paygine.com/webapi/Purchase?id=123",
			},
		},
		{
			name:         "Invalid request body",
			body:         `{"recipient_id":1,"amount":invalid}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Non-positive amount",
			body: `{"recipient_id":1,"amount":0}`,
			prepareMock: func() {
				service.EXPECT().
					Create(gomock.Any(), 1, int64(0)).
					Return(nil, "", tipservice.ErrAmountInvalid)
			},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name: "Recipient not found",
			body: `{"recipient_id":77,"amount":50000}`,
			prepareMock: func() {
				service.EXPECT().
					Create(gomock.Any(), 77, int64(50_000)).
					Return(nil, "", tipservice.ErrRecipientNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "Gateway not configured",
			body: `{"recipient_id":1,"amount":50000}`,
			prepareMock: func() {
				service.EXPECT().
					Create(gomock.Any(), 1, int64(50_000)).
					Return(nil, "", tipservice.ErrGatewayUnavailable)
			},
			expectedCode: http.StatusServiceUnavailable,
		},
		{
			name: "Internal server error",
			body: `{"recipient_id":1,"amount":50000}`,
			prepareMock: func() {
				service.EXPECT().
					Create(gomock.Any(), 1, int64(50_000)).
					Return(nil, "", errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := httptest.NewRequest(http.MethodPost, "/api/tips", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			handler.Create(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != nil {
				var body dto.TipCreateResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, *tt.expectedBody, body)
			}
		})
	}
}
