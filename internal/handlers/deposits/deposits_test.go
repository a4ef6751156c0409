package deposits

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/avencore/investcore/internal/domain"
	"github.com/avencore/investcore/internal/dto"
	depositservice "github.com/avencore/investcore/internal/service/depositservice"
	"github.com/avencore/investcore/pkg/auth"
	"github.com/avencore/investcore/pkg/utils"
)

func NewMock(t *testing.T) (*DepositHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func authorizedRequest(method, url string, body []byte) *http.Request {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), auth.UserIDKey, 1)
	return req.WithContext(ctx)
}

func TestCreateHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful deposit",
			body: `{"amount":"500"}`,
			prepareMock: func() {
				service.EXPECT().CreateDeposit(gomock.Any(), 1, decimal.NewFromInt(500)).Return(&domain.Transaction{
					UserID:        1,
					Amount:        decimal.NewFromInt(500),
					TransactionID: "txn-1",
					Status:        domain.TransactionPending,
					CreatedAt:     time.Now(),
				}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "Invalid amount",
			body: `{"amount":"-10"}`,
			prepareMock: func() {
				service.EXPECT().CreateDeposit(gomock.Any(), 1, decimal.NewFromInt(-10)).Return(nil, depositservice.ErrInvalidAmount)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: depositservice.ErrInvalidAmount.Error(),
		},
		{
			name:          "Invalid request body",
			body:          `{invalid json`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid request body",
		},
		{
			name: "Internal error",
			body: `{"amount":"500"}`,
			prepareMock: func() {
				service.EXPECT().CreateDeposit(gomock.Any(), 1, decimal.NewFromInt(500)).Return(nil, errors.New("database error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authorizedRequest("POST", "/api/user/deposits", []byte(tt.body))
			rr := httptest.NewRecorder()

			handler.Create(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedError != "" {
				var resp utils.Response
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedError, resp.Message)
			}
		})
	}
}

func TestViewStatusHandler(t *testing.T) {
	handler, service := NewMock(t)

	newRequest := func(ref string) *http.Request {
		req := authorizedRequest("GET", "/api/user/deposits/"+ref, nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("transactionID", ref)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	t.Run("Pending deposit without audit log", func(t *testing.T) {
		service.EXPECT().ViewStatus(gomock.Any(), "txn-1").Return(&domain.Transaction{
			TransactionID: "txn-1",
			Amount:        decimal.NewFromInt(500),
			Status:        domain.TransactionPending,
		}, nil, nil)

		rr := httptest.NewRecorder()
		handler.ViewStatus(rr, newRequest("txn-1"))

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.DepositStatusResponseDTO
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "txn-1", resp.TransactionID)
		assert.Equal(t, string(domain.TransactionPending), resp.Status)
		assert.Nil(t, resp.AdminConfirmation)
	})

	t.Run("Decided deposit includes the audit log", func(t *testing.T) {
		paymentDate := time.Now()
		service.EXPECT().ViewStatus(gomock.Any(), "txn-2").Return(&domain.Transaction{
			TransactionID: "txn-2",
			Amount:        decimal.NewFromInt(500),
			Status:        domain.TransactionConfirmed,
		}, &domain.PaymentLog{
			AdminConfirmation: true,
			Notes:             "ok",
			PaymentDate:       paymentDate,
		}, nil)

		rr := httptest.NewRecorder()
		handler.ViewStatus(rr, newRequest("txn-2"))

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.DepositStatusResponseDTO
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, string(domain.TransactionConfirmed), resp.Status)
		assert.NotNil(t, resp.AdminConfirmation)
		assert.True(t, *resp.AdminConfirmation)
		assert.Equal(t, "ok", resp.Notes)
	})

	t.Run("Unknown transaction", func(t *testing.T) {
		service.EXPECT().ViewStatus(gomock.Any(), "txn-missing").Return(nil, nil, depositservice.ErrTransactionNotFound)

		rr := httptest.NewRecorder()
		handler.ViewStatus(rr, newRequest("txn-missing"))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestDecideHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Confirm a deposit",
			body: `{"transaction_id":"txn-1","decision":"Confirmed","notes":"ok"}`,
			prepareMock: func() {
				service.EXPECT().Decide(gomock.Any(), "txn-1", domain.TransactionConfirmed, "ok").Return(&domain.PaymentLog{}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Reject a deposit",
			body: `{"transaction_id":"txn-1","decision":"Rejected","notes":"fraud"}`,
			prepareMock: func() {
				service.EXPECT().Decide(gomock.Any(), "txn-1", domain.TransactionRejected, "fraud").Return(&domain.PaymentLog{}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Already processed",
			body: `{"transaction_id":"txn-1","decision":"Confirmed"}`,
			prepareMock: func() {
				service.EXPECT().Decide(gomock.Any(), "txn-1", domain.TransactionConfirmed, "").Return(nil, depositservice.ErrAlreadyProcessed)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: depositservice.ErrAlreadyProcessed.Error(),
		},
		{
			name: "Invalid decision",
			body: `{"transaction_id":"txn-1","decision":"Pending"}`,
			prepareMock: func() {
				service.EXPECT().Decide(gomock.Any(), "txn-1", domain.TransactionPending, "").Return(nil, depositservice.ErrInvalidDecision)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: depositservice.ErrInvalidDecision.Error(),
		},
		{
			name: "Unknown transaction",
			body: `{"transaction_id":"txn-missing","decision":"Confirmed"}`,
			prepareMock: func() {
				service.EXPECT().Decide(gomock.Any(), "txn-missing", domain.TransactionConfirmed, "").Return(nil, depositservice.ErrTransactionNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: depositservice.ErrTransactionNotFound.Error(),
		},
		{
			name:          "Invalid request body",
			body:          `{invalid json`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authorizedRequest("POST", "/api/admin/deposits/decide", []byte(tt.body))
			rr := httptest.NewRecorder()

			handler.Decide(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedError != "" {
				var resp utils.Response
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedError, resp.Message)
			}
		})
	}
}

func TestListPendingHandler(t *testing.T) {
	handler, service := NewMock(t)

	t.Run("Returns pending deposits", func(t *testing.T) {
		service.EXPECT().ListPending(gomock.Any()).Return([]domain.Transaction{
			{UserID: 1, Amount: decimal.NewFromInt(500), TransactionID: "txn-1", Status: domain.TransactionPending, CreatedAt: time.Now()},
		}, nil)

		rr := httptest.NewRecorder()
		handler.ListPending(rr, authorizedRequest("GET", "/api/admin/deposits/pending", nil))

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp []dto.PendingDepositDTO
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Len(t, resp, 1)
		assert.Equal(t, "txn-1", resp[0].TransactionID)
	})

	t.Run("Internal error", func(t *testing.T) {
		service.EXPECT().ListPending(gomock.Any()).Return(nil, errors.New("database error"))

		rr := httptest.NewRecorder()
		handler.ListPending(rr, authorizedRequest("GET", "/api/admin/deposits/pending", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
