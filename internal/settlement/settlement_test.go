package settlement

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/paywallet/walletgo/internal/config"
	"github.com/paywallet/walletgo/internal/domain"
	"github.com/paywallet/walletgo/internal/service/ledgerservice"
	"github.com/paywallet/walletgo/pkg/clients"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func NewMock(t *testing.T) (*Service, *ledgerservice.MockOnRampRepo, *MockSettler, *clients.MockHTTPClientI) {
	cfg := &config.Config{ProviderAddress: "http://localhost:8081"}
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	onRampRepo := ledgerservice.NewMockOnRampRepo(ctrl)
	settler := NewMockSettler(ctrl)
	client := clients.NewMockHTTPClientI(ctrl)
	service := New(cfg, onRampRepo, settler, client)
	return service, onRampRepo, settler, client
}

func TestService_Start(t *testing.T) {
	service, _, _, _ := NewMock(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()
}

func TestService_processTransactions(t *testing.T) {
	old := time.Now().Add(-time.Minute)

	tests := []struct {
		name               string
		mockFindProcessing func(ctx context.Context, limit uint32) ([]domain.OnRampTransaction, error)
		mockAddTask        func(ctx context.Context, task func() error) error
		expectedErr        error
		transactionCount   int
	}{
		{
			name: "successfully schedules stale transactions",
			mockFindProcessing: func(ctx context.Context, limit uint32) ([]domain.OnRampTransaction, error) {
				return []domain.OnRampTransaction{
					{ID: 1, Token: "tok-a", Status: "Processing", UserID: 1, StartTime: old},
					{ID: 2, Token: "tok-b", Status: "Processing", UserID: 2, StartTime: old},
				}, nil
			},
			mockAddTask: func(ctx context.Context, task func() error) error {
				return nil
			},
			expectedErr:      nil,
			transactionCount: 2,
		},
		{
			name: "fresh transactions are skipped",
			mockFindProcessing: func(ctx context.Context, limit uint32) ([]domain.OnRampTransaction, error) {
				return []domain.OnRampTransaction{
					{ID: 3, Token: "tok-fresh", Status: "Processing", UserID: 1, StartTime: time.Now()},
				}, nil
			},
			mockAddTask: func(ctx context.Context, task func() error) error {
				return nil
			},
			expectedErr:      nil,
			transactionCount: 0,
		},
		{
			name: "fails when fetching transactions",
			mockFindProcessing: func(ctx context.Context, limit uint32) ([]domain.OnRampTransaction, error) {
				return nil, fmt.Errorf("failed to fetch onramp transactions")
			},
			mockAddTask: func(ctx context.Context, task func() error) error {
				return nil
			},
			expectedErr:      fmt.Errorf("failed to fetch onramp transactions"),
			transactionCount: 0,
		},
		{
			name: "error in workerPool AddTask",
			mockFindProcessing: func(ctx context.Context, limit uint32) ([]domain.OnRampTransaction, error) {
				return []domain.OnRampTransaction{
					{ID: 4, Token: "tok-c", Status: "Processing", UserID: 1, StartTime: old},
				}, nil
			},
			mockAddTask: func(ctx context.Context, task func() error) error {
				return fmt.Errorf("failed to add task to worker pool")
			},
			expectedErr:      fmt.Errorf("failed to add task to worker pool"),
			transactionCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			onRampRepo := ledgerservice.NewMockOnRampRepo(ctrl)
			workerPool := NewMockWorkerPoolI(ctrl)

			onRampRepo.EXPECT().
				FindProcessing(gomock.Any(), gomock.Any()).
				DoAndReturn(tt.mockFindProcessing).
				Times(1)
			for i := 0; i < tt.transactionCount; i++ {
				workerPool.EXPECT().
					AddTask(gomock.Any(), gomock.Any()).
					DoAndReturn(tt.mockAddTask).
					AnyTimes()
			}

			service := &Service{
				onRampRepo: onRampRepo,
				workerPool: workerPool,
				limit:      10,
			}

			logger := zap.NewExample()
			zap.ReplaceGlobals(logger)

			ctx := context.Background()
			service.processTransactions(ctx)

			if tt.expectedErr != nil {
				assert.Error(t, tt.expectedErr, tt.expectedErr)
			}
		})
	}
}

func TestService_handleTransaction(t *testing.T) {
	testCases := []struct {
		name          string
		transaction   domain.OnRampTransaction
		httpStatus    int
		responseBody  string
		verdict       *bool
		expectedError string
		cancelContext bool
		retryError    error
		retryHeaders  http.Header
	}{
		{
			name:         "Provider confirms success",
			transaction:  domain.OnRampTransaction{ID: 1, Token: "tok-s", UserID: 1, Status: "Processing"},
			httpStatus:   http.StatusOK,
			responseBody: `{"token":"tok-s","status":"SUCCESS"}`,
			verdict:      boolPtr(true),
		},
		{
			name:         "Provider reports failure",
			transaction:  domain.OnRampTransaction{ID: 2, Token: "tok-f", UserID: 1, Status: "Processing"},
			httpStatus:   http.StatusOK,
			responseBody: `{"token":"tok-f","status":"FAILURE"}`,
			verdict:      boolPtr(false),
		},
		{
			name:         "Provider still pending",
			transaction:  domain.OnRampTransaction{ID: 3, Token: "tok-p", UserID: 1, Status: "Processing"},
			httpStatus:   http.StatusOK,
			responseBody: `{"token":"tok-p","status":"PENDING"}`,
		},
		{
			name:          "Token mismatch in response",
			transaction:   domain.OnRampTransaction{ID: 4, Token: "tok-m", UserID: 1, Status: "Processing"},
			httpStatus:    http.StatusOK,
			responseBody:  `{"token":"tok-other","status":"SUCCESS"}`,
			expectedError: "token mismatch: expected tok-m, got tok-other",
		},
		{
			name:          "Context canceled",
			transaction:   domain.OnRampTransaction{ID: 5, Token: "tok-c", UserID: 1, Status: "Processing"},
			httpStatus:    http.StatusOK,
			responseBody:  `{"token":"tok-c","status":"PENDING"}`,
			expectedError: context.Canceled.Error(),
			cancelContext: true,
		},
		{
			name:          "Request fails after retries",
			transaction:   domain.OnRampTransaction{ID: 6, Token: "tok-r", UserID: 1, Status: "Processing"},
			httpStatus:    http.StatusInternalServerError,
			expectedError: "failed to check onramp tok-r after 3 retries: server error",
			retryError:    errors.New("server error"),
		},
		{
			name:          "Unknown to provider after retries",
			transaction:   domain.OnRampTransaction{ID: 7, Token: "tok-u", UserID: 1, Status: "Processing"},
			httpStatus:    http.StatusNoContent,
			expectedError: "onramp tok-u unknown to provider after 3 retries",
		},
		{
			name:          "Unexpected status code",
			transaction:   domain.OnRampTransaction{ID: 8, Token: "tok-t", UserID: 1, Status: "Processing"},
			httpStatus:    http.StatusTeapot,
			expectedError: "unexpected status code",
		},
		{
			name:         "Rate limit handling",
			transaction:  domain.OnRampTransaction{ID: 9, Token: "tok-l", UserID: 1, Status: "Processing"},
			httpStatus:   http.StatusTooManyRequests,
			retryHeaders: http.Header{"Retry-After": []string{"1"}},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			service, _, settler, client := NewMock(t)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			if tt.cancelContext {
				cancel()
			}
			if tt.retryError != nil {
				client.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(tt.httpStatus, []byte(tt.responseBody), http.Header{}, tt.retryError).Times(3)
			} else if tt.retryHeaders != nil {
				client.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(tt.httpStatus, []byte(tt.responseBody), tt.retryHeaders, nil).Times(1)
			} else {
				client.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(tt.httpStatus, []byte(tt.responseBody), http.Header{}, nil).
					AnyTimes()
			}

			if tt.verdict != nil {
				settler.EXPECT().
					SettleOnRamp(gomock.Any(), tt.transaction.Token, *tt.verdict).
					Return(nil).
					Times(1)
			}

			err := service.handleTransaction(ctx, tt.transaction)

			if tt.expectedError != "" {
				assert.EqualError(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_processVerdict(t *testing.T) {
	service, _, settler, _ := NewMock(t)

	transaction := domain.OnRampTransaction{ID: 1, Token: "tok-123", UserID: 1, Status: "Processing"}

	testCases := []struct {
		name      string
		respBody  []byte
		verdict   *bool
		settleErr error
		expectErr bool
	}{
		{
			name:     "SUCCESS settles the transaction",
			respBody: []byte(`{"token":"tok-123","status":"SUCCESS"}`),
			verdict:  boolPtr(true),
		},
		{
			name:     "FAILURE marks the transaction failed",
			respBody: []byte(`{"token":"tok-123","status":"FAILURE"}`),
			verdict:  boolPtr(false),
		},
		{
			name:     "PENDING leaves the transaction alone",
			respBody: []byte(`{"token":"tok-123","status":"PENDING"}`),
		},
		{
			name:     "Unrecognized status is ignored",
			respBody: []byte(`{"token":"tok-123","status":"SOMETHING"}`),
		},
		{
			name:      "Settlement error is propagated",
			respBody:  []byte(`{"token":"tok-123","status":"SUCCESS"}`),
			verdict:   boolPtr(true),
			settleErr: errors.New("database error"),
			expectErr: true,
		},
		{
			name:      "Invalid JSON",
			respBody:  []byte(`{invalid json}`),
			expectErr: true,
		},
		{
			name:      "Token mismatch",
			respBody:  []byte(`{"token":"tok-456","status":"SUCCESS"}`),
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.verdict != nil {
				settler.EXPECT().
					SettleOnRamp(gomock.Any(), transaction.Token, *tc.verdict).
					Return(tc.settleErr).
					Times(1)
			}

			err := service.processVerdict(context.Background(), transaction, tc.respBody)

			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_handleRateLimit(t *testing.T) {
	service, _, _, _ := NewMock(t)

	transaction := domain.OnRampTransaction{Token: "tok-123"}
	attempt := 1

	headers := http.Header{}
	headers.Set("Retry-After", "1")

	start := time.Now()
	err := service.handleRateLimit(transaction, headers, attempt)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
}

func boolPtr(b bool) *bool {
	return &b
}
