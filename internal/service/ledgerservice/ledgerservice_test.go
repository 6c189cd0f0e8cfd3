package ledgerservice

import (
	"context"
	"errors"
	"testing"

	"github.com/paywallet/walletgo/internal/domain"
	"github.com/paywallet/walletgo/internal/pg"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

type mocks struct {
	userRepo     *MockUserRepo
	balanceRepo  *MockBalanceRepo
	transferRepo *MockTransferRepo
	onRampRepo   *MockOnRampRepo
	txManager    *pg.MockTXManager
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		userRepo:     NewMockUserRepo(ctrl),
		balanceRepo:  NewMockBalanceRepo(ctrl),
		transferRepo: NewMockTransferRepo(ctrl),
		onRampRepo:   NewMockOnRampRepo(ctrl),
		txManager:    pg.NewMockTXManager(ctrl),
	}
	service := New(m.userRepo, m.balanceRepo, m.transferRepo, m.onRampRepo, m.txManager)
	defer ctrl.Finish()
	return service, m
}

// passThrough makes the transaction manager run the callback directly, so
// service logic executes against the mocked repositories.
func passThrough(m *mocks) {
	m.txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn pg.TransactionalFn) error {
			return fn(ctx)
		},
	).AnyTimes()
}

func TestService_Transfer(t *testing.T) {
	ctx := context.Background()
	sender := &domain.User{ID: 1, Name: "Alice", Email: "alice@example.com"}
	recipient := &domain.User{ID: 2, Name: "Bob", Email: "bob@example.com"}

	tests := []struct {
		name        string
		senderID    int
		recipientID int
		amount      int64
		prepareMock func(m *mocks)
		expectedErr error
	}{
		{
			name:        "Successful transfer",
			senderID:    1,
			recipientID: 2,
			amount:      15000,
			prepareMock: func(m *mocks) {
				passThrough(m)
				m.userRepo.EXPECT().FindByID(ctx, 1).Return(sender, nil)
				m.userRepo.EXPECT().FindByID(ctx, 2).Return(recipient, nil)
				m.balanceRepo.EXPECT().GetUserBalanceForUpdate(ctx, 1).
					Return(&domain.Balance{ID: 10, UserID: 1, Amount: 50000}, nil)
				m.balanceRepo.EXPECT().Debit(ctx, 1, int64(15000)).
					Return(&domain.Balance{ID: 10, UserID: 1, Amount: 35000}, nil)
				m.balanceRepo.EXPECT().Credit(ctx, 2, int64(15000)).
					Return(&domain.Balance{ID: 11, UserID: 2, Amount: 15000}, nil)
				m.transferRepo.EXPECT().CreateTransaction(ctx, &domain.Transaction{
					SenderID:   1,
					ReceiverID: 2,
					Amount:     15000,
					Type:       TypeTransfer,
					Status:     StatusCompleted,
				}).DoAndReturn(func(_ context.Context, tr *domain.Transaction) (*domain.Transaction, error) {
					tr.ID = 7
					return tr, nil
				})
			},
			expectedErr: nil,
		},
		{
			name:        "Transfer to yourself",
			senderID:    1,
			recipientID: 1,
			amount:      15000,
			prepareMock: func(m *mocks) {},
			expectedErr: ErrSelfTransfer,
		},
		{
			name:        "Recipient does not exist",
			senderID:    1,
			recipientID: 42,
			amount:      15000,
			prepareMock: func(m *mocks) {
				passThrough(m)
				m.userRepo.EXPECT().FindByID(ctx, 1).Return(sender, nil)
				m.userRepo.EXPECT().FindByID(ctx, 42).Return(nil, nil)
			},
			expectedErr: ErrUserNotFound,
		},
		{
			name:        "Insufficient balance",
			senderID:    1,
			recipientID: 2,
			amount:      100000,
			prepareMock: func(m *mocks) {
				passThrough(m)
				m.userRepo.EXPECT().FindByID(ctx, 1).Return(sender, nil)
				m.userRepo.EXPECT().FindByID(ctx, 2).Return(recipient, nil)
				m.balanceRepo.EXPECT().GetUserBalanceForUpdate(ctx, 1).
					Return(&domain.Balance{ID: 10, UserID: 1, Amount: 50000}, nil)
			},
			expectedErr: ErrInsufficientFunds,
		},
		{
			name:        "Sender has no balance row",
			senderID:    1,
			recipientID: 2,
			amount:      100,
			prepareMock: func(m *mocks) {
				passThrough(m)
				m.userRepo.EXPECT().FindByID(ctx, 1).Return(sender, nil)
				m.userRepo.EXPECT().FindByID(ctx, 2).Return(recipient, nil)
				m.balanceRepo.EXPECT().GetUserBalanceForUpdate(ctx, 1).Return(nil, nil)
			},
			expectedErr: ErrInsufficientFunds,
		},
		{
			name:        "Exact balance transfers fully",
			senderID:    1,
			recipientID: 2,
			amount:      50000,
			prepareMock: func(m *mocks) {
				passThrough(m)
				m.userRepo.EXPECT().FindByID(ctx, 1).Return(sender, nil)
				m.userRepo.EXPECT().FindByID(ctx, 2).Return(recipient, nil)
				m.balanceRepo.EXPECT().GetUserBalanceForUpdate(ctx, 1).
					Return(&domain.Balance{ID: 10, UserID: 1, Amount: 50000}, nil)
				m.balanceRepo.EXPECT().Debit(ctx, 1, int64(50000)).
					Return(&domain.Balance{ID: 10, UserID: 1, Amount: 0}, nil)
				m.balanceRepo.EXPECT().Credit(ctx, 2, int64(50000)).
					Return(&domain.Balance{ID: 11, UserID: 2, Amount: 50000}, nil)
				m.transferRepo.EXPECT().CreateTransaction(ctx, gomock.Any()).
					DoAndReturn(func(_ context.Context, tr *domain.Transaction) (*domain.Transaction, error) {
						tr.ID = 8
						return tr, nil
					})
			},
			expectedErr: nil,
		},
		{
			name:        "Debit fails",
			senderID:    1,
			recipientID: 2,
			amount:      15000,
			prepareMock: func(m *mocks) {
				passThrough(m)
				m.userRepo.EXPECT().FindByID(ctx, 1).Return(sender, nil)
				m.userRepo.EXPECT().FindByID(ctx, 2).Return(recipient, nil)
				m.balanceRepo.EXPECT().GetUserBalanceForUpdate(ctx, 1).
					Return(&domain.Balance{ID: 10, UserID: 1, Amount: 50000}, nil)
				m.balanceRepo.EXPECT().Debit(ctx, 1, int64(15000)).
					Return(nil, errors.New("database error"))
			},
			expectedErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			transaction, err := service.Transfer(ctx, tt.senderID, tt.recipientID, tt.amount)
			if tt.expectedErr != nil {
				assert.Nil(t, transaction)
				assert.EqualError(t, err, tt.expectedErr.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.senderID, transaction.SenderID)
				assert.Equal(t, tt.recipientID, transaction.ReceiverID)
				assert.Equal(t, tt.amount, transaction.Amount)
				assert.Equal(t, StatusCompleted, transaction.Status)
			}
		})
	}
}

func TestService_AddFunds(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name           string
		userID         int
		provider       string
		amount         int64
		prepareMock    func(m *mocks)
		expectErr      bool
		expectedStatus string
	}{
		{
			name:     "Successful on-ramp",
			userID:   1,
			provider: "testpay",
			amount:   50000,
			prepareMock: func(m *mocks) {
				passThrough(m)
				m.onRampRepo.EXPECT().Create(ctx, gomock.Any()).
					DoAndReturn(func(_ context.Context, tr *domain.OnRampTransaction) (*domain.OnRampTransaction, error) {
						assert.Equal(t, OnRampProcessing, tr.Status)
						assert.NotEmpty(t, tr.Token)
						tr.ID = 3
						return tr, nil
					})
				m.onRampRepo.EXPECT().FindByTokenForUpdate(ctx, gomock.Any()).
					DoAndReturn(func(_ context.Context, token string) (*domain.OnRampTransaction, error) {
						return &domain.OnRampTransaction{ID: 3, UserID: 1, Token: token, Amount: 50000, Status: OnRampProcessing}, nil
					})
				m.balanceRepo.EXPECT().Credit(ctx, 1, int64(50000)).
					Return(&domain.Balance{ID: 10, UserID: 1, Amount: 50000}, nil)
				m.onRampRepo.EXPECT().UpdateStatus(ctx, 3, OnRampSuccess).Return(nil)
			},
			expectErr:      false,
			expectedStatus: OnRampSuccess,
		},
		{
			name:     "Settled concurrently by webhook before the credit",
			userID:   1,
			provider: "testpay",
			amount:   50000,
			prepareMock: func(m *mocks) {
				passThrough(m)
				m.onRampRepo.EXPECT().Create(ctx, gomock.Any()).
					DoAndReturn(func(_ context.Context, tr *domain.OnRampTransaction) (*domain.OnRampTransaction, error) {
						tr.ID = 3
						return tr, nil
					})
				m.onRampRepo.EXPECT().FindByTokenForUpdate(ctx, gomock.Any()).
					DoAndReturn(func(_ context.Context, token string) (*domain.OnRampTransaction, error) {
						return &domain.OnRampTransaction{ID: 3, UserID: 1, Token: token, Amount: 50000, Status: OnRampFailure}, nil
					})
			},
			expectErr:      false,
			expectedStatus: OnRampFailure,
		},
		{
			name:     "Create fails",
			userID:   1,
			provider: "testpay",
			amount:   50000,
			prepareMock: func(m *mocks) {
				m.onRampRepo.EXPECT().Create(ctx, gomock.Any()).
					Return(nil, errors.New("database error"))
			},
			expectErr: true,
		},
		{
			name:     "Credit fails inside settlement",
			userID:   1,
			provider: "testpay",
			amount:   50000,
			prepareMock: func(m *mocks) {
				passThrough(m)
				m.onRampRepo.EXPECT().Create(ctx, gomock.Any()).
					DoAndReturn(func(_ context.Context, tr *domain.OnRampTransaction) (*domain.OnRampTransaction, error) {
						tr.ID = 3
						return tr, nil
					})
				m.onRampRepo.EXPECT().FindByTokenForUpdate(ctx, gomock.Any()).
					DoAndReturn(func(_ context.Context, token string) (*domain.OnRampTransaction, error) {
						return &domain.OnRampTransaction{ID: 3, UserID: 1, Token: token, Amount: 50000, Status: OnRampProcessing}, nil
					})
				m.balanceRepo.EXPECT().Credit(ctx, 1, int64(50000)).
					Return(nil, errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			transaction, err := service.AddFunds(ctx, tt.userID, tt.provider, tt.amount)
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, transaction)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedStatus, transaction.Status)
				assert.Equal(t, tt.amount, transaction.Amount)
				assert.Equal(t, tt.provider, transaction.Provider)
			}
		})
	}
}

func TestService_SettleOnRamp(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		token       string
		success     bool
		prepareMock func(m *mocks)
		expectedErr error
	}{
		{
			name:    "Successful settlement credits balance",
			token:   "tok-123",
			success: true,
			prepareMock: func(m *mocks) {
				passThrough(m)
				m.onRampRepo.EXPECT().FindByTokenForUpdate(ctx, "tok-123").
					Return(&domain.OnRampTransaction{ID: 3, UserID: 1, Token: "tok-123", Amount: 50000, Status: OnRampProcessing}, nil)
				m.balanceRepo.EXPECT().Credit(ctx, 1, int64(50000)).
					Return(&domain.Balance{ID: 10, UserID: 1, Amount: 50000}, nil)
				m.onRampRepo.EXPECT().UpdateStatus(ctx, 3, OnRampSuccess).Return(nil)
			},
			expectedErr: nil,
		},
		{
			name:    "Failed settlement leaves balance untouched",
			token:   "tok-123",
			success: false,
			prepareMock: func(m *mocks) {
				passThrough(m)
				m.onRampRepo.EXPECT().FindByTokenForUpdate(ctx, "tok-123").
					Return(&domain.OnRampTransaction{ID: 3, UserID: 1, Token: "tok-123", Amount: 50000, Status: OnRampProcessing}, nil)
				m.onRampRepo.EXPECT().UpdateStatus(ctx, 3, OnRampFailure).Return(nil)
			},
			expectedErr: nil,
		},
		{
			name:    "Already settled transaction is not credited again",
			token:   "tok-123",
			success: true,
			prepareMock: func(m *mocks) {
				passThrough(m)
				m.onRampRepo.EXPECT().FindByTokenForUpdate(ctx, "tok-123").
					Return(&domain.OnRampTransaction{ID: 3, UserID: 1, Token: "tok-123", Amount: 50000, Status: OnRampSuccess}, nil)
			},
			expectedErr: nil,
		},
		{
			name:    "Unknown token",
			token:   "tok-missing",
			success: true,
			prepareMock: func(m *mocks) {
				passThrough(m)
				m.onRampRepo.EXPECT().FindByTokenForUpdate(ctx, "tok-missing").Return(nil, nil)
			},
			expectedErr: ErrOnRampNotFound,
		},
		{
			name:    "Lookup fails",
			token:   "tok-123",
			success: true,
			prepareMock: func(m *mocks) {
				passThrough(m)
				m.onRampRepo.EXPECT().FindByTokenForUpdate(ctx, "tok-123").
					Return(nil, errors.New("database error"))
			},
			expectedErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			err := service.SettleOnRamp(ctx, tt.token, tt.success)
			if tt.expectedErr != nil {
				assert.EqualError(t, err, tt.expectedErr.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_SettleOnRamp_CreditsOnce(t *testing.T) {
	ctx := context.Background()
	service, m := NewMock(t)
	passThrough(m)

	status := OnRampProcessing
	m.onRampRepo.EXPECT().FindByTokenForUpdate(ctx, "tok-123").
		DoAndReturn(func(_ context.Context, token string) (*domain.OnRampTransaction, error) {
			return &domain.OnRampTransaction{ID: 3, UserID: 1, Token: token, Amount: 50000, Status: status}, nil
		}).
		Times(2)
	credits := 0
	m.balanceRepo.EXPECT().Credit(ctx, 1, int64(50000)).
		DoAndReturn(func(_ context.Context, _ int, _ int64) (*domain.Balance, error) {
			credits++
			return &domain.Balance{ID: 10, UserID: 1, Amount: 50000}, nil
		}).
		Times(1)
	m.onRampRepo.EXPECT().UpdateStatus(ctx, 3, OnRampSuccess).
		DoAndReturn(func(_ context.Context, _ int, s string) error {
			status = s
			return nil
		}).
		Times(1)

	// A webhook retry after the first settlement observes the terminal row
	// under lock and must not credit again.
	assert.NoError(t, service.SettleOnRamp(ctx, "tok-123", true))
	assert.NoError(t, service.SettleOnRamp(ctx, "tok-123", true))
	assert.Equal(t, 1, credits)
}

func TestService_CreateBalance(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		userID      int
		prepareMock func(m *mocks)
		expectErr   bool
	}{
		{
			name:   "Balance created",
			userID: 1,
			prepareMock: func(m *mocks) {
				m.balanceRepo.EXPECT().CreateUserBalance(ctx, 1).
					Return(&domain.Balance{ID: 10, UserID: 1, Amount: 0}, nil)
			},
			expectErr: false,
		},
		{
			name:   "Database error",
			userID: 1,
			prepareMock: func(m *mocks) {
				m.balanceRepo.EXPECT().CreateUserBalance(ctx, 1).
					Return(nil, errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			balance, err := service.CreateBalance(ctx, tt.userID)
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, balance)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.userID, balance.UserID)
				assert.Zero(t, balance.Amount)
			}
		})
	}
}
