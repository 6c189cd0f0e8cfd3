package walletservice

import (
	"context"
	"errors"

	"github.com/paywallet/walletgo/internal/domain"
	"go.uber.org/zap"
)

type UserRepo interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
}

type BalanceRepo interface {
	GetUserBalance(ctx context.Context, userID int) (*domain.Balance, error)
}

type TransferRepo interface {
	FindByUserID(ctx context.Context, userID int) ([]domain.Transaction, error)
}

type OnRampRepo interface {
	FindByUserID(ctx context.Context, userID int) ([]domain.OnRampTransaction, error)
}

// Service is the read-only side of the wallet: balances, histories and
// recipient previews for the UI.
type Service struct {
	userRepo     UserRepo
	balanceRepo  BalanceRepo
	transferRepo TransferRepo
	onRampRepo   OnRampRepo
}

func New(userRepo UserRepo, balanceRepo BalanceRepo, transferRepo TransferRepo, onRampRepo OnRampRepo) *Service {
	return &Service{
		userRepo:     userRepo,
		balanceRepo:  balanceRepo,
		transferRepo: transferRepo,
		onRampRepo:   onRampRepo,
	}
}

var (
	ErrBalanceNotFound = errors.New("balance not found for user")
	ErrUserNotFound    = errors.New("user not found")
	ErrSelfLookup      = errors.New("cannot transfer to yourself")
)

func (s *Service) GetBalance(ctx context.Context, userID int) (*domain.Balance, error) {
	balance, err := s.balanceRepo.GetUserBalance(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get balance", zap.Error(err))
		return nil, err
	}
	if balance == nil {
		return nil, ErrBalanceNotFound
	}
	return balance, nil
}

func (s *Service) GetTransfers(ctx context.Context, userID int) ([]domain.Transaction, error) {
	transfers, err := s.transferRepo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get transfers", zap.Error(err))
		return nil, err
	}
	return transfers, nil
}

func (s *Service) GetOnRampTransactions(ctx context.Context, userID int) ([]domain.OnRampTransaction, error) {
	transactions, err := s.onRampRepo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get onramp transactions", zap.Error(err))
		return nil, err
	}
	return transactions, nil
}

// GetUserByID returns the public profile a sender previews before
// transferring. Looking up yourself is rejected here as well as in the
// transfer itself.
func (s *Service) GetUserByID(ctx context.Context, callerID, id int) (*domain.User, error) {
	if id == callerID {
		zap.L().Info("self lookup rejected", zap.Int("userID", callerID))
		return nil, ErrSelfLookup
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		zap.L().Error("failed to get user", zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
