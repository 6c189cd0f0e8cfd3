package ledgerservice

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/paywallet/walletgo/internal/domain"
	"github.com/paywallet/walletgo/internal/pg"
	"go.uber.org/zap"
)

type UserRepo interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
}

type BalanceRepo interface {
	GetUserBalance(ctx context.Context, userID int) (*domain.Balance, error)
	GetUserBalanceForUpdate(ctx context.Context, userID int) (*domain.Balance, error)
	CreateUserBalance(ctx context.Context, userID int) (*domain.Balance, error)
	Debit(ctx context.Context, userID int, amount int64) (*domain.Balance, error)
	Credit(ctx context.Context, userID int, amount int64) (*domain.Balance, error)
}

type TransferRepo interface {
	CreateTransaction(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.Transaction, error)
}

type OnRampRepo interface {
	Create(ctx context.Context, transaction *domain.OnRampTransaction) (*domain.OnRampTransaction, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	FindByTokenForUpdate(ctx context.Context, token string) (*domain.OnRampTransaction, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.OnRampTransaction, error)
	FindProcessing(ctx context.Context, limit uint32) ([]domain.OnRampTransaction, error)
}

type Service struct {
	userRepo     UserRepo
	balanceRepo  BalanceRepo
	transferRepo TransferRepo
	onRampRepo   OnRampRepo
	txManager    pg.TXManager
}

func New(userRepo UserRepo, balanceRepo BalanceRepo, transferRepo TransferRepo, onRampRepo OnRampRepo, txManager pg.TXManager) *Service {
	return &Service{
		userRepo:     userRepo,
		balanceRepo:  balanceRepo,
		transferRepo: transferRepo,
		onRampRepo:   onRampRepo,
		txManager:    txManager,
	}
}

const (
	// OnRampProcessing funds requested от провайдера, ещё не зачислены.
	OnRampProcessing string = "Processing"
	// OnRampSuccess settlement confirmed, баланс пополнен.
	OnRampSuccess string = "Success"
	// OnRampFailure провайдер отклонил пополнение, баланс не менялся.
	OnRampFailure string = "Failure"

	TypeTransfer    string = "Transfer"
	StatusCompleted string = "Completed"
)

var (
	ErrSelfTransfer      = errors.New("cannot transfer to yourself")
	ErrUserNotFound      = errors.New("sender or recipient not found")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrOnRampNotFound    = errors.New("onramp transaction not found")
)

// Transfer moves amount minor-units from sender to recipient and records the
// movement, all inside one transaction. The sender balance row is locked for
// the duration, so two concurrent transfers from the same account cannot both
// pass the sufficient-funds check.
func (s *Service) Transfer(ctx context.Context, senderID, recipientID int, amount int64) (*domain.Transaction, error) {
	if senderID == recipientID {
		zap.L().Info("self transfer rejected", zap.Int("userID", senderID))
		return nil, ErrSelfTransfer
	}

	var transaction *domain.Transaction
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		sender, err := s.userRepo.FindByID(ctx, senderID)
		if err != nil {
			return err
		}
		recipient, err := s.userRepo.FindByID(ctx, recipientID)
		if err != nil {
			return err
		}
		if sender == nil || recipient == nil {
			return ErrUserNotFound
		}

		balance, err := s.balanceRepo.GetUserBalanceForUpdate(ctx, senderID)
		if err != nil {
			return err
		}
		if balance == nil || balance.Amount < amount {
			return ErrInsufficientFunds
		}

		if _, err := s.balanceRepo.Debit(ctx, senderID, amount); err != nil {
			return err
		}
		if _, err := s.balanceRepo.Credit(ctx, recipientID, amount); err != nil {
			return err
		}

		transaction, err = s.transferRepo.CreateTransaction(ctx, &domain.Transaction{
			SenderID:   senderID,
			ReceiverID: recipientID,
			Amount:     amount,
			Type:       TypeTransfer,
			Status:     StatusCompleted,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("transfer completed",
		zap.Int("senderID", senderID),
		zap.Int("recipientID", recipientID),
		zap.Int64("amount", amount),
	)
	return transaction, nil
}

// AddFunds records an on-ramp attempt and settles it in the same transaction.
// This models a same-request synchronous settlement; provider-driven
// settlement goes through SettleOnRamp instead.
func (s *Service) AddFunds(ctx context.Context, userID int, provider string, amount int64) (*domain.OnRampTransaction, error) {
	transaction := &domain.OnRampTransaction{
		UserID:   userID,
		Provider: provider,
		Token:    uuid.NewString(),
		Amount:   amount,
		Status:   OnRampProcessing,
	}

	if _, err := s.onRampRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	// Settlement is a separate atomic step: if the process dies here the row
	// stays Processing and the settlement poller reconciles it later. The row
	// is re-read under lock because a provider webhook may settle it first.
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		row, err := s.onRampRepo.FindByTokenForUpdate(ctx, transaction.Token)
		if err != nil {
			return err
		}
		if row == nil {
			return ErrOnRampNotFound
		}
		if row.Status != OnRampProcessing {
			zap.L().Info("onramp transaction settled concurrently",
				zap.String("token", transaction.Token),
				zap.String("status", row.Status),
			)
			transaction.Status = row.Status
			return nil
		}
		if _, err := s.balanceRepo.Credit(ctx, userID, amount); err != nil {
			return err
		}
		if err := s.onRampRepo.UpdateStatus(ctx, transaction.ID, OnRampSuccess); err != nil {
			return err
		}
		transaction.Status = OnRampSuccess
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("funds added",
		zap.Int("userID", userID),
		zap.String("provider", provider),
		zap.Int64("amount", amount),
	)
	return transaction, nil
}

// SettleOnRamp applies a provider verdict to the on-ramp transaction with the
// given token. The row is locked for the duration and rows already in a
// terminal state are left untouched, so a webhook retry racing the settlement
// poller cannot credit twice.
func (s *Service) SettleOnRamp(ctx context.Context, token string, success bool) error {
	return s.txManager.Begin(ctx, func(ctx context.Context) error {
		transaction, err := s.onRampRepo.FindByTokenForUpdate(ctx, token)
		if err != nil {
			return err
		}
		if transaction == nil {
			return ErrOnRampNotFound
		}
		if transaction.Status != OnRampProcessing {
			zap.L().Info("onramp transaction already settled",
				zap.String("token", token),
				zap.String("status", transaction.Status),
			)
			return nil
		}

		if !success {
			return s.onRampRepo.UpdateStatus(ctx, transaction.ID, OnRampFailure)
		}
		if _, err := s.balanceRepo.Credit(ctx, transaction.UserID, transaction.Amount); err != nil {
			return err
		}
		return s.onRampRepo.UpdateStatus(ctx, transaction.ID, OnRampSuccess)
	})
}

func (s *Service) CreateBalance(ctx context.Context, userID int) (*domain.Balance, error) {
	balance, err := s.balanceRepo.CreateUserBalance(ctx, userID)
	if err != nil {
		zap.L().Error("failed to create balance", zap.Error(err))
		return nil, err
	}
	return balance, nil
}
