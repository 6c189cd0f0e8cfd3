// Package seed loads a small set of demo accounts so a fresh instance has
// data to play with. It is a no-op when any of the demo emails already exist.
package seed

import (
	"context"

	"go.uber.org/zap"

	"github.com/paywallet/walletgo/internal/domain"
	"github.com/paywallet/walletgo/internal/pg"
	"github.com/paywallet/walletgo/pkg/auth"
)

const (
	demoPassword = "password123"
	demoProvider = "HDFC Bank"

	statusSuccess = "Success"
)

var demoUsers = []struct {
	Name    string
	Email   string
	Balance int64
	Token   string
}{
	{"suhani", "suhani@example.com", 20000, "ONRAMP005"},
	{"deb", "chahat@example.com", 50000, "ONRAMP004"},
}

type UserRepo interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

type BalanceRepo interface {
	Credit(ctx context.Context, userID int, amount int64) (*domain.Balance, error)
}

type OnRampRepo interface {
	Create(ctx context.Context, transaction *domain.OnRampTransaction) (*domain.OnRampTransaction, error)
}

type Service struct {
	userRepo    UserRepo
	balanceRepo BalanceRepo
	onRampRepo  OnRampRepo
	hashService auth.HashServiceInterface
	txManager   pg.TXManager
}

func New(userRepo UserRepo, balanceRepo BalanceRepo, onRampRepo OnRampRepo, hashService auth.HashServiceInterface, txManager pg.TXManager) *Service {
	return &Service{
		userRepo:    userRepo,
		balanceRepo: balanceRepo,
		onRampRepo:  onRampRepo,
		hashService: hashService,
		txManager:   txManager,
	}
}

// Run inserts the demo users with a funded balance and a settled funding
// transaction each. Users that already exist are skipped, so running it
// against a populated database changes nothing.
func (s *Service) Run(ctx context.Context) error {
	hashedPassword, err := s.hashService.HashPassword(demoPassword)
	if err != nil {
		zap.L().Error("can't hash demo password: ", zap.Error(err))
		return err
	}

	for _, demo := range demoUsers {
		existing, err := s.userRepo.FindByEmail(ctx, demo.Email)
		if err != nil {
			zap.L().Error("can't check demo user: ", zap.Error(err))
			return err
		}
		if existing != nil {
			zap.L().Info("demo user already exists, skipping", zap.String("email", demo.Email))
			continue
		}

		err = s.txManager.Begin(ctx, func(ctx context.Context) error {
			user, err := s.userRepo.Create(ctx, &domain.User{
				Name:         demo.Name,
				Email:        demo.Email,
				PasswordHash: hashedPassword,
			})
			if err != nil {
				return err
			}
			if _, err := s.balanceRepo.Credit(ctx, user.ID, demo.Balance); err != nil {
				return err
			}
			_, err = s.onRampRepo.Create(ctx, &domain.OnRampTransaction{
				UserID:   user.ID,
				Provider: demoProvider,
				Token:    demo.Token,
				Amount:   demo.Balance,
				Status:   statusSuccess,
			})
			return err
		})
		if err != nil {
			zap.L().Error("can't seed demo user: ", zap.Error(err))
			return err
		}
		zap.L().Info("demo user seeded", zap.String("email", demo.Email))
	}
	return nil
}
