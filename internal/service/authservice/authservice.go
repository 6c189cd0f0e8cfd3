package authservice

import (
	"context"
	"errors"
	"time"

	"github.com/paywallet/walletgo/internal/domain"
	"github.com/paywallet/walletgo/internal/handlers/ledger"
	"github.com/paywallet/walletgo/internal/pg"
	"github.com/paywallet/walletgo/pkg/auth"
	"go.uber.org/zap"
)

type Repo interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

type Service struct {
	userRepo      Repo
	ledgerService ledger.Service
	hashService   auth.HashServiceInterface
	jwtService    auth.JWTServiceInterface
	txManager     pg.TXManager
}

func New(repo Repo, ledgerService ledger.Service, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface, txManager pg.TXManager) *Service {
	return &Service{
		userRepo:      repo,
		ledgerService: ledgerService,
		hashService:   hashService,
		jwtService:    jwtService,
		txManager:     txManager,
	}
}

var ErrEmailAlreadyTaken = errors.New("email already taken")

func (s *Service) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		zap.L().Error("can't find user: ", zap.Error(err))
		return nil, err
	}
	if existingUser != nil {
		zap.L().Info("user already exists, email: ", zap.String("email", email))
		return nil, ErrEmailAlreadyTaken
	}
	hashedPassword, err := s.hashService.HashPassword(password)
	if err != nil {
		zap.L().Error("can't hash password: ", zap.Error(err))
		return nil, err
	}
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
	}
	// The user row and its balance row are created atomically so a failure
	// between the two cannot leave a user without a balance.
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		newUser, err := s.userRepo.Create(ctx, user)
		if err != nil {
			zap.L().Error("can't create user: ", zap.Error(err))
			return err
		}
		if _, err := s.ledgerService.CreateBalance(ctx, newUser.ID); err != nil {
			zap.L().Error("can't create balance: ", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("user successfully registered", zap.String("email", email))
	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil || user == nil {
		zap.L().Error("invalid credentials", zap.Error(err))
		return nil, errors.New("invalid credentials")
	}
	if ok := s.hashService.ComparePassword(user.PasswordHash, password); !ok {
		zap.L().Error("invalid credentials", zap.Error(err))
		return nil, errors.New("invalid credentials")
	}
	zap.L().Info("user successfully authenticated", zap.String("email", email))
	return user, nil
}

func (s *Service) GenerateToken(userID int) (string, error) {
	expirationTime := time.Now().Add(15 * time.Minute)

	token, err := s.jwtService.GenerateJWT(userID, expirationTime)
	if err != nil {
		zap.L().Error("can't generate token: ", zap.Error(err))
		return "", err
	}
	return token, nil
}
