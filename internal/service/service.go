package service

import (
	"github.com/paywallet/walletgo/internal/handlers/auth"
	"github.com/paywallet/walletgo/internal/handlers/ledger"
	"github.com/paywallet/walletgo/internal/handlers/wallet"

	pkgauth "github.com/paywallet/walletgo/pkg/auth"

	"github.com/paywallet/walletgo/internal/pg"
	"github.com/paywallet/walletgo/internal/repo"
	"github.com/paywallet/walletgo/internal/service/authservice"
	"github.com/paywallet/walletgo/internal/service/ledgerservice"
	"github.com/paywallet/walletgo/internal/service/walletservice"
)

type Services struct {
	AuthService   auth.Service
	LedgerService ledger.Service
	WalletService wallet.Service
}

func New(repo *repo.Repositories, txManager pg.TXManager) *Services {
	ledgerService := ledgerservice.New(repo.UserRepo, repo.BalanceRepo, repo.TransferRepo, repo.OnRampRepo, txManager)
	walletService := walletservice.New(repo.UserRepo, repo.BalanceRepo, repo.TransferRepo, repo.OnRampRepo)
	authService := authservice.New(repo.UserRepo, ledgerService, &pkgauth.HashService{}, &pkgauth.JWTService{}, txManager)

	return &Services{
		AuthService:   authService,
		LedgerService: ledgerService,
		WalletService: walletService,
	}
}
