package repo

import (
	"github.com/paywallet/walletgo/internal/pg"
	balancerepo "github.com/paywallet/walletgo/internal/repo/balance-repo"
	onramprepo "github.com/paywallet/walletgo/internal/repo/onramp-repo"
	transferrepo "github.com/paywallet/walletgo/internal/repo/transfer-repo"
	userrepo "github.com/paywallet/walletgo/internal/repo/user-repo"
	"github.com/paywallet/walletgo/internal/service/authservice"
	"github.com/paywallet/walletgo/internal/service/ledgerservice"
)

type Repositories struct {
	UserRepo     authservice.Repo
	BalanceRepo  ledgerservice.BalanceRepo
	TransferRepo ledgerservice.TransferRepo
	OnRampRepo   ledgerservice.OnRampRepo
}

func New(conn pg.Database) *Repositories {
	userRepo := userrepo.New(conn)
	balanceRepo := balancerepo.New(conn)
	transferRepo := transferrepo.New(conn)
	onRampRepo := onramprepo.New(conn)

	return &Repositories{
		UserRepo:     userRepo,
		BalanceRepo:  balanceRepo,
		TransferRepo: transferRepo,
		OnRampRepo:   onRampRepo,
	}
}
