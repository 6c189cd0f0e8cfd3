package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/paywallet/walletgo/docs"
	authhandlers "github.com/paywallet/walletgo/internal/handlers/auth"
	ledgerhandlers "github.com/paywallet/walletgo/internal/handlers/ledger"
	wallethandlers "github.com/paywallet/walletgo/internal/handlers/wallet"
	webhookhandlers "github.com/paywallet/walletgo/internal/handlers/webhook"
	"github.com/paywallet/walletgo/internal/service"
	"github.com/paywallet/walletgo/pkg/auth"
	httpSwagger "github.com/swaggo/http-swagger"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type LedgerHandler interface {
	Transfer(w http.ResponseWriter, r *http.Request)
	AddFunds(w http.ResponseWriter, r *http.Request)
}

type WalletHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	GetTransfers(w http.ResponseWriter, r *http.Request)
	GetOnRampTransactions(w http.ResponseWriter, r *http.Request)
	GetRecipient(w http.ResponseWriter, r *http.Request)
}

type WebhookHandler interface {
	Handle(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler    AuthHandler
	LedgerHandler  LedgerHandler
	WalletHandler  WalletHandler
	WebhookHandler WebhookHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:    authhandlers.New(s.AuthService),
		LedgerHandler:  ledgerhandlers.New(s.LedgerService),
		WalletHandler:  wallethandlers.New(s.WalletService),
		WebhookHandler: webhookhandlers.New(s.LedgerService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api", func(r chi.Router) {
		r.Post("/user/register", h.AuthHandler.Register)
		r.Post("/user/login", h.AuthHandler.Login)
		r.Post("/webhook", h.WebhookHandler.Handle)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)
			r.Get("/balance", h.WalletHandler.GetBalance)
			r.Get("/transactions", h.WalletHandler.GetTransfers)
			r.Get("/users/{id}", h.WalletHandler.GetRecipient)
			r.Post("/transfer", h.LedgerHandler.Transfer)
			r.Route("/onramp", func(r chi.Router) {
				r.Post("/", h.LedgerHandler.AddFunds)
				r.Get("/", h.WalletHandler.GetOnRampTransactions)
			})
		})
	})

	return r
}
