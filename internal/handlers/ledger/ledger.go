package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/paywallet/walletgo/internal/domain"
	"github.com/paywallet/walletgo/internal/dto"
	"github.com/paywallet/walletgo/internal/service/ledgerservice"
	"github.com/paywallet/walletgo/pkg/auth"
	"github.com/paywallet/walletgo/pkg/money"
	"github.com/paywallet/walletgo/pkg/utils"
)

type Service interface {
	Transfer(ctx context.Context, senderID, recipientID int, amount int64) (*domain.Transaction, error)
	AddFunds(ctx context.Context, userID int, provider string, amount int64) (*domain.OnRampTransaction, error)
	SettleOnRamp(ctx context.Context, token string, success bool) error
	CreateBalance(ctx context.Context, userID int) (*domain.Balance, error)
}

type LedgerHandler struct {
	ledgerService Service
}

func New(ledgerService Service) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// Transfer godoc
//
//	@Summary		Transfer money to another user
//	@Description	Move the given amount (major units) from the authenticated user to the recipient. Debit, credit and the transaction record are applied atomically.
//	@Tags			Ledger
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.TransferRequestDTO	true	"Transfer request payload"
//	@Success		200		{object}	dto.TransferResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid recipient or amount"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		402		{object}	utils.Response	"Insufficient balance"
//	@Failure		404		{object}	utils.Response	"Sender or recipient not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/transfer [post]
func (h *LedgerHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.TransferRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	amount := money.MinorUnits(req.Amount)
	if req.RecipientID <= 0 || amount <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid recipient id or amount")
		return
	}

	transaction, err := h.ledgerService.Transfer(r.Context(), userID, req.RecipientID, amount)
	if err != nil {
		switch {
		case errors.Is(err, ledgerservice.ErrSelfTransfer):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ledgerservice.ErrUserNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ledgerservice.ErrInsufficientFunds):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.TransferResponseDTO{
		Message:       "Transfer successful",
		TransactionID: transaction.ID,
	})
}

// AddFunds godoc
//
//	@Summary		Add funds to the wallet
//	@Description	Create an on-ramp transaction for the given provider and credit the balance. Settlement is synchronous in this simulated flow.
//	@Tags			Ledger
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.OnRampRequestDTO	true	"On-ramp request payload"
//	@Success		201		{object}	dto.OnRampTransactionDTO
//	@Failure		400		{object}	utils.Response	"Invalid provider or amount"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/onramp [post]
func (h *LedgerHandler) AddFunds(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.OnRampRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	amount := money.MinorUnits(req.Amount)
	if req.Provider == "" || amount <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid provider or amount")
		return
	}

	transaction, err := h.ledgerService.AddFunds(r.Context(), userID, req.Provider, amount)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.OnRampTransactionDTO{
		ID:        transaction.ID,
		Provider:  transaction.Provider,
		Token:     transaction.Token,
		Amount:    money.Major(transaction.Amount),
		Status:    transaction.Status,
		StartTime: transaction.StartTime,
	})
}
