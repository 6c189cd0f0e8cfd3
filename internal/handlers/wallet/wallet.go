package wallet

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/paywallet/walletgo/internal/domain"
	"github.com/paywallet/walletgo/internal/dto"
	"github.com/paywallet/walletgo/internal/service/walletservice"
	"github.com/paywallet/walletgo/pkg/auth"
	"github.com/paywallet/walletgo/pkg/money"
	"github.com/paywallet/walletgo/pkg/utils"
)

type Service interface {
	GetBalance(ctx context.Context, userID int) (*domain.Balance, error)
	GetTransfers(ctx context.Context, userID int) ([]domain.Transaction, error)
	GetOnRampTransactions(ctx context.Context, userID int) ([]domain.OnRampTransaction, error)
	GetUserByID(ctx context.Context, callerID, id int) (*domain.User, error)
}

type WalletHandler struct {
	walletService Service
}

func New(walletService Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// GetBalance godoc
//
//	@Summary		Get current user balance
//	@Description	Retrieve the available and locked balance for the authenticated user, in major currency units.
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.BalanceResponseDTO	"Current balance"
//	@Failure		401	{object}	utils.Response			"User not authorized"
//	@Failure		404	{object}	utils.Response			"Balance not found"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/balance [get]
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	balance, err := h.walletService.GetBalance(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, walletservice.ErrBalanceNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{
		TotalBalance: money.Major(balance.Amount),
		Locked:       money.Major(balance.Locked),
	})
}

// GetTransfers godoc
//
//	@Summary		Get transfer history
//	@Description	List peer-to-peer transfers where the user is sender or receiver, newest first, annotated with the counterpart profile.
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.GetTransfersResponseDTO
//	@Success		204	{object}	utils.Response	"No data available"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/transactions [get]
func (h *WalletHandler) GetTransfers(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	transfers, err := h.walletService.GetTransfers(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if len(transfers) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No data available")
		return
	}

	response := make([]dto.GetTransfersResponseDTO, len(transfers))
	for i, transfer := range transfers {
		item := dto.GetTransfersResponseDTO{
			ID:        transfer.ID,
			Amount:    money.Major(transfer.Amount),
			Type:      transfer.Type,
			Status:    transfer.Status,
			CreatedAt: transfer.CreatedAt,
		}
		if transfer.SenderID == userID {
			item.Direction = "sent"
			item.CounterpartName = transfer.ReceiverName
			item.CounterpartEmail = transfer.ReceiverEmail
		} else {
			item.Direction = "received"
			item.CounterpartName = transfer.SenderName
			item.CounterpartEmail = transfer.SenderEmail
		}
		response[i] = item
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetOnRampTransactions godoc
//
//	@Summary		Get on-ramp history
//	@Description	List funding attempts for the authenticated user, newest first.
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.OnRampTransactionDTO
//	@Success		204	{object}	utils.Response	"No data available"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/onramp [get]
func (h *WalletHandler) GetOnRampTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	transactions, err := h.walletService.GetOnRampTransactions(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if len(transactions) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No data available")
		return
	}

	response := make([]dto.OnRampTransactionDTO, len(transactions))
	for i, transaction := range transactions {
		response[i] = dto.OnRampTransactionDTO{
			ID:        transaction.ID,
			Provider:  transaction.Provider,
			Token:     transaction.Token,
			Amount:    money.Major(transaction.Amount),
			Status:    transaction.Status,
			StartTime: transaction.StartTime,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetRecipient godoc
//
//	@Summary		Preview a transfer recipient
//	@Description	Return the public profile for a user id so a sender can confirm the recipient before transferring. Looking up your own id is rejected.
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Recipient user id"
//	@Success		200	{object}	dto.UserResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid user id or self lookup"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"User not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/users/{id} [get]
func (h *WalletHandler) GetRecipient(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := h.walletService.GetUserByID(r.Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, walletservice.ErrSelfLookup):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, walletservice.ErrUserNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.UserResponseDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	})
}
