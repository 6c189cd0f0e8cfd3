package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/paywallet/walletgo/internal/dto"
	"github.com/paywallet/walletgo/internal/service/ledgerservice"
	"github.com/paywallet/walletgo/pkg/utils"
	"go.uber.org/zap"
)

const (
	TypeOnRampSuccess = "onramp.success"
	TypeOnRampFailure = "onramp.failure"
)

type Service interface {
	SettleOnRamp(ctx context.Context, token string, success bool) error
}

type WebhookHandler struct {
	ledgerService Service
}

func New(ledgerService Service) *WebhookHandler {
	return &WebhookHandler{
		ledgerService: ledgerService,
	}
}

// Handle godoc
//
//	@Summary		Payment provider callback
//	@Description	Settle an on-ramp transaction by its correlation token. Unknown event types are acknowledged without effect so provider retries and schema drift stay harmless.
//	@Tags			Webhook
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.WebhookRequestDTO	true	"Webhook payload"
//	@Success		200		{object}	dto.WebhookResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid webhook format"
//	@Failure		404		{object}	utils.Response	"On-ramp transaction not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/webhook [post]
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req dto.WebhookRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid webhook format")
		return
	}
	if req.Type == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid webhook format")
		return
	}

	var success bool
	switch req.Type {
	case TypeOnRampSuccess:
		success = true
	case TypeOnRampFailure:
		success = false
	default:
		zap.L().Info("unknown webhook type received", zap.String("type", req.Type))
		utils.RespondWithJSON(w, http.StatusOK, dto.WebhookResponseDTO{
			Message: "Webhook received (unknown type)",
		})
		return
	}

	if req.TransactionID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid webhook format")
		return
	}

	err := h.ledgerService.SettleOnRamp(r.Context(), req.TransactionID, success)
	if err != nil {
		switch {
		case errors.Is(err, ledgerservice.ErrOnRampNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.WebhookResponseDTO{
		Message: "Webhook processed successfully",
	})
}
