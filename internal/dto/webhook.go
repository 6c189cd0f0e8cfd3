package dto

type WebhookRequestDTO struct {
	Type          string  `json:"type" example:"onramp.success"`
	TransactionID string  `json:"transactionId" example:"7f9c6f3a-9b0e-4c47-a8b1-31337c0ffee1"`
	UserID        int     `json:"userId" example:"1"`
	Amount        float64 `json:"amount" example:"500.00"`
}

type WebhookResponseDTO struct {
	Message string `json:"message"`
}
