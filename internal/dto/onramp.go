package dto

import "time"

type OnRampRequestDTO struct {
	Provider string  `json:"provider" example:"bank_transfer"`
	Amount   float64 `json:"amount" example:"500.00"`
}

type OnRampTransactionDTO struct {
	ID        int       `json:"id" example:"4"`
	Provider  string    `json:"provider" example:"bank_transfer"`
	Token     string    `json:"token" example:"7f9c6f3a-9b0e-4c47-a8b1-31337c0ffee1"`
	Amount    float64   `json:"amount" example:"500.00"`
	Status    string    `json:"status" example:"Success"`
	StartTime time.Time `json:"startTime" example:"2025-01-09T16:09:57+03:00"`
}
