package dto

import "time"

type TransferRequestDTO struct {
	RecipientID int     `json:"recipientId" example:"2"`
	Amount      float64 `json:"amount" example:"50.00"`
}

type TransferResponseDTO struct {
	Message       string `json:"message"`
	TransactionID int    `json:"transactionId" example:"17"`
}

type GetTransfersResponseDTO struct {
	ID               int       `json:"id" example:"17"`
	Amount           float64   `json:"amount" example:"50.00"`
	Type             string    `json:"type" example:"Transfer"`
	Status           string    `json:"status" example:"Completed"`
	Direction        string    `json:"direction" example:"sent"`
	CounterpartName  string    `json:"counterpartName" example:"Bob"`
	CounterpartEmail string    `json:"counterpartEmail" example:"bob@example.com"`
	CreatedAt        time.Time `json:"createdAt" example:"2025-01-09T16:09:57+03:00"`
}
