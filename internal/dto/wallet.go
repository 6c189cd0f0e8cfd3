package dto

// All wire-level amounts are major-units (rupees) with up to two decimal
// places; conversion to minor-units happens in the handlers.

type BalanceResponseDTO struct {
	TotalBalance float64 `json:"totalBalance" example:"200.50"`
	Locked       float64 `json:"locked" example:"0"`
}

type UserResponseDTO struct {
	ID    int    `json:"id" example:"2"`
	Name  string `json:"name" example:"Bob"`
	Email string `json:"email" example:"bob@example.com"`
}
