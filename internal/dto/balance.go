package dto

import "time"

// Amounts are integer minor currency units; formatting happens on the
// client.

type BalanceResponseDTO struct {
	Balance   int64 `json:"balance" example:"10000"`
	Received  int64 `json:"received" example:"15000"`
	Withdrawn int64 `json:"withdrawn" example:"5000"`
}

type GetTransactionsResponseDTO struct {
	ID        int       `json:"id" example:"1"`
	Amount    int64     `json:"amount" example:"10000"`
	Fee       int64     `json:"fee" example:"0"`
	Status    string    `json:"status" example:"SUCCESS"`
	CreatedAt time.Time `json:"created_at" example:"2024-12-09T16:09:57+03:00"`
}
