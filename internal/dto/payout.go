package dto

import "time"

type PayoutCreateRequestDTO struct {
	Amount  int64  `json:"amount" example:"10000"`
	Details string `json:"details" example:"4242424242424242"`
}

type PayoutResponseDTO struct {
	ID           int       `json:"id" example:"1"`
	Amount       int64     `json:"amount" example:"10000"`
	Fee          int64     `json:"fee" example:"0"`
	Status       string    `json:"status" example:"PROCESSING"`
	Details      string    `json:"details" example:"4242424242424242"`
	RejectReason *string   `json:"reject_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at" example:"2024-12-09T16:09:57+03:00"`
}

type PayoutReturnResponseDTO struct {
	ID               int    `json:"id" example:"1"`
	Status           string `json:"status" example:"COMPLETED"`
	AlreadyProcessed bool   `json:"alreadyProcessed" example:"false"`
}
