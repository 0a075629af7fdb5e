package dto

type TipCreateRequestDTO struct {
	RecipientID int   `json:"recipient_id" example:"1"`
	Amount      int64 `json:"amount" example:"50000"`
}

type TipCreateResponseDTO struct {
	ID         int    `json:"id" example:"1"`
	PaymentURL string `json:"payment_url" example:"https://test.paygine.com/webapi/Purchase?id=123"`
}
