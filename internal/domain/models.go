package domain

import "time"

// All monetary values are integer minor currency units (kopecks).

const (
	TxStatusPending   string = "PENDING"
	TxStatusSuccess   string = "SUCCESS"
	TxStatusFailed    string = "FAILED"
	TxStatusCancelled string = "CANCELLED"
)

const (
	PayoutStatusCreated    string = "CREATED"
	PayoutStatusProcessing string = "PROCESSING"
	PayoutStatusCompleted  string = "COMPLETED"
	PayoutStatusRejected   string = "REJECTED"
)

type User struct {
	ID            int    `db:"id"`
	Login         string `db:"login"`
	PasswordHash  string `db:"password_hash"`
	Role          Role   `db:"role"`
	SubAccountRef string `db:"sub_account_ref"`

	AutoConfirmLimit   *int64 `db:"auto_confirm_limit"`
	DailyLimitCount    *int64 `db:"daily_limit_count"`
	DailyLimitAmount   *int64 `db:"daily_limit_amount"`
	MonthlyLimitCount  *int64 `db:"monthly_limit_count"`
	MonthlyLimitAmount *int64 `db:"monthly_limit_amount"`

	CreatedAt time.Time `db:"created_at"`
}

type Transaction struct {
	ID        int       `db:"id"`
	UserID    int       `db:"user_id"`
	Amount    int64     `db:"amount"`
	Fee       int64     `db:"fee"`
	Status    string    `db:"status"`
	OrderID   *string   `db:"order_id"`
	CreatedAt time.Time `db:"created_at"`
}

type PayoutRequest struct {
	ID           int       `db:"id"`
	UserID       int       `db:"user_id"`
	Amount       int64     `db:"amount"`
	Fee          int64     `db:"fee"`
	Status       string    `db:"status"`
	OrderID      *string   `db:"order_id"`
	Details      string    `db:"details"`
	RejectReason *string   `db:"reject_reason"`
	CompletedBy  *int      `db:"completed_by"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Balance is a derived view, recomputed from transactions and payout
// requests on every read. Nothing persists it.
type Balance struct {
	Balance   int64
	Received  int64
	Withdrawn int64
}

// LimitSettings is the single system-wide defaults row. Nil fields mean
// "no default configured", falling through to the hardcoded constants.
type LimitSettings struct {
	ID                 int    `db:"id"`
	DailyLimitCount    *int64 `db:"daily_limit_count"`
	DailyLimitAmount   *int64 `db:"daily_limit_amount"`
	MonthlyLimitCount  *int64 `db:"monthly_limit_count"`
	MonthlyLimitAmount *int64 `db:"monthly_limit_amount"`
}

// ExternalOrderID returns the gateway order id or "" when the payout
// never reached the gateway.
func (p *PayoutRequest) ExternalOrderID() string {
	if p.OrderID == nil {
		return ""
	}
	return *p.OrderID
}
