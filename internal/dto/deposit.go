package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateDepositRequestDTO struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"number" example:"500"`
}

type CreateDepositResponseDTO struct {
	TransactionID string          `json:"transaction_id" example:"TX-6f1c2f6a"`
	Amount        decimal.Decimal `json:"amount" swaggertype:"number" example:"500"`
	Status        string          `json:"status" example:"Pending"`
	CreatedAt     time.Time       `json:"created_at" example:"2024-11-02T16:09:57+03:00"`
}

type DecideDepositRequestDTO struct {
	TransactionID string `json:"transaction_id" example:"TX-6f1c2f6a"`
	Decision      string `json:"decision" example:"Confirmed"`
	Notes         string `json:"notes" example:"wire reference 1881"`
}

type DepositStatusResponseDTO struct {
	TransactionID     string          `json:"transaction_id" example:"TX-6f1c2f6a"`
	Amount            decimal.Decimal `json:"amount" swaggertype:"number" example:"500"`
	Status            string          `json:"status" example:"Confirmed"`
	AdminConfirmation *bool           `json:"admin_confirmation,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	PaymentDate       *time.Time      `json:"payment_date,omitempty"`
}

type PendingDepositDTO struct {
	TransactionID string          `json:"transaction_id" example:"TX-6f1c2f6a"`
	UserID        int             `json:"user_id" example:"1"`
	Amount        decimal.Decimal `json:"amount" swaggertype:"number" example:"500"`
	CreatedAt     time.Time       `json:"created_at" example:"2024-11-02T16:09:57+03:00"`
}
