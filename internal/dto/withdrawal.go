package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestWithdrawalRequestDTO struct {
	Amount        decimal.Decimal `json:"amount" swaggertype:"number" example:"100"`
	WalletAddress string          `json:"wallet_address" example:"bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh"`
}

type WithdrawalResponseDTO struct {
	ID            int             `json:"id" example:"1"`
	Amount        decimal.Decimal `json:"amount" swaggertype:"number" example:"100"`
	WalletAddress string          `json:"wallet_address" example:"bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh"`
	Status        string          `json:"status" example:"Pending"`
	RequestDate   time.Time       `json:"request_date"`
	ApprovalDate  *time.Time      `json:"approval_date,omitempty"`
}
