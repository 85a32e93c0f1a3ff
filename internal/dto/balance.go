package dto

import "github.com/shopspring/decimal"

type BalanceResponseDTO struct {
	CashBalance float64 `json:"cashBalance" example:"1000.5"`
}

type DepositRequestDTO struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"number" example:"250"`
}
