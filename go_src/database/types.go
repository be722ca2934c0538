package database

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSnapshot is one reading of an account balance. All money fields
// come from the same API response.
type BalanceSnapshot struct {
	ID                 string          `json:"id"`
	AccountID          string          `json:"account_id"`
	AccountType        string          `json:"account_type"`
	TotalEquity        decimal.Decimal `json:"total_equity"`
	TotalCash          decimal.Decimal `json:"total_cash"`
	CashAvailable      decimal.Decimal `json:"cash_available"`
	MarketValue        decimal.Decimal `json:"market_value"`
	OpenPL             decimal.Decimal `json:"open_pl"`
	ClosePL            decimal.Decimal `json:"close_pl"`
	PendingOrdersCount int64           `json:"pending_orders_count"`
	TakenAt            time.Time       `json:"taken_at"`
}
