package tradier_api

import (
	"context"

	"github.com/shopspring/decimal"
)

// Balance is the balances resource of the configured account.
// GET accounts/{account_id}/balances
type Balance struct {
	accessor *Accessor
}

func newBalance(ctx context.Context, session *Session, d Dispatcher) (*Balance, error) {
	path, err := accountResource(session, "balances")
	if err != nil {
		return nil, err
	}
	accessor, err := NewAccessor(ctx, getFetch(d, path, nil), "balances")
	if err != nil {
		return nil, err
	}
	return &Balance{accessor: accessor}, nil
}

// Accessor exposes the underlying accessor for fields without a named method.
func (b *Balance) Accessor() *Accessor {
	return b.accessor
}

func (b *Balance) money(ctx context.Context, attribute string, opts []AccessOption) (decimal.Decimal, error) {
	return b.accessor.GetDecimal(ctx, attribute, opts...)
}

func (b *Balance) cash(ctx context.Context, inner string, opts []AccessOption) (decimal.Decimal, error) {
	return b.accessor.GetDecimal(ctx, "cash", append(opts[:len(opts):len(opts)], WithInner(inner))...)
}

// AccountNumber returns the account number associated with the current account.
func (b *Balance) AccountNumber(ctx context.Context, opts ...AccessOption) (string, error) {
	return b.accessor.GetString(ctx, "account_number", opts...)
}

// AccountType returns the type of trading account: cash, margin or pdt.
func (b *Balance) AccountType(ctx context.Context, opts ...AccessOption) (string, error) {
	return b.accessor.GetString(ctx, "account_type", opts...)
}

// CashAvailable returns the funds ready for trading.
func (b *Balance) CashAvailable(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.cash(ctx, "cash_available", opts)
}

// Sweep returns the sweep balance of a cash account.
func (b *Balance) Sweep(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.cash(ctx, "sweep", opts)
}

// UnsettledFunds returns cash from recent sales that has not yet settled.
func (b *Balance) UnsettledFunds(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.cash(ctx, "unsettled_funds", opts)
}

// ClosePL returns the profit and loss of the trading day's closed positions.
func (b *Balance) ClosePL(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "close_pl", opts)
}

func (b *Balance) CurrentRequirement(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "current_requirement", opts)
}

// DayTradeBuyingPower returns the funds available for fully marginable stock
// during the current trading day. Part of it cannot be held overnight.
func (b *Balance) DayTradeBuyingPower(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "day_trade_buying_power", opts)
}

func (b *Balance) DividendBalance(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "dividend_balance", opts)
}

func (b *Balance) Equity(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "equity", opts)
}

// FedCall returns the deficit for trades that have occurred but not been paid for.
func (b *Balance) FedCall(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "fed_call", opts)
}

func (b *Balance) LongLiquidValue(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "long_liquid_value", opts)
}

func (b *Balance) LongMarketValue(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "long_market_value", opts)
}

// MaintenanceCall returns how far the account is under the minimum equity
// required to support the current holdings.
func (b *Balance) MaintenanceCall(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "maintenance_call", opts)
}

func (b *Balance) MarketValue(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "market_value", opts)
}

func (b *Balance) NetValue(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "net_value", opts)
}

// OpenPL returns the profit and loss of the current positions.
func (b *Balance) OpenPL(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "open_pl", opts)
}

// OptionBuyingPower returns the funds available for non-marginable securities.
func (b *Balance) OptionBuyingPower(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "option_buying_power", opts)
}

func (b *Balance) OptionLongValue(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "option_long_value", opts)
}

func (b *Balance) OptionRequirement(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "option_requirement", opts)
}

func (b *Balance) OptionShortValue(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "option_short_value", opts)
}

// PendingCash returns cash held for open orders.
func (b *Balance) PendingCash(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "pending_cash", opts)
}

// PendingOrdersCount returns the number of open orders.
func (b *Balance) PendingOrdersCount(ctx context.Context, opts ...AccessOption) (int64, error) {
	return b.accessor.GetInt(ctx, "pending_orders_count", opts...)
}

func (b *Balance) ShortLiquidValue(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "short_liquid_value", opts)
}

func (b *Balance) ShortMarketValue(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "short_market_value", opts)
}

// StockBuyingPower returns the funds available for fully marginable securities.
func (b *Balance) StockBuyingPower(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "stock_buying_power", opts)
}

func (b *Balance) StockLongValue(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "stock_long_value", opts)
}

func (b *Balance) StockShortValue(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "stock_short_value", opts)
}

// UnclearedFunds returns funds not yet available for trading.
func (b *Balance) UnclearedFunds(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "uncleared_funds", opts)
}

func (b *Balance) TotalCash(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "total_cash", opts)
}

// TotalEquity returns the total value of the account.
func (b *Balance) TotalEquity(ctx context.Context, opts ...AccessOption) (decimal.Decimal, error) {
	return b.money(ctx, "total_equity", opts)
}
