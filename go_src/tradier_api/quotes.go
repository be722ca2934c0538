package tradier_api

import (
	"context"
	"net/url"
	"strings"

	"gotradier/go_src/trade_exceptions"

	"github.com/shopspring/decimal"
)

// Quotes holds quotes for one or more symbols.
// GET markets/quotes?symbols=AAPL,MSFT
type Quotes struct {
	accessor *Accessor
}

func newQuotes(ctx context.Context, d Dispatcher, symbols []string) (*Quotes, error) {
	cleaned := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, strings.ToUpper(s))
		}
	}
	if len(cleaned) == 0 {
		return nil, &trade_exceptions.ValidationError{Field: "symbols", Message: "at least one symbol is required"}
	}
	payload := url.Values{}
	payload.Set("symbols", strings.Join(cleaned, ","))

	accessor, err := NewCollectionAccessor(ctx, getFetch(d, PathQuotes, payload), "quotes.quote", "symbol")
	if err != nil {
		return nil, err
	}
	return &Quotes{accessor: accessor}, nil
}

func (q *Quotes) Accessor() *Accessor {
	return q.accessor
}

func (q *Quotes) Last(ctx context.Context, opts ...AccessOption) (map[string]decimal.Decimal, error) {
	return q.accessor.GetEachDecimal(ctx, "last", opts...)
}

func (q *Quotes) Bid(ctx context.Context, opts ...AccessOption) (map[string]decimal.Decimal, error) {
	return q.accessor.GetEachDecimal(ctx, "bid", opts...)
}

func (q *Quotes) Ask(ctx context.Context, opts ...AccessOption) (map[string]decimal.Decimal, error) {
	return q.accessor.GetEachDecimal(ctx, "ask", opts...)
}

// Change returns the daily net change of each symbol.
func (q *Quotes) Change(ctx context.Context, opts ...AccessOption) (map[string]decimal.Decimal, error) {
	return q.accessor.GetEachDecimal(ctx, "change", opts...)
}

func (q *Quotes) Volume(ctx context.Context, opts ...AccessOption) (map[string]int64, error) {
	return q.accessor.GetEachInt(ctx, "volume", opts...)
}

func (q *Quotes) Description(ctx context.Context, opts ...AccessOption) (map[string]string, error) {
	return q.accessor.GetEachString(ctx, "description", opts...)
}
