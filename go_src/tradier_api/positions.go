package tradier_api

import (
	"context"

	"github.com/shopspring/decimal"
)

// Positions lists the open positions of the configured account, keyed by symbol.
// GET accounts/{account_id}/positions
type Positions struct {
	accessor *Accessor
}

func newPositions(ctx context.Context, session *Session, d Dispatcher) (*Positions, error) {
	path, err := accountResource(session, "positions")
	if err != nil {
		return nil, err
	}
	accessor, err := NewCollectionAccessor(ctx, getFetch(d, path, nil), "positions.position", "symbol")
	if err != nil {
		return nil, err
	}
	return &Positions{accessor: accessor}, nil
}

func (p *Positions) Accessor() *Accessor {
	return p.accessor
}

func (p *Positions) Quantity(ctx context.Context, opts ...AccessOption) (map[string]decimal.Decimal, error) {
	return p.accessor.GetEachDecimal(ctx, "quantity", opts...)
}

func (p *Positions) CostBasis(ctx context.Context, opts ...AccessOption) (map[string]decimal.Decimal, error) {
	return p.accessor.GetEachDecimal(ctx, "cost_basis", opts...)
}

func (p *Positions) DateAcquired(ctx context.Context, opts ...AccessOption) (map[string]string, error) {
	return p.accessor.GetEachString(ctx, "date_acquired", opts...)
}
