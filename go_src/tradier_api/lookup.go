package tradier_api

import (
	"context"
)

// LookupQuery searches symbols or partial symbols. Any combination of fields
// may be set.
type LookupQuery struct {
	Symbol   string `url:"q,omitempty"`         // full or partial symbol
	Type     string `url:"type,omitempty"`      // stock, etf, index; comma separated
	Exchange string `url:"exchanges,omitempty"` // comma separated exchange codes
}

// Lookup holds the results of a symbol search, ordered by volume on the API
// side. Every accessor returns one value per matched symbol.
// GET markets/lookup
type Lookup struct {
	accessor *Accessor
}

func newLookup(ctx context.Context, d Dispatcher, query LookupQuery) (*Lookup, error) {
	payload, err := paramsToQueryValues(query)
	if err != nil {
		return nil, err
	}
	accessor, err := NewCollectionAccessor(ctx, getFetch(d, PathLookup, payload), "securities.security", "symbol")
	if err != nil {
		return nil, err
	}
	return &Lookup{accessor: accessor}, nil
}

func (l *Lookup) Accessor() *Accessor {
	return l.accessor
}

func (l *Lookup) Symbol(ctx context.Context, opts ...AccessOption) (map[string]string, error) {
	return l.accessor.GetEachString(ctx, "symbol", opts...)
}

func (l *Lookup) Exchange(ctx context.Context, opts ...AccessOption) (map[string]string, error) {
	return l.accessor.GetEachString(ctx, "exchange", opts...)
}

// Type returns the security type of each symbol: stock, etf or index.
func (l *Lookup) Type(ctx context.Context, opts ...AccessOption) (map[string]string, error) {
	return l.accessor.GetEachString(ctx, "type", opts...)
}

// Desc returns a short description of each symbol.
func (l *Lookup) Desc(ctx context.Context, opts ...AccessOption) (map[string]string, error) {
	return l.accessor.GetEachString(ctx, "description", opts...)
}
