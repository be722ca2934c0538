package tradier_api

import (
	"context"
	"net/http"
	"strings"

	"gotradier/go_src/trade_exceptions"

	"github.com/shopspring/decimal"
)

// Orders lists the orders of the configured account, keyed by order id.
// GET accounts/{account_id}/orders
type Orders struct {
	accessor *Accessor
	session  *Session
	d        Dispatcher
}

func newOrders(ctx context.Context, session *Session, d Dispatcher) (*Orders, error) {
	path, err := accountResource(session, "orders")
	if err != nil {
		return nil, err
	}
	accessor, err := NewCollectionAccessor(ctx, getFetch(d, path, nil), "orders.order", "id")
	if err != nil {
		return nil, err
	}
	return &Orders{accessor: accessor, session: session, d: d}, nil
}

func (o *Orders) Accessor() *Accessor {
	return o.accessor
}

func (o *Orders) Symbol(ctx context.Context, opts ...AccessOption) (map[string]string, error) {
	return o.accessor.GetEachString(ctx, "symbol", opts...)
}

func (o *Orders) Side(ctx context.Context, opts ...AccessOption) (map[string]string, error) {
	return o.accessor.GetEachString(ctx, "side", opts...)
}

// Status returns open, partially_filled, filled, expired, canceled, pending,
// rejected or error for each order.
func (o *Orders) Status(ctx context.Context, opts ...AccessOption) (map[string]string, error) {
	return o.accessor.GetEachString(ctx, "status", opts...)
}

func (o *Orders) Type(ctx context.Context, opts ...AccessOption) (map[string]string, error) {
	return o.accessor.GetEachString(ctx, "type", opts...)
}

func (o *Orders) Duration(ctx context.Context, opts ...AccessOption) (map[string]string, error) {
	return o.accessor.GetEachString(ctx, "duration", opts...)
}

func (o *Orders) Quantity(ctx context.Context, opts ...AccessOption) (map[string]decimal.Decimal, error) {
	return o.accessor.GetEachDecimal(ctx, "quantity", opts...)
}

// Place submits a new order. It does not refresh the order list.
func (o *Orders) Place(ctx context.Context, req OrderRequest) (*OrderReceipt, error) {
	return placeOrder(ctx, o.session, o.d, req)
}

// OrderRequest is the form body of an order submission.
type OrderRequest struct {
	Class        string          `url:"class"`
	Symbol       string          `url:"symbol"`
	OptionSymbol string          `url:"option_symbol,omitempty"`
	Side         string          `url:"side"`
	Quantity     decimal.Decimal `url:"quantity"`
	Type         string          `url:"type"`
	Duration     string          `url:"duration"`
	Price        decimal.Decimal `url:"price,omitempty"`
	Stop         decimal.Decimal `url:"stop,omitempty"`
	Tag          string          `url:"tag,omitempty"`
}

// OrderReceipt is the API acknowledgement of a submitted order.
type OrderReceipt struct {
	ID     string
	Status string
}

var (
	orderSides = map[string][]string{
		"equity": {"buy", "buy_to_cover", "sell", "sell_short"},
		"option": {"buy_to_open", "buy_to_close", "sell_to_open", "sell_to_close"},
	}
	orderTypes     = []string{"market", "limit", "stop", "stop_limit"}
	orderDurations = []string{"day", "gtc", "pre", "post"}
)

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Validate normalizes the request and rejects what the API would reject.
// An empty duration defaults to day.
func (r *OrderRequest) Validate() error {
	r.Class = strings.ToLower(strings.TrimSpace(r.Class))
	r.Side = strings.ToLower(strings.TrimSpace(r.Side))
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.Duration = strings.ToLower(strings.TrimSpace(r.Duration))
	r.Symbol = strings.ToUpper(strings.TrimSpace(r.Symbol))
	if r.Duration == "" {
		r.Duration = "day"
	}

	sides, ok := orderSides[r.Class]
	if !ok {
		return &trade_exceptions.ValidationError{Field: "class", Message: "must be one of equity, option"}
	}
	if r.Symbol == "" {
		return &trade_exceptions.ValidationError{Field: "symbol", Message: "is required"}
	}
	if r.Class == "option" && r.OptionSymbol == "" {
		return &trade_exceptions.ValidationError{Field: "option_symbol", Message: "is required for option orders"}
	}
	if !contains(sides, r.Side) {
		return &trade_exceptions.ValidationError{Field: "side", Message: "must be one of " + strings.Join(sides, ", ")}
	}
	if !r.Quantity.IsPositive() {
		return &trade_exceptions.ValidationError{Field: "quantity", Message: "must be positive"}
	}
	if !contains(orderTypes, r.Type) {
		return &trade_exceptions.ValidationError{Field: "type", Message: "must be one of " + strings.Join(orderTypes, ", ")}
	}
	if !contains(orderDurations, r.Duration) {
		return &trade_exceptions.ValidationError{Field: "duration", Message: "must be one of " + strings.Join(orderDurations, ", ")}
	}
	if (r.Type == "limit" || r.Type == "stop_limit") && !r.Price.IsPositive() {
		return &trade_exceptions.ValidationError{Field: "price", Message: "is required for " + r.Type + " orders"}
	}
	if (r.Type == "stop" || r.Type == "stop_limit") && !r.Stop.IsPositive() {
		return &trade_exceptions.ValidationError{Field: "stop", Message: "is required for " + r.Type + " orders"}
	}
	return nil
}

// placeOrder validates the tier and the request before anything is sent.
// POST accounts/{account_id}/orders
func placeOrder(ctx context.Context, session *Session, d Dispatcher, req OrderRequest) (*OrderReceipt, error) {
	path, err := accountResource(session, "orders")
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	payload, err := paramsToQueryValues(req)
	if err != nil {
		return nil, err
	}

	doc, err := d.Fetch(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	order, ok := doc["order"].(map[string]interface{})
	if !ok {
		return nil, &trade_exceptions.KeyNotFoundError{Key: "order", Path: ""}
	}
	receipt := &OrderReceipt{}
	if receipt.ID, err = requiredString(order, "order", "id"); err != nil {
		return nil, err
	}
	if receipt.Status, err = requiredString(order, "order", "status"); err != nil {
		return nil, err
	}
	return receipt, nil
}

func requiredString(obj map[string]interface{}, path, key string) (string, error) {
	v, err := lookupAttribute(obj, path, key, "")
	if err != nil {
		return "", err
	}
	return toString(key, v)
}
