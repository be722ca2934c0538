package tradier_api

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Option customizes a Tradier client at construction.
type Option func(*options)

type options struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	dispatcher Dispatcher
}

// WithHTTPClient uses httpClient for every request.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) { o.httpClient = httpClient }
}

// WithBaseURL sends requests to baseURL instead of the endpoint's URL.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithTimeout sets the HTTP client timeout. Zero keeps the default of 10s.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) { o.timeout = timeout }
}

// WithDispatcher bypasses the HTTP client entirely. Mostly for tests.
func WithDispatcher(d Dispatcher) Option {
	return func(o *options) { o.dispatcher = d }
}

// Tradier is the entry point of the library. Each factory method builds a new
// resource wrapper and fetches it; wrappers are never cached.
type Tradier struct {
	session    *Session
	dispatcher Dispatcher
}

// Configure validates the credentials and endpoint name ("sandbox" when
// empty, or "brokerage") and returns a ready client.
func Configure(token, accountID, endpoint string, opts ...Option) (*Tradier, error) {
	session, err := NewSession(token, accountID, endpoint)
	if err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	dispatcher := o.dispatcher
	if dispatcher == nil {
		client, err := NewClient(session, o.timeout)
		if err != nil {
			return nil, err
		}
		client.SetHTTPClient(o.httpClient)
		if o.baseURL != "" {
			client.SetAPIBaseURL(o.baseURL)
		}
		dispatcher = client
	}

	logrus.Debugf("Tradier client configured for endpoint '%s' (account set: %t)", session.Endpoint(), session.AccountID() != "")
	return &Tradier{session: session, dispatcher: dispatcher}, nil
}

func (t *Tradier) Session() *Session {
	return t.session
}

// Balance requires the brokerage endpoint and an account id.
func (t *Tradier) Balance(ctx context.Context) (*Balance, error) {
	return newBalance(ctx, t.session, t.dispatcher)
}

// Positions requires the brokerage endpoint and an account id.
func (t *Tradier) Positions(ctx context.Context) (*Positions, error) {
	return newPositions(ctx, t.session, t.dispatcher)
}

// Orders requires the brokerage endpoint and an account id.
func (t *Tradier) Orders(ctx context.Context) (*Orders, error) {
	return newOrders(ctx, t.session, t.dispatcher)
}

// PlaceOrder submits an order without listing the existing ones first.
func (t *Tradier) PlaceOrder(ctx context.Context, req OrderRequest) (*OrderReceipt, error) {
	return placeOrder(ctx, t.session, t.dispatcher, req)
}

func (t *Tradier) Profile(ctx context.Context) (*Profile, error) {
	return newProfile(ctx, t.session, t.dispatcher)
}

func (t *Tradier) Lookup(ctx context.Context, query LookupQuery) (*Lookup, error) {
	return newLookup(ctx, t.dispatcher, query)
}

func (t *Tradier) Quotes(ctx context.Context, symbols ...string) (*Quotes, error) {
	return newQuotes(ctx, t.dispatcher, symbols)
}

func (t *Tradier) Clock(ctx context.Context) (*Clock, error) {
	return newClock(ctx, t.dispatcher)
}
