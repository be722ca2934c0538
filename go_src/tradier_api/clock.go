package tradier_api

import "context"

// Clock is the market clock: the current state of the market and when it
// changes next.
// GET markets/clock
type Clock struct {
	accessor *Accessor
}

func newClock(ctx context.Context, d Dispatcher) (*Clock, error) {
	accessor, err := NewAccessor(ctx, getFetch(d, PathClock, nil), "clock")
	if err != nil {
		return nil, err
	}
	return &Clock{accessor: accessor}, nil
}

func (c *Clock) Date(ctx context.Context, opts ...AccessOption) (string, error) {
	return c.accessor.GetString(ctx, "date", opts...)
}

// State returns premarket, open, postmarket or closed.
func (c *Clock) State(ctx context.Context, opts ...AccessOption) (string, error) {
	return c.accessor.GetString(ctx, "state", opts...)
}

func (c *Clock) Description(ctx context.Context, opts ...AccessOption) (string, error) {
	return c.accessor.GetString(ctx, "description", opts...)
}

// NextChange returns the time of the next state change, as HH:MM.
func (c *Clock) NextChange(ctx context.Context, opts ...AccessOption) (string, error) {
	return c.accessor.GetString(ctx, "next_change", opts...)
}

func (c *Clock) NextState(ctx context.Context, opts ...AccessOption) (string, error) {
	return c.accessor.GetString(ctx, "next_state", opts...)
}

// Timestamp returns the server time in epoch seconds.
func (c *Clock) Timestamp(ctx context.Context, opts ...AccessOption) (int64, error) {
	return c.accessor.GetInt(ctx, "timestamp", opts...)
}
