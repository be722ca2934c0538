package tradier_api

import "context"

// Profile is the user profile bound to the token.
// GET user/profile
type Profile struct {
	accessor *Accessor
}

func newProfile(ctx context.Context, session *Session, d Dispatcher) (*Profile, error) {
	if err := session.RequireBrokerage("profile"); err != nil {
		return nil, err
	}
	accessor, err := NewAccessor(ctx, getFetch(d, PathProfile, nil), "profile")
	if err != nil {
		return nil, err
	}
	return &Profile{accessor: accessor}, nil
}

func (p *Profile) ID(ctx context.Context, opts ...AccessOption) (string, error) {
	return p.accessor.GetString(ctx, "id", opts...)
}

func (p *Profile) Name(ctx context.Context, opts ...AccessOption) (string, error) {
	return p.accessor.GetString(ctx, "name", opts...)
}
