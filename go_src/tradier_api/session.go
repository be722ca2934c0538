package tradier_api

import (
	"fmt"
	"strings"

	"gotradier/go_src/trade_exceptions"
)

// Session holds the credentials and endpoint of one client. It is built once
// and never mutated; every resource wrapper reads it.
type Session struct {
	token     string
	accountID string
	endpoint  Endpoint
}

// NewSession validates the endpoint name and token. accountID may be empty
// for clients that only use market data.
func NewSession(token, accountID, endpointName string) (*Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, &trade_exceptions.ConfigurationError{Message: "API token is required", Key: "token"}
	}
	ep, err := ParseEndpoint(endpointName)
	if err != nil {
		return nil, err
	}
	return &Session{token: token, accountID: accountID, endpoint: ep}, nil
}

func (s *Session) Token() string      { return s.token }
func (s *Session) AccountID() string  { return s.accountID }
func (s *Session) Endpoint() Endpoint { return s.endpoint }

// RequireBrokerage fails for sandbox sessions. Account paths only exist on
// the full API.
func (s *Session) RequireBrokerage(resource string) error {
	if s.endpoint != EndpointBrokerage {
		return &trade_exceptions.ConfigurationError{
			Message: "Bad Endpoint: account paths require the full API (no sandbox!)",
			Key:     resource,
		}
	}
	return nil
}

// AccountPath returns "accounts/{id}/{suffix}".
func (s *Session) AccountPath(suffix string) (string, error) {
	if s.accountID == "" {
		return "", &trade_exceptions.ConfigurationError{Message: "account id is required for account resources", Key: "account_id"}
	}
	return fmt.Sprintf("%s%s/%s", PathAccount, s.accountID, strings.TrimLeft(suffix, "/")), nil
}
