package tradier_api

import (
	"strings"

	"gotradier/go_src/trade_exceptions"
)

// Endpoint is an API tier. Sandbox is the free test API and carries no
// account data; Brokerage is the full, account-scoped API.
type Endpoint string

const (
	EndpointSandbox   Endpoint = "sandbox"
	EndpointBrokerage Endpoint = "brokerage"
)

var apiEndpoints = map[Endpoint]string{
	EndpointSandbox:   "https://sandbox.tradier.com/v1/",
	EndpointBrokerage: "https://api.tradier.com/v1/",
}

// Path fragments, relative to the endpoint base URL.
const (
	PathAccount = "accounts/"
	PathLookup  = "markets/lookup"
	PathQuotes  = "markets/quotes"
	PathClock   = "markets/clock"
	PathProfile = "user/profile"
)

// ParseEndpoint resolves an endpoint name. An empty name selects the sandbox.
func ParseEndpoint(name string) (Endpoint, error) {
	if strings.TrimSpace(name) == "" {
		return EndpointSandbox, nil
	}
	ep := Endpoint(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := apiEndpoints[ep]; !ok {
		return "", &trade_exceptions.ConfigurationError{
			Message: "Given endpoint not supported. Must be 'sandbox' or 'brokerage'",
			Key:     name,
		}
	}
	return ep, nil
}

// BaseURL returns the root URL of the tier, with a trailing slash.
func (e Endpoint) BaseURL() string {
	return apiEndpoints[e]
}

func (e Endpoint) String() string {
	return string(e)
}
