package tradier_api

import (
	"context"
	"net/http"
	"net/url"
)

// fetchFunc binds a dispatcher call to a RefreshFunc for an Accessor.
func fetchFunc(d Dispatcher, method, path string, payload url.Values) RefreshFunc {
	return func(ctx context.Context) (Document, error) {
		return d.Fetch(ctx, method, path, payload)
	}
}

// accountResource checks the tier and builds an account-scoped path. It runs
// before any network call.
func accountResource(session *Session, resource string) (string, error) {
	if err := session.RequireBrokerage(resource); err != nil {
		return "", err
	}
	return session.AccountPath(resource)
}

func getFetch(d Dispatcher, path string, payload url.Values) RefreshFunc {
	return fetchFunc(d, http.MethodGet, path, payload)
}
