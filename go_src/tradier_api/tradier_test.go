package tradier_api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gotradier/go_src/trade_exceptions"
)

func TestConfigure(t *testing.T) {
	t.Run("UnknownEndpoint", func(t *testing.T) {
		client, err := Configure("tok", "VA000001", "production")
		var cfgErr *trade_exceptions.ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("Expected ConfigurationError, got %T: %v", err, err)
		}
		if client != nil {
			t.Error("No client should be returned on configuration failure")
		}
	})

	t.Run("EmptyToken", func(t *testing.T) {
		if _, err := Configure("", "VA000001", "sandbox"); err == nil {
			t.Error("Expected error for empty token")
		}
	})

	t.Run("DefaultsToSandbox", func(t *testing.T) {
		client, err := Configure("tok", "", "")
		if err != nil {
			t.Fatalf("Configure failed: %v", err)
		}
		if client.Session().Endpoint() != EndpointSandbox {
			t.Errorf("Expected sandbox, got %s", client.Session().Endpoint())
		}
		if _, ok := client.dispatcher.(*Client); !ok {
			t.Errorf("Expected *Client dispatcher, got %T", client.dispatcher)
		}
	})
}

func TestTradier_EndToEnd(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/accounts/VA000001/balances":
			fmt.Fprint(w, `{"balances": {"account_number": "VA000001", "total_equity": 17798.36, "cash": {"cash_available": 4343.38}}}`)
		case "/v1/markets/lookup":
			if r.URL.Query().Get("q") != "goog" {
				t.Errorf("Unexpected lookup query %s", r.URL.RawQuery)
			}
			fmt.Fprint(w, `{"securities": {"security": {"symbol": "GOOG", "exchange": "Q", "type": "stock", "description": "Alphabet Inc"}}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client, err := Configure("tok", "VA000001", "brokerage", WithBaseURL(server.URL+"/v1/"), WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	ctx := context.Background()

	balance, err := client.Balance(ctx)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	total, err := balance.TotalEquity(ctx, WithoutUpdate())
	if err != nil || !total.Equal(dec("17798.36")) {
		t.Errorf("TotalEquity: got %s (%v)", total, err)
	}
	cash, err := balance.CashAvailable(ctx)
	if err != nil || !cash.Equal(dec("4343.38")) {
		t.Errorf("CashAvailable: got %s (%v)", cash, err)
	}

	lookup, err := client.Lookup(ctx, LookupQuery{Symbol: "goog"})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	desc, err := lookup.Desc(ctx, WithoutUpdate())
	if err != nil || desc["GOOG"] != "Alphabet Inc" {
		t.Errorf("Desc: got %v (%v)", desc, err)
	}

	if len(paths) != 3 {
		t.Errorf("Expected 3 requests, got %d: %v", len(paths), paths)
	}

	_, err = client.Clock(ctx)
	var apiErr *trade_exceptions.ApiError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected ApiError 404 for unknown path, got %T: %v", err, err)
	}
}
