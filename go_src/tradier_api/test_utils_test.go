package tradier_api

// This file contains common helper utilities for tests in the tradier_api package.

import (
	"context"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
)

type recordedRequest struct {
	Method  string
	Path    string
	Payload url.Values
}

// mockDispatcher returns docs in order, repeating the last one, and records
// every call.
type mockDispatcher struct {
	docs     []Document
	err      error
	requests []recordedRequest
}

func (m *mockDispatcher) Fetch(ctx context.Context, method, path string, payload url.Values) (Document, error) {
	m.requests = append(m.requests, recordedRequest{Method: method, Path: path, Payload: payload})
	if m.err != nil {
		return nil, m.err
	}
	if len(m.docs) == 0 {
		return Document{}, nil
	}
	i := len(m.requests) - 1
	if i >= len(m.docs) {
		i = len(m.docs) - 1
	}
	return m.docs[i], nil
}

func (m *mockDispatcher) calls() int {
	return len(m.requests)
}

func mustDoc(t *testing.T, body string) Document {
	t.Helper()
	doc, err := decodeDocument([]byte(body))
	if err != nil {
		t.Fatalf("Failed to decode test document: %v", err)
	}
	return doc
}

func newMockTradier(t *testing.T, endpoint string, docs ...Document) (*Tradier, *mockDispatcher) {
	t.Helper()
	mock := &mockDispatcher{docs: docs}
	client, err := Configure("test-token", "VA000001", endpoint, WithDispatcher(mock))
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	return client, mock
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
