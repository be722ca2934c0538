package message_helper

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gotradier/go_src/database"
	"gotradier/go_src/trade_exceptions"

	"github.com/shopspring/decimal"
)

func sampleSnapshot(equity string, takenAt time.Time) *database.BalanceSnapshot {
	return &database.BalanceSnapshot{
		ID:                 "snap-1",
		AccountID:          "VA000001",
		AccountType:        "margin",
		TotalEquity:        decimal.RequireFromString(equity),
		TotalCash:          decimal.RequireFromString("1000.5"),
		CashAvailable:      decimal.RequireFromString("900"),
		MarketValue:        decimal.RequireFromString("500.25"),
		OpenPL:             decimal.RequireFromString("12.3"),
		ClosePL:            decimal.RequireFromString("-4"),
		PendingOrdersCount: 2,
		TakenAt:            takenAt,
	}
}

func TestNewSummaryComposer_Timezone(t *testing.T) {
	if loc := NewSummaryComposer("").Location(); loc != time.UTC {
		t.Errorf("Expected UTC for empty timezone, got %v", loc)
	}
	if loc := NewSummaryComposer("Not/AZone").Location(); loc != time.UTC {
		t.Errorf("Expected UTC fallback for invalid timezone, got %v", loc)
	}
	if loc := NewSummaryComposer("America/New_York").Location(); loc.String() != "America/New_York" {
		t.Errorf("Expected America/New_York, got %v", loc)
	}
}

func TestSummaryComposer_Sections(t *testing.T) {
	c := NewSummaryComposer("UTC")
	c.AddSection("first", "a", "b")
	c.AddSection("second")

	expected := "--- FIRST ---\na\nb\n\n--- SECOND ---"
	if c.String() != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, c.String())
	}
}

func TestSummaryComposer_AddBalanceSnapshot(t *testing.T) {
	takenAt := time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)
	c := NewSummaryComposer("UTC")
	c.AddBalanceSnapshot(sampleSnapshot("17798.36", takenAt))
	out := c.String()

	for _, want := range []string{
		"--- BALANCE VA000001 ---",
		"Taken at      : 2024-03-01 15:30:00 UTC",
		"Total Equity  : 17798.36",
		"Total Cash    : 1000.50",
		"Open P&L      : +12.30",
		"Closed P&L    : -4.00",
		"Pending Orders: 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}

	empty := NewSummaryComposer("UTC")
	empty.AddBalanceSnapshot(nil)
	if !strings.Contains(empty.String(), "No balance snapshot available.") {
		t.Errorf("Unexpected output for nil snapshot: %s", empty.String())
	}
}

func TestSummaryComposer_AddSnapshotChange(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	prev := sampleSnapshot("1000", t0)
	cur := sampleSnapshot("1100", t0.Add(90*time.Second))

	c := NewSummaryComposer("UTC")
	c.AddSnapshotChange(prev, cur)
	out := c.String()
	if !strings.Contains(out, "Total Equity: 1000.00 -> 1100.00 (+100.00, +10.00%)") {
		t.Errorf("Unexpected equity change line:\n%s", out)
	}
	if !strings.Contains(out, "Elapsed     : 1m30s") {
		t.Errorf("Unexpected elapsed line:\n%s", out)
	}

	missing := NewSummaryComposer("UTC")
	missing.AddSnapshotChange(nil, cur)
	if !strings.Contains(missing.String(), "Not enough history") {
		t.Errorf("Unexpected output for missing history: %s", missing.String())
	}
}

func TestSummaryComposer_AddError(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want string
	}{
		{"Auth", &trade_exceptions.AuthError{StatusCode: 401, URL: "u"}, "Type: AuthError"},
		{"Api", fmt.Errorf("wrapped: %w", &trade_exceptions.ApiError{StatusCode: 500, Status: "500", URL: "https://x/v1/markets/clock"}), "URL: https://x/v1/markets/clock"},
		{"Network", &trade_exceptions.NetworkError{Method: "GET", URL: "u", Err: fmt.Errorf("refused")}, "Request: GET u"},
		{"Config", &trade_exceptions.ConfigurationError{Message: "bad", Key: "endpoint"}, "Key: endpoint"},
		{"KeyNotFound", &trade_exceptions.KeyNotFoundError{Key: "equity", Path: "balances"}, "Missing: balances.equity"},
		{"Schema", &trade_exceptions.SchemaError{Key: "equity", Want: "number", Got: "x"}, "Type: SchemaError"},
		{"Validation", &trade_exceptions.ValidationError{Field: "side", Message: "bad"}, "Field: side"},
		{"Generic", fmt.Errorf("boom"), "Type: Generic/Unknown"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewSummaryComposer("UTC")
			c.AddError("balance", tc.err)
			out := c.String()
			if !strings.Contains(out, "Context: balance") || !strings.Contains(out, tc.want) {
				t.Errorf("Output missing %q:\n%s", tc.want, out)
			}
		})
	}

	c := NewSummaryComposer("UTC")
	c.AddError("nothing", nil)
	if c.String() != "" {
		t.Errorf("Expected no section for nil error, got %q", c.String())
	}
}
