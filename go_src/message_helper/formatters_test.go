package message_helper

import (
	"strings"
	"testing"
	"time"

	"gotradier/go_src/database"

	"github.com/shopspring/decimal"
)

func TestFormatChange(t *testing.T) {
	testCases := []struct {
		from, to, expected string
	}{
		{"100", "110", "100.00 -> 110.00 (+10.00, +10.00%)"},
		{"200", "150", "200.00 -> 150.00 (-50.00, -25.00%)"},
		{"0", "5", "0.00 -> 5.00 (+5.00, N/A)"},
		{"50", "50", "50.00 -> 50.00 (0.00, 0.00%)"},
	}
	for _, tc := range testCases {
		got := FormatChange(decimal.RequireFromString(tc.from), decimal.RequireFromString(tc.to))
		if got != tc.expected {
			t.Errorf("FormatChange(%s, %s): expected %q, got %q", tc.from, tc.to, tc.expected, got)
		}
	}
}

func TestFormatBalanceSnapshot(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	snap := sampleSnapshot("17798.36", time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC))
	out := FormatBalanceSnapshot(snap, ny)
	if !strings.Contains(out, "2024-03-01 10:30:00 EST") {
		t.Errorf("Expected timestamp in New York time:\n%s", out)
	}
	if FormatBalanceSnapshot(nil, nil) != "No balance snapshot available." {
		t.Error("Unexpected output for nil snapshot")
	}
}

func TestFormatSnapshotHistory(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	history := []database.BalanceSnapshot{
		*sampleSnapshot("1100", t0.Add(2*time.Minute)),
		*sampleSnapshot("1000", t0.Add(time.Minute)),
		*sampleSnapshot("1025.5", t0),
	}
	lines := strings.Split(FormatSnapshotHistory(history, nil), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header plus 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "--- HISTORY VA000001 ---" {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if !strings.HasSuffix(lines[1], "change +100.00") {
		t.Errorf("Unexpected newest row: %s", lines[1])
	}
	if !strings.HasSuffix(lines[2], "change -25.50") {
		t.Errorf("Unexpected middle row: %s", lines[2])
	}
	if !strings.HasSuffix(lines[3], "change N/A") {
		t.Errorf("Unexpected oldest row: %s", lines[3])
	}

	if FormatSnapshotHistory(nil, nil) != "No balance history available." {
		t.Error("Unexpected output for empty history")
	}
}

func TestFormatLookup_SortedBySymbol(t *testing.T) {
	rows := []LookupRow{
		{Symbol: "MSFT", Exchange: "Q", Type: "stock", Description: "Microsoft Corp"},
		{Symbol: "AAPL", Exchange: "Q", Type: "stock", Description: "Apple Inc"},
	}
	out := FormatLookup(rows)
	if strings.Index(out, "AAPL") > strings.Index(out, "MSFT") {
		t.Errorf("Expected AAPL before MSFT:\n%s", out)
	}
	if rows[0].Symbol != "MSFT" {
		t.Error("FormatLookup should not reorder the caller's slice")
	}
	if FormatLookup(nil) != "No matching symbols." {
		t.Error("Unexpected output for no rows")
	}
}

func TestFormatQuotes(t *testing.T) {
	rows := []QuoteRow{
		{Symbol: "SPY", Last: decimal.RequireFromString("512.1"), Bid: decimal.RequireFromString("512.09"),
			Ask: decimal.RequireFromString("512.11"), Change: decimal.RequireFromString("-1.5"), Volume: 1200, Description: "SPDR S&P 500"},
		{Symbol: "AAPL", Last: decimal.RequireFromString("170"), Change: decimal.RequireFromString("2"), Volume: 10},
	}
	out := FormatQuotes(rows)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus 2 rows, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[1], "AAPL") || !strings.Contains(lines[1], "chg    +2.00") {
		t.Errorf("Unexpected AAPL row: %s", lines[1])
	}
	if !strings.Contains(lines[2], "last     512.10") || !strings.Contains(lines[2], "vol 1200") {
		t.Errorf("Unexpected SPY row: %s", lines[2])
	}
	if FormatQuotes(nil) != "No quotes available." {
		t.Error("Unexpected output for no quotes")
	}
}

func TestFormatClock(t *testing.T) {
	out := FormatClock("open", "Market is open from 09:30 to 16:00", "postmarket", "16:00")
	expected := "--- MARKET CLOCK ---\nState: open\nMarket is open from 09:30 to 16:00\nNext: postmarket at 16:00"
	if out != expected {
		t.Errorf("Expected %q, got %q", expected, out)
	}
}
