package message_helper

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gotradier/go_src/database"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LookupRow is one symbol search result.
type LookupRow struct {
	Symbol      string
	Exchange    string
	Type        string
	Description string
}

// QuoteRow is one quote line.
type QuoteRow struct {
	Symbol      string
	Description string
	Last        decimal.Decimal
	Bid         decimal.Decimal
	Ask         decimal.Decimal
	Change      decimal.Decimal
	Volume      int64
}

// FormatMoney renders an amount with two decimals.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatChange renders "from -> to (+diff, +pct%)". The percentage is N/A
// when from is zero.
func FormatChange(from, to decimal.Decimal) string {
	diff := to.Sub(from)
	pct := "N/A"
	if !from.IsZero() {
		pct = signed(diff.Div(from.Abs()).Mul(hundred)) + "%"
	}
	return fmt.Sprintf("%s -> %s (%s, %s)", FormatMoney(from), FormatMoney(to), signed(diff), pct)
}

func signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}

func balanceLines(snap *database.BalanceSnapshot, takenAt string) []string {
	return []string{
		fmt.Sprintf("Taken at      : %s", takenAt),
		fmt.Sprintf("Account Type  : %s", snap.AccountType),
		fmt.Sprintf("Total Equity  : %s", FormatMoney(snap.TotalEquity)),
		fmt.Sprintf("Total Cash    : %s", FormatMoney(snap.TotalCash)),
		fmt.Sprintf("Cash Available: %s", FormatMoney(snap.CashAvailable)),
		fmt.Sprintf("Market Value  : %s", FormatMoney(snap.MarketValue)),
		fmt.Sprintf("Open P&L      : %s", signed(snap.OpenPL)),
		fmt.Sprintf("Closed P&L    : %s", signed(snap.ClosePL)),
		fmt.Sprintf("Pending Orders: %d", snap.PendingOrdersCount),
	}
}

// FormatBalanceSnapshot renders one snapshot, timestamps in loc.
func FormatBalanceSnapshot(snap *database.BalanceSnapshot, loc *time.Location) string {
	if snap == nil {
		return "No balance snapshot available."
	}
	if loc == nil {
		loc = time.UTC
	}
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("--- BALANCE %s ---", snap.AccountID))
	for _, line := range balanceLines(snap, snap.TakenAt.In(loc).Format(timestampFormat)) {
		builder.WriteString("\n" + line)
	}
	return builder.String()
}

// FormatSnapshotHistory renders snapshots as given (newest first) with the
// equity change against the next older one.
func FormatSnapshotHistory(snapshots []database.BalanceSnapshot, loc *time.Location) string {
	if len(snapshots) == 0 {
		return "No balance history available."
	}
	if loc == nil {
		loc = time.UTC
	}
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("--- HISTORY %s ---", snapshots[0].AccountID))
	for i, snap := range snapshots {
		change := "N/A"
		if i+1 < len(snapshots) {
			change = signed(snap.TotalEquity.Sub(snapshots[i+1].TotalEquity))
		}
		builder.WriteString(fmt.Sprintf("\n%s  equity %12s  cash %12s  change %s",
			snap.TakenAt.In(loc).Format(timestampFormat), FormatMoney(snap.TotalEquity), FormatMoney(snap.TotalCash), change))
	}
	return builder.String()
}

// FormatLookup renders search results sorted by symbol.
func FormatLookup(rows []LookupRow) string {
	if len(rows) == 0 {
		return "No matching symbols."
	}
	sorted := append([]LookupRow(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Symbol < sorted[j].Symbol })

	var builder strings.Builder
	builder.WriteString("--- LOOKUP ---")
	for _, r := range sorted {
		builder.WriteString(fmt.Sprintf("\n%-8s %-6s %-6s %s", r.Symbol, r.Exchange, r.Type, r.Description))
	}
	return builder.String()
}

// FormatQuotes renders quotes sorted by symbol.
func FormatQuotes(rows []QuoteRow) string {
	if len(rows) == 0 {
		return "No quotes available."
	}
	sorted := append([]QuoteRow(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Symbol < sorted[j].Symbol })

	var builder strings.Builder
	builder.WriteString("--- QUOTES ---")
	for _, q := range sorted {
		builder.WriteString(fmt.Sprintf("\n%-8s last %10s  bid %10s  ask %10s  chg %8s  vol %d  %s",
			q.Symbol, q.Last.StringFixed(2), q.Bid.StringFixed(2), q.Ask.StringFixed(2), signed(q.Change), q.Volume, q.Description))
	}
	return builder.String()
}

// FormatClock renders the market clock.
func FormatClock(state, description, nextState, nextChange string) string {
	return fmt.Sprintf("--- MARKET CLOCK ---\nState: %s\n%s\nNext: %s at %s", state, description, nextState, nextChange)
}
