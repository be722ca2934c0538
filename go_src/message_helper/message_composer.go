package message_helper

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gotradier/go_src/database"
	"gotradier/go_src/trade_exceptions"

	"github.com/sirupsen/logrus"
)

const (
	defaultTimezone = "UTC"
	timestampFormat = "2006-01-02 15:04:05 MST" // For output
)

// SummaryComposer builds a multi-section plain-text report, rendering
// timestamps in one timezone.
type SummaryComposer struct {
	sections []string
	timezone *time.Location
}

// NewSummaryComposer creates a composer for timezoneStr (IANA name). An
// empty or unknown zone falls back to UTC.
func NewSummaryComposer(timezoneStr string) *SummaryComposer {
	loc := time.UTC
	if timezoneStr != "" && timezoneStr != defaultTimezone {
		l, err := time.LoadLocation(timezoneStr)
		if err != nil {
			logrus.Warnf("Failed to load timezone '%s', falling back to %s: %v", timezoneStr, defaultTimezone, err)
		} else {
			loc = l
		}
	}
	return &SummaryComposer{timezone: loc}
}

// Location returns the timezone timestamps are rendered in.
func (c *SummaryComposer) Location() *time.Location {
	return c.timezone
}

func (c *SummaryComposer) formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "N/A"
	}
	return ts.In(c.timezone).Format(timestampFormat)
}

// AddSection appends a titled block. Empty lines are kept.
func (c *SummaryComposer) AddSection(title string, lines ...string) {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("--- %s ---", strings.ToUpper(title)))
	for _, line := range lines {
		builder.WriteString("\n")
		builder.WriteString(line)
	}
	c.sections = append(c.sections, builder.String())
}

// AddBalanceSnapshot appends the snapshot fields.
func (c *SummaryComposer) AddBalanceSnapshot(snap *database.BalanceSnapshot) {
	if snap == nil {
		c.AddSection("Balance", "No balance snapshot available.")
		return
	}
	c.AddSection(fmt.Sprintf("Balance %s", snap.AccountID), balanceLines(snap, c.formatTimestamp(snap.TakenAt))...)
}

// AddSnapshotChange appends the equity and cash movement between two
// snapshots of the same account.
func (c *SummaryComposer) AddSnapshotChange(previous, current *database.BalanceSnapshot) {
	if previous == nil || current == nil {
		c.AddSection("Change", "Not enough history to compare.")
		return
	}
	c.AddSection("Change",
		fmt.Sprintf("Since       : %s", c.formatTimestamp(previous.TakenAt)),
		fmt.Sprintf("Elapsed     : %s", current.TakenAt.Sub(previous.TakenAt).Round(time.Second)),
		fmt.Sprintf("Total Equity: %s", FormatChange(previous.TotalEquity, current.TotalEquity)),
		fmt.Sprintf("Total Cash  : %s", FormatChange(previous.TotalCash, current.TotalCash)),
		fmt.Sprintf("Market Value: %s", FormatChange(previous.MarketValue, current.MarketValue)),
	)
}

// AddError appends err with the details its type carries.
func (c *SummaryComposer) AddError(context string, err error) {
	if err == nil {
		return
	}
	lines := []string{fmt.Sprintf("Context: %s", context), fmt.Sprintf("Error: %s", err.Error())}

	var (
		authErr   *trade_exceptions.AuthError
		apiErr    *trade_exceptions.ApiError
		netErr    *trade_exceptions.NetworkError
		cfgErr    *trade_exceptions.ConfigurationError
		keyErr    *trade_exceptions.KeyNotFoundError
		schemaErr *trade_exceptions.SchemaError
		valErr    *trade_exceptions.ValidationError
	)
	switch {
	case errors.As(err, &authErr):
		lines = append(lines, "Type: AuthError", fmt.Sprintf("Status Code: %d", authErr.StatusCode), "Check the API token and the endpoint it was issued for.")
	case errors.As(err, &apiErr):
		lines = append(lines, "Type: ApiError", fmt.Sprintf("Status Code: %d", apiErr.StatusCode), fmt.Sprintf("URL: %s", apiErr.URL))
	case errors.As(err, &netErr):
		lines = append(lines, "Type: NetworkError", fmt.Sprintf("Request: %s %s", netErr.Method, netErr.URL))
	case errors.As(err, &cfgErr):
		lines = append(lines, "Type: ConfigurationError")
		if cfgErr.Key != "" {
			lines = append(lines, fmt.Sprintf("Key: %s", cfgErr.Key))
		}
	case errors.As(err, &keyErr):
		lines = append(lines, "Type: KeyNotFoundError", fmt.Sprintf("Missing: %s.%s", keyErr.Path, keyErr.Key))
	case errors.As(err, &schemaErr):
		lines = append(lines, "Type: SchemaError", fmt.Sprintf("Key: %s", schemaErr.Key))
	case errors.As(err, &valErr):
		lines = append(lines, "Type: ValidationError", fmt.Sprintf("Field: %s", valErr.Field))
	default:
		lines = append(lines, "Type: Generic/Unknown")
	}
	c.AddSection("Error", lines...)
}

// String joins all sections with blank lines.
func (c *SummaryComposer) String() string {
	return strings.Join(c.sections, "\n\n")
}
