package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gotradier/go_src/configuration"
	"gotradier/go_src/database"
	"gotradier/go_src/message_helper"
	"gotradier/go_src/scheduler"
	"gotradier/go_src/tradier_api"

	"github.com/spf13/cobra"
)

// secretKeys are masked by "config get".
var secretKeys = map[string]bool{
	"tradier.token":             true,
	"rabbitmq.password":         true,
	"notify.telegram_bot_token": true,
}

func newBalanceCmd(opts *rootOptions) *cobra.Command {
	var save bool
	c := &cobra.Command{
		Use:   "balance",
		Short: "Show the account balance",
		Long:  "Fetch the account balance once and print it. With --save the snapshot is stored and compared with the previous one.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.bootstrap()
			if err != nil {
				return err
			}
			defer s.Close()

			snap, err := scheduler.TakeSnapshot(cmd.Context(), s.client, s.cfg.Tradier.AccountID)
			if err != nil {
				return report(cmd, "balance", err)
			}
			composer := message_helper.NewSummaryComposer(s.cfg.Watcher.Timezone)
			composer.AddBalanceSnapshot(snap)

			if save {
				previous, err := saveSnapshot(s.cfg, snap)
				if err != nil {
					return report(cmd, "balance --save", err)
				}
				composer.AddSnapshotChange(previous, snap)
			}
			fmt.Fprintln(cmd.OutOrStdout(), composer.String())
			return nil
		},
	}
	c.Flags().BoolVar(&save, "save", false, "store the snapshot in the database")
	return c
}

// saveSnapshot stores snap and returns the latest snapshot stored before it,
// nil when there is none.
func saveSnapshot(cfg *configuration.Config, snap *database.BalanceSnapshot) (*database.BalanceSnapshot, error) {
	store, closeDB, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer closeDB()

	previous, err := store.Latest(snap.AccountID)
	if err != nil && !errors.Is(err, database.ErrSnapshotNotFound) {
		return nil, err
	}
	if err := store.Save(snap); err != nil {
		return nil, err
	}
	return previous, nil
}

func openStore(cfg *configuration.Config) (*database.SnapshotStore, func(), error) {
	tdb, err := database.NewTradingDB(cfg, false)
	if err != nil {
		return nil, nil, err
	}
	store := database.NewSnapshotStore(tdb)
	if err := store.CreateSchema(); err != nil {
		tdb.Close()
		return nil, nil, err
	}
	return store, func() { tdb.Close() }, nil
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int
	c := &cobra.Command{
		Use:   "history",
		Short: "Show stored balance snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.bootstrap()
			if err != nil {
				return err
			}
			defer s.Close()

			store, closeDB, err := openStore(s.cfg)
			if err != nil {
				return report(cmd, "history", err)
			}
			defer closeDB()

			snapshots, err := store.List(s.cfg.Tradier.AccountID, limit)
			if err != nil {
				return report(cmd, "history", err)
			}
			loc := message_helper.NewSummaryComposer(s.cfg.Watcher.Timezone).Location()
			fmt.Fprintln(cmd.OutOrStdout(), message_helper.FormatSnapshotHistory(snapshots, loc))
			return nil
		},
	}
	c.Flags().IntVarP(&limit, "limit", "n", 20, "number of snapshots to show, 0 for all")
	return c
}

func newLookupCmd(opts *rootOptions) *cobra.Command {
	var query tradier_api.LookupQuery
	c := &cobra.Command{
		Use:   "lookup [symbol]",
		Short: "Search securities by full or partial symbol",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				query.Symbol = args[0]
			}
			s, err := opts.bootstrap()
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			lookup, err := s.client.Lookup(ctx, query)
			if err != nil {
				return report(cmd, "lookup", err)
			}
			cached := tradier_api.WithoutUpdate()
			exchanges, err := lookup.Exchange(ctx, cached)
			if err != nil {
				return report(cmd, "lookup", err)
			}
			types, err := lookup.Type(ctx, cached)
			if err != nil {
				return report(cmd, "lookup", err)
			}
			descs, err := lookup.Desc(ctx, cached)
			if err != nil {
				return report(cmd, "lookup", err)
			}

			rows := make([]message_helper.LookupRow, 0, len(exchanges))
			for symbol, exchange := range exchanges {
				rows = append(rows, message_helper.LookupRow{
					Symbol:      symbol,
					Exchange:    exchange,
					Type:        types[symbol],
					Description: descs[symbol],
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), message_helper.FormatLookup(rows))
			return nil
		},
	}
	c.Flags().StringVar(&query.Type, "type", "", "security types, comma separated (stock, etf, index, option)")
	c.Flags().StringVar(&query.Exchange, "exchange", "", "exchange codes, comma separated")
	return c
}

func newQuoteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "quote SYMBOL [SYMBOL...]",
		Short: "Show quotes for one or more symbols",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.bootstrap()
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			quotes, err := s.client.Quotes(ctx, splitList(args)...)
			if err != nil {
				return report(cmd, "quote", err)
			}
			rows, err := quoteRows(cmd, quotes)
			if err != nil {
				return report(cmd, "quote", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), message_helper.FormatQuotes(rows))
			return nil
		},
	}
}

func quoteRows(cmd *cobra.Command, quotes *tradier_api.Quotes) ([]message_helper.QuoteRow, error) {
	ctx := cmd.Context()
	cached := tradier_api.WithoutUpdate()
	last, err := quotes.Last(ctx, cached)
	if err != nil {
		return nil, err
	}
	bid, err := quotes.Bid(ctx, cached)
	if err != nil {
		return nil, err
	}
	ask, err := quotes.Ask(ctx, cached)
	if err != nil {
		return nil, err
	}
	change, err := quotes.Change(ctx, cached)
	if err != nil {
		return nil, err
	}
	volume, err := quotes.Volume(ctx, cached)
	if err != nil {
		return nil, err
	}
	desc, err := quotes.Description(ctx, cached)
	if err != nil {
		return nil, err
	}

	rows := make([]message_helper.QuoteRow, 0, len(last))
	for symbol, price := range last {
		rows = append(rows, message_helper.QuoteRow{
			Symbol:      symbol,
			Description: desc[symbol],
			Last:        price,
			Bid:         bid[symbol],
			Ask:         ask[symbol],
			Change:      change[symbol],
			Volume:      volume[symbol],
		})
	}
	return rows, nil
}

func newClockCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clock",
		Short: "Show the market clock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.bootstrap()
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			clock, err := s.client.Clock(ctx)
			if err != nil {
				return report(cmd, "clock", err)
			}
			cached := tradier_api.WithoutUpdate()
			fields := make([]string, 4)
			for i, read := range []func(ctx context.Context, opts ...tradier_api.AccessOption) (string, error){
				clock.State, clock.Description, clock.NextState, clock.NextChange,
			} {
				if fields[i], err = read(ctx, cached); err != nil {
					return report(cmd, "clock", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), message_helper.FormatClock(fields[0], fields[1], fields[2], fields[3]))
			return nil
		},
	}
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	c.AddCommand(&cobra.Command{
		Use:   "get KEY",
		Short: "Print a configuration value by dot-separated key, e.g. watcher.interval_seconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			key := args[0]
			value, err := cfg.GetConfigValue(key)
			if err != nil {
				return err
			}
			if secretKeys[strings.ToLower(key)] {
				if str, ok := value.(string); ok && str != "" {
					value = "********"
				}
			}
			switch value.(type) {
			case string, bool, int:
				fmt.Fprintln(cmd.OutOrStdout(), value)
			default:
				out, err := json.MarshalIndent(value, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode value for %s: %w", key, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			}
			return nil
		},
	})
	return c
}
