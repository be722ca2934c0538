package main

import (
	"fmt"
	stdlog "log" // Standard log for initial bootstrap
	"strings"

	"gotradier/go_src/configuration"
	"gotradier/go_src/logging_helper"
	"gotradier/go_src/message_helper"
	"gotradier/go_src/tradier_api"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultEnvFile = ".env"

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	envFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	c := &cobra.Command{
		Use:           appName,
		Short:         "Query a Tradier brokerage account from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	c.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to the JSON config file (default $"+configuration.ConfigPathEnv+" or "+configuration.DefaultConfigPath+")")
	c.PersistentFlags().StringVar(&opts.envFile, "env-file", defaultEnvFile, "dotenv file with TRADIER_* credentials, ignored when missing")

	c.AddCommand(newBalanceCmd(opts))
	c.AddCommand(newHistoryCmd(opts))
	c.AddCommand(newLookupCmd(opts))
	c.AddCommand(newQuoteCmd(opts))
	c.AddCommand(newClockCmd(opts))
	c.AddCommand(newConfigCmd(opts))
	return c
}

// loadConfig reads the config file and applies environment overrides.
func (o *rootOptions) loadConfig() (*configuration.Config, error) {
	path := o.configPath
	if path == "" {
		path = configuration.ConfigPath()
	}
	cfg, err := configuration.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from %s: %w", path, err)
	}
	if err := cfg.ApplyEnvOverrides(o.envFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is what a command needs to talk to the API.
type session struct {
	cfg    *configuration.Config
	client *tradier_api.Tradier
	logs   *lumberjack.Logger
}

func (s *session) Close() {
	if s.logs != nil {
		s.logs.Close()
	}
}

// bootstrap loads and validates the configuration, sets up logging and
// builds the API client.
func (o *rootOptions) bootstrap() (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logs, err := logging_helper.SetupLogging(cfg, appName)
	if err != nil {
		stdlog.Printf("Failed to setup logging: %v", err)
		return nil, err
	}

	clientOpts := []tradier_api.Option{tradier_api.WithTimeout(cfg.Tradier.Timeout())}
	if cfg.Tradier.BaseURL != "" {
		clientOpts = append(clientOpts, tradier_api.WithBaseURL(cfg.Tradier.BaseURL))
	}
	client, err := tradier_api.Configure(cfg.Tradier.Token, cfg.Tradier.AccountID, cfg.Tradier.Endpoint, clientOpts...)
	if err != nil {
		logs.Close()
		return nil, err
	}
	logrus.Debugf("Client configured for %s", client.Session().Endpoint())
	return &session{cfg: cfg, client: client, logs: logs}, nil
}

// report prints the composed error sections and returns err unchanged so
// cobra sets the exit status.
func report(cmd *cobra.Command, context string, err error) error {
	composer := message_helper.NewSummaryComposer("")
	composer.AddError(context, err)
	fmt.Fprintln(cmd.ErrOrStderr(), composer.String())
	logrus.Errorf("%s: %v", context, err)
	return err
}

func splitList(args []string) []string {
	var out []string
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
