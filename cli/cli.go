package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"gqlcheck/client"
	"gqlcheck/query"
	"gqlcheck/reporter"
	"gqlcheck/schemaval"
	"gqlcheck/toolkit"
)

var rootCommand = &cobra.Command{
	Use:   "gqlcheck",
	Short: "GraphQL API test harness",
	Long:  "Loads .graphql query files, executes them against an authenticated GraphQL endpoint, asserts on the response envelopes, validates them against JSON Schemas, and writes JSON/HTML reports.",
	Run:   func(cmd *cobra.Command, args []string) {},
}

var (
	configPath string
	queryDir   string
	reportDir  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Executes the full query suite and writes the session report",
	Long:  "Loads configuration, runs a health preflight against the endpoint, executes every query file in the queries directory, applies the suite's assertion policy and schema validation, and persists report.json plus report.html.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := toolkit.LoadConfig(configPath)
		if err != nil {
			log.Printf("cli.run: configuration invalid error=%v", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		if queryDir != "" {
			cfg.QueryDir = queryDir
		}
		if reportDir != "" {
			cfg.ReportDir = reportDir
		}

		rep, err := runSession(cfg)
		if err != nil {
			log.Printf("cli.run: session aborted error=%v", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if rep.Summary.Failed > 0 {
			log.Printf("cli.run: completed with failures failed=%d", rep.Summary.Failed)
			os.Exit(1)
		}
		log.Printf("cli.run: completed total=%d", rep.Summary.Total)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validates every query file offline, without any network call",
	Run: func(cmd *cobra.Command, args []string) {
		dir := queryDir
		if dir == "" {
			dir = "graphql_queries"
		}
		loader := query.NewLoader(dir)
		names, err := loader.List()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		bad := 0
		for _, name := range names {
			text, err := loader.Load(name)
			if err == nil {
				err = query.Validate(name, text)
			}
			if err != nil {
				bad++
				fmt.Fprintf(os.Stderr, "invalid: %v\n", err)
				continue
			}
			fmt.Printf("ok: %s\n", name)
		}
		if bad > 0 {
			os.Exit(1)
		}
	},
}

func runSession(cfg toolkit.Config) (toolkit.Report, error) {
	tokens, err := buildTokenProvider(cfg)
	if err != nil {
		return toolkit.Report{}, err
	}

	opts := []client.Option{client.WithTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)}
	if cfg.InsecureSkipVerify {
		opts = append(opts, client.WithInsecureTLS())
	}
	c := client.New(cfg.Endpoint, tokens, opts...)

	metrics := reporter.NewMetrics(cfg.ReportDir)
	runner := reporter.NewRunner(c, query.NewLoader(cfg.QueryDir), schemaval.NewValidator(cfg.SchemaDir), cfg, metrics)

	rep, runErr := runner.RunSession(context.Background())
	if rep.Summary.Total > 0 {
		// Persist whatever ran, even when the session aborted midway.
		if rep, err = reporter.Persist(rep, cfg.ReportDir); err != nil {
			log.Printf("cli.run: report persist failed error=%v", err)
		}
	}
	return rep, runErr
}

func buildTokenProvider(cfg toolkit.Config) (client.TokenProvider, error) {
	switch cfg.AuthMode {
	case toolkit.AuthModeOAuth:
		return client.NewOAuthToken("", cfg.OAuth.TenantID, cfg.OAuth.ClientID, cfg.OAuth.ClientSecret, cfg.OAuth.Scope), nil
	default:
		return client.NewStaticToken(cfg.BearerToken), nil
	}
}

func init() { // runs automatically at start (go thing)
	runCmd.Flags().StringVar(&configPath, "config", ".", "directory containing gqlcheck.yaml")
	runCmd.Flags().StringVar(&queryDir, "queries", "", "override the query directory")
	runCmd.Flags().StringVar(&reportDir, "report", "", "override the report directory")
	validateCmd.Flags().StringVar(&queryDir, "queries", "", "override the query directory")
	rootCommand.AddCommand(runCmd)
	rootCommand.AddCommand(validateCmd)
}

func Execute() {
	log.Printf("cli.execute: running root command")
	if err := rootCommand.Execute(); err != nil {
		log.Printf("cli.execute: root command failed error=%v", err)
		fmt.Fprintf(os.Stderr, "An error occurred initializing main CLI execution.")
		os.Exit(1)
	}
	log.Printf("cli.execute: root command completed")
}
