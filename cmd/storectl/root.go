package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"storefront_billing/internal/app"
	"storefront_billing/internal/infrastructure/config"
	"storefront_billing/internal/infrastructure/logging"
	"storefront_billing/internal/usecase"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Set with -ldflags "-X main.version=...".
var version = "dev"

// appFactory is swapped in tests.
var appFactory = func(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Env)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, logger)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "storectl",
		Short:        "Operator tooling for the storefront billing service",
		SilenceUsage: true,
	}
	root.AddCommand(newReconcileCmd(), newMigrateCmd(), newVersionCmd())
	return root
}

func newReconcileCmd() *cobra.Command {
	var opts usecase.ReconcileCommand
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Cross-check one day of payments against their orders",
		Example: "  storectl reconcile --date 2025-03-14\n" +
			"  storectl reconcile --date 2025-03-14 --include-partial --auto-fix",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFactory(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.UseCases.Reconciliation.Reconcile(cmd.Context(), usecase.SystemActor, opts)
			if err != nil {
				return err
			}
			a.Logger.Info("reconciliation finished",
				zap.String("date", report.Date),
				zap.Int("issues", report.Summary.TotalIssues),
				zap.Int("auto_fixed", report.Summary.AutoFixed))
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&opts.Date, "date", "", "local day to scan, YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&opts.IncludePartial, "include-partial", false, "count refund rows and report refunds without an original payment")
	cmd.Flags().BoolVar(&opts.AutoFix, "auto-fix", false, "repair status mismatches")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the DynamoDB tables or the MySQL schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFactory(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Migrate(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s)\n", a.Config.StoreDriver)
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the storectl version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
