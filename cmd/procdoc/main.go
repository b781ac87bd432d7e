// Package main provides the procdoc binary entry point. Procdoc
// migrates process-documentation form data captured under legacy
// per-form schemas into the canonical schema, with validation,
// rollback, snapshots, and per-form-type completion flags.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/0xthiagomartins/rpa-analyst-sub000/config"
	"github.com/0xthiagomartins/rpa-analyst-sub000/migration"
	"github.com/0xthiagomartins/rpa-analyst-sub000/schema"
)

const (
	Version = "0.1.0"
	appName = "procdoc"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Process documentation schema migration",
		Long: `Procdoc migrates form data captured by the documentation wizard
from legacy per-form schemas into the canonical schema.

Each migration maps the legacy payload, validates the result,
snapshots the pre-migration data, and persists the canonical record.
Any failure rolls the key back; feature flags track which form types
have fully migrated.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	setup := func() (*config.Config, *slog.Logger, error) {
		logger := newLogger(logLevel)
		slog.SetDefault(logger)

		if configPath != "" {
			cfg, err := config.LoadFromFile(configPath)
			if err != nil {
				return nil, nil, fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return nil, nil, fmt.Errorf("invalid configuration: %w", err)
			}
			return cfg, logger, nil
		}

		cfg, err := config.NewLoader(logger).Load()
		if err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, logger, nil
	}

	cmd.AddCommand(
		migrateCmd(setup),
		batchCmd(setup),
		watchCmd(setup),
		statusCmd(setup),
		flagsCmd(setup),
		backupsCmd(setup),
		versionCmd(),
	)

	return cmd
}

type setupFunc func() (*config.Config, *slog.Logger, error)

// withApp runs fn against a started App and shuts it down after.
func withApp(setup setupFunc, fn func(ctx context.Context, app *App) error) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	app := NewApp(cfg, logger)
	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer app.Shutdown()

	return fn(ctx, app)
}

func migrateCmd(setup setupFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <export.json>",
		Short: "Migrate a single legacy export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(setup, func(ctx context.Context, app *App) error {
				export, err := migration.LoadExport(args[0])
				if err != nil {
					return err
				}

				result := app.orchestrator.Migrate(ctx, export.Form(), export.ProcessID, export.Data)
				printResult(cmd, export.FormType, export.ProcessID, result)
				if !result.Success {
					return fmt.Errorf("migration failed")
				}
				return nil
			})
		},
	}
}

func batchCmd(setup setupFunc) *cobra.Command {
	var glob string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Migrate every legacy export under the exports directory",
		Long: `Batch expands the configured glob under the exports directory,
groups the exports by form type, and migrates each group. When every
process of a form type migrates successfully, the form type's feature
flag is enabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(setup, func(ctx context.Context, app *App) error {
				pattern := glob
				if pattern == "" {
					pattern = app.cfg.Exports.Glob
				}

				paths, err := doublestar.Glob(os.DirFS(app.cfg.Exports.Dir), pattern)
				if err != nil {
					return fmt.Errorf("expand glob %q: %w", pattern, err)
				}
				if len(paths) == 0 {
					cmd.Println("No export files found")
					return nil
				}
				sort.Strings(paths)

				// Group exports by form type so flags can flip per type.
				byForm := make(map[schema.FormType]map[string]schema.LegacyPayload)
				for _, path := range paths {
					export, err := migration.LoadExport(filepath.Join(app.cfg.Exports.Dir, path))
					if err != nil {
						app.logger.Warn("skipping export", slog.String("path", path), slog.String("error", err.Error()))
						continue
					}
					ft := export.Form()
					if byForm[ft] == nil {
						byForm[ft] = make(map[string]schema.LegacyPayload)
					}
					byForm[ft][export.ProcessID] = export.Data
				}

				failures := 0
				for _, ft := range schema.AllFormTypes() {
					group, ok := byForm[ft]
					if !ok {
						continue
					}

					results, allOK := app.orchestrator.MigrateAll(ctx, ft, group)
					for _, id := range sortedKeys(results) {
						printResult(cmd, string(ft), id, results[id])
						if !results[id].Success {
							failures++
						}
					}

					// Flags are per form type, not per process: flip only
					// when every process of the type migrated.
					if allOK {
						if err := app.flags.Enable(ctx, ft); err != nil {
							return fmt.Errorf("enable flag %s: %w", ft, err)
						}
						cmd.Printf("Flag enabled: %s\n", ft)
					}
				}

				if failures > 0 {
					return fmt.Errorf("%d exports failed to migrate", failures)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&glob, "glob", "", "Glob pattern for export files (default from config)")
	return cmd
}

func watchCmd(setup setupFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the exports directory and migrate changed files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(setup, func(ctx context.Context, app *App) error {
				watcher, err := migration.NewExportWatcher(
					app.cfg.Exports.Dir,
					app.cfg.Exports.DebounceDelay,
					app.orchestrator,
					app.logger,
				)
				if err != nil {
					return fmt.Errorf("create watcher: %w", err)
				}

				ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
					return err
				}
				return nil
			})
		},
	}
}

func statusCmd(setup setupFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migrated records and flag state per form type",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(setup, func(ctx context.Context, app *App) error {
				flagSet, err := app.flags.Status(ctx)
				if err != nil {
					return err
				}

				for _, ft := range schema.AllFormTypes() {
					ids, err := app.records.List(ctx, ft)
					if err != nil {
						return err
					}
					cmd.Printf("%-18s migrated=%-5v records=%d\n", ft, flagSet[ft], len(ids))
				}
				return nil
			})
		},
	}
}

func flagsCmd(setup setupFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flags",
		Short: "Inspect and mutate migration feature flags",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the full flag set",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(setup, func(ctx context.Context, app *App) error {
				flagSet, err := app.flags.Status(ctx)
				if err != nil {
					return err
				}
				for _, ft := range schema.AllFormTypes() {
					cmd.Printf("%-18s %v\n", ft, flagSet[ft])
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "enable <form-type>",
		Short: "Mark a form type's migration complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(setup, func(ctx context.Context, app *App) error {
				ft, err := schema.ParseFormType(args[0])
				if err != nil {
					return err
				}
				return app.flags.Enable(ctx, ft)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "disable <form-type>",
		Short: "Clear a form type's migration flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(setup, func(ctx context.Context, app *App) error {
				ft, err := schema.ParseFormType(args[0])
				if err != nil {
					return err
				}
				return app.flags.Disable(ctx, ft)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Clear every flag",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(setup, func(ctx context.Context, app *App) error {
				return app.flags.ResetAll(ctx)
			})
		},
	})

	return cmd
}

func backupsCmd(setup setupFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backups",
		Short: "Inspect and prune payload snapshots",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list [form-type]",
		Short: "List snapshots, oldest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(setup, func(ctx context.Context, app *App) error {
				var ft schema.FormType
				if len(args) == 1 {
					parsed, err := schema.ParseFormType(args[0])
					if err != nil {
						return err
					}
					ft = parsed
				}

				ids, err := app.backups.List(ctx, ft)
				if err != nil {
					return err
				}
				for _, id := range ids {
					cmd.Println(id)
				}
				return nil
			})
		},
	})

	var keep int
	prune := &cobra.Command{
		Use:   "prune <form-type>",
		Short: "Delete all but the newest snapshots for a form type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(setup, func(ctx context.Context, app *App) error {
				ft, err := schema.ParseFormType(args[0])
				if err != nil {
					return err
				}
				if keep == 0 {
					keep = app.cfg.Backups.Keep
				}
				return app.backups.Prune(ctx, ft, keep)
			})
		},
	}
	prune.Flags().IntVar(&keep, "keep", 0, "Snapshots to retain (default from config)")
	cmd.AddCommand(prune)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("%s version %s\n", appName, Version)
		},
	}
}

func newLogger(level string) *slog.Logger {
	l := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func printResult(cmd *cobra.Command, formType, processID string, result migration.Result) {
	if result.Success {
		cmd.Printf("OK   %s/%s\n", formType, processID)
		return
	}
	cmd.Printf("FAIL %s/%s\n", formType, processID)
	for _, e := range result.Errors {
		cmd.Printf("     - %s\n", e)
	}
	if result.Rollback != nil && !result.Rollback.Success {
		cmd.Printf("     - rollback failed: %s\n", result.Rollback.Error)
	}
}

func sortedKeys(m map[string]migration.Result) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
