package app

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pretagov/projectsmigrator/internal/github"
	"github.com/pretagov/projectsmigrator/internal/zenhub"
	"github.com/pretagov/projectsmigrator/pkg/reconciler"
)

// Execute runs the projectsmigrator CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command.
func (a *App) createRootCommand() *cobra.Command {
	cfg := a.config
	var timeoutSeconds int

	rootCmd := &cobra.Command{
		Use:     "projectsmigrator PROJECT_URL",
		Short:   "Sync ZenHub workspaces into a single GitHub Project",
		Version: a.version,
		Long: `Projectsmigrator merges one or more ZenHub workspaces onto a GitHub
Projects v2 board. Pipelines become status columns, estimates, priorities
and sprints map onto board fields, and epic and dependency relationships
become checklists in the issue text.

Runs are idempotent: a second run over unchanged workspaces performs no
mutations, so the command can be re-run safely until the cut-over is done.

Tokens come from --github-token/--zenhub-token or the GITHUB_TOKEN and
ZENHUB_TOKEN environment variables (a .env file is read if present).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg.UpdateFromFlags(cfg.Verbose, cfg.Quiet, cfg.NoColor, cfg.LogLevel)
			if timeoutSeconds > 0 {
				cfg.Timeout = time.Duration(timeoutSeconds) * time.Second
			}
			logger := NewLogger(cfg)
			a.logger = &logger
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.ProjectURL = args[0]
			return a.runMerge(cmd.Context())
		},
	}

	flags := rootCmd.Flags()
	flags.StringArrayVarP(&cfg.Workspaces, "workspace", "w", nil,
		"ZenHub workspace to import; repeatable, none means all")
	flags.StringArrayVarP(&cfg.Fields, "field", "f", nil,
		`transfer SRC field to DST field as "SRC:DST[:CONV]"; CONV is Closest (default), Exact or Scale; "SRC:" drops the field`)
	flags.StringArrayVarP(&cfg.Excludes, "exclude", "x", nil,
		`skip workspaces or pipelines matching "FIELD:PATTERN", e.g. "Pipeline:Done"`)
	flags.BoolVar(&cfg.DisableRemove, "disable-remove", false,
		"keep project items not found in any workspace")
	flags.BoolVar(&cfg.KeepOrphanPRs, "keep-orphan-prs", false,
		"keep linked pull requests on the board instead of folding them into their issue")
	flags.BoolVar(&cfg.DryRun, "dry-run", false,
		"log what would change without mutating the project")
	flags.StringVar(&cfg.MappingFile, "mapping-file", "",
		"YAML file with workspaces, fields and excludes entries")
	flags.StringVar(&cfg.GithubToken, "github-token", cfg.GithubToken,
		"GitHub token, or env var GITHUB_TOKEN")
	flags.StringVar(&cfg.ZenhubToken, "zenhub-token", cfg.ZenhubToken,
		"ZenHub token, or env var ZENHUB_TOKEN")
	flags.IntVar(&timeoutSeconds, "timeout", 180,
		"seconds to wait for API calls")

	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", false, "minimal output")
	flags.BoolVar(&cfg.NoColor, "no-color", false, "disable colored output")
	flags.StringVar(&cfg.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	rootCmd.SetVersionTemplate("projectsmigrator {{.Version}}\n")
	return rootCmd
}

// runMerge wires the API clients and runs one reconciliation pass.
func (a *App) runMerge(ctx context.Context) error {
	cfg := a.config
	if cfg.MappingFile != "" {
		file, err := LoadMappingFile(cfg.MappingFile)
		if err != nil {
			return err
		}
		cfg.Merge(file)
	}

	source, err := zenhub.New(cfg.ZenhubEndpoint, cfg.ZenhubToken, cfg.Timeout)
	if err != nil {
		return err
	}
	target, err := github.New(cfg.GithubEndpoint, cfg.GithubToken, cfg.Timeout)
	if err != nil {
		return err
	}

	opts := []reconciler.Option{
		reconciler.WithProjectURL(cfg.ProjectURL),
		reconciler.WithWorkspaces(cfg.Workspaces...),
		reconciler.WithMappings(cfg.Fields...),
		reconciler.WithExcludes(cfg.Excludes...),
	}
	if cfg.DisableRemove {
		opts = append(opts, reconciler.WithDisableRemove())
	}
	if cfg.KeepOrphanPRs {
		opts = append(opts, reconciler.WithKeepOrphanPRs())
	}
	if cfg.DryRun {
		opts = append(opts, reconciler.WithDryRun())
	}

	result, err := reconciler.New(source, target, opts...).Run(ctx)
	if result != nil {
		result.WriteReport(os.Stdout)
	}
	return err
}
