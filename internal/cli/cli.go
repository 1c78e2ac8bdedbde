// Package cli implements the apiview command-line interface.
//
// Commands load an API-surface envelope, fold it into sections, and render
// it as markup, text, or a styled terminal view. Defaults come from the
// application config (see internal/config) and are overridden by flags.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/apiview/internal/config"
	"github.com/matzehuels/apiview/pkg/buildinfo"
	"github.com/matzehuels/apiview/pkg/cache"
	"github.com/matzehuels/apiview/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "apiview"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "apiview renders API-surface documents for review",
		Long:          `apiview loads token-stream envelopes describing a package's public API, folds them into collapsible sections, and renders them as HTML markup, plain text, or a terminal view.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/apiview/config.yaml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.foldCommand())
	root.AddCommand(c.sectionCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the application config once and applies its log level.
// --verbose wins over the configured level.
func (c *CLI) loadConfig() error {
	if c.Config == nil {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		c.Config = cfg
	}
	level := c.Config.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	return nil
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), buildinfo.String()+"\n")
			return err
		},
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, c.keyer(), c.Logger)
	r.TTL = c.Config.Cache.TTL
	return r, nil
}

// newCache picks the artifact store: none, a shared Redis instance, or the
// cache directory.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cc := c.Config.Cache
	switch {
	case noCache || cc.Disabled:
		return cache.NewNullCache(), nil
	case cc.RedisAddr != "":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPassword,
			DB:       cc.RedisDB,
			Prefix:   appName + ":",
		})
	}
	return cache.NewFileCache(cc.Dir)
}

// keyer scopes cache keys by build version so upgrades never read stale
// artifacts.
func (c *CLI) keyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
}

// =============================================================================
// Options Helpers
// =============================================================================

// renderFlags holds the render flags shared by several commands.
type renderFlags struct {
	mode     string
	docs     bool
	skipDiff bool
	sections bool
	strict   bool
	table    string
}

// register binds the flags, using the current field values as defaults.
func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", f.mode, "render mode: interactive, readonly, text")
	cmd.Flags().BoolVar(&f.docs, "docs", f.docs, "show inline documentation")
	cmd.Flags().BoolVar(&f.skipDiff, "skip-diff", f.skipDiff, "drop skip-diff ranges")
	cmd.Flags().BoolVar(&f.sections, "sections", f.sections, "fold the document into leaf sections")
	cmd.Flags().BoolVar(&f.strict, "strict", f.strict, "reject unbalanced section markers")
	cmd.Flags().StringVar(&f.table, "table", f.table, "classification table (TOML)")
}

// options builds pipeline options for path. Flags the user did not set
// fall back to the render section of the config.
func (c *CLI) options(cmd *cobra.Command, path string, f *renderFlags) pipeline.Options {
	rc := c.Config.Render
	opts := pipeline.Options{
		Path:              path,
		Mode:              f.mode,
		ShowDocumentation: f.docs,
		SkipDiff:          f.skipDiff,
		HasSections:       f.sections,
		Strict:            f.strict,
		TablePath:         f.table,
		Logger:            loggerFromContext(cmd.Context()),
	}
	flags := cmd.Flags()
	if !flags.Changed("mode") {
		opts.Mode = rc.Mode
	}
	if !flags.Changed("docs") {
		opts.ShowDocumentation = rc.ShowDocumentation
	}
	if !flags.Changed("skip-diff") {
		opts.SkipDiff = rc.SkipDiff
	}
	if !flags.Changed("sections") {
		opts.HasSections = opts.HasSections || rc.HasSections
	}
	if !flags.Changed("strict") {
		opts.Strict = rc.Strict
	}
	if !flags.Changed("table") {
		opts.TablePath = rc.Table
	}
	return opts
}
