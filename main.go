// potui — interactive gettext localization workflow: extract, machine
// translate, review, compile.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	clog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/potui/potui/config"
	"github.com/potui/potui/gtcmd"
	"github.com/potui/potui/i18n"
	"github.com/potui/potui/langmeta"
	"github.com/potui/potui/lockfile"
	"github.com/potui/potui/logger"
	"github.com/potui/potui/pofile"
	"github.com/potui/potui/tui"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// console is the logger for the non-interactive subcommands; the TUI
// writes to the rotating file instead.
var console = clog.NewWithOptions(os.Stderr, clog.Options{
	ReportTimestamp: false,
})

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir  string
	logLevel string

	overrides config.Overrides
	lineWidth int
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "potui",
		Short: "Interactive gettext localization workflow",
		Long: `potui — interactive gettext localization workflow.

Reads a .potui.yaml project manifest, extracts translatable strings with
xgettext, creates and updates per-language PO catalogs, machine-translates
them through pluggable services, offers a review table for human cleanup,
and compiles the result with msgfmt.

Commands:
  run        Start the interactive workflow screen
  status     Show per-language translation statistics
  extract    Extract strings and update catalogs (non-interactive)
  compile    Compile catalogs to .mo (non-interactive)

Translation services:
  Google, MyMemory       no API key
  Microsoft, Yandex      API key
  ChatGPT                API key, model selectable
  DeepL                  API key, free/pro tier`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	pf := root.PersistentFlags()
	pf.StringVar(&overrides.Title, "title", "", "Override project title")
	pf.StringVar(&overrides.Version, "project-version", "", "Override project version")
	pf.StringVar(&overrides.Author, "author", "", "Override author")
	pf.StringVar(&overrides.Email, "email", "", "Override contact email")
	pf.StringVar(&overrides.LocaleDir, "locale-dir", "", "Override locale directory")
	pf.StringVar(&overrides.SourceLang, "source-lang", "", "Override source language")
	pf.StringVar(&overrides.Domain, "domain", "", "Override gettext domain")
	pf.StringVar(&overrides.Service, "service", "", "Override default translation service")
	pf.IntVar(&lineWidth, "line-width", 0, "Override catalog line width")
	pf.StringSliceVar(&overrides.DestLangs, "dest-langs", nil, "Override destination languages")
	pf.StringSliceVar(&overrides.InputPaths, "input-paths", nil, "Override input paths")
	pf.StringSliceVar(&overrides.ExcludePatterns, "exclude", nil, "Override exclude patterns")
	pf.StringSliceVar(&overrides.Keywords, "keyword", nil, "Override extraction keywords")

	root.AddCommand(
		newRunCmd(),
		newStatusCmd(),
		newExtractCmd(),
		newCompileCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		console.Error(err.Error())
		os.Exit(1)
	}
}

// loadProject reads the manifest and layers the command-line overrides.
func loadProject() (*config.Project, error) {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no %s found in %s", config.FileName, rootDir)
	}
	overrides.LineWidth = lineWidth
	cfg.Apply(overrides)

	// Paths in the manifest are relative to the project root, not the
	// process working directory.
	if !filepath.IsAbs(cfg.LocaleDir) {
		cfg.LocaleDir = filepath.Join(rootDir, cfg.LocaleDir)
	}
	for i, p := range cfg.InputPaths {
		if !filepath.IsAbs(p) {
			cfg.InputPaths[i] = filepath.Join(rootDir, p)
		}
	}
	return cfg, nil
}

// ---------------------------------------------------------------------------
// run (interactive workflow)
// ---------------------------------------------------------------------------

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the interactive workflow screen",
		Long: `Start the full-screen interactive workflow: extract and update
catalogs, machine-translate, review in a table, compile. Holds an
advisory lock on the project so two potui processes cannot mutate the
same catalog tree.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}
}

func runTUI() error {
	cfg, err := loadProject()
	if err != nil {
		return err
	}

	i18n.Init("")

	log, err := logger.Init(logger.DefaultPath(), logLevel)
	if err != nil {
		return err
	}
	defer log.Close()

	lock, err := lockfile.Acquire(rootDir)
	if err != nil {
		return err
	}
	defer lock.Release()

	log.Info("potui started", "version", version, "root", rootDir)
	if err := tui.New(cfg, rootDir, log.Logger).Run(); err != nil {
		log.Error("fatal", "error", err)
		return fmt.Errorf("%w (details in %s)", err, log.Path())
	}
	log.Info("potui exited")
	return nil
}

// ---------------------------------------------------------------------------
// status (read-only translation statistics)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show per-language translation statistics",
		Long: `Show the project configuration and per-language translation
progress, including the review-tag histogram. Does not modify any files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	cfg, err := loadProject()
	if err != nil {
		return err
	}

	absRoot, _ := filepath.Abs(rootDir)
	fmt.Printf("\nProject\n%s\n", strings.Repeat("─", 60))
	fmt.Printf("  Title:      %s\n", cfg.Title)
	if cfg.Version != "" {
		fmt.Printf("  Version:    %s\n", cfg.Version)
	}
	fmt.Printf("  Root:       %s\n", absRoot)
	fmt.Printf("  Locale dir: %s\n", cfg.LocaleDir)
	fmt.Printf("  Domain:     %s\n", cfg.Domain)
	fmt.Printf("  Source:     %s\n", langmeta.Label(cfg.SourceLang))

	fmt.Printf("\nLanguages\n%s\n", strings.Repeat("─", 60))
	for _, lang := range cfg.DestLangs {
		poPath := cfg.POPath(lang)
		catalog, err := pofile.Load(poPath)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Printf("  %-28s not initialized\n", langmeta.Label(lang))
				continue
			}
			console.Warn("unreadable catalog", "path", poPath, "err", err)
			continue
		}

		total, translated, fuzzy, _ := catalog.Stats()
		pct := 0
		if total > 0 {
			pct = translated * 100 / total
		}
		fmt.Printf("  %-28s %3d%%  %d/%d translated, %d fuzzy\n",
			langmeta.Label(lang), pct, translated, total, fuzzy)

		counts := catalog.TagCounts()
		if len(counts) > 0 {
			var parts []string
			for _, tag := range []pofile.Tag{pofile.TagUnknown, pofile.TagFuzzy, pofile.TagUnconfirmed, pofile.TagReviewed} {
				if n := counts[tag]; n > 0 {
					parts = append(parts, fmt.Sprintf("%s %d", tag, n))
				}
			}
			fmt.Printf("  %-28s tags: %s\n", "", strings.Join(parts, ", "))
		}
	}
	fmt.Println()
	return nil
}

// ---------------------------------------------------------------------------
// extract (non-interactive extract + update)
// ---------------------------------------------------------------------------

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Extract strings and update catalogs",
		Long: `Run xgettext over the configured input paths, refresh the POT
template, and create or merge every destination-language catalog.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.Context())
		},
	}
}

func runExtract(ctx context.Context) error {
	cfg, err := loadProject()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	sources, err := gtcmd.FindSources(cfg.InputPaths, cfg.ExcludePatterns)
	if err != nil {
		return err
	}
	console.Info("extracting", "sources", len(sources), "template", cfg.POTPath())

	if err := os.MkdirAll(cfg.LocaleDir, 0o755); err != nil {
		return err
	}
	err = gtcmd.Extract(ctx, gtcmd.ExtractOptions{
		ProjectTitle:    cfg.Title,
		ProjectVersion:  cfg.Version,
		CopyrightHolder: cfg.Author,
		BugsEmail:       cfg.Email,
		SourceFiles:     sources,
		POTPath:         cfg.POTPath(),
		Keywords:        cfg.Keywords,
		LineWidth:       cfg.LineWidth,
	})
	if err != nil {
		return err
	}

	for _, lang := range cfg.DestLangs {
		if err := gtcmd.Update(ctx, cfg.POTPath(), cfg.POPath(lang), lang, cfg.LineWidth); err != nil {
			return err
		}
		console.Info("updated", "lang", lang, "catalog", cfg.POPath(lang))
	}
	return nil
}

// ---------------------------------------------------------------------------
// compile (non-interactive msgfmt)
// ---------------------------------------------------------------------------

func newCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile",
		Short: "Compile catalogs to .mo",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd.Context())
		},
	}
}

func runCompile(ctx context.Context) error {
	cfg, err := loadProject()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	compiled := 0
	for _, lang := range cfg.DestLangs {
		poPath := cfg.POPath(lang)
		if _, err := os.Stat(poPath); err != nil {
			console.Warn("skipping uninitialized catalog", "lang", lang)
			continue
		}
		if err := gtcmd.Compile(ctx, poPath, cfg.MOPath(lang)); err != nil {
			return err
		}
		console.Info("compiled", "lang", lang, "mo", cfg.MOPath(lang))
		compiled++
	}
	if compiled == 0 {
		return fmt.Errorf("nothing to compile: no catalogs found under %s", cfg.LocaleDir)
	}
	return nil
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("potui version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}
