// Package gtcmd wraps the GNU gettext command-line tools (xgettext,
// msginit, msgmerge, msgfmt). It owns argument construction and process
// invocation only; template/catalog merge semantics belong to the tools
// themselves.
package gtcmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CmdError reports a failed tool invocation. The message names the
// exact command line so the user can rerun it by hand.
type CmdError struct {
	Cmd      []string
	ExitCode int
	Stderr   string
}

func (e *CmdError) Error() string {
	msg := fmt.Sprintf("command failed (exit %d): %s", e.ExitCode, strings.Join(e.Cmd, " "))
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Run executes one gettext tool invocation. A missing binary or a
// non-zero exit becomes a *CmdError; nothing is retried.
func Run(ctx context.Context, name string, args ...string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return &CmdError{
			Cmd:    append([]string{name}, args...),
			Stderr: fmt.Sprintf("%s not found; install gettext", name),
		}
	}

	cmd := exec.CommandContext(ctx, path, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	cmd.Stdout = os.Stdout

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if ee, ok := err.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		}
		return &CmdError{
			Cmd:      append([]string{name}, args...),
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// xgettext
// ---------------------------------------------------------------------------

// ExtractOptions collects everything the extraction template build
// needs: project metadata for the POT header, the source file list, and
// extraction tuning.
type ExtractOptions struct {
	ProjectTitle    string
	ProjectVersion  string
	CopyrightHolder string
	BugsEmail       string

	SourceFiles []string // explicit file list, written to --files-from
	POTPath     string
	Keywords    []string // extraction keywords, e.g. _ and ngettext:1,2
	LineWidth   int
	NoLocation  bool
	SortOutput  bool
}

// DefaultKeywords is the extraction keyword list used when a project
// configures none.
var DefaultKeywords = []string{"_", "N_", "ngettext:1,2", "pgettext:1c,2", "npgettext:1c,2,3"}

// XgettextArgs builds the xgettext argument list, excluding the
// --files-from file which Extract creates on the fly.
func XgettextArgs(opts ExtractOptions) []string {
	args := []string{
		"--output=" + opts.POTPath,
		"--from-code=UTF-8",
		"--add-comments=TRANSLATORS:",
	}

	keywords := opts.Keywords
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	for _, kw := range keywords {
		args = append(args, "--keyword="+kw)
	}

	if opts.ProjectTitle != "" {
		args = append(args, "--package-name="+opts.ProjectTitle)
	}
	if opts.ProjectVersion != "" {
		args = append(args, "--package-version="+opts.ProjectVersion)
	}
	if opts.BugsEmail != "" {
		args = append(args, "--msgid-bugs-address="+opts.BugsEmail)
	}
	if opts.CopyrightHolder != "" {
		args = append(args, "--copyright-holder="+opts.CopyrightHolder)
	}
	if opts.LineWidth > 0 {
		args = append(args, fmt.Sprintf("--width=%d", opts.LineWidth))
	}
	if opts.NoLocation {
		args = append(args, "--no-location")
	}
	if opts.SortOutput {
		args = append(args, "--sort-output")
	}
	return args
}

// Extract runs xgettext over the source file list, producing the POT
// template. The file list goes through a temporary --files-from file so
// large projects do not overflow the argument limit.
func Extract(ctx context.Context, opts ExtractOptions) error {
	if len(opts.SourceFiles) == 0 {
		return fmt.Errorf("no source files to extract from")
	}

	tmp, err := os.CreateTemp("", "potui-files-*.txt")
	if err != nil {
		return fmt.Errorf("creating file list: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	for _, f := range opts.SourceFiles {
		fmt.Fprintln(tmp, f)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing file list: %w", err)
	}

	args := append(XgettextArgs(opts), "--files-from="+tmpPath)
	return Run(ctx, "xgettext", args...)
}

// ---------------------------------------------------------------------------
// msginit / msgmerge / msgfmt
// ---------------------------------------------------------------------------

// InitArgs builds the msginit argument list for creating a fresh
// catalog from a template.
func InitArgs(potPath, poPath, locale string, width int) []string {
	args := []string{
		"--no-translator",
		"--input=" + potPath,
		"--output-file=" + poPath,
		"--locale=" + locale,
	}
	if width > 0 {
		args = append(args, fmt.Sprintf("--width=%d", width))
	}
	return args
}

// Init creates a new catalog from the template for one locale.
func Init(ctx context.Context, potPath, poPath, locale string, width int) error {
	return Run(ctx, "msginit", InitArgs(potPath, poPath, locale, width)...)
}

// MergeArgs builds the msgmerge argument list for updating an existing
// catalog in place from a refreshed template.
func MergeArgs(potPath, poPath string, width int) []string {
	args := []string{
		"--update",
		"--backup=off",
	}
	if width > 0 {
		args = append(args, fmt.Sprintf("--width=%d", width))
	}
	return append(args, poPath, potPath)
}

// Merge updates an existing catalog from the template, keeping old
// translations and fuzzy-matching renamed ones.
func Merge(ctx context.Context, potPath, poPath string, width int) error {
	return Run(ctx, "msgmerge", MergeArgs(potPath, poPath, width)...)
}

// Update refreshes one locale's catalog from the template: existing
// catalogs are merged in place, missing ones are initialized.
func Update(ctx context.Context, potPath, poPath, locale string, width int) error {
	if _, err := os.Stat(poPath); err == nil {
		return Merge(ctx, potPath, poPath, width)
	}
	return Init(ctx, potPath, poPath, locale, width)
}

// CompileArgs builds the msgfmt argument list.
func CompileArgs(poPath, moPath string) []string {
	return []string{"--check", "--output-file=" + moPath, poPath}
}

// Compile turns a catalog into its binary runtime form.
func Compile(ctx context.Context, poPath, moPath string) error {
	return Run(ctx, "msgfmt", CompileArgs(poPath, moPath)...)
}
