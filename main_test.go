package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir string) {
	t.Helper()
	manifest := `title: demo
dest_langs: [de, fr]
locale_dir: locale
`
	if err := os.WriteFile(filepath.Join(dir, ".potui.yaml"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadProjectMissingManifest(t *testing.T) {
	dir := t.TempDir()
	oldRoot := rootDir
	rootDir = dir
	defer func() { rootDir = oldRoot }()

	if _, err := loadProject(); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}

func TestLoadProjectAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir)

	oldRoot, oldOverrides, oldWidth := rootDir, overrides, lineWidth
	rootDir = dir
	overrides.Domain = "app"
	lineWidth = 80
	defer func() { rootDir, overrides, lineWidth = oldRoot, oldOverrides, oldWidth }()

	cfg, err := loadProject()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Domain != "app" {
		t.Errorf("Domain = %q, want app", cfg.Domain)
	}
	if cfg.LineWidth != 80 {
		t.Errorf("LineWidth = %d, want 80", cfg.LineWidth)
	}
	if got := cfg.POPath("de"); got != filepath.Join(dir, "locale", "de", "LC_MESSAGES", "app.po") {
		t.Errorf("POPath = %q", got)
	}
}

func TestRunCompileNothingToCompile(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir)

	oldRoot := rootDir
	rootDir = dir
	defer func() { rootDir = oldRoot }()

	if err := runCompile(context.Background()); err == nil {
		t.Fatal("expected error when no catalogs exist")
	}
}

func TestRootCmdHasSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"run", "status", "extract", "compile", "version"} {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}
