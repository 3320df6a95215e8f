package gtcmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestXgettextArgs(t *testing.T) {
	opts := ExtractOptions{
		ProjectTitle:    "demo",
		ProjectVersion:  "1.2",
		CopyrightHolder: "ACME",
		BugsEmail:       "bugs@example.com",
		POTPath:         "locales/demo.pot",
		Keywords:        []string{"_", "ngettext:1,2"},
		LineWidth:       100,
		NoLocation:      true,
		SortOutput:      true,
	}
	args := XgettextArgs(opts)

	for _, want := range []string{
		"--output=locales/demo.pot",
		"--keyword=_",
		"--keyword=ngettext:1,2",
		"--package-name=demo",
		"--package-version=1.2",
		"--msgid-bugs-address=bugs@example.com",
		"--copyright-holder=ACME",
		"--width=100",
		"--no-location",
		"--sort-output",
	} {
		if !contains(args, want) {
			t.Errorf("args missing %q: %v", want, args)
		}
	}
}

func TestXgettextArgsDefaultKeywords(t *testing.T) {
	args := XgettextArgs(ExtractOptions{POTPath: "x.pot"})
	if !contains(args, "--keyword=_") || !contains(args, "--keyword=npgettext:1c,2,3") {
		t.Errorf("default keywords not applied: %v", args)
	}
}

func TestMergeAndInitArgs(t *testing.T) {
	merge := MergeArgs("d.pot", "de.po", 80)
	if merge[len(merge)-2] != "de.po" || merge[len(merge)-1] != "d.pot" {
		t.Errorf("merge positional args wrong: %v", merge)
	}
	if !contains(merge, "--update") || !contains(merge, "--backup=off") {
		t.Errorf("merge args = %v", merge)
	}

	initArgs := InitArgs("d.pot", "de.po", "de_DE", 80)
	for _, want := range []string{"--no-translator", "--input=d.pot", "--output-file=de.po", "--locale=de_DE", "--width=80"} {
		if !contains(initArgs, want) {
			t.Errorf("init args missing %q: %v", want, initArgs)
		}
	}
}

func TestCompileArgs(t *testing.T) {
	args := CompileArgs("de.po", "de.mo")
	if !contains(args, "--check") || !contains(args, "--output-file=de.mo") || args[len(args)-1] != "de.po" {
		t.Errorf("compile args = %v", args)
	}
}

func TestRunReportsCommandLine(t *testing.T) {
	err := Run(context.Background(), "sh", "-c", "echo oops >&2; exit 3")
	var ce *CmdError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *CmdError", err)
	}
	if ce.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", ce.ExitCode)
	}
	if !strings.Contains(ce.Error(), "sh -c echo oops >&2; exit 3") {
		t.Errorf("Error() must name the exact command line: %q", ce.Error())
	}
	if ce.Stderr != "oops" {
		t.Errorf("Stderr = %q", ce.Stderr)
	}
}

func TestRunMissingTool(t *testing.T) {
	err := Run(context.Background(), "definitely-not-a-real-tool-xyz")
	var ce *CmdError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *CmdError", err)
	}
	if !strings.Contains(ce.Stderr, "install gettext") {
		t.Errorf("Stderr = %q", ce.Stderr)
	}
}

func TestRunSuccess(t *testing.T) {
	if err := Run(context.Background(), "true"); err != nil {
		t.Errorf("Run(true) = %v", err)
	}
}

func TestFindSources(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "main.py"))
	mustWrite(t, filepath.Join(dir, "util.sh"))
	mustWrite(t, filepath.Join(dir, "notes.txt"))
	mustWrite(t, filepath.Join(dir, "skipme.py"))
	mustWrite(t, filepath.Join(dir, "sub", "tool.js"))
	mustWrite(t, filepath.Join(dir, ".git", "hook.py"))
	mustWrite(t, filepath.Join(dir, "gen", "out.py"))

	files, err := FindSources([]string{dir}, []string{"skipme.*", "gen"})
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, f := range files {
		rel, _ := filepath.Rel(dir, f)
		names = append(names, rel)
	}
	want := []string{"main.py", filepath.Join("sub", "tool.js"), "util.sh"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("FindSources = %v, want %v", names, want)
	}
}

func contains(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func mustWrite(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}
