package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleManifest = `title: demo
version: "1.4"
author: Jane Doe
email: jane@example.com
locale_dir: po
input_paths:
  - src
  - scripts
exclude_patterns:
  - "*_test.py"
source_lang: en
dest_langs:
  - de
  - fr
domain: demo
line_width: 100
keywords:
  - tr
presets:
  service: DeepL
  mark_fuzzy: true
  key_tier: free
  https_proxy: http://proxy:3128
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeManifest(t, sampleManifest)
	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Title != "demo" || p.Domain != "demo" || p.LineWidth != 100 {
		t.Errorf("project = %+v", p)
	}
	if len(p.DestLangs) != 2 || p.DestLangs[0] != "de" {
		t.Errorf("DestLangs = %v", p.DestLangs)
	}
	if p.Presets.Service != "DeepL" || !p.Presets.MarkFuzzy {
		t.Errorf("presets = %+v", p.Presets)
	}
}

func TestLoadMissingReturnsNil(t *testing.T) {
	p, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p != nil {
		t.Errorf("missing manifest should load as nil, got %+v", p)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := writeManifest(t, "title: minimal\ndest_langs: [de]\n")
	p, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if p.LocaleDir != "locale" || p.Domain != "messages" || p.SourceLang != "en" || p.LineWidth != 120 {
		t.Errorf("defaults not applied: %+v", p)
	}
	if len(p.InputPaths) != 1 || p.InputPaths[0] != "." {
		t.Errorf("InputPaths = %v", p.InputPaths)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"no title", "dest_langs: [de]\n", "title is required"},
		{"no dest langs", "title: x\n", "dest_langs"},
		{"bad key tier", "title: x\ndest_langs: [de]\npresets:\n  key_tier: gold\n", "key_tier"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dir := writeManifest(t, c.content)
			_, err := Load(dir)
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Errorf("err = %v, want mention of %q", err, c.want)
			}
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	dir := writeManifest(t, sampleManifest)
	p, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	p.Apply(Overrides{
		Author:    "Someone Else",
		DestLangs: []string{"ja"},
		LineWidth: 80,
		Service:   "Google",
	})

	if p.Author != "Someone Else" || p.LineWidth != 80 {
		t.Errorf("overrides not applied: %+v", p)
	}
	if len(p.DestLangs) != 1 || p.DestLangs[0] != "ja" {
		t.Errorf("DestLangs = %v", p.DestLangs)
	}
	if p.Presets.Service != "Google" {
		t.Errorf("Service = %q", p.Presets.Service)
	}
	// untouched fields survive
	if p.Title != "demo" || p.Email != "jane@example.com" {
		t.Errorf("untouched fields changed: %+v", p)
	}
}

func TestPaths(t *testing.T) {
	p := &Project{LocaleDir: "po", Domain: "demo"}
	if got := p.POTPath(); got != filepath.Join("po", "demo.pot") {
		t.Errorf("POTPath = %q", got)
	}
	if got := p.POPath("de"); got != filepath.Join("po", "de", "LC_MESSAGES", "demo.po") {
		t.Errorf("POPath = %q", got)
	}
	if got := p.MOPath("de"); got != filepath.Join("po", "de", "LC_MESSAGES", "demo.mo") {
		t.Errorf("MOPath = %q", got)
	}
}

func TestTranslationConfig(t *testing.T) {
	dir := writeManifest(t, sampleManifest)
	p, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	cfg := p.TranslationConfig("fr")
	if cfg.Source != "en" || cfg.Target != "fr" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.KeyTier != "free" {
		t.Errorf("KeyTier = %q", cfg.KeyTier)
	}
	if cfg.Proxies["https"] != "http://proxy:3128" {
		t.Errorf("Proxies = %v", cfg.Proxies)
	}
	if _, ok := cfg.Proxies["http"]; ok {
		t.Error("unset proxy must not appear")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := writeManifest(t, sampleManifest)
	p, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	p.Version = "2.0"
	if err := p.Save(dir); err != nil {
		t.Fatal(err)
	}

	p2, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if p2.Version != "2.0" || p2.Title != p.Title || p2.Presets.Service != "DeepL" {
		t.Errorf("round trip lost data: %+v", p2)
	}
}
