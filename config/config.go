// Package config — .potui.yaml project manifest support.
//
// The manifest is the single source of truth for a project's
// localization setup: metadata for catalog headers, where sources and
// catalogs live, language pairs, and translation presets. Every field
// can be overridden from the command line for one run without touching
// the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/potui/potui/translate"
)

// FileName is the manifest file name, looked up in the project root.
const FileName = ".potui.yaml"

// Project is the top-level .potui.yaml structure.
type Project struct {
	// Title is the project name, used in catalog headers.
	Title string `yaml:"title"`
	// Version of the project.
	Version string `yaml:"version,omitempty"`
	// Author name for the copyright holder header.
	Author string `yaml:"author,omitempty"`
	// Email for the Report-Msgid-Bugs-To header.
	Email string `yaml:"email,omitempty"`
	// License name recorded in generated headers.
	License string `yaml:"license,omitempty"`

	// LocaleDir holds templates and per-language catalogs (default "locale").
	LocaleDir string `yaml:"locale_dir,omitempty"`
	// InputPaths are scanned for translatable source files (default ".").
	InputPaths []string `yaml:"input_paths,omitempty"`
	// ExcludePatterns filter files and directories out of the scan.
	ExcludePatterns []string `yaml:"exclude_patterns,omitempty"`

	// SourceLang is the source language code (default "en").
	SourceLang string `yaml:"source_lang,omitempty"`
	// DestLangs are the target language codes. Required.
	DestLangs []string `yaml:"dest_langs"`

	// Domain names the catalog files (default "messages").
	Domain string `yaml:"domain,omitempty"`
	// LineWidth for generated catalogs (default 120).
	LineWidth int `yaml:"line_width,omitempty"`
	// Keywords passed to extraction in addition to the defaults.
	Keywords []string `yaml:"keywords,omitempty"`

	// Presets are the translation-form defaults.
	Presets Presets `yaml:"presets,omitempty"`
}

// Presets seed the translate form; the form's live edits win for that
// run but are not written back here.
type Presets struct {
	// Service is the default translation service display name.
	Service string `yaml:"service,omitempty"`
	// OverrideExisting retranslates entries that already have text.
	OverrideExisting bool `yaml:"override_existing,omitempty"`
	// MarkFuzzy tags machine translations "fuzzy" instead of "unconfirmed".
	MarkFuzzy bool `yaml:"mark_fuzzy,omitempty"`

	HTTPProxy  string `yaml:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty"`
	Model      string `yaml:"model,omitempty"`
	Region     string `yaml:"region,omitempty"`
	// KeyTier is "free" or "pro" for services that distinguish.
	KeyTier string `yaml:"key_tier,omitempty"`
}

// Load reads and validates the manifest from the given directory.
// Returns nil without error when no manifest exists.
func Load(rootDir string) (*Project, error) {
	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := p.validate(path); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Project) validate(path string) error {
	if p.Title == "" {
		return fmt.Errorf("%s: title is required", path)
	}
	if len(p.DestLangs) == 0 {
		return fmt.Errorf("%s: dest_langs must list at least one language", path)
	}
	if p.Presets.KeyTier != "" && p.Presets.KeyTier != "free" && p.Presets.KeyTier != "pro" {
		return fmt.Errorf("%s: key_tier must be \"free\" or \"pro\"", path)
	}

	if p.LocaleDir == "" {
		p.LocaleDir = "locale"
	}
	if len(p.InputPaths) == 0 {
		p.InputPaths = []string{"."}
	}
	if p.SourceLang == "" {
		p.SourceLang = "en"
	}
	if p.Domain == "" {
		p.Domain = "messages"
	}
	if p.LineWidth == 0 {
		p.LineWidth = 120
	}
	return nil
}

// Overrides carries the command-line values layered on top of the
// manifest for one run. Zero values mean "not given".
type Overrides struct {
	Title      string
	Version    string
	Author     string
	Email      string
	LocaleDir  string
	SourceLang string
	Domain     string
	LineWidth  int
	Service    string

	DestLangs       []string
	InputPaths      []string
	ExcludePatterns []string
	Keywords        []string
}

// Apply layers the overrides onto the project in place.
func (p *Project) Apply(o Overrides) {
	if o.Title != "" {
		p.Title = o.Title
	}
	if o.Version != "" {
		p.Version = o.Version
	}
	if o.Author != "" {
		p.Author = o.Author
	}
	if o.Email != "" {
		p.Email = o.Email
	}
	if o.LocaleDir != "" {
		p.LocaleDir = o.LocaleDir
	}
	if o.SourceLang != "" {
		p.SourceLang = o.SourceLang
	}
	if o.Domain != "" {
		p.Domain = o.Domain
	}
	if o.LineWidth > 0 {
		p.LineWidth = o.LineWidth
	}
	if o.Service != "" {
		p.Presets.Service = o.Service
	}
	if len(o.DestLangs) > 0 {
		p.DestLangs = o.DestLangs
	}
	if len(o.InputPaths) > 0 {
		p.InputPaths = o.InputPaths
	}
	if len(o.ExcludePatterns) > 0 {
		p.ExcludePatterns = o.ExcludePatterns
	}
	if len(o.Keywords) > 0 {
		p.Keywords = o.Keywords
	}
}

// POTPath is the extraction template path.
func (p *Project) POTPath() string {
	return filepath.Join(p.LocaleDir, p.Domain+".pot")
}

// POPath is one language's catalog path.
func (p *Project) POPath(lang string) string {
	return filepath.Join(p.LocaleDir, lang, "LC_MESSAGES", p.Domain+".po")
}

// MOPath is one language's compiled catalog path.
func (p *Project) MOPath(lang string) string {
	return filepath.Join(p.LocaleDir, lang, "LC_MESSAGES", p.Domain+".mo")
}

// TranslationConfig assembles the per-job service configuration for one
// target language from the presets. The API key is filled in by the
// caller from the credential store.
func (p *Project) TranslationConfig(lang string) translate.Config {
	proxies := map[string]string{}
	if p.Presets.HTTPProxy != "" {
		proxies["http"] = p.Presets.HTTPProxy
	}
	if p.Presets.HTTPSProxy != "" {
		proxies["https"] = p.Presets.HTTPSProxy
	}
	if len(proxies) == 0 {
		proxies = nil
	}
	return translate.Config{
		Source:  p.SourceLang,
		Target:  lang,
		KeyTier: p.Presets.KeyTier,
		Proxies: proxies,
		Model:   p.Presets.Model,
		Region:  p.Presets.Region,
	}
}

// Save writes the manifest back to the given directory.
func (p *Project) Save(rootDir string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	path := filepath.Join(rootDir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
