package translate

import (
	"context"
	"errors"
	"testing"
)

func TestDominantSeparator(t *testing.T) {
	cases := []struct {
		name      string
		supported []string
		want      string
	}{
		{"dashes win", []string{"en-US", "fr-FR", "de"}, "-"},
		{"underscores win", []string{"en_US", "fr_FR", "pt-BR"}, "_"},
		{"tie goes to underscore", []string{"en-US", "fr_FR"}, "_"},
		{"no separators", []string{"en", "fr"}, "_"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := DominantSeparator(c.supported); got != c.want {
				t.Errorf("DominantSeparator(%v) = %q, want %q", c.supported, got, c.want)
			}
		})
	}
}

func TestNegotiate(t *testing.T) {
	cases := []struct {
		code      string
		supported []string
		want      string
		ok        bool
	}{
		{"en_US", []string{"en-US", "fr-FR"}, "en-US", true},
		{"fr_FR", []string{"en-US", "fr-FR"}, "fr-FR", true},
		{"en-GB", []string{"en_US", "fr_FR"}, "en_US", true},
		{"de", []string{"de-DE", "en-US"}, "de-DE", true},
		{"pt_BR", []string{"pt", "es"}, "pt", true},
		{"!!bad!!", []string{"en"}, "", false},
		{"ja", []string{}, "", false},
	}
	for _, c := range cases {
		got, ok := Negotiate(c.code, c.supported)
		if got != c.want || ok != c.ok {
			t.Errorf("Negotiate(%q, %v) = %q, %v; want %q, %v", c.code, c.supported, got, ok, c.want, c.ok)
		}
	}
}

// flakyBackend rejects the first call with an unsupported-language
// error, then succeeds once reconstructed with locales it accepts.
type flakyBackend struct {
	cfg       Config
	supported []string
	calls     *int
}

func (f *flakyBackend) Name() string { return "Flaky" }

func (f *flakyBackend) Translate(ctx context.Context, text string) (string, error) {
	*f.calls++
	for _, s := range f.supported {
		if s == f.cfg.Target {
			return "ok:" + f.cfg.Source + ">" + f.cfg.Target, nil
		}
	}
	return "", &UnsupportedLanguageError{
		Service:   "Flaky",
		Requested: f.cfg.Target,
		Supported: f.supported,
	}
}

func TestNegotiatedBackendRetriesOnce(t *testing.T) {
	calls := 0
	supported := []string{"en-US", "fr-FR"}
	factory := func(cfg Config) (Backend, error) {
		return &flakyBackend{cfg: cfg, supported: supported, calls: &calls}, nil
	}

	cfg := Config{Source: "en_US", Target: "fr_FR"}
	b := &negotiatedBackend{factory: factory, cfg: cfg}
	var err error
	b.inner, err = factory(cfg)
	if err != nil {
		t.Fatal(err)
	}

	out, err := b.Translate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "ok:en-US>fr-FR" {
		t.Errorf("negotiated locales wrong: %q", out)
	}
	if calls != 2 {
		t.Errorf("provider called %d times, want 2", calls)
	}

	// negotiation sticks: the next call succeeds directly
	if _, err := b.Translate(context.Background(), "again"); err != nil {
		t.Fatalf("second Translate: %v", err)
	}
	if calls != 3 {
		t.Errorf("provider called %d times after second call, want 3", calls)
	}
}

func TestNegotiatedBackendReRaisesOriginalError(t *testing.T) {
	calls := 0
	// an empty supported list makes the error payload unparseable
	orig := &UnsupportedLanguageError{Service: "Flaky", Requested: "fr", Supported: nil}
	factory := func(cfg Config) (Backend, error) {
		return backendFunc(func(ctx context.Context, text string) (string, error) {
			calls++
			return "", orig
		}), nil
	}

	b := &negotiatedBackend{factory: factory, cfg: Config{Source: "en", Target: "fr"}}
	b.inner, _ = factory(Config{})

	_, err := b.Translate(context.Background(), "x")
	var ule *UnsupportedLanguageError
	if !errors.As(err, &ule) || ule != orig {
		t.Errorf("err = %v, want the original error unchanged", err)
	}
	if calls != 1 {
		t.Errorf("provider called %d times, want 1 (empty supported list is unparseable)", calls)
	}
}

// backendFunc adapts a function to the Backend interface for tests.
type backendFunc func(ctx context.Context, text string) (string, error)

func (f backendFunc) Name() string { return "Stub" }

func (f backendFunc) Translate(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}
