package translate

import (
	"errors"
	"testing"
)

func TestRegistry(t *testing.T) {
	want := []string{"Google", "MyMemory", "Microsoft", "Yandex", "ChatGPT", "DeepL"}
	got := Services()
	if len(got) != len(want) {
		t.Fatalf("registry has %d services, want %d", len(got), len(want))
	}
	for i, s := range got {
		if s.Name != want[i] {
			t.Errorf("service %d = %q, want %q", i, s.Name, want[i])
		}
	}

	if _, ok := Lookup("DeepL"); !ok {
		t.Error("Lookup(DeepL) failed")
	}
	if _, ok := Lookup("deepl"); ok {
		t.Error("Lookup must match display names exactly")
	}
	if _, err := New("Babelfish", Config{}); err == nil {
		t.Error("unknown service must fail")
	}
}

func TestCapabilities(t *testing.T) {
	cases := []struct {
		name string
		want Capabilities
	}{
		{"Google", Capabilities{SupportsProxies: true}},
		{"MyMemory", Capabilities{SupportsProxies: true}},
		{"Microsoft", Capabilities{NeedsAPIKey: true, SupportsRegion: true, SupportsProxies: true}},
		{"Yandex", Capabilities{NeedsAPIKey: true, SupportsProxies: true}},
		{"ChatGPT", Capabilities{NeedsAPIKey: true, SupportsModel: true}},
		{"DeepL", Capabilities{NeedsAPIKey: true}},
	}
	for _, c := range cases {
		s, ok := Lookup(c.name)
		if !ok {
			t.Fatalf("Lookup(%s) failed", c.name)
		}
		if s.Caps != c.want {
			t.Errorf("%s capabilities = %+v, want %+v", c.name, s.Caps, c.want)
		}
	}
}

func TestNewRejectsUnsupportedLocale(t *testing.T) {
	_, err := New("Google", Config{Source: "en", Target: "tlh"})
	var ule *UnsupportedLanguageError
	if !errors.As(err, &ule) {
		t.Fatalf("err = %v, want UnsupportedLanguageError", err)
	}
	if ule.Requested != "tlh" {
		t.Errorf("Requested = %q", ule.Requested)
	}
	if len(ule.Supported) == 0 {
		t.Error("Supported list must be carried for negotiation")
	}
}

func TestNewNegotiatedResolvesLocaleSpelling(t *testing.T) {
	// Google's list spells locales without regions; en_US must
	// negotiate down to en instead of failing construction.
	b, err := NewNegotiated("Google", Config{Source: "en_US", Target: "de"})
	if err != nil {
		t.Fatalf("NewNegotiated: %v", err)
	}
	if b.Name() != "Google" {
		t.Errorf("Name = %q", b.Name())
	}
}

func TestNewNegotiatedReRaisesOriginal(t *testing.T) {
	_, err := NewNegotiated("Google", Config{Source: "en", Target: "!!"})
	var ule *UnsupportedLanguageError
	if !errors.As(err, &ule) {
		t.Fatalf("err = %v, want the original UnsupportedLanguageError", err)
	}
	if ule.Requested != "!!" {
		t.Errorf("Requested = %q", ule.Requested)
	}
}

func TestBackendsRequireAPIKey(t *testing.T) {
	for _, name := range []string{"Microsoft", "Yandex", "ChatGPT", "DeepL"} {
		_, err := New(name, Config{Source: "en", Target: "de"})
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			t.Errorf("%s without key: err = %v, want AuthError", name, err)
		}
	}
}
