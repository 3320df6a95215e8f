package translate

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/language"
)

// Services disagree about locale spelling: some want "pt-BR", others
// "pt_BR". When a service rejects a locale and tells us what it does
// support, we match the requested locale against that list and retry
// once with the service's own spelling.

// DominantSeparator returns the separator style ("-" or "_") used most
// often across a supported-locale list. Ties resolve to "_".
func DominantSeparator(supported []string) string {
	var dash, under int
	for _, s := range supported {
		dash += strings.Count(s, "-")
		under += strings.Count(s, "_")
	}
	if dash > under {
		return "-"
	}
	return "_"
}

// Negotiate finds the closest supported locale for the requested code
// using standard locale fallback matching, returned in the list's
// dominant separator style. The second result is false when the code is
// unparseable or nothing in the list matches.
func Negotiate(code string, supported []string) (string, bool) {
	tags := make([]language.Tag, 0, len(supported))
	idents := make([]string, 0, len(supported))
	for _, s := range supported {
		t, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
		if err != nil {
			continue
		}
		tags = append(tags, t)
		idents = append(idents, s)
	}
	if len(tags) == 0 {
		return "", false
	}

	want, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return "", false
	}

	_, idx, conf := language.NewMatcher(tags).Match(want)
	if conf == language.No {
		return "", false
	}

	out := idents[idx]
	if DominantSeparator(supported) == "-" {
		out = strings.ReplaceAll(out, "_", "-")
	} else {
		out = strings.ReplaceAll(out, "-", "_")
	}
	return out, true
}

// negotiateConfig rewrites a config's locales from the supported list
// carried by an unsupported-language error. Both source and target are
// negotiated independently; failure on either side, or an error that is
// not an unsupported-language error, leaves the config unusable (ok is
// false) and the caller re-raises the original error.
func negotiateConfig(cfg Config, err error) (Config, bool) {
	var ule *UnsupportedLanguageError
	if !errors.As(err, &ule) || len(ule.Supported) == 0 {
		return cfg, false
	}
	src, okSrc := Negotiate(cfg.Source, ule.Supported)
	dst, okDst := Negotiate(cfg.Target, ule.Supported)
	if !okSrc || !okDst {
		return cfg, false
	}
	cfg.Source = src
	cfg.Target = dst
	return cfg, true
}

// negotiatedBackend retries a rejected provider call once with
// negotiated locales. Further failures re-raise the original error
// unchanged; a successful negotiation sticks for subsequent calls.
type negotiatedBackend struct {
	factory func(Config) (Backend, error)
	cfg     Config
	inner   Backend
}

func (n *negotiatedBackend) Name() string {
	return n.inner.Name()
}

func (n *negotiatedBackend) Translate(ctx context.Context, text string) (string, error) {
	out, err := n.inner.Translate(ctx, text)
	if err == nil {
		return out, nil
	}

	cfg, ok := negotiateConfig(n.cfg, err)
	if !ok {
		return "", err
	}
	retry, factoryErr := n.factory(cfg)
	if factoryErr != nil {
		return "", err
	}
	out, retryErr := retry.Translate(ctx, text)
	if retryErr != nil {
		return "", err
	}
	n.inner = retry
	n.cfg = cfg
	return out, nil
}
