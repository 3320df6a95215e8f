// Package i18n provides internationalization for potui's own
// user-facing strings. It wraps the gotext library behind T() and N();
// translations are embedded via //go:embed and loaded once via Init().
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// locales embeds the translation catalogs.
// Directory structure: locales/{lang}/LC_MESSAGES/potui.po
//
//go:embed all:locales
var locales embed.FS

const domain = "potui"

var po *gotext.Locale

// Init loads translations for lang, auto-detecting from the
// environment (LANGUAGE, LC_ALL, LC_MESSAGES, LANG) when lang is
// empty. Call once at startup, before any T or N call.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	po = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// T translates a string, passing it through unchanged when no
// translation exists.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid, []interface{}{}...)
}

// N translates with plural forms.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

// detectLanguage follows the GNU gettext environment priority.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		if env == "LANGUAGE" {
			val = strings.SplitN(val, ":", 2)[0]
		}
		if idx := strings.IndexByte(val, '.'); idx >= 0 {
			val = val[:idx]
		}
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
