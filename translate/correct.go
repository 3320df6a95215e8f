package translate

import (
	"regexp"
	"strings"
)

// Providers routinely mangle {placeholder} tokens: they translate the
// inner word, drop the braces, or reflow them. The job therefore masks
// each placeholder with a stable uppercase token before the provider
// call, and CorrectTranslation re-injects the source placeholders
// positionally afterwards, so the output always carries exactly the
// source's placeholder sequence.

var (
	placeholderRe  = regexp.MustCompile(`\{[^}]+\}`)
	anyBracedRe    = regexp.MustCompile(`\{[^}]*\}`)
	maskSanitizeRe = regexp.MustCompile(`[^A-Za-z0-9_]+`)

	multiSpaceRe   = regexp.MustCompile(`\s+`)
	closePunctRe   = regexp.MustCompile(`\s+([.,;:!?%)])`)
	openParenRe    = regexp.MustCompile(`\(\s+`)
	hyphenPrefixRe = regexp.MustCompile(`\s+-\s*(\w)`)
)

// Placeholders returns the {...} tokens of a source string in order.
func Placeholders(s string) []string {
	return placeholderRe.FindAllString(s, -1)
}

// maskToken derives the provider-facing stand-in for one placeholder:
// the inner text uppercased and stripped to word characters.
func maskToken(ph string) string {
	inner := strings.TrimSuffix(strings.TrimPrefix(ph, "{"), "}")
	inner = maskSanitizeRe.ReplaceAllString(inner, "_")
	inner = strings.Trim(inner, "_")
	if inner == "" {
		inner = "X"
	}
	return strings.ToUpper(inner)
}

// MaskPlaceholders replaces every {...} token with its mask so the
// provider leaves it alone.
func MaskPlaceholders(s string) string {
	return placeholderRe.ReplaceAllStringFunc(s, maskToken)
}

// CorrectTranslation post-processes one provider result: the source's
// placeholder tokens are re-injected positionally (replacing the mask or
// whatever braced text the provider produced in their place, appending
// any the provider lost entirely), then spacing and punctuation are
// tidied up.
func CorrectTranslation(msgid, translation string) string {
	translation = reinjectPlaceholders(msgid, translation)

	translation = multiSpaceRe.ReplaceAllString(translation, " ")
	translation = closePunctRe.ReplaceAllString(translation, "$1")
	translation = openParenRe.ReplaceAllString(translation, "(")
	translation = hyphenPrefixRe.ReplaceAllString(translation, "-$1")
	return strings.TrimSpace(translation)
}

// reinjectPlaceholders walks the translation left to right, consuming
// one braced or mask token per source placeholder. Extra braced tokens
// the provider invented are dropped; placeholders it lost entirely are
// appended at the end.
func reinjectPlaceholders(msgid, translation string) string {
	phs := Placeholders(msgid)
	if len(phs) == 0 {
		return anyBracedRe.ReplaceAllString(translation, "")
	}

	var out strings.Builder
	var lost []string
	rest := translation
	for _, ph := range phs {
		brace := anyBracedRe.FindStringIndex(rest)
		mask := maskToken(ph)
		maskIdx := strings.Index(rest, mask)
		switch {
		case brace != nil && (maskIdx < 0 || brace[0] <= maskIdx):
			out.WriteString(rest[:brace[0]])
			out.WriteString(ph)
			rest = rest[brace[1]:]
		case maskIdx >= 0:
			out.WriteString(rest[:maskIdx])
			out.WriteString(ph)
			rest = rest[maskIdx+len(mask):]
		default:
			lost = append(lost, ph)
		}
	}
	out.WriteString(anyBracedRe.ReplaceAllString(rest, ""))

	result := out.String()
	for _, ph := range lost {
		result = strings.TrimRight(result, " ") + " " + ph
	}
	return result
}
