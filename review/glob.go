package review

import (
	"regexp"
	"strings"
)

// compileGlob turns a shell-style glob (*, ?, [...], [^...]) into an
// anchored regexp over the whole string. Unlike path.Match there is no
// special treatment of '/': filter patterns run over displayed table
// text, not file paths.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString(`(?s)^`)

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			end := i + 1
			if end < len(pattern) && (pattern[end] == '^' || pattern[end] == '!') {
				end++
			}
			if end < len(pattern) && pattern[end] == ']' {
				end++
			}
			for end < len(pattern) && pattern[end] != ']' {
				end++
			}
			if end >= len(pattern) {
				// Unterminated class, treat the bracket literally.
				b.WriteString(regexp.QuoteMeta(string(c)))
				break
			}
			class := pattern[i+1 : end]
			b.WriteByte('[')
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			}
			if strings.HasPrefix(class, "^") {
				b.WriteByte('^')
				class = class[1:]
			}
			for j := 0; j < len(class); j++ {
				switch class[j] {
				case '\\', ']', '^':
					b.WriteByte('\\')
				}
				b.WriteByte(class[j])
			}
			b.WriteByte(']')
			i = end
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	b.WriteByte('$')
	return regexp.Compile(b.String())
}
