package review

import (
	"fmt"
	"strings"
)

// The review table displays catalog text with control characters made
// visible, and edit input is typed in the same form. Escape and Unescape
// are exact inverses so a string survives a display/edit round trip
// byte for byte.

var escapeTable = map[byte]string{
	'\n': `\n`,
	'\r': `\r`,
	'\t': `\t`,
	'\b': `\b`,
	'\f': `\f`,
	'\v': `\v`,
	0x07: `\a`,
	'\\': `\\`,
	0x00: `\0`,
}

var unescapeTable = map[byte]byte{
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'b':  '\b',
	'f':  '\f',
	'v':  '\v',
	'a':  0x07,
	'\\': '\\',
	'0':  0x00,
}

// Escape renders control characters as visible escape sequences. Bytes
// outside the named set that are still non-printable come out as \xHH.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if seq, ok := escapeTable[c]; ok {
			b.WriteString(seq)
			continue
		}
		if c < 0x20 || c == 0x7f {
			fmt.Fprintf(&b, `\x%02x`, c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Unescape is the inverse of Escape. Sequences that do not form a valid
// escape are kept literally, backslash included.
func Unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		next := s[i+1]
		if raw, ok := unescapeTable[next]; ok {
			b.WriteByte(raw)
			i++
			continue
		}
		if next == 'x' && i+3 < len(s) {
			hi, okHi := hexVal(s[i+2])
			lo, okLo := hexVal(s[i+3])
			if okHi && okLo {
				b.WriteByte(hi<<4 | lo)
				i += 3
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
