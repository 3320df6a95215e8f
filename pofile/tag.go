package pofile

// Tag is a review status carried in an entry's flag list alongside the
// regular gettext flags (c-format, fuzzy from msgmerge, ...).
type Tag string

const (
	TagUnknown     Tag = "unknown"
	TagFuzzy       Tag = "fuzzy"
	TagUnconfirmed Tag = "unconfirmed"
	TagReviewed    Tag = "reviewed"
)

// tagVocabulary lists every tag in precedence order. FishTag returns the
// first flag that matches this order, so "fuzzy" wins over "reviewed"
// when both are somehow present.
var tagVocabulary = []Tag{TagUnknown, TagFuzzy, TagUnconfirmed, TagReviewed}

// IsTag reports whether a flag string belongs to the review vocabulary.
func IsTag(flag string) bool {
	for _, t := range tagVocabulary {
		if string(t) == flag {
			return true
		}
	}
	return false
}

// ApplyTag sets the review tag on an entry. All vocabulary tags are
// removed from the flag list first, then the new tag is appended, so an
// entry never carries two review tags at once. Non-vocabulary flags are
// left untouched.
func ApplyTag(e *Entry, tag Tag) {
	kept := e.Flags[:0]
	for _, f := range e.Flags {
		if !IsTag(f) {
			kept = append(kept, f)
		}
	}
	e.Flags = append(kept, string(tag))
}

// ClearTag removes every vocabulary tag from an entry's flags.
func ClearTag(e *Entry) {
	kept := e.Flags[:0]
	for _, f := range e.Flags {
		if !IsTag(f) {
			kept = append(kept, f)
		}
	}
	e.Flags = kept
}

// FishTag returns the entry's review tag, scanning the vocabulary in
// precedence order. When no vocabulary tag is present it returns fallback.
func FishTag(e *Entry, fallback Tag) Tag {
	for _, t := range tagVocabulary {
		if e.HasFlag(string(t)) {
			return t
		}
	}
	return fallback
}
