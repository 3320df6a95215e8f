package pofile

import "regexp"

// Review notes are embedded in the extracted-comment block as a tagged
// element so they survive msgmerge and remain visible to other PO tools:
//
//	#. extractor text
//	#. <note class="potui">needs product-team signoff</note>
//
// The rest of the extracted comment is preserved verbatim around the note.

const (
	noteOpen  = `<note class="potui">`
	noteClose = `</note>`
)

var noteRe = regexp.MustCompile(`(?s)\n?` + regexp.QuoteMeta(noteOpen) + `(.*?)` + regexp.QuoteMeta(noteClose))

// Note returns the review note embedded in the entry's extracted
// comments, or "" when none is set.
func Note(e *Entry) string {
	m := noteRe.FindStringSubmatch(e.ExtractedComment())
	if m == nil {
		return ""
	}
	return m[1]
}

// SetNote replaces the entry's review note, inserting one if absent and
// removing the element entirely when text is empty. Extracted-comment
// content outside the note element is left unchanged.
func SetNote(e *Entry, text string) {
	comment := e.ExtractedComment()
	stripped := noteRe.ReplaceAllString(comment, "")

	if text == "" {
		e.SetExtractedComment(stripped)
		return
	}

	element := noteOpen + text + noteClose
	if stripped == "" {
		e.SetExtractedComment(element)
		return
	}
	e.SetExtractedComment(stripped + "\n" + element)
}
