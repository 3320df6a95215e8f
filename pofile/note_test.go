package pofile

import (
	"strings"
	"testing"
)

func TestNoteRoundTrip(t *testing.T) {
	e := &Entry{MsgID: "x"}

	if got := Note(e); got != "" {
		t.Errorf("Note on fresh entry = %q, want empty", got)
	}

	SetNote(e, "check with design team")
	if got := Note(e); got != "check with design team" {
		t.Errorf("Note = %q", got)
	}

	SetNote(e, "resolved")
	if got := Note(e); got != "resolved" {
		t.Errorf("Note after update = %q", got)
	}

	SetNote(e, "")
	if got := Note(e); got != "" {
		t.Errorf("Note after clear = %q", got)
	}
	if got := e.ExtractedComment(); got != "" {
		t.Errorf("extracted comment not cleaned: %q", got)
	}
}

func TestNotePreservesExtractorText(t *testing.T) {
	e := &Entry{MsgID: "x"}
	e.SetExtractedComment("from the extractor")

	SetNote(e, "my note")
	if got := Note(e); got != "my note" {
		t.Errorf("Note = %q", got)
	}
	if got := e.ExtractedComment(); got != "from the extractor\n<note class=\"potui\">my note</note>" {
		t.Errorf("extracted comment = %q", got)
	}

	SetNote(e, "")
	if got := e.ExtractedComment(); got != "from the extractor" {
		t.Errorf("extractor text lost: %q", got)
	}
}

func TestNoteSurvivesWrite(t *testing.T) {
	f := NewFile()
	e := &Entry{MsgID: "Hello", MsgStr: "Hallo"}
	SetNote(e, "verify tone")
	f.Entries = append(f.Entries, e)

	var buf strings.Builder
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	f2, err := Parse(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatal(err)
	}
	if got := Note(f2.Entries[0]); got != "verify tone" {
		t.Errorf("note after round trip = %q", got)
	}
}
