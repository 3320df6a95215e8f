package tui

import (
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/potui/potui/pofile"
	"github.com/potui/potui/review"
)

func testCatalog() *pofile.File {
	f := pofile.NewFile()
	f.Entries = append(f.Entries,
		&pofile.Entry{MsgID: "Hello", MsgStr: "Hallo"},
		&pofile.Entry{MsgID: "Goodbye"},
		&pofile.Entry{
			MsgID:        "%d file",
			MsgIDPlural:  "%d files",
			MsgStrPlural: map[int]string{0: "%d Datei", 1: "%d Dateien"},
		},
	)
	return f
}

func testReviewModel(t *testing.T) *reviewModel {
	t.Helper()
	path := filepath.Join(t.TempDir(), "de.po")
	ctrl := review.NewController(testCatalog(), path)
	return newReviewModel(ctrl, "de", slog.Default())
}

func TestReviewRowsExpandPlurals(t *testing.T) {
	m := testReviewModel(t)
	if len(m.rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(m.rows))
	}
	tr := m.table.Rows()
	if got := tr[3][0]; got != "[1] %d files" {
		t.Errorf("plural row msgid = %q", got)
	}
}

func TestReviewFilterAndClear(t *testing.T) {
	m := testReviewModel(t)

	if _, cmd := m.commitInput(reviewFilter, "Hello*"); cmd != nil {
		if msg, ok := cmd().(toastMsg); ok && msg.level == toastError {
			t.Fatalf("filter failed: %s", msg.text)
		}
	}
	if len(m.rows) != 1 {
		t.Fatalf("filtered rows = %d, want 1", len(m.rows))
	}

	if _, _ = m.commitInput(reviewFilter, ""); len(m.rows) != 4 {
		t.Errorf("cleared rows = %d, want 4", len(m.rows))
	}
}

func TestReviewCommitEditUpdatesTable(t *testing.T) {
	m := testReviewModel(t)
	m.table.SetCursor(1)

	m.prevValue = ""
	if _, cmd := m.commitInput(reviewEdit, "Tschüss"); cmd == nil {
		t.Fatal("expected feedback toast")
	}
	if got := m.rows[1].MsgStr; got != "Tschüss" {
		t.Errorf("row msgstr = %q", got)
	}
	if !m.ctrl.Dirty() {
		t.Error("controller should be dirty")
	}
}

func TestReviewStatusLineHistogram(t *testing.T) {
	m := testReviewModel(t)
	line := m.statusLine()
	if !strings.Contains(line, "row 1/4") {
		t.Errorf("status line missing cursor: %q", line)
	}
	if !strings.Contains(line, "unknown 4 (100%)") {
		t.Errorf("status line missing histogram: %q", line)
	}
}

func TestNextTagCycle(t *testing.T) {
	order := []pofile.Tag{
		pofile.TagUnknown,
		pofile.TagFuzzy,
		pofile.TagUnconfirmed,
		pofile.TagReviewed,
		pofile.TagUnknown,
	}
	for i := 0; i < len(order)-1; i++ {
		if got := nextTag(order[i]); got != order[i+1] {
			t.Errorf("nextTag(%s) = %s, want %s", order[i], got, order[i+1])
		}
	}
}
