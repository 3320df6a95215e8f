package pofile

import (
	"reflect"
	"testing"
)

func TestApplyTag(t *testing.T) {
	e := &Entry{MsgID: "x", Flags: []string{"c-format", "fuzzy"}}

	ApplyTag(e, TagReviewed)
	want := []string{"c-format", "reviewed"}
	if !reflect.DeepEqual(e.Flags, want) {
		t.Errorf("Flags = %v, want %v", e.Flags, want)
	}

	// Applying again must not duplicate.
	ApplyTag(e, TagReviewed)
	if !reflect.DeepEqual(e.Flags, want) {
		t.Errorf("Flags after reapply = %v, want %v", e.Flags, want)
	}

	ApplyTag(e, TagUnconfirmed)
	want = []string{"c-format", "unconfirmed"}
	if !reflect.DeepEqual(e.Flags, want) {
		t.Errorf("Flags after switch = %v, want %v", e.Flags, want)
	}
}

func TestClearTag(t *testing.T) {
	e := &Entry{MsgID: "x", Flags: []string{"fuzzy", "c-format", "reviewed"}}
	ClearTag(e)
	if !reflect.DeepEqual(e.Flags, []string{"c-format"}) {
		t.Errorf("Flags = %v, want [c-format]", e.Flags)
	}
}

func TestFishTag(t *testing.T) {
	cases := []struct {
		name  string
		flags []string
		want  Tag
	}{
		{"none", []string{"c-format"}, TagUnknown},
		{"reviewed", []string{"reviewed"}, TagReviewed},
		{"fuzzy wins over reviewed", []string{"reviewed", "fuzzy"}, TagFuzzy},
		{"unconfirmed", []string{"c-format", "unconfirmed"}, TagUnconfirmed},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := &Entry{MsgID: "x", Flags: c.flags}
			if got := FishTag(e, TagUnknown); got != c.want {
				t.Errorf("FishTag = %q, want %q", got, c.want)
			}
		})
	}
}

func TestTagCounts(t *testing.T) {
	f := NewFile()
	f.Entries = []*Entry{
		{MsgID: "a", Flags: []string{"fuzzy"}},
		{MsgID: "b", Flags: []string{"reviewed"}},
		{MsgID: "c"},
		{MsgID: "d", Flags: []string{"reviewed"}},
		{MsgID: "old", Obsolete: true, Flags: []string{"fuzzy"}},
	}

	counts := f.TagCounts()
	if counts[TagFuzzy] != 1 || counts[TagReviewed] != 2 || counts[TagUnknown] != 1 {
		t.Errorf("TagCounts = %v", counts)
	}
	if total := counts[TagFuzzy] + counts[TagReviewed] + counts[TagUnknown] + counts[TagUnconfirmed]; total != 4 {
		t.Errorf("counted %d entries, want 4 (obsolete excluded)", total)
	}
}
