// Package review implements the table controller backing the review
// screen: a row-per-plural-form projection of a catalog, glob filtering
// over displayed text, edit-target resolution back to catalog entries,
// and dirty tracking for save-on-exit.
package review

import (
	"errors"
	"fmt"

	"github.com/potui/potui/pofile"
)

// ErrEntryNotFound is returned when a row no longer resolves to a live
// catalog entry, for example after the catalog changed underneath a
// filtered view. The caller surfaces it and restarts the screen.
var ErrEntryNotFound = errors.New("entry not found in catalog")

// Column names a filterable table column.
type Column string

const (
	ColumnMsgID  Column = "msgid"
	ColumnMsgStr Column = "msgstr"
	ColumnTag    Column = "tag"
	ColumnNote   Column = "note"
)

// RowKind distinguishes singular rows from expanded plural-form rows.
type RowKind int

const (
	RowSingular RowKind = iota
	RowPlural
)

// Row is one displayed table line. A singular entry projects to one row;
// a plural entry projects to one row per plural-form index. All text
// fields hold the escaped display form.
type Row struct {
	Kind        RowKind
	PluralIndex int // -1 for singular rows
	MsgID       string
	MsgStr      string
	Tag         pofile.Tag
	Note        string
}

func (r Row) column(col Column) string {
	switch col {
	case ColumnMsgID:
		return r.MsgID
	case ColumnMsgStr:
		return r.MsgStr
	case ColumnTag:
		return string(r.Tag)
	case ColumnNote:
		return r.Note
	}
	return ""
}

// Controller holds the review state for one catalog.
type Controller struct {
	catalog *pofile.File
	path    string
	visible []Row
	dirty   bool
}

// NewController creates a controller over a loaded catalog. The initial
// visible set is the full projection.
func NewController(catalog *pofile.File, path string) *Controller {
	c := &Controller{catalog: catalog, path: path}
	c.visible = c.Project()
	return c
}

// Project re-derives the full row list from the catalog in entry order,
// expanding plural entries in plural-form-index order. It ignores any
// active filter and never mutates the catalog.
func (c *Controller) Project() []Row {
	var rows []Row
	for _, e := range c.catalog.Entries {
		if e.MsgID == "" || e.Obsolete {
			continue
		}
		tag := pofile.FishTag(e, pofile.TagUnknown)
		note := Escape(pofile.Note(e))
		if !e.IsPlural() {
			rows = append(rows, Row{
				Kind:        RowSingular,
				PluralIndex: -1,
				MsgID:       Escape(e.MsgID),
				MsgStr:      Escape(e.MsgStr),
				Tag:         tag,
				Note:        note,
			})
			continue
		}
		for _, idx := range e.PluralIndices() {
			msgid := e.MsgID
			if idx > 0 {
				msgid = e.MsgIDPlural
			}
			rows = append(rows, Row{
				Kind:        RowPlural,
				PluralIndex: idx,
				MsgID:       Escape(msgid),
				MsgStr:      Escape(e.MsgStrPlural[idx]),
				Tag:         tag,
				Note:        note,
			})
		}
	}
	return rows
}

// Rows returns the currently visible row set.
func (c *Controller) Rows() []Row {
	return c.visible
}

// Filter narrows the visible set to rows whose column matches the glob
// pattern. Matching runs over the escaped display text. Each call
// restarts from the full projection, so filters never compose.
func (c *Controller) Filter(pattern string, col Column) ([]Row, error) {
	re, err := compileGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad filter pattern %q: %w", pattern, err)
	}

	full := c.Project()
	matched := make([]Row, 0, len(full))
	for _, r := range full {
		if re.MatchString(r.column(col)) {
			matched = append(matched, r)
		}
	}
	c.visible = matched
	return matched, nil
}

// ClearFilter restores the full projection as the visible set.
func (c *Controller) ClearFilter() []Row {
	c.visible = c.Project()
	return c.visible
}

// Resolve maps a row back to its catalog entry. The displayed row index
// is unstable under filtering, so resolution re-matches the row's kind
// and displayed msgid against the live entry list.
func (c *Controller) Resolve(row Row) (*pofile.Entry, error) {
	for _, e := range c.catalog.Entries {
		if e.MsgID == "" || e.Obsolete {
			continue
		}
		if row.Kind == RowSingular {
			if !e.IsPlural() && Escape(e.MsgID) == row.MsgID {
				return e, nil
			}
			continue
		}
		if !e.IsPlural() {
			continue
		}
		msgid := e.MsgID
		if row.PluralIndex > 0 {
			msgid = e.MsgIDPlural
		}
		if Escape(msgid) == row.MsgID {
			return e, nil
		}
	}
	return nil, ErrEntryNotFound
}

// CommitEdit writes edited text back into the resolved entry's msgstr or
// plural slot. The text arrives in escaped display form and is unescaped
// before storage. The dirty flag is set only when the value actually
// changed. Returns whether a change was made.
func (c *Controller) CommitEdit(row Row, newText string) (bool, error) {
	e, err := c.Resolve(row)
	if err != nil {
		return false, err
	}

	value := Unescape(newText)
	if row.Kind == RowPlural {
		if e.MsgStrPlural[row.PluralIndex] == value {
			return false, nil
		}
		if e.MsgStrPlural == nil {
			e.MsgStrPlural = make(map[int]string)
		}
		e.MsgStrPlural[row.PluralIndex] = value
	} else {
		if e.MsgStr == value {
			return false, nil
		}
		e.MsgStr = value
	}
	c.dirty = true
	return true, nil
}

// ApplyTag sets the review tag on the row's entry.
func (c *Controller) ApplyTag(row Row, tag pofile.Tag) error {
	e, err := c.Resolve(row)
	if err != nil {
		return err
	}
	if pofile.FishTag(e, pofile.TagUnknown) == tag {
		return nil
	}
	pofile.ApplyTag(e, tag)
	c.dirty = true
	return nil
}

// SetNote updates the review note on the row's entry. The text arrives
// in the escaped display form, like CommitEdit input.
func (c *Controller) SetNote(row Row, text string) error {
	e, err := c.Resolve(row)
	if err != nil {
		return err
	}
	value := Unescape(text)
	if pofile.Note(e) == value {
		return nil
	}
	pofile.SetNote(e, value)
	c.dirty = true
	return nil
}

// Dirty reports whether unsaved edits exist.
func (c *Controller) Dirty() bool {
	return c.dirty
}

// Save persists the catalog and clears the dirty flag.
func (c *Controller) Save() error {
	if err := c.catalog.Save(c.path); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Discard drops unsaved edits tracking. The in-memory catalog keeps the
// edits; callers that want a clean catalog reload from disk.
func (c *Controller) Discard() {
	c.dirty = false
}
