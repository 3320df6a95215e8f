package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/potui/potui/i18n"
	"github.com/potui/potui/pofile"
	"github.com/potui/potui/review"
)

// reviewDoneMsg tells the workflow screen the review modal dismissed.
type reviewDoneMsg struct{}

func closeReview() tea.Msg { return reviewDoneMsg{} }

type reviewMode int

const (
	reviewBrowse reviewMode = iota
	reviewEdit
	reviewNote
	reviewFilter
	reviewConfirmQuit
)

type reviewKeyMap struct {
	Edit      key.Binding
	Tag       key.Binding
	Note      key.Binding
	Filter    key.Binding
	Column    key.Binding
	Save      key.Binding
	Quit      key.Binding
	ClearBack key.Binding
}

func (k reviewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Tag, k.Note, k.Filter, k.Save, k.Quit}
}

func (k reviewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Edit, k.Tag, k.Note},
		{k.Filter, k.Column, k.ClearBack},
		{k.Save, k.Quit},
	}
}

var reviewKeys = reviewKeyMap{
	Edit:      key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "edit")),
	Tag:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "cycle tag")),
	Note:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "note")),
	Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Column:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "filter column")),
	Save:      key.NewBinding(key.WithKeys("ctrl+s", "s"), key.WithHelp("s", "save")),
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "back")),
	ClearBack: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filter/back")),
}

// filterColumns is the cycle order of the filter target column.
var filterColumns = []review.Column{
	review.ColumnMsgID,
	review.ColumnMsgStr,
	review.ColumnTag,
	review.ColumnNote,
}

// reviewModel is the review-table modal: a table over the review
// controller with edit, tag, note, and filter operations. All edits go
// through the controller; the model itself never touches the catalog.
type reviewModel struct {
	ctrl *review.Controller
	lang string
	log  *slog.Logger

	table table.Model
	rows  []review.Row

	mode      reviewMode
	input     textinput.Model
	prevValue string

	filterCol     review.Column
	filterPattern string

	help  help.Model
	width int
}

func newReviewModel(ctrl *review.Controller, lang string, log *slog.Logger) *reviewModel {
	ti := textinput.New()
	ti.CharLimit = 0

	m := &reviewModel{
		ctrl:      ctrl,
		lang:      lang,
		log:       log,
		input:     ti,
		filterCol: review.ColumnMsgID,
		help:      help.New(),
		width:     100,
	}

	m.table = table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("212"))
	m.table.SetStyles(styles)

	m.setRows(ctrl.Rows())
	return m
}

func (m *reviewModel) columns() []table.Column {
	text := (m.width - 24) / 2
	if text < 16 {
		text = 16
	}
	return []table.Column{
		{Title: "msgid", Width: text},
		{Title: "msgstr", Width: text},
		{Title: "tag", Width: 11},
		{Title: "note", Width: 13},
	}
}

func (m *reviewModel) setRows(rows []review.Row) {
	m.rows = rows
	tr := make([]table.Row, len(rows))
	for i, r := range rows {
		msgid := r.MsgID
		if r.Kind == review.RowPlural {
			msgid = fmt.Sprintf("[%d] %s", r.PluralIndex, msgid)
		}
		tr[i] = table.Row{msgid, r.MsgStr, string(r.Tag), r.Note}
	}
	m.table.SetRows(tr)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

func (m *reviewModel) selected() (review.Row, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return review.Row{}, false
	}
	return m.rows[i], true
}

// refresh re-derives the visible rows after a mutation, reapplying the
// active filter so the cursor stays on live data.
func (m *reviewModel) refresh() {
	if m.filterPattern != "" {
		rows, err := m.ctrl.Filter(m.filterPattern, m.filterCol)
		if err == nil {
			m.setRows(rows)
			return
		}
	}
	m.setRows(m.ctrl.ClearFilter())
}

func (m *reviewModel) Init() tea.Cmd { return nil }

func (m *reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetColumns(m.columns())
		m.table.SetHeight(msg.Height - 8)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case reviewEdit, reviewNote, reviewFilter:
			return m.updateInput(msg)
		case reviewConfirmQuit:
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *reviewModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, reviewKeys.Edit):
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = reviewEdit
		m.prevValue = row.MsgStr
		m.input.SetValue(row.MsgStr)
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, reviewKeys.Tag):
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		next := nextTag(row.Tag)
		if err := m.ctrl.ApplyTag(row, next); err != nil {
			return m, m.surface("apply tag", err)
		}
		m.refresh()
		return m, nil

	case key.Matches(msg, reviewKeys.Note):
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = reviewNote
		m.prevValue = row.Note
		m.input.SetValue(row.Note)
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, reviewKeys.Filter):
		m.mode = reviewFilter
		m.input.SetValue(m.filterPattern)
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, reviewKeys.Column):
		for i, col := range filterColumns {
			if col == m.filterCol {
				m.filterCol = filterColumns[(i+1)%len(filterColumns)]
				break
			}
		}
		return m, nil

	case key.Matches(msg, reviewKeys.Save):
		if err := m.ctrl.Save(); err != nil {
			return m, m.surface("save catalog", err)
		}
		return m, showInfo(i18n.T("Catalog saved."))

	case key.Matches(msg, reviewKeys.ClearBack):
		if m.filterPattern != "" {
			m.filterPattern = ""
			m.setRows(m.ctrl.ClearFilter())
			return m, nil
		}
		return m.quit()

	case key.Matches(msg, reviewKeys.Quit):
		return m.quit()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *reviewModel) quit() (tea.Model, tea.Cmd) {
	if m.ctrl.Dirty() {
		m.mode = reviewConfirmQuit
		return m, nil
	}
	return m, closeReview
}

func (m *reviewModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.ctrl.Discard()
		return m, closeReview
	case "s", "S":
		if err := m.ctrl.Save(); err != nil {
			m.mode = reviewBrowse
			return m, m.surface("save catalog", err)
		}
		return m, closeReview
	case "n", "N", "esc":
		m.mode = reviewBrowse
	}
	return m, nil
}

func (m *reviewModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = reviewBrowse
		m.input.Blur()
		return m, nil
	case "enter":
		value := m.input.Value()
		mode := m.mode
		m.mode = reviewBrowse
		m.input.Blur()
		return m.commitInput(mode, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *reviewModel) commitInput(mode reviewMode, value string) (tea.Model, tea.Cmd) {
	switch mode {
	case reviewEdit:
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		changed, err := m.ctrl.CommitEdit(row, value)
		if err != nil {
			return m, m.surface("edit entry", err)
		}
		m.refresh()
		if changed {
			return m, showInfo(fmt.Sprintf("msgstr: %q -> %q", m.prevValue, value))
		}
		return m, nil

	case reviewNote:
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.ctrl.SetNote(row, value); err != nil {
			return m, m.surface("set note", err)
		}
		m.refresh()
		return m, nil

	case reviewFilter:
		if value == "" {
			m.filterPattern = ""
			m.setRows(m.ctrl.ClearFilter())
			return m, nil
		}
		rows, err := m.ctrl.Filter(value, m.filterCol)
		if err != nil {
			return m, m.surface("filter", err)
		}
		m.filterPattern = value
		m.setRows(rows)
		return m, nil
	}
	return m, nil
}

// surface converts a controller error into a toast. A stale row means
// the screen's view of the catalog is gone; dismiss so the user can
// reopen it fresh.
func (m *reviewModel) surface(op string, err error) tea.Cmd {
	cmd := notifyErr(m.log, op, err)
	if errors.Is(err, review.ErrEntryNotFound) {
		return tea.Batch(cmd, closeReview)
	}
	return cmd
}

func (m *reviewModel) View() string {
	var b strings.Builder
	title := fmt.Sprintf("Review — %s", m.lang)
	if m.ctrl.Dirty() {
		title += " [modified]"
	}
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(m.table.View() + "\n")
	b.WriteString(statusStyle.Render(m.statusLine()) + "\n")

	switch m.mode {
	case reviewEdit:
		b.WriteString(modalStyle.Render("msgstr:\n" + m.input.View()))
	case reviewNote:
		b.WriteString(modalStyle.Render("note:\n" + m.input.View()))
	case reviewFilter:
		b.WriteString(modalStyle.Render(fmt.Sprintf("filter %s:\n%s", m.filterCol, m.input.View())))
	case reviewConfirmQuit:
		b.WriteString(modalStyle.Render(i18n.T("Unsaved changes. Discard?") + " (y/n/s)"))
	default:
		b.WriteString(helpStyle.Render(m.help.View(reviewKeys)))
	}
	return b.String()
}

// statusLine shows cursor position, visible row count, and the tag
// histogram over the full projection.
func (m *reviewModel) statusLine() string {
	var b strings.Builder
	fmt.Fprintf(&b, "row %d/%d", m.table.Cursor()+1, len(m.rows))
	if m.filterPattern != "" {
		fmt.Fprintf(&b, " · filter %s=%q", m.filterCol, m.filterPattern)
	}

	all := m.ctrl.Project()
	counts := map[pofile.Tag]int{}
	for _, r := range all {
		counts[r.Tag]++
	}
	tags := make([]pofile.Tag, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	for _, tag := range tags {
		pct := 0
		if len(all) > 0 {
			pct = counts[tag] * 100 / len(all)
		}
		fmt.Fprintf(&b, " · %s %d (%d%%)", tag, counts[tag], pct)
	}
	return b.String()
}

// nextTag cycles through the tag vocabulary in declaration order.
func nextTag(tag pofile.Tag) pofile.Tag {
	switch tag {
	case pofile.TagUnknown:
		return pofile.TagFuzzy
	case pofile.TagFuzzy:
		return pofile.TagUnconfirmed
	case pofile.TagUnconfirmed:
		return pofile.TagReviewed
	default:
		return pofile.TagUnknown
	}
}
