package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const toastDuration = 4 * time.Second

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastError
)

type toastMsg struct {
	level toastLevel
	text  string
}

type toastExpireMsg struct {
	id int
}

// toast is a transient one-line notification. A newer toast replaces
// the current one; the expiry of a replaced toast is ignored.
type toast struct {
	id    int
	level toastLevel
	text  string
}

func (t *toast) show(msg toastMsg) tea.Cmd {
	t.id++
	t.level = msg.level
	t.text = msg.text
	id := t.id
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpireMsg{id: id}
	})
}

func (t *toast) expire(msg toastExpireMsg) {
	if msg.id == t.id {
		t.text = ""
	}
}

func (t *toast) View() string {
	if t.text == "" {
		return ""
	}
	if t.level == toastError {
		return toastErrorStyle.Render(t.text)
	}
	return toastInfoStyle.Render(t.text)
}

func showInfo(text string) tea.Cmd {
	return func() tea.Msg { return toastMsg{level: toastInfo, text: text} }
}

func showError(text string) tea.Cmd {
	return func() tea.Msg { return toastMsg{level: toastError, text: text} }
}

// notifyErr is the one boundary where a workflow-step error turns into
// a user notification: log with context, toast, and stop propagating.
// Callers above it treat the step as handled; code below it returns
// errors normally.
func notifyErr(log *slog.Logger, op string, err error) tea.Cmd {
	log.Error(op, "error", err)
	return showError(op + ": " + err.Error())
}
