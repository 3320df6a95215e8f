// Package tui is the interactive terminal front end: a workflow screen
// dispatching extract/update, translate, review, and compile actions,
// with translate and review as modal sub-screens. One coarse mutex
// serializes the catalog-mutating actions; a modal holds it for its
// whole lifetime.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/potui/potui/config"
	"github.com/potui/potui/gtcmd"
	"github.com/potui/potui/i18n"
	"github.com/potui/potui/langmeta"
	"github.com/potui/potui/pofile"
	"github.com/potui/potui/review"
)

type action int

const (
	actExtract action = iota
	actTranslate
	actReview
	actCompile
	actClear
	actQuit
)

var actionLabels = map[action]string{
	actExtract:   "Extract & Update",
	actTranslate: "Translate",
	actReview:    "Review",
	actCompile:   "Compile",
	actClear:     "Clear translations",
	actQuit:      "Quit",
}

type extractDoneMsg struct{ err error }

type compileDoneMsg struct {
	compiled int
	err      error
}

type clearDoneMsg struct {
	removed int
	err     error
}

// App is the top-level workflow model.
type App struct {
	cfg     *config.Project
	rootDir string
	log     *slog.Logger

	// wf serializes the catalog-mutating actions. Modals hold it for
	// their entire lifetime, so Translate and Review never run at once.
	wf sync.Mutex

	langIdx int
	cursor  action

	busy  string // name of the running background action, "" when idle
	spin  spinner.Model
	modal tea.Model

	toast   toast
	confirm bool // clear-translations confirmation pending

	width, height int
	quitting      bool
}

// New builds the workflow app over a validated project manifest.
func New(cfg *config.Project, rootDir string, log *slog.Logger) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &App{cfg: cfg, rootDir: rootDir, log: log, spin: sp}
}

// Run starts the event loop in the alternate screen.
func (a *App) Run() error {
	_, err := tea.NewProgram(a, tea.WithAltScreen()).Run()
	return err
}

func (a *App) lang() string {
	return a.cfg.DestLangs[a.langIdx]
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		if a.modal != nil {
			var cmd tea.Cmd
			a.modal, cmd = a.modal.Update(msg)
			return a, cmd
		}
		return a, nil

	case toastMsg:
		return a, a.toast.show(msg)

	case toastExpireMsg:
		a.toast.expire(msg)
		return a, nil

	case reviewDoneMsg, translateDoneMsg:
		a.modal = nil
		a.wf.Unlock()
		return a, nil

	case extractDoneMsg:
		a.busy = ""
		a.wf.Unlock()
		if msg.err != nil {
			return a, notifyErr(a.log, "extract/update", msg.err)
		}
		return a, showInfo(i18n.T("Extraction and update completed."))

	case compileDoneMsg:
		a.busy = ""
		a.wf.Unlock()
		if msg.err != nil {
			return a, notifyErr(a.log, "compile", msg.err)
		}
		return a, showInfo(fmt.Sprintf("%s (%d)", i18n.T("Compilation completed."), msg.compiled))

	case clearDoneMsg:
		a.busy = ""
		a.wf.Unlock()
		if msg.err != nil {
			return a, notifyErr(a.log, "clear translations", msg.err)
		}
		return a, showInfo(fmt.Sprintf("removed %d catalog files", msg.removed))

	case spinner.TickMsg:
		if a.busy != "" {
			var cmd tea.Cmd
			a.spin, cmd = a.spin.Update(msg)
			return a, cmd
		}
		if a.modal != nil {
			var cmd tea.Cmd
			a.modal, cmd = a.modal.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	if a.modal != nil {
		var cmd tea.Cmd
		a.modal, cmd = a.modal.Update(msg)
		return a, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		return a.updateKey(key)
	}
	return a, nil
}

func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.confirm {
		switch msg.String() {
		case "y", "Y":
			a.confirm = false
			return a.runClear()
		default:
			a.confirm = false
			return a, nil
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		a.quitting = true
		return a, tea.Quit

	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < actQuit {
			a.cursor++
		}
	case "left", "h":
		a.langIdx = (a.langIdx + len(a.cfg.DestLangs) - 1) % len(a.cfg.DestLangs)
	case "right", "l", "tab":
		a.langIdx = (a.langIdx + 1) % len(a.cfg.DestLangs)

	case "enter", " ":
		return a.dispatch(a.cursor)
	}
	return a, nil
}

func (a *App) dispatch(act action) (tea.Model, tea.Cmd) {
	if act == actQuit {
		a.quitting = true
		return a, tea.Quit
	}

	if !a.wf.TryLock() {
		return a, showError(i18n.T("An operation is already in progress."))
	}

	switch act {
	case actExtract:
		a.busy = actionLabels[actExtract]
		return a, tea.Batch(a.spin.Tick, a.extractCmd())

	case actCompile:
		a.busy = actionLabels[actCompile]
		return a, tea.Batch(a.spin.Tick, a.compileCmd())

	case actClear:
		a.wf.Unlock()
		a.confirm = true
		return a, nil

	case actTranslate:
		m := newTranslateModel(a.cfg, a.lang(), a.log)
		a.modal = m
		return a, m.Init()

	case actReview:
		poPath := a.cfg.POPath(a.lang())
		catalog, err := pofile.Load(poPath)
		if err != nil {
			a.wf.Unlock()
			return a, notifyErr(a.log, "load catalog", err)
		}
		m := newReviewModel(review.NewController(catalog, poPath), a.lang(), a.log)
		a.modal = m
		return a, m.Init()
	}

	a.wf.Unlock()
	return a, nil
}

// extractCmd runs xgettext then merges or creates every language
// catalog from the refreshed template.
func (a *App) extractCmd() tea.Cmd {
	cfg := a.cfg
	return func() tea.Msg {
		ctx := context.Background()

		sources, err := gtcmd.FindSources(cfg.InputPaths, cfg.ExcludePatterns)
		if err != nil {
			return extractDoneMsg{err: err}
		}
		if err := os.MkdirAll(cfg.LocaleDir, 0o755); err != nil {
			return extractDoneMsg{err: err}
		}
		err = gtcmd.Extract(ctx, gtcmd.ExtractOptions{
			ProjectTitle:    cfg.Title,
			ProjectVersion:  cfg.Version,
			CopyrightHolder: cfg.Author,
			BugsEmail:       cfg.Email,
			SourceFiles:     sources,
			POTPath:         cfg.POTPath(),
			Keywords:        cfg.Keywords,
			LineWidth:       cfg.LineWidth,
		})
		if err != nil {
			return extractDoneMsg{err: err}
		}

		for _, lang := range cfg.DestLangs {
			if err := gtcmd.Update(ctx, cfg.POTPath(), cfg.POPath(lang), lang, cfg.LineWidth); err != nil {
				return extractDoneMsg{err: err}
			}
		}
		return extractDoneMsg{}
	}
}

// compileCmd runs msgfmt over every language catalog that exists.
func (a *App) compileCmd() tea.Cmd {
	cfg := a.cfg
	return func() tea.Msg {
		ctx := context.Background()
		compiled := 0
		for _, lang := range cfg.DestLangs {
			poPath := cfg.POPath(lang)
			if _, err := os.Stat(poPath); err != nil {
				continue
			}
			if err := gtcmd.Compile(ctx, poPath, cfg.MOPath(lang)); err != nil {
				return compileDoneMsg{compiled: compiled, err: err}
			}
			compiled++
		}
		return compileDoneMsg{compiled: compiled}
	}
}

// runClear deletes the per-language .po and .mo files. The template is
// kept; the next extract/update recreates the catalogs from it.
func (a *App) runClear() (tea.Model, tea.Cmd) {
	if !a.wf.TryLock() {
		return a, showError(i18n.T("An operation is already in progress."))
	}
	a.busy = actionLabels[actClear]
	cfg := a.cfg
	return a, tea.Batch(a.spin.Tick, func() tea.Msg {
		removed := 0
		for _, lang := range cfg.DestLangs {
			for _, path := range []string{cfg.POPath(lang), cfg.MOPath(lang)} {
				err := os.Remove(path)
				if err == nil {
					removed++
					continue
				}
				if !os.IsNotExist(err) {
					return clearDoneMsg{removed: removed, err: err}
				}
			}
		}
		return clearDoneMsg{removed: removed}
	})
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}
	if a.modal != nil {
		return a.modal.View() + "\n" + a.toast.View()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("potui — "+a.cfg.Title) + "\n")
	b.WriteString(subtitleStyle.Render("language: ") + selectedStyle.Render(langmeta.Label(a.lang())) + "\n\n")

	for act := actExtract; act <= actQuit; act++ {
		label := i18n.T(actionLabels[act])
		if act == a.cursor {
			b.WriteString(selectedStyle.Render("> "+label) + "\n")
		} else {
			b.WriteString(unselectedStyle.Render("  "+label) + "\n")
		}
	}

	b.WriteString("\n")
	if a.busy != "" {
		b.WriteString(a.spin.View() + " " + a.busy + "\n")
	}
	if a.confirm {
		b.WriteString(modalStyle.Render("Delete all translation catalogs? (y/n)") + "\n")
	}
	b.WriteString(a.toast.View() + "\n")
	b.WriteString(helpStyle.Render("↑/↓ action · ←/→ language · enter run · q quit"))
	return b.String()
}
