package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/potui/potui/config"
	"github.com/potui/potui/i18n"
	"github.com/potui/potui/pofile"
	"github.com/potui/potui/settings"
	"github.com/potui/potui/translate"
)

// translateDoneMsg tells the workflow screen the translate modal
// dismissed.
type translateDoneMsg struct{}

func closeTranslate() tea.Msg { return translateDoneMsg{} }

type jobProgressMsg struct{ done, total int }

type jobLogMsg struct{ line string }

type jobDoneMsg struct {
	state translate.JobState
	err   error
}

type translatePhase int

const (
	translateForm translatePhase = iota
	translateRunning
	translateFinished
)

// translateModel drives one machine-translation run: a settings form
// showing only the fields the selected service's capabilities declare,
// then a progress view over the background job. Cancelling or failing
// dismisses without saving; the orchestrator saves only on completion.
type translateModel struct {
	cfg  *config.Project
	lang string
	log  *slog.Logger

	phase translatePhase
	form  *huh.Form

	service    string
	apiKey     string
	keyTier    string
	model      string
	region     string
	httpProxy  string
	httpsProxy string
	override   bool
	markFuzzy  bool

	translator *translate.Translator
	events     chan tea.Msg
	progress   progress.Model
	spin       spinner.Model
	done       int
	total      int
	tail       []string

	finalState translate.JobState
	finalErr   error
}

func newTranslateModel(cfg *config.Project, lang string, log *slog.Logger) *translateModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := &translateModel{
		cfg:        cfg,
		lang:       lang,
		log:        log,
		service:    cfg.Presets.Service,
		keyTier:    cfg.Presets.KeyTier,
		model:      cfg.Presets.Model,
		region:     cfg.Presets.Region,
		httpProxy:  cfg.Presets.HTTPProxy,
		httpsProxy: cfg.Presets.HTTPSProxy,
		override:   cfg.Presets.OverrideExisting,
		markFuzzy:  cfg.Presets.MarkFuzzy,
		translator: translate.NewTranslator(),
		progress:   progress.New(progress.WithDefaultGradient()),
		spin:       sp,
	}
	if m.service == "" {
		m.service = translate.Services()[0].Name
	}
	if m.keyTier == "" {
		m.keyTier = "free"
	}
	m.form = m.buildForm()
	return m
}

// caps returns the capability flags of the currently selected service.
func (m *translateModel) caps() translate.Capabilities {
	if info, ok := translate.Lookup(m.service); ok {
		return info.Caps
	}
	return translate.Capabilities{}
}

// buildForm assembles the settings form. Capability-dependent groups
// hide themselves while the selected service does not consume them.
func (m *translateModel) buildForm() *huh.Form {
	names := make([]string, 0, len(translate.Services()))
	for _, s := range translate.Services() {
		names = append(names, s.Name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(i18n.T("Service")).
				Options(huh.NewOptions(names...)...).
				Value(&m.service),
			huh.NewConfirm().
				Title(i18n.T("Override existing translations")).
				Value(&m.override),
			huh.NewConfirm().
				Title(i18n.T("Mark new translations fuzzy")).
				Value(&m.markFuzzy),
		),
		huh.NewGroup(
			huh.NewInput().
				Title(i18n.T("API key")).
				EchoMode(huh.EchoModePassword).
				Value(&m.apiKey),
			huh.NewSelect[string]().
				Title(i18n.T("Key tier")).
				Options(huh.NewOptions("free", "pro")...).
				Value(&m.keyTier),
		).WithHideFunc(func() bool { return !m.caps().NeedsAPIKey }),
		huh.NewGroup(
			huh.NewInput().
				Title(i18n.T("Model")).
				Value(&m.model),
		).WithHideFunc(func() bool { return !m.caps().SupportsModel }),
		huh.NewGroup(
			huh.NewInput().
				Title(i18n.T("Region")).
				Value(&m.region),
		).WithHideFunc(func() bool { return !m.caps().SupportsRegion }),
		huh.NewGroup(
			huh.NewInput().
				Title(i18n.T("HTTP proxy")).
				Value(&m.httpProxy),
			huh.NewInput().
				Title(i18n.T("HTTPS proxy")).
				Value(&m.httpsProxy),
		).WithHideFunc(func() bool { return !m.caps().SupportsProxies }),
	)
}

func (m *translateModel) Init() tea.Cmd { return m.form.Init() }

func (m *translateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.phase {
	case translateForm:
		return m.updateForm(msg)
	case translateRunning:
		return m.updateRunning(msg)
	default:
		return m.updateFinished(msg)
	}
}

func (m *translateModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		return m, closeTranslate
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		return m, closeTranslate
	case huh.StateCompleted:
		return m.startJob(cmd)
	}
	return m, cmd
}

// startJob assembles the service configuration, loads the catalog, and
// launches the background translation job.
func (m *translateModel) startJob(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	svcCfg := m.cfg.TranslationConfig(m.lang)
	svcCfg.KeyTier = m.keyTier
	svcCfg.Model = m.model
	svcCfg.Region = m.region
	svcCfg.APIKey, _ = settings.APIKey(m.service, m.apiKey)
	proxies := map[string]string{}
	if m.httpProxy != "" {
		proxies["http"] = m.httpProxy
	}
	if m.httpsProxy != "" {
		proxies["https"] = m.httpsProxy
	}
	if len(proxies) > 0 {
		svcCfg.Proxies = proxies
	}

	backend, err := translate.NewNegotiated(m.service, svcCfg)
	if err != nil {
		m.form = m.buildForm()
		return m, tea.Batch(cmd, notifyErr(m.log, "create backend", err), m.form.Init())
	}

	poPath := m.cfg.POPath(m.lang)
	catalog, err := pofile.Load(poPath)
	if err != nil {
		m.form = m.buildForm()
		return m, tea.Batch(cmd, notifyErr(m.log, "load catalog", err), m.form.Init())
	}

	events := make(chan tea.Msg, 128)
	opts := translate.JobOptions{
		OverrideExisting: m.override,
		MarkFuzzy:        m.markFuzzy,
		OnProgress: func(done, total int) {
			events <- jobProgressMsg{done: done, total: total}
		},
		OnLog: func(line string) {
			events <- jobLogMsg{line: line}
		},
	}
	if err := m.translator.Start(catalog, poPath, backend, opts); err != nil {
		m.form = m.buildForm()
		return m, tea.Batch(cmd, notifyErr(m.log, "start translation", err), m.form.Init())
	}
	go func() {
		m.translator.Wait()
		events <- jobDoneMsg{state: m.translator.State(), err: m.translator.Err()}
	}()

	m.events = events
	m.phase = translateRunning
	m.log.Info("translation started",
		"service", m.service, "lang", m.lang, "override", m.override)
	return m, tea.Batch(cmd, m.spin.Tick, m.listen())
}

func (m *translateModel) listen() tea.Cmd {
	return func() tea.Msg { return <-m.events }
}

func (m *translateModel) updateRunning(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "c", "ctrl+c":
			m.translator.Cancel()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case jobProgressMsg:
		m.done, m.total = msg.done, msg.total
		return m, m.listen()

	case jobLogMsg:
		m.tail = append(m.tail, msg.line)
		if len(m.tail) > 5 {
			m.tail = m.tail[len(m.tail)-5:]
		}
		return m, m.listen()

	case jobDoneMsg:
		m.phase = translateFinished
		m.finalState = msg.state
		m.finalErr = msg.err
		switch msg.state {
		case translate.JobCompleted:
			m.log.Info("translation completed", "lang", m.lang, "entries", m.done)
			return m, showInfo(i18n.T("Translation completed."))
		case translate.JobCancelled:
			m.log.Info("translation cancelled", "lang", m.lang, "done", m.done)
			return m, showInfo(i18n.T("Translation cancelled."))
		default:
			return m, notifyErr(m.log, "translate", msg.err)
		}
	}
	return m, nil
}

func (m *translateModel) updateFinished(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return m, closeTranslate
	}
	return m, nil
}

func (m *translateModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Translate — %s", m.lang)) + "\n")

	switch m.phase {
	case translateForm:
		b.WriteString(m.form.View())

	case translateRunning:
		frac := 0.0
		if m.total > 0 {
			frac = float64(m.done) / float64(m.total)
		}
		fmt.Fprintf(&b, "%s %s (%d/%d)\n\n",
			m.spin.View(), m.service, m.done, m.total)
		b.WriteString(m.progress.ViewAs(frac) + "\n\n")
		for _, line := range m.tail {
			b.WriteString(subtitleStyle.Render(line) + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("esc/c cancel"))

	case translateFinished:
		fmt.Fprintf(&b, "%s: %s\n", m.service, m.finalState)
		if m.finalErr != nil {
			b.WriteString(toastErrorStyle.Render(m.finalErr.Error()) + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("press any key to return"))
	}
	return b.String()
}
