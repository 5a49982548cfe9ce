package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/mafqudat/mafqudat/internal/ads"
	"github.com/mafqudat/mafqudat/internal/api"
	"github.com/mafqudat/mafqudat/internal/i18n"
	"github.com/mafqudat/mafqudat/internal/prefs"
	"github.com/mafqudat/mafqudat/internal/session"
	"github.com/mafqudat/mafqudat/internal/theme"
	"github.com/mafqudat/mafqudat/internal/update"
)

// Options configures the TUI.
type Options struct {
	Localizer *i18n.Localizer
	// Layout must be the Platform the Localizer was bootstrapped with.
	// Nil takes it from the Localizer.
	Layout  *Layout
	Session *session.Manager
	Ads     *ads.Service
	Theme   *theme.Manager
	Prefs   prefs.Store
	Updater *update.Updater
	Version string
	Log     *zap.Logger
}

// AdsLoadedMsg carries a page of ads.
type AdsLoadedMsg struct {
	Page *ads.Page
	Err  error
}

// AdLoadedMsg carries one ad for the details view.
type AdLoadedMsg struct {
	Ad  *api.Ad
	Err error
}

// AdCreatedMsg carries the result of posting an ad.
type AdCreatedMsg struct {
	Ad  *api.Ad
	Err error
}

// AdChangedMsg carries the result of deleting or resolving an ad.
type AdChangedMsg struct {
	ID      string
	Deleted bool
	Err     error
}

// OTPSentMsg carries the result of /register.
type OTPSentMsg struct {
	Phone string
	Err   error
}

// AuthDoneMsg carries the result of an OTP check, login or profile
// completion.
type AuthDoneMsg struct {
	Step   session.Step // registration step reached; StepDone for login
	Result *api.AuthResult
	Login  bool
	Err    error
}

// resultMsg wraps the result of a request with the request's id. Results
// of cancelled or superseded requests are dropped.
type resultMsg struct {
	seq uint64
	msg tea.Msg
}

// UpdateCheckMsg carries the result of a background update check.
type UpdateCheckMsg struct {
	Result *update.Result
	Err    error
}

// UpdateApplyMsg carries the result of an update apply.
type UpdateApplyMsg struct {
	Result *update.Result
	Err    error
}

// Model is the Bubble Tea model for the classifieds TUI.
type Model struct {
	options  Options
	loc      *i18n.Localizer
	layout   *Layout
	styles   styles
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	messages []displayMessage
	width    int
	height   int

	busy     bool   // a request is in flight
	seq      uint64 // id of the latest request
	cancelFn context.CancelFunc

	filter       ads.Filter
	page         *ads.Page
	registration *session.Registration
	form         *form

	mdRenderer *glamour.TermRenderer
	ready      bool
	quitting   bool
}

// Message roles.
const (
	roleUser    = "user"
	roleSystem  = "system"
	roleError   = "error"
	roleSuccess = "success"
	roleAd      = "ad" // markdown
)

type displayMessage struct {
	role    string
	content string
}

// New creates a new TUI model.
func New(opts Options) Model {
	// Direction changes reach the layout only through the localizer.
	layout, ok := opts.Localizer.Platform().(*Layout)
	if !ok || (opts.Layout != nil && opts.Layout != layout) {
		panic("tui: the Localizer must be bootstrapped with Options.Layout as its platform")
	}
	opts.Layout = layout
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	m := Model{
		options: opts,
		loc:     opts.Localizer,
		layout:  opts.Layout,
	}

	ta := textarea.New()
	ta.Focus()
	ta.CharLimit = 1024
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	m.textarea = ta

	m.viewport = viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	m.spinner = sp

	m.applyTheme()
	m.applyLanguage()
	return m
}

// applyTheme rebuilds everything that depends on the palette.
func (m *Model) applyTheme() {
	mode := theme.Light
	if m.options.Theme != nil {
		mode = m.options.Theme.Mode()
	}
	m.styles = newStyles(theme.PaletteFor(mode))
	m.textarea.Prompt = m.styles.inputPrompt.Render("> ")
	m.spinner.Style = m.styles.spinner

	wrap := 76
	if m.width > 4 {
		wrap = m.width - 4
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(string(mode)),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.options.Log.Warn("markdown renderer unavailable", zap.Error(err))
		renderer = nil
	}
	m.mdRenderer = renderer
}

// applyLanguage refreshes text that is not rebuilt on every frame.
func (m *Model) applyLanguage() {
	m.textarea.Placeholder = m.t("inputPlaceholder")
}

// t translates key in the active language.
func (m *Model) t(key string, data ...map[string]any) string {
	if len(data) > 0 {
		return m.loc.T(key, i18n.WithData(data[0]))
	}
	return m.loc.T(key)
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	// Background update check (only for release builds)
	if m.options.Updater != nil && !update.IsDevBuild(m.options.Version) {
		cmds = append(cmds, m.checkForUpdate())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			if m.busy && m.cancelFn != nil {
				m.cancelFn()
				m.done()
				m.system(m.t("cancelled"))
				m.updateViewport()
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit

		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			return m.handleSubmit()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		statusH := 1
		inputH := 3
		viewH := m.height - statusH - inputH
		if viewH < 1 {
			viewH = 1
		}
		m.viewport.Width = m.width
		m.viewport.Height = viewH
		m.textarea.SetWidth(m.width)
		m.applyTheme()

		if !m.ready {
			m.ready = true
			m.system(m.t("welcome") + " - " + m.t("appName"))
			m.system(m.t("help"))
		}
		m.updateViewport()

	case resultMsg:
		if msg.seq != m.seq || !m.busy {
			m.options.Log.Debug("dropping stale result", zap.Uint64("seq", msg.seq))
			return m, nil
		}
		return m.Update(msg.msg)

	case AdsLoadedMsg:
		m.done()
		if msg.Err != nil {
			m.fail(msg.Err)
		} else {
			m.page = msg.Page
			m.showPage(msg.Page)
		}
		m.updateViewport()
		return m, nil

	case AdLoadedMsg:
		m.done()
		if msg.Err != nil {
			m.fail(msg.Err)
		} else {
			m.messages = append(m.messages, displayMessage{role: roleAd, content: m.adMarkdown(msg.Ad)})
		}
		m.updateViewport()
		return m, nil

	case AdCreatedMsg:
		m.done()
		if msg.Err != nil {
			m.fail(msg.Err)
		} else {
			m.success(m.t("ads:adCreatedSuccess") + ": " + m.t("ads:adCreatedSuccessMessage"))
		}
		m.updateViewport()
		return m, nil

	case AdChangedMsg:
		m.done()
		switch {
		case msg.Err != nil:
			m.fail(msg.Err)
		case msg.Deleted:
			m.success(m.t("ads:adDeleted"))
		default:
			m.success(m.t("ads:adResolved"))
		}
		m.updateViewport()
		return m, nil

	case OTPSentMsg:
		m.done()
		if msg.Err != nil {
			m.fail(msg.Err)
		} else {
			m.system(m.t("auth:otpSent", map[string]any{"Phone": msg.Phone}))
		}
		m.updateViewport()
		return m, nil

	case AuthDoneMsg:
		m.done()
		m.authDone(msg)
		m.updateViewport()
		return m, nil

	case UpdateCheckMsg:
		if msg.Err == nil && msg.Result != nil && msg.Result.UpdateAvailable {
			m.system(m.t("updateAvailable", map[string]any{
				"Current": msg.Result.CurrentVersion,
				"Latest":  msg.Result.LatestVersion,
			}))
			m.updateViewport()
		}
		return m, nil

	case UpdateApplyMsg:
		m.done()
		switch {
		case msg.Err != nil:
			m.fail(msg.Err)
		case msg.Result.Applied:
			m.success(m.t("updated", map[string]any{"Version": msg.Result.LatestVersion}))
		default:
			m.system(m.t("upToDate"))
		}
		m.updateViewport()
		return m, nil
	}

	if m.busy {
		var spCmd tea.Cmd
		m.spinner, spCmd = m.spinner.Update(msg)
		cmds = append(cmds, spCmd)
		m.updateViewport()
	} else {
		var taCmd tea.Cmd
		m.textarea, taCmd = m.textarea.Update(msg)
		cmds = append(cmds, taCmd)
	}

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	cmds = append(cmds, vpCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.quitting {
		return m.t("goodbye") + "\n"
	}
	if !m.ready {
		return m.t("initializing")
	}

	direction := m.t("ltr")
	if m.layout.IsRTL() {
		direction = m.t("rtl")
	}
	user := m.t("guest")
	if m.options.Session != nil {
		if u, ok := m.options.Session.User(context.Background()); ok {
			user = u.DisplayName()
		}
	}
	status := StatusBar(m.styles.statusBar, m.t("appName"), i18n.NativeName(m.loc.Language()),
		direction, user, m.width, m.layout.Align())
	separator := m.styles.separator.
		Width(m.width).
		Render(strings.Repeat("─", m.width))

	return fmt.Sprintf("%s\n%s\n%s\n%s",
		status,
		m.viewport.View(),
		separator,
		m.textarea.View(),
	)
}

func (m *Model) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" && !m.optionalPending() {
		return m, nil
	}
	m.textarea.Reset()

	// Check for slash command
	if cmd := ParseCommand(input); cmd != nil {
		return m.handleCommand(cmd)
	}

	// An open form takes the line as its next answer.
	if m.form != nil {
		return m.answerForm(input)
	}

	// Bare text searches the ads.
	m.messages = append(m.messages, displayMessage{role: roleUser, content: input})
	return handleAds(m, input)
}

// start marks a new request in flight and returns its context and id.
func (m *Model) start() (context.Context, uint64) {
	ctx, cancel := context.WithCancel(context.Background())
	m.seq++
	m.busy = true
	m.cancelFn = cancel
	return ctx, m.seq
}

func (m *Model) done() {
	m.busy = false
	if m.cancelFn != nil {
		m.cancelFn()
		m.cancelFn = nil
	}
}

// request runs fn in the background with a cancellable context and shows
// the spinner until its message arrives.
func (m *Model) request(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	ctx, seq := m.start()
	m.updateViewport()
	return tea.Batch(func() tea.Msg { return resultMsg{seq: seq, msg: fn(ctx)} }, m.spinner.Tick)
}

func (m *Model) system(text string) {
	m.messages = append(m.messages, displayMessage{role: roleSystem, content: text})
}

func (m *Model) success(text string) {
	m.messages = append(m.messages, displayMessage{role: roleSuccess, content: text})
}

// fail shows err. Cancelled requests were already reported by whoever
// cancelled them.
func (m *Model) fail(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	m.options.Log.Debug("command failed", zap.Error(err))
	m.messages = append(m.messages, displayMessage{role: roleError, content: m.errorText(err)})
}

func (m *Model) renderMarkdown(content string) string {
	if m.mdRenderer == nil {
		return content
	}
	rendered, err := m.mdRenderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(rendered)
}

func (m *Model) updateViewport() {
	line := lipgloss.NewStyle().Width(m.width).Align(m.layout.Align())

	var lines []string
	for _, msg := range m.messages {
		switch msg.role {
		case roleUser:
			label := m.styles.userLabel.Render(m.layout.Arrow() + " ")
			lines = append(lines, line.Render(label+msg.content))
		case roleAd:
			lines = append(lines, line.Render(m.renderMarkdown(msg.content)))
		case roleError:
			lines = append(lines, line.Render(m.styles.errorMsg.Render(msg.content)))
		case roleSuccess:
			lines = append(lines, line.Render(m.styles.successMsg.Render(msg.content)))
		case roleSystem:
			lines = append(lines, line.Render(m.styles.systemMsg.Render(msg.content)))
		}
		lines = append(lines, "")
	}

	if m.busy {
		lines = append(lines, line.Render(m.spinner.View()+" "+m.t("loading")))
		lines = append(lines, "")
	}

	content := strings.Join(lines, "\n")
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m *Model) checkForUpdate() tea.Cmd {
	updater := m.options.Updater
	version := m.options.Version
	return func() tea.Msg {
		res, err := updater.Check(context.Background(), version)
		return UpdateCheckMsg{Result: res, Err: err}
	}
}
