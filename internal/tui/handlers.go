package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mafqudat/mafqudat/internal/i18n"
	"github.com/mafqudat/mafqudat/internal/prefs"
	"github.com/mafqudat/mafqudat/internal/theme"
	"github.com/mafqudat/mafqudat/internal/update"
)

func handleQuit(m *Model, args string) (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func handleHelp(m *Model, args string) (tea.Model, tea.Cmd) {
	m.system(m.HelpText())
	m.updateViewport()
	return m, nil
}

func handleClear(m *Model, args string) (tea.Model, tea.Cmd) {
	m.messages = nil
	m.updateViewport()
	return m, nil
}

func handleCancel(m *Model, args string) (tea.Model, tea.Cmd) {
	if m.busy {
		m.done()
	}
	m.form = nil
	m.system(m.t("cancelled"))
	m.updateViewport()
	return m, nil
}

func handleLanguage(m *Model, args string) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	switch strings.ToLower(args) {
	case "":
		direction := m.t("ltr")
		if m.loc.IsRTL() {
			direction = m.t("rtl")
		}
		lines := []string{m.t("currentLanguage", map[string]any{
			"Language":  i18n.NativeName(m.loc.Language()),
			"Direction": direction,
		})}
		for _, code := range i18n.Supported {
			lines = append(lines, fmt.Sprintf("  %s  %s", code, i18n.NativeName(code)))
		}
		lines = append(lines, m.t("usage", map[string]any{"Usage": "/language ar|en|ku|reset"}))
		m.system(strings.Join(lines, "\n"))
	case "reset":
		if err := m.loc.ResetLanguage(ctx); err != nil {
			m.system(m.t("errors:storage", map[string]any{"Error": err.Error()}))
			break
		}
		m.success(m.t("settings:settingsResetTitle") + ": " + m.t("settings:settingsResetMessage"))
	default:
		code := i18n.PrimarySubtag(args)
		res, err := m.loc.ChangeLanguage(ctx, code)
		if errors.Is(err, i18n.ErrUnsupportedLanguage) {
			m.fail(err)
			break
		}
		if err != nil {
			m.system(m.t("errors:storage", map[string]any{"Error": err.Error()}))
			break
		}
		m.applyLanguage()
		m.success(m.t("languageChanged", map[string]any{"Language": i18n.NativeName(code)}))
		if res.RestartRequired {
			m.system(m.t("restartRequired"))
		}
	}
	m.updateViewport()
	return m, nil
}

func handleTheme(m *Model, args string) (tea.Model, tea.Cmd) {
	if m.options.Theme == nil {
		m.fail(errors.New("theme manager not configured"))
		m.updateViewport()
		return m, nil
	}
	ctx := context.Background()
	var err error
	switch strings.ToLower(args) {
	case "":
		m.system(m.t("currentTheme", map[string]any{"Mode": m.t(string(m.options.Theme.Mode()))}) + "\n" +
			m.t("usage", map[string]any{"Usage": "/theme light|dark|toggle"}))
		m.updateViewport()
		return m, nil
	case "toggle":
		_, err = m.options.Theme.Toggle(ctx)
	default:
		var mode theme.Mode
		mode, err = theme.ParseMode(args)
		if err != nil {
			m.system(m.t("invalidChoice", map[string]any{"Value": args}))
			m.updateViewport()
			return m, nil
		}
		err = m.options.Theme.Set(ctx, mode)
	}
	if err != nil {
		m.system(m.t("errors:storage", map[string]any{"Error": err.Error()}))
	} else {
		m.applyTheme()
		m.success(m.t("themeChanged", map[string]any{"Mode": m.t(string(m.options.Theme.Mode()))}))
	}
	m.updateViewport()
	return m, nil
}

// settingKeys maps /settings names to preference keys and labels.
var settingKeys = map[string]struct{ pref, label string }{
	"notifications": {prefs.KeyNotifications, "settings:enableNotifications"},
	"location":      {prefs.KeyLocation, "settings:locationServices"},
}

func handleSettings(m *Model, args string) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	fields := strings.Fields(strings.ToLower(args))

	if len(fields) == 0 {
		m.system(m.settingsSummary(ctx))
		m.updateViewport()
		return m, nil
	}

	setting, ok := settingKeys[fields[0]]
	if !ok || len(fields) != 2 || (fields[1] != "on" && fields[1] != "off") || m.options.Prefs == nil {
		m.system(m.t("usage", map[string]any{"Usage": "/settings notifications|location on|off"}))
		m.updateViewport()
		return m, nil
	}

	on := fields[1] == "on"
	if err := prefs.SetBool(ctx, m.options.Prefs, setting.pref, on); err != nil {
		m.system(m.t("errors:storage", map[string]any{"Error": err.Error()}))
	} else {
		m.success(m.t("settings:settingChanged", map[string]any{
			"Setting": m.t(setting.label),
			"Value":   m.onOff(on),
		}))
	}
	m.updateViewport()
	return m, nil
}

func (m *Model) settingsSummary(ctx context.Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", m.t("settings:appSettings"))
	fmt.Fprintf(&b, "  %s: %s\n", m.t("settings:language"), i18n.NativeName(m.loc.Language()))
	if m.options.Theme != nil {
		fmt.Fprintf(&b, "  %s: %s\n", m.t("settings:darkMode"), m.onOff(m.options.Theme.Mode() == theme.Dark))
	}
	if m.options.Prefs != nil {
		for _, name := range []string{"notifications", "location"} {
			s := settingKeys[name]
			fmt.Fprintf(&b, "  %s: %s\n", m.t(s.label), m.onOff(prefs.GetBool(ctx, m.options.Prefs, s.pref)))
		}
	}
	fmt.Fprintf(&b, "  %s: %s\n\n", m.t("settings:version"), m.options.Version)
	fmt.Fprintf(&b, "%s\n%s", m.t("settings:about"), m.t("settings:aboutApp"))
	return b.String()
}

func (m *Model) onOff(on bool) string {
	if on {
		return m.t("enabled")
	}
	return m.t("disabled")
}

func handleUpdate(m *Model, args string) (tea.Model, tea.Cmd) {
	if m.options.Updater == nil || update.IsDevBuild(m.options.Version) {
		m.system(m.t("devBuild"))
		m.updateViewport()
		return m, nil
	}
	m.system(m.t("updateChecking"))
	updater, version := m.options.Updater, m.options.Version
	return m, m.request(func(ctx context.Context) tea.Msg {
		res, err := updater.Apply(ctx, version)
		return UpdateApplyMsg{Result: res, Err: err}
	})
}
