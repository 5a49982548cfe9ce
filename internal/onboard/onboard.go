// Package onboard runs the first-start language selection on the plain
// terminal, before the TUI takes over.
package onboard

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mafqudat/mafqudat/internal/api"
	"github.com/mafqudat/mafqudat/internal/config"
	"github.com/mafqudat/mafqudat/internal/i18n"
	"github.com/mafqudat/mafqudat/internal/theme"
)

// Result holds the outcome of the onboarding flow.
type Result struct {
	Config          config.Config
	Language        string
	Theme           theme.Mode
	ServerReachable bool
	// RestartRequired is set when the layout direction changed and the
	// host asked for a restart.
	RestartRequired bool
}

// Runner encapsulates onboarding dependencies for testability.
type Runner struct {
	Stdin     io.Reader
	Stdout    io.Writer
	Config    config.Config
	Localizer *i18n.Localizer
	// Theme is optional. Without it the theme question is skipped.
	Theme *theme.Manager
	// Ping checks the server. Defaults to the API client's Ping.
	Ping func(ctx context.Context) error
}

// NewRunner creates a Runner with default stdin/stdout.
func NewRunner(cfg config.Config, loc *i18n.Localizer, th *theme.Manager) *Runner {
	return &Runner{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Config:    cfg,
		Localizer: loc,
		Theme:     th,
	}
}

// Run executes the first-run flow and saves the config file.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.Localizer == nil {
		return nil, errors.New("onboard: localizer is required")
	}
	w := r.Stdout
	loc := r.Localizer
	scanner := bufio.NewScanner(r.Stdin)
	res := &Result{Config: r.Config}

	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "  %s - %s\n", loc.T("welcome"), loc.T("appName"))
	fmt.Fprintln(w, "")

	// Step 1: server check, informational only
	res.ServerReachable = r.checkServer(ctx)
	key := "serverUnreachable"
	if res.ServerReachable {
		key = "serverReachable"
	}
	fmt.Fprintf(w, "  %s\n\n", loc.T(key, i18n.WithData(map[string]any{"URL": r.Config.API.BaseURL})))

	// Step 2: language
	current := loc.Language()
	fmt.Fprintf(w, "  %s\n\n", loc.T("selectLanguage"))
	for i, code := range i18n.Supported {
		marker := "  "
		if code == current {
			marker = "* "
		}
		fmt.Fprintf(w, "  %s%d) %s (%s)\n", marker, i+1, i18n.NativeName(code), code)
	}
	fmt.Fprintln(w, "")

	code := current
	for {
		fmt.Fprintf(w, "  %s", loc.T("choicePrompt", i18n.WithData(map[string]any{"Default": current})))
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			break
		}
		if c, ok := parseLanguage(input); ok {
			code = c
			break
		}
		fmt.Fprintf(w, "  %s\n", loc.T("invalidChoice", i18n.WithData(map[string]any{"Value": input})))
	}

	fmt.Fprintf(w, "  %s\n", loc.T("applyingLanguage"))
	applied, err := loc.ChangeLanguage(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("selecting language: %w", err)
	}
	res.Language = code
	res.RestartRequired = applied.RestartRequired
	fmt.Fprintf(w, "  %s\n", loc.T("languageChanged", i18n.WithData(map[string]any{"Language": i18n.NativeName(code)})))
	if applied.RestartRequired {
		fmt.Fprintf(w, "  %s\n", loc.T("restartRequired"))
	}

	// Step 3: theme, optional
	if r.Theme != nil {
		mode := r.Theme.Mode()
		fmt.Fprintln(w, "")
		fmt.Fprintf(w, "  %s", loc.T("chooseTheme", i18n.WithData(map[string]any{"Current": loc.T(string(mode))})))
		if scanner.Scan() {
			if input := strings.TrimSpace(scanner.Text()); input != "" {
				if m, ok := parseTheme(input); ok {
					if err := r.Theme.Set(ctx, m); err != nil {
						return nil, fmt.Errorf("saving theme: %w", err)
					}
					mode = m
					res.Config.TUI.Theme = string(m)
				} else {
					fmt.Fprintf(w, "  %s\n", loc.T("invalidChoice", i18n.WithData(map[string]any{"Value": input})))
				}
			}
		}
		res.Theme = mode
	}

	// Step 4: config file
	if err := config.Save(res.Config); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "  %s\n", loc.T("setupComplete"))
	return res, nil
}

func (r *Runner) checkServer(ctx context.Context) bool {
	ping := r.Ping
	if ping == nil {
		ping = api.New(r.Config.API.BaseURL).Ping
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return ping(ctx) == nil
}

// parseLanguage accepts a list number, a code or a native name.
func parseLanguage(input string) (string, bool) {
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(i18n.Supported) {
			return i18n.Supported[n-1], true
		}
		return "", false
	}
	if code := i18n.PrimarySubtag(input); i18n.IsSupported(code) {
		return code, true
	}
	for _, code := range i18n.Supported {
		if input == i18n.NativeName(code) {
			return code, true
		}
	}
	return "", false
}

func parseTheme(input string) (theme.Mode, bool) {
	switch input {
	case "1":
		return theme.Light, true
	case "2":
		return theme.Dark, true
	}
	m, err := theme.ParseMode(input)
	return m, err == nil
}
