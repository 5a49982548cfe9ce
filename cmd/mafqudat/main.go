package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/mafqudat/mafqudat/internal/ads"
	"github.com/mafqudat/mafqudat/internal/api"
	"github.com/mafqudat/mafqudat/internal/config"
	"github.com/mafqudat/mafqudat/internal/i18n"
	"github.com/mafqudat/mafqudat/internal/logging"
	"github.com/mafqudat/mafqudat/internal/onboard"
	"github.com/mafqudat/mafqudat/internal/prefs"
	"github.com/mafqudat/mafqudat/internal/session"
	"github.com/mafqudat/mafqudat/internal/theme"
	"github.com/mafqudat/mafqudat/internal/tui"
	"github.com/mafqudat/mafqudat/internal/update"
)

var version = "dev"

// flags holds the options that take effect before the TUI starts.
type flags struct {
	apiURL        string
	lang          string
	resetLanguage bool
}

func main() {
	// Parse --api-url, --lang and --reset-language from args
	var f flags
	filteredArgs := []string{os.Args[0]}
	for i := 1; i < len(os.Args); i++ {
		switch {
		case os.Args[i] == "--api-url" && i+1 < len(os.Args):
			f.apiURL = os.Args[i+1]
			i++ // skip the value
		case os.Args[i] == "--lang" && i+1 < len(os.Args):
			f.lang = os.Args[i+1]
			i++
		case os.Args[i] == "--reset-language":
			f.resetLanguage = true
		default:
			filteredArgs = append(filteredArgs, os.Args[i])
		}
	}
	os.Args = filteredArgs

	// Fall back to MAFQUDAT_API_URL env var
	if f.apiURL == "" {
		f.apiURL = os.Getenv("MAFQUDAT_API_URL")
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v":
			fmt.Printf("mafqudat %s\n", version)
			return
		case "--help", "-h":
			printHelp()
			return
		case "--uninstall":
			runUninstall()
			return
		case "--update":
			runUpdate()
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown option: %s\n\n", os.Args[1])
			printHelp()
			os.Exit(2)
		}
	}

	if err := run(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	// Flag and MAFQUDAT_API_URL override config file and MAFQUDAT_API_BASE_URL
	if f.apiURL != "" {
		cfg.API.BaseURL = f.apiURL
	}

	logPath := cfg.Log.File
	if logPath == "" {
		logPath = config.LogFile()
	}
	log, closeLog, err := logging.New(cfg.Log.Level, logPath)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer closeLog()
	log.Info("starting", zap.String("version", version), zap.String("api", cfg.API.BaseURL))

	store, err := prefs.Open(cfg.Storage.Backend, config.Dir(), log)
	if err != nil {
		return fmt.Errorf("opening preferences: %w", err)
	}
	defer store.Close()

	if f.resetLanguage {
		if err := store.Remove(ctx, prefs.KeyLanguage); err != nil {
			return err
		}
		if err := store.Remove(ctx, prefs.KeyHasLanguage); err != nil {
			return err
		}
	}

	// Bootstrap the language before any screen renders.
	layout := &tui.Layout{}
	loc, err := i18n.Bootstrap(ctx, i18n.Options{
		Store:        store,
		Platform:     layout,
		DeviceLocale: config.DetectLocale,
		Default:      cfg.Language.Default,
		Logger:       log,
	})
	if err != nil {
		return fmt.Errorf("loading translations: %w", err)
	}
	if f.lang != "" {
		if _, err := loc.ChangeLanguage(ctx, i18n.PrimarySubtag(f.lang)); err != nil {
			return fmt.Errorf("--lang %s: %w", f.lang, err)
		}
	}

	th := theme.NewManager(store, theme.Device(cfg.TUI.Theme))
	th.Load(ctx)

	client := api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.APITimeout()),
		api.WithTokenSource(session.Tokens{Store: store}),
		api.WithLogger(log),
	)

	// First run, or no language picked yet: onboarding
	if config.IsFirstRun() || !loc.HasExplicitSelection(ctx) {
		runner := onboard.NewRunner(cfg, loc, th)
		runner.Ping = client.Ping
		result, err := runner.Run(ctx)
		if err != nil {
			return err
		}
		cfg = result.Config
	}

	sess := session.NewManager(store, client, log)
	tuiModel := tui.New(tui.Options{
		Localizer: loc,
		Layout:    layout,
		Session:   sess,
		Ads:       ads.NewService(client, sess, log),
		Theme:     th,
		Prefs:     store,
		Updater:   update.New(cfg.Update.Repo, log),
		Version:   version,
		Log:       log,
	})

	p := tea.NewProgram(tuiModel, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runUpdate() {
	if update.IsDevBuild(version) {
		fmt.Println("Auto-update is not available for development builds.")
		return
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Checking for updates...")
	res, err := update.New(cfg.Update.Repo, nil).Apply(context.Background(), version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Update failed: %v\n", err)
		os.Exit(1)
	}
	if res.Applied {
		fmt.Printf("Updated to v%s. Restart mafqudat to use the new version.\n", res.LatestVersion)
	} else {
		fmt.Println("Already running the latest version.")
	}
}

func runUninstall() {
	configDir := config.Dir()
	fmt.Println("Mafqudat Uninstall")
	fmt.Println("==================")
	fmt.Println("")
	fmt.Println("This will remove all mafqudat data, including your session and language choice:")
	fmt.Printf("  Config & data: %s\n", configDir)
	fmt.Println("")
	fmt.Print("Are you sure? (y/N) ")

	var answer string
	fmt.Scanln(&answer)
	if strings.ToLower(answer) != "y" {
		fmt.Println("Cancelled.")
		return
	}

	if err := os.RemoveAll(configDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error removing %s: %v\n", configDir, err)
		os.Exit(1)
	}
	fmt.Printf("Removed %s\n", configDir)

	// Find and report binary location
	exe, err := os.Executable()
	if err == nil {
		fmt.Printf("\nTo complete removal, delete the binary:\n  rm %s\n", exe)
	}
	fmt.Println("\nMafqudat has been uninstalled.")
}

func printHelp() {
	fmt.Printf(`mafqudat %s - lost and found documents in Iraq

Usage:
  mafqudat                      Start the TUI
  mafqudat --api-url <url>      Use a custom backend
  mafqudat --lang <ar|en|ku>    Switch language before starting
  mafqudat --reset-language     Forget the chosen language and ask again
  mafqudat --version            Print version and exit
  mafqudat --help               Show this help
  mafqudat --update             Update to the latest version
  mafqudat --uninstall          Remove all mafqudat data from your system

Slash commands (in TUI):
  /ads [query]          Browse or search ads
  /filter key=value     Filter by type, category, governorate or search
  /ad <id>              Show ad details
  /post                 Post a new ad
  /register <phone>     Create an account
  /login <phone> <pw>   Log in
  /language [code]      Show or change the language
  /help                 Show all commands

Configuration:
  Config is stored in %s
  Override with MAFQUDAT_CONFIG_DIR environment variable.
  Any setting can be overridden with MAFQUDAT_<SECTION>_<KEY>,
  e.g. MAFQUDAT_API_BASE_URL or MAFQUDAT_LOG_LEVEL.

Backend (priority: flag > env > config > default):
  --api-url <url>         Override the API base URL
  MAFQUDAT_API_URL        Environment variable

Examples:
  mafqudat                                         Start browsing
  mafqudat --lang ku                               Start in Kurdish
  mafqudat --api-url https://api.example.iq        Use another backend
  MAFQUDAT_CONFIG_DIR=/tmp/test mafqudat           Use custom config dir
`, version, config.Dir())
}
