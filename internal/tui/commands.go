package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Command represents a parsed slash command.
type Command struct {
	Name string
	Args string
}

// ParseCommand parses a slash command from input.
// Returns nil if the input is not a slash command.
func ParseCommand(input string) *Command {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return nil
	}

	input = input[1:] // strip leading /
	parts := strings.SplitN(input, " ", 2)
	cmd := &Command{Name: strings.ToLower(parts[0])}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	return cmd
}

type handler func(m *Model, args string) (tea.Model, tea.Cmd)

var commands map[string]handler

func init() {
	commands = map[string]handler{
		"ads":      handleAds,
		"filter":   handleFilter,
		"more":     handleMore,
		"ad":       handleAd,
		"post":     handlePost,
		"myads":    handleMyAds,
		"delete":   handleDelete,
		"resolve":  handleResolve,
		"register": handleRegister,
		"otp":      handleOTP,
		"profile":  handleProfile,
		"login":    handleLogin,
		"logout":   handleLogout,
		"language": handleLanguage,
		"theme":    handleTheme,
		"settings": handleSettings,
		"update":   handleUpdate,
		"cancel":   handleCancel,
		"clear":    handleClear,
		"help":     handleHelp,
		"quit":     handleQuit,
		"bye":      handleQuit,
		"exit":     handleQuit,
	}
}

func (m *Model) handleCommand(cmd *Command) (tea.Model, tea.Cmd) {
	h, ok := commands[cmd.Name]
	if !ok {
		m.system(m.t("unknownCommand", map[string]any{"Command": cmd.Name}))
		m.updateViewport()
		return m, nil
	}
	return h(m, cmd.Args)
}

// HelpText returns the help message for all slash commands in the active
// language.
func (m *Model) HelpText() string {
	return m.t("help")
}
