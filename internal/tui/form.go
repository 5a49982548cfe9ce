package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// field is one prompt of a form. set validates and stores the answer; an
// error re-asks the same field.
type field struct {
	prompt   string // already translated
	optional bool
	secret   bool
	set      func(answer string) error
}

// form collects answers line by line, then submits.
type form struct {
	title  string
	fields []field
	next   int
	submit func(m *Model) (tea.Model, tea.Cmd)
}

func (m *Model) startForm(f *form) (tea.Model, tea.Cmd) {
	m.form = f
	m.system(f.title)
	m.askField()
	m.updateViewport()
	return m, nil
}

func (m *Model) askField() {
	f := m.form.fields[m.form.next]
	prompt := f.prompt
	if f.optional {
		prompt += " " + m.t("auth:optional")
	}
	m.system(prompt)
}

func (m *Model) answerForm(input string) (tea.Model, tea.Cmd) {
	f := m.form.fields[m.form.next]

	echo := input
	if f.secret {
		echo = strings.Repeat("•", len([]rune(input)))
	}
	m.messages = append(m.messages, displayMessage{role: roleUser, content: echo})

	if err := f.set(input); err != nil {
		m.fail(err)
		m.askField()
		m.updateViewport()
		return m, nil
	}

	m.form.next++
	if m.form.next < len(m.form.fields) {
		m.askField()
		m.updateViewport()
		return m, nil
	}

	submit := m.form.submit
	m.form = nil
	return submit(m)
}

// optionalPending reports whether an empty line is a valid answer now.
func (m *Model) optionalPending() bool {
	return m.form != nil && m.form.fields[m.form.next].optional
}
