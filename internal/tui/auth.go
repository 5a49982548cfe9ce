package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mafqudat/mafqudat/internal/session"
)

func handleRegister(m *Model, args string) (tea.Model, tea.Cmd) {
	phone := strings.TrimSpace(args)
	if phone == "" {
		m.system(m.t("auth:enterPhoneToRegister"))
		m.updateViewport()
		return m, nil
	}
	if err := session.ValidatePhone(phone); err != nil {
		m.fail(err)
		m.updateViewport()
		return m, nil
	}

	// A repeated /register resends the code, possibly to a new number.
	if m.registration == nil || m.registration.Step() > session.StepOTP {
		m.registration = m.options.Session.NewRegistration()
	}
	reg := m.registration
	return m, m.request(func(ctx context.Context) tea.Msg {
		_, err := reg.SubmitPhone(ctx, phone)
		return OTPSentMsg{Phone: phone, Err: err}
	})
}

func handleOTP(m *Model, args string) (tea.Model, tea.Cmd) {
	if m.registration == nil {
		m.fail(session.ErrNoPendingRegistration)
		m.updateViewport()
		return m, nil
	}
	code := strings.TrimSpace(args)
	if err := session.ValidateOTP(code); err != nil {
		m.fail(err)
		m.updateViewport()
		return m, nil
	}
	reg := m.registration
	return m, m.request(func(ctx context.Context) tea.Msg {
		res, err := reg.SubmitOTP(ctx, code)
		return AuthDoneMsg{Step: reg.Step(), Result: res, Err: err}
	})
}

func handleProfile(m *Model, args string) (tea.Model, tea.Cmd) {
	if m.registration != nil && m.registration.Step() == session.StepProfile {
		return m.startProfileForm()
	}

	u, ok := m.options.Session.User(context.Background())
	if !ok {
		m.system(m.t("auth:loginRequired"))
		m.updateViewport()
		return m, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", m.t("auth:myProfile"))
	row := func(key, value string) {
		if value != "" {
			fmt.Fprintf(&b, "- **%s:** %s\n", m.t(key), value)
		}
	}
	row("auth:userName", u.DisplayName())
	row("auth:phoneNumber", u.PhoneNumber)
	row("auth:email", u.Email)
	row("auth:birthDate", u.BirthDate)
	m.messages = append(m.messages, displayMessage{role: roleAd, content: b.String()})
	m.updateViewport()
	return m, nil
}

func (m *Model) startProfileForm() (tea.Model, tea.Cmd) {
	var p session.Profile
	store := func(dst *string) func(string) error {
		return func(v string) error {
			*dst = v
			return nil
		}
	}

	reg := m.registration
	return m.startForm(&form{
		title: m.t("auth:completeProfile"),
		fields: []field{
			{prompt: m.t("auth:firstName") + ":", set: store(&p.FirstName)},
			{prompt: m.t("auth:lastName") + ":", set: store(&p.LastName)},
			{prompt: m.t("auth:email") + ":", optional: true, set: store(&p.Email)},
			{prompt: m.t("auth:birthDate") + " (YYYY-MM-DD):", set: store(&p.BirthDate)},
			{prompt: m.t("auth:password") + ":", secret: true, set: store(&p.Password)},
			{prompt: m.t("auth:confirmPassword") + ":", secret: true, set: store(&p.ConfirmPassword)},
		},
		submit: func(m *Model) (tea.Model, tea.Cmd) {
			profile := p
			profile.PhoneNumber = reg.Phone()
			if err := session.ValidateProfile(profile); err != nil {
				m.fail(err)
				return m.startProfileForm()
			}
			return m, m.request(func(ctx context.Context) tea.Msg {
				res, err := reg.SubmitProfile(ctx, profile)
				return AuthDoneMsg{Step: reg.Step(), Result: res, Err: err}
			})
		},
	})
}

func handleLogin(m *Model, args string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		m.system(m.t("usage", map[string]any{"Usage": "/login <phone> <password>"}))
		m.updateViewport()
		return m, nil
	}
	creds := session.Credentials{PhoneNumber: parts[0], Password: parts[1]}
	sess := m.options.Session
	return m, m.request(func(ctx context.Context) tea.Msg {
		res, err := sess.Login(ctx, creds)
		return AuthDoneMsg{Step: session.StepDone, Result: res, Login: true, Err: err}
	})
}

func handleLogout(m *Model, args string) (tea.Model, tea.Cmd) {
	if err := m.options.Session.Logout(context.Background()); err != nil {
		m.fail(err)
	} else {
		m.registration = nil
		m.success(m.t("auth:logoutSuccess"))
	}
	m.updateViewport()
	return m, nil
}

func (m *Model) authDone(msg AuthDoneMsg) {
	if msg.Err != nil {
		m.fail(msg.Err)
		return
	}

	name := ""
	if msg.Result != nil && msg.Result.User != nil {
		name = msg.Result.User.DisplayName()
	}

	switch {
	case msg.Login:
		m.success(m.t("auth:loginSuccess", map[string]any{"Name": name}))
	case msg.Step == session.StepProfile:
		m.success(m.t("auth:otpVerified"))
		m.system(m.t("auth:completeProfileInfo"))
		m.startProfileForm()
	default:
		m.registration = nil
		m.success(m.t("auth:registrationComplete", map[string]any{"Name": name}))
	}
}
