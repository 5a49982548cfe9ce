package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mafqudat/mafqudat/internal/ads"
	"github.com/mafqudat/mafqudat/internal/api"
	"github.com/mafqudat/mafqudat/internal/i18n"
	"github.com/mafqudat/mafqudat/internal/prefs"
	"github.com/mafqudat/mafqudat/internal/session"
	"github.com/mafqudat/mafqudat/internal/theme"
)

const adsJSON = `{"success":true,"data":[
	{"_id":"a1","userId":{"_id":"u1","fullName":"Ali"},"type":"lost","category":"passport","governorate":"baghdad","ownerName":"Ali Hussein","itemNumber":"A123","description":"lost near Karrada","contactPhone":"+9647800000000","createdAt":"2023-08-15T14:30:00"},
	{"_id":"a2","userId":"u2","type":"found","category":"nationalID","governorate":"basra","ownerName":"Sara","isResolved":true}
]}`

// backend fakes the classifieds API. Requests with token "expired" get a
// 401.
func backend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	authed := func(w http.ResponseWriter, r *http.Request) bool {
		if r.Header.Get("Authorization") == "Bearer expired" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"message":"jwt expired"}`))
			return false
		}
		return true
	}

	mux.HandleFunc("/api/mobile/advertisements", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if !authed(w, r) {
				return
			}
			w.Write([]byte(`{"success":true,"data":{"_id":"new1","type":"lost","category":"passport","governorate":"baghdad"}}`))
			return
		}
		if r.URL.Query().Get("search") == "nothing" {
			w.Write([]byte(`{"success":true,"data":[]}`))
			return
		}
		w.Write([]byte(adsJSON))
	})
	mux.HandleFunc("/api/mobile/advertisements/a1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"_id":"a1","userId":{"_id":"u1","fullName":"Ali"},"type":"lost","category":"passport","governorate":"baghdad","ownerName":"Ali Hussein","itemNumber":"A123","contactPhone":"+9647800000000","hideContactInfo":true}}`))
	})
	mux.HandleFunc("/api/mobile/ads/user", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		w.Write([]byte(adsJSON))
	})
	mux.HandleFunc("/api/mobile/ads/a1", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		w.Write([]byte(`{"success":true,"data":{"_id":"a1","isResolved":true}}`))
	})
	mux.HandleFunc("/api/mobile/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"token":"T","user":{"_id":"u1","phoneNumber":"+9647800000000","fullName":"Ali","lastName":"Hussein"}}`))
	})
	mux.HandleFunc("/api/mobile/auth/send-otp", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"message":"sent"}`))
	})
	mux.HandleFunc("/api/mobile/auth/verify-otp", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["otp"] != "123456" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"message":"invalid code"}`))
			return
		}
		w.Write([]byte(`{"success":true,"token":"T2","isProfileComplete":false}`))
	})
	mux.HandleFunc("/api/mobile/auth/complete-registration", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"token":"T3","user":{"_id":"u3","phoneNumber":"+9647811111111","fullName":"Zainab","lastName":"Kareem"}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type testEnv struct {
	store  *prefs.MemoryStore
	layout *Layout
	model  Model
}

func setup(t *testing.T, baseURL string) *testEnv {
	t.Helper()
	ctx := context.Background()
	env := &testEnv{store: prefs.NewMemoryStore(), layout: &Layout{}}

	loc, err := i18n.Bootstrap(ctx, i18n.Options{
		Store:        env.store,
		Platform:     env.layout,
		DeviceLocale: func() string { return "en-US" },
		Default:      i18n.DefaultLanguage,
	})
	if err != nil {
		t.Fatalf("Bootstrap() error: %v", err)
	}

	client := api.New(baseURL, api.WithTokenSource(session.Tokens{Store: env.store}))
	sess := session.NewManager(env.store, client, nil)
	th := theme.NewManager(env.store, func() theme.Mode { return theme.Light })
	th.Load(ctx)

	m := New(Options{
		Localizer: loc,
		Layout:    env.layout,
		Session:   sess,
		Ads:       ads.NewService(client, sess, nil),
		Theme:     th,
		Prefs:     env.store,
		Version:   "dev",
	})
	m.width = 100
	m.height = 40
	m.ready = true
	env.model = m
	return env
}

func asModel(t *testing.T, tm tea.Model) Model {
	t.Helper()
	switch v := tm.(type) {
	case Model:
		return v
	case *Model:
		return *v
	}
	t.Fatalf("unexpected model type %T", tm)
	return Model{}
}

// settle runs cmd and every command it leads to, feeding the messages
// back through Update. Spinner ticks are dropped.
func settle(t *testing.T, tm tea.Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			var next tea.Cmd
			tm, next = tm.Update(msg)
			queue = append(queue, next)
		}
	}
	return asModel(t, tm)
}

func (e *testEnv) submit(t *testing.T, input string) Model {
	t.Helper()
	e.model.textarea.SetValue(input)
	tm, cmd := e.model.handleSubmit()
	e.model = settle(t, tm, cmd)
	return e.model
}

func last(m Model) displayMessage {
	return m.messages[len(m.messages)-1]
}

func TestInitialView(t *testing.T) {
	env := setup(t, "http://127.0.0.1:1")
	env.model.ready = false

	if view := env.model.View(); view != "Initializing..." {
		t.Errorf("initial view = %q, want Initializing...", view)
	}
}

func TestWindowSizeShowsWelcome(t *testing.T) {
	env := setup(t, "http://127.0.0.1:1")
	env.model.ready = false

	tm, _ := env.model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m := asModel(t, tm)
	if !m.ready {
		t.Fatal("model should be ready after the first resize")
	}
	if len(m.messages) != 2 || !strings.Contains(m.messages[1].content, "/help") {
		t.Errorf("messages = %+v, want welcome and help", m.messages)
	}
	view := m.View()
	if !strings.Contains(view, "English") || !strings.Contains(view, "Guest") {
		t.Errorf("status bar should show language and guest, got:\n%s", view)
	}
}

func TestQuitCommand(t *testing.T) {
	env := setup(t, "http://127.0.0.1:1")

	m := env.submit(t, "/quit")
	if !m.quitting {
		t.Error("should be quitting after /quit")
	}
}

func TestUnknownCommand(t *testing.T) {
	env := setup(t, "http://127.0.0.1:1")

	m := env.submit(t, "/foobar")
	msg := last(m)
	if msg.role != roleSystem || !strings.Contains(msg.content, "/foobar") {
		t.Errorf("last message = %+v, want unknown command notice", msg)
	}
}

func TestHelpCommand(t *testing.T) {
	env := setup(t, "http://127.0.0.1:1")

	m := env.submit(t, "/help")
	msg := last(m)
	if msg.role != roleSystem || !strings.Contains(msg.content, "/resolve") {
		t.Errorf("help should list /resolve, got %+v", msg)
	}
}

func TestBrowseAds(t *testing.T) {
	srv := backend(t)
	env := setup(t, srv.URL)

	m := env.submit(t, "/ads")
	if m.busy {
		t.Error("should not be busy after the page arrives")
	}
	if m.page == nil || len(m.page.Ads) != 2 {
		t.Fatalf("page = %+v, want 2 ads", m.page)
	}
	msg := last(m)
	for _, want := range []string{"All Ads", "Passport", "Baghdad", "Ali Hussein", "(a1)"} {
		if !strings.Contains(msg.content, want) {
			t.Errorf("listing missing %q:\n%s", want, msg.content)
		}
	}
}

func TestBareTextSearches(t *testing.T) {
	srv := backend(t)
	env := setup(t, srv.URL)

	m := env.submit(t, "nothing")
	if m.messages[len(m.messages)-2].role != roleUser {
		t.Error("search text should be echoed")
	}
	if m.filter.Search != "nothing" {
		t.Errorf("filter.Search = %q, want nothing", m.filter.Search)
	}
	if !strings.Contains(last(m).content, "No ads") {
		t.Errorf("last message = %q, want no ads notice", last(m).content)
	}
}

func TestFilterCommand(t *testing.T) {
	srv := backend(t)
	env := setup(t, srv.URL)

	m := env.submit(t, "/filter type=found governorate=basra")
	if m.filter.Type != "found" || m.filter.Governorate != "basra" {
		t.Errorf("filter = %+v", m.filter)
	}
	if m.page == nil {
		t.Error("filter should reload the listing")
	}

	m = env.submit(t, "/filter colour=red")
	if msg := last(m); msg.role != roleError || !strings.Contains(msg.content, "colour") {
		t.Errorf("last message = %+v, want unknown filter error", msg)
	}
	if m.filter.Type != "found" {
		t.Error("a bad filter must not change the current one")
	}
}

func TestShowAdHidesContact(t *testing.T) {
	srv := backend(t)
	env := setup(t, srv.URL)

	m := env.submit(t, "/ad a1")
	msg := last(m)
	if msg.role != roleAd {
		t.Fatalf("last message role = %q, want ad", msg.role)
	}
	if strings.Contains(msg.content, "+9647800000000") {
		t.Error("hidden contact phone should not be shown")
	}
	if !strings.Contains(msg.content, "A123") {
		t.Errorf("details missing document number:\n%s", msg.content)
	}
}

func TestLoginPersistsToken(t *testing.T) {
	srv := backend(t)
	env := setup(t, srv.URL)

	m := env.submit(t, "/login +9647800000000 secret1")
	if msg := last(m); msg.role != roleSuccess || !strings.Contains(msg.content, "Ali Hussein") {
		t.Errorf("last message = %+v, want login success", msg)
	}
	if tok, _ := env.store.Get(context.Background(), prefs.KeyUserToken); tok != "T" {
		t.Errorf("stored token = %q, want T", tok)
	}
	if !strings.Contains(m.View(), "Ali Hussein") {
		t.Error("status bar should show the user")
	}
}

func TestLoginUsage(t *testing.T) {
	env := setup(t, "http://127.0.0.1:1")

	m := env.submit(t, "/login +9647800000000")
	if !strings.Contains(last(m).content, "/login <phone> <password>") {
		t.Errorf("last message = %q, want usage", last(m).content)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := setup(t, "http://127.0.0.1:1")

	m := env.submit(t, "/register 0780")
	msg := last(m)
	if msg.role != roleError || !strings.Contains(msg.content, "phone") {
		t.Errorf("last message = %+v, want phone validation error", msg)
	}
	if m.registration != nil {
		t.Error("invalid phone must not start a registration")
	}
}

func TestOTPWithoutRegistration(t *testing.T) {
	env := setup(t, "http://127.0.0.1:1")

	m := env.submit(t, "/otp 123456")
	if last(m).role != roleError {
		t.Errorf("last message = %+v, want error", last(m))
	}
}

func TestRegistrationFlow(t *testing.T) {
	srv := backend(t)
	env := setup(t, srv.URL)

	m := env.submit(t, "/register +9647811111111")
	if m.registration == nil || m.registration.Step() != session.StepOTP {
		t.Fatalf("registration should wait for the code")
	}

	m = env.submit(t, "/otp 000000")
	if msg := last(m); msg.role != roleError || msg.content != "invalid code" {
		t.Errorf("last message = %+v, want server message", msg)
	}

	m = env.submit(t, "/otp 123456")
	if m.form == nil {
		t.Fatal("verified code should open the profile form")
	}

	for _, answer := range []string{"Zainab", "Kareem", "", "1995-04-02", "secret12", "secret12"} {
		m = env.submit(t, answer)
	}
	if echo := m.messages[len(m.messages)-2].content; echo != "••••••••" {
		t.Errorf("password echo = %q, want it masked", echo)
	}
	if msg := last(m); msg.role != roleSuccess || !strings.Contains(msg.content, "Zainab Kareem") {
		t.Errorf("last message = %+v, want registration complete", msg)
	}
	if m.registration != nil {
		t.Error("registration should be cleared when complete")
	}
	if tok, _ := env.store.Get(context.Background(), prefs.KeyUserToken); tok != "T3" {
		t.Errorf("stored token = %q, want T3", tok)
	}
}

func TestPostRequiresLogin(t *testing.T) {
	env := setup(t, "http://127.0.0.1:1")

	m := env.submit(t, "/post")
	if m.form != nil {
		t.Error("form should not open for guests")
	}
	if !strings.Contains(last(m).content, "login") {
		t.Errorf("last message = %q, want login notice", last(m).content)
	}
}

func TestPostWizard(t *testing.T) {
	srv := backend(t)
	env := setup(t, srv.URL)
	env.store.Set(context.Background(), prefs.KeyUserToken, "T")

	m := env.submit(t, "/post")
	if m.form == nil {
		t.Fatal("/post should open the form")
	}

	m = env.submit(t, "3")
	if msg := last(m); !strings.Contains(msg.content, "Type") {
		t.Errorf("bad type should re-ask, got %q", msg.content)
	}

	for _, answer := range []string{"1", "1", "baghdad", "Ali Hussein", "A123", "lost near Karrada", "+9647800000000", ""} {
		m = env.submit(t, answer)
	}
	if m.form != nil {
		t.Error("form should close after the last answer")
	}
	if msg := last(m); msg.role != roleSuccess {
		t.Errorf("last message = %+v, want ad created", msg)
	}
}

func TestCancelClosesForm(t *testing.T) {
	env := setup(t, "http://127.0.0.1:1")
	env.store.Set(context.Background(), prefs.KeyUserToken, "T")

	env.submit(t, "/post")
	m := env.submit(t, "/cancel")
	if m.form != nil {
		t.Error("/cancel should close the form")
	}
	if last(m).content != "Cancelled." {
		t.Errorf("last message = %q", last(m).content)
	}
}

func TestExpiredSessionIsCleared(t *testing.T) {
	srv := backend(t)
	env := setup(t, srv.URL)
	ctx := context.Background()
	env.store.Set(ctx, prefs.KeyUserToken, "expired")

	m := env.submit(t, "/myads")
	if msg := last(m); msg.role != roleError || !strings.Contains(msg.content, "session has expired") {
		t.Errorf("last message = %+v, want session expired", msg)
	}
	if _, ok := env.store.Get(ctx, prefs.KeyUserToken); ok {
		t.Error("token should be removed after a 401")
	}
}

func TestMyAdsAndResolve(t *testing.T) {
	srv := backend(t)
	env := setup(t, srv.URL)
	env.store.Set(context.Background(), prefs.KeyUserToken, "T")

	m := env.submit(t, "/myads")
	if m.page == nil || !m.page.Mine {
		t.Fatalf("page = %+v, want my ads", m.page)
	}
	if !strings.Contains(last(m).content, "My Ads") {
		t.Errorf("header missing:\n%s", last(m).content)
	}

	m = env.submit(t, "/resolve a1")
	if last(m).role != roleSuccess {
		t.Errorf("last message = %+v, want resolved", last(m))
	}
	m = env.submit(t, "/delete a1")
	if last(m).role != roleSuccess {
		t.Errorf("last message = %+v, want deleted", last(m))
	}
}

func TestNetworkError(t *testing.T) {
	env := setup(t, "http://127.0.0.1:1")

	m := env.submit(t, "/ads")
	if msg := last(m); msg.role != roleError || !strings.Contains(msg.content, "Failed to connect") {
		t.Errorf("last message = %+v, want network error", msg)
	}
	if m.busy {
		t.Error("should not be busy after a failure")
	}
}

func TestLanguageSwitchToArabic(t *testing.T) {
	env := setup(t, "http://127.0.0.1:1")

	m := env.submit(t, "/language ar")
	if !env.layout.IsRTL() {
		t.Error("layout should be RTL after switching to Arabic")
	}
	if m.loc.Language() != "ar" {
		t.Errorf("language = %q, want ar", m.loc.Language())
	}
	if v, _ := env.store.Get(context.Background(), prefs.KeyLanguage); v != "ar" {
		t.Errorf("stored language = %q, want ar", v)
	}
	if !strings.Contains(m.View(), "العربية") {
		t.Error("status bar should show the Arabic name")
	}

	m = env.submit(t, "/language xx")
	if last(m).role != roleError {
		t.Errorf("unsupported language should fail, got %+v", last(m))
	}
	if m.loc.Language() != "ar" {
		t.Error("a failed switch must keep the language")
	}
}

func TestThemeToggle(t *testing.T) {
	env := setup(t, "http://127.0.0.1:1")

	env.submit(t, "/theme toggle")
	if v, _ := env.store.Get(context.Background(), prefs.KeyTheme); v != "dark" {
		t.Errorf("stored theme = %q, want dark", v)
	}

	m := env.submit(t, "/theme purple")
	if !strings.Contains(last(m).content, "purple") {
		t.Errorf("last message = %q, want invalid choice", last(m).content)
	}
}

func TestSettings(t *testing.T) {
	env := setup(t, "http://127.0.0.1:1")
	ctx := context.Background()

	env.submit(t, "/settings notifications off")
	if prefs.GetBool(ctx, env.store, prefs.KeyNotifications) {
		t.Error("notifications should be off")
	}

	m := env.submit(t, "/settings")
	if !strings.Contains(last(m).content, "dev") {
		t.Errorf("summary should show the version:\n%s", last(m).content)
	}
}

func TestUpdateOnDevBuild(t *testing.T) {
	env := setup(t, "http://127.0.0.1:1")

	m := env.submit(t, "/update")
	if m.busy {
		t.Error("dev builds should not start an update")
	}
}

// requestOf returns the request half of a command built by Model.request.
func requestOf(t *testing.T, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	batch, ok := cmd().(tea.BatchMsg)
	if !ok || len(batch) == 0 {
		t.Fatalf("command is not a request batch")
	}
	return batch[0]
}

func TestCancelledResultDoesNotEndNewerRequest(t *testing.T) {
	srv := backend(t)
	env := setup(t, srv.URL)
	m := env.model

	tm, cmdA := handleAds(&m, "")
	m = asModel(t, tm)
	tm, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = asModel(t, tm)
	if m.busy {
		t.Fatal("Ctrl+C should end the request")
	}

	// A late success of the cancelled request is not shown.
	before := len(m.messages)
	tm, _ = m.Update(resultMsg{seq: m.seq, msg: AdsLoadedMsg{Page: &ads.Page{Number: 1}}})
	m = asModel(t, tm)
	if len(m.messages) != before || m.page != nil {
		t.Errorf("cancelled result was rendered: %+v", last(m))
	}

	tm, cmdB := handleAd(&m, "a1")
	m = asModel(t, tm)
	staleA := requestOf(t, cmdA)()
	tm, _ = m.Update(staleA)
	m = asModel(t, tm)
	if !m.busy || m.cancelFn == nil {
		t.Fatal("result of the cancelled request ended the newer one")
	}

	m = settle(t, m, cmdB)
	if m.busy {
		t.Error("should not be busy after the newer result")
	}
	if last(m).role != roleAd {
		t.Errorf("last message = %+v, want ad details", last(m))
	}
}

func TestNewTakesLayoutFromLocalizer(t *testing.T) {
	env := setup(t, "http://127.0.0.1:1")

	m := New(Options{Localizer: env.model.loc})
	if m.layout != env.layout {
		t.Error("nil Layout should use the localizer's platform")
	}

	env.model.loc.ChangeLanguage(context.Background(), "ar")
	if !m.layout.IsRTL() {
		t.Error("layout should follow the localizer into RTL")
	}
}

func TestNewRejectsForeignLayout(t *testing.T) {
	loc, err := i18n.Bootstrap(context.Background(), i18n.Options{
		Store:        prefs.NewMemoryStore(),
		Platform:     &i18n.StaticPlatform{},
		DeviceLocale: func() string { return "ar-IQ" },
		Default:      i18n.DefaultLanguage,
	})
	if err != nil {
		t.Fatalf("Bootstrap() error: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("New should panic when the layout is not the localizer's platform")
		}
	}()
	New(Options{Localizer: loc, Layout: &Layout{}})
}
