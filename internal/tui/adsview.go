package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mafqudat/mafqudat/internal/ads"
	"github.com/mafqudat/mafqudat/internal/api"
)

func handleAds(m *Model, args string) (tea.Model, tea.Cmd) {
	if args != "" {
		m.filter.Search = args
	}
	svc, filter := m.options.Ads, m.filter
	return m, m.request(func(ctx context.Context) tea.Msg {
		page, err := svc.List(ctx, filter)
		return AdsLoadedMsg{Page: page, Err: err}
	})
}

func handleFilter(m *Model, args string) (tea.Model, tea.Cmd) {
	if args == "" {
		m.system(m.filterSummary())
		m.updateViewport()
		return m, nil
	}

	next := m.filter
	for _, pair := range strings.Fields(args) {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			m.system(m.t("usage", map[string]any{"Usage": "/filter type=lost category=1 governorate=baghdad search=text"}))
			m.updateViewport()
			return m, nil
		}
		if err := next.Set(key, value); err != nil {
			m.fail(err)
			m.updateViewport()
			return m, nil
		}
	}
	m.filter = next
	m.system(m.filterSummary())
	return handleAds(m, "")
}

func (m *Model) filterSummary() string {
	if m.filter.Empty() {
		return m.t("ads:noFilters")
	}
	var parts []string
	for _, kv := range m.filter.Pairs() {
		value := kv[1]
		switch kv[0] {
		case ads.FilterType:
			value = m.label(ads.TypeKey(value), value)
		case ads.FilterCategory:
			value = m.label(ads.CategoryKey(value), value)
		case ads.FilterGovernorate:
			value = m.label(ads.GovernorateKey(value), value)
		}
		parts = append(parts, kv[0]+"="+value)
	}
	return m.t("ads:filters", map[string]any{"Filters": strings.Join(parts, ", ")})
}

func handleMore(m *Model, args string) (tea.Model, tea.Cmd) {
	if m.page == nil || m.page.Last {
		m.system(m.t("ads:noMoreAds"))
		m.updateViewport()
		return m, nil
	}
	svc, page := m.options.Ads, m.page
	return m, m.request(func(ctx context.Context) tea.Msg {
		next, err := svc.Next(ctx, page)
		return AdsLoadedMsg{Page: next, Err: err}
	})
}

func handleAd(m *Model, args string) (tea.Model, tea.Cmd) {
	id := strings.TrimSpace(args)
	if id == "" {
		m.system(m.t("errors:invalidAdID"))
		m.updateViewport()
		return m, nil
	}
	svc := m.options.Ads
	return m, m.request(func(ctx context.Context) tea.Msg {
		ad, err := svc.Get(ctx, id)
		return AdLoadedMsg{Ad: ad, Err: err}
	})
}

func handleMyAds(m *Model, args string) (tea.Model, tea.Cmd) {
	if !m.requireLogin() {
		return m, nil
	}
	svc := m.options.Ads
	return m, m.request(func(ctx context.Context) tea.Msg {
		page, err := svc.Mine(ctx)
		return AdsLoadedMsg{Page: page, Err: err}
	})
}

func handleDelete(m *Model, args string) (tea.Model, tea.Cmd) {
	id := strings.TrimSpace(args)
	if id == "" {
		m.system(m.t("errors:invalidAdID"))
		m.updateViewport()
		return m, nil
	}
	if !m.requireLogin() {
		return m, nil
	}
	svc := m.options.Ads
	return m, m.request(func(ctx context.Context) tea.Msg {
		return AdChangedMsg{ID: id, Deleted: true, Err: svc.Delete(ctx, id)}
	})
}

func handleResolve(m *Model, args string) (tea.Model, tea.Cmd) {
	id := strings.TrimSpace(args)
	if id == "" {
		m.system(m.t("errors:invalidAdID"))
		m.updateViewport()
		return m, nil
	}
	if !m.requireLogin() {
		return m, nil
	}
	svc := m.options.Ads
	return m, m.request(func(ctx context.Context) tea.Msg {
		_, err := svc.MarkResolved(ctx, id)
		return AdChangedMsg{ID: id, Err: err}
	})
}

func handlePost(m *Model, args string) (tea.Model, tea.Cmd) {
	if !m.requireLogin() {
		return m, nil
	}
	d := &ads.Draft{}
	required := func(dst *string) func(string) error {
		return func(v string) error {
			if strings.TrimSpace(v) == "" {
				return ads.ErrIncomplete
			}
			*dst = strings.TrimSpace(v)
			return nil
		}
	}
	choose := func(choices []ads.Choice, dst *string) func(string) error {
		return func(v string) error {
			c, ok := ads.Lookup(choices, v)
			if !ok {
				return fmt.Errorf("%w: %s", ads.ErrInvalidChoice, v)
			}
			*dst = c.ID
			return nil
		}
	}

	svc := m.options.Ads
	return m.startForm(&form{
		title: m.t("ads:createNewAd") + "\n" + m.t("ads:postStart"),
		fields: []field{
			{prompt: m.t("ads:askType"), set: choose(ads.Types, &d.Type)},
			{prompt: m.t("ads:askCategory") + "\n" + m.choiceList(ads.Categories), set: choose(ads.Categories, &d.Category)},
			{prompt: m.t("ads:askGovernorate") + "\n" + m.choiceList(ads.Governorates), set: choose(ads.Governorates, &d.Governorate)},
			{prompt: m.t("ads:ownerName") + ":", set: required(&d.OwnerName)},
			{prompt: m.t("ads:documentNumber") + ":", set: required(&d.ItemNumber)},
			{prompt: m.t("ads:description") + ":", set: required(&d.Description)},
			{prompt: m.t("ads:contactPhone") + ":", set: required(&d.ContactPhone)},
			{prompt: m.t("ads:hideContactInfo"), optional: true, set: func(v string) error {
				hide, ok := parseYesNo(v)
				if !ok {
					return fmt.Errorf("%w: %s", ads.ErrInvalidChoice, v)
				}
				d.HideContactInfo = hide
				return nil
			}},
		},
		submit: func(m *Model) (tea.Model, tea.Cmd) {
			draft := *d
			return m, m.request(func(ctx context.Context) tea.Msg {
				ad, err := svc.Create(ctx, draft)
				return AdCreatedMsg{Ad: ad, Err: err}
			})
		},
	})
}

// parseYesNo reads a yes/no answer in any of the supported languages. An
// empty answer is no.
func parseYesNo(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "n", "no", "0", "لا", "نەخێر":
		return false, true
	case "y", "yes", "1", "نعم", "بەڵێ":
		return true, true
	}
	return false, false
}

func (m *Model) choiceList(choices []ads.Choice) string {
	parts := make([]string, len(choices))
	for i, c := range choices {
		parts[i] = fmt.Sprintf("%d) %s", i+1, m.t(c.Key))
	}
	return strings.Join(parts, "  ")
}

// label translates key, or returns fallback for values the catalogs do
// not know.
func (m *Model) label(key, fallback string) string {
	if key == "" {
		return fallback
	}
	return m.t(key)
}

func (m *Model) requireLogin() bool {
	if m.options.Session != nil && m.options.Session.IsAuthenticated(context.Background()) {
		return true
	}
	m.system(m.t("auth:loginRequired"))
	m.updateViewport()
	return false
}

func (m *Model) showPage(p *ads.Page) {
	if len(p.Ads) == 0 {
		if p.Number <= 1 {
			m.system(m.t("ads:noAds"))
		} else {
			m.system(m.t("ads:noMoreAds"))
		}
		return
	}

	title := m.t("ads:allAds")
	switch {
	case p.Mine:
		title = m.t("ads:myAds")
	case p.Filter.Search != "":
		title = m.t("ads:searchAds") + ": " + p.Filter.Search
	}

	lines := []string{m.styles.adTitle.Render(title)}
	for _, ad := range p.Ads {
		lines = append(lines, m.adLine(ad))
	}
	if !p.Last {
		lines = append(lines, m.styles.muted.Render(m.t("ads:moreHint", map[string]any{"Page": p.Number})))
	}
	m.system(strings.Join(lines, "\n"))
}

func (m *Model) adLine(ad api.Ad) string {
	line := fmt.Sprintf("%s [%s] %s · %s · %s  (%s)",
		m.layout.Arrow(),
		m.label(ads.TypeKey(ad.Type), ad.Type),
		m.label(ads.CategoryKey(ad.Category), ad.Category),
		m.label(ads.GovernorateKey(ad.Governorate), ad.Governorate),
		ad.OwnerName,
		ad.ID)
	if ad.IsResolved {
		line += " ✓ " + m.t("ads:resolved")
	}
	return line
}

func (m *Model) adMarkdown(ad *api.Ad) string {
	titleKey := "ads:lostDocument"
	if ad.Type == "found" {
		titleKey = "ads:foundDocument"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s: %s\n\n", m.t(titleKey), m.label(ads.CategoryKey(ad.Category), ad.Category))
	row := func(key, value string) {
		if value != "" {
			fmt.Fprintf(&b, "- **%s:** %s\n", m.t(key), value)
		}
	}
	row("ads:documentNumber", ad.ItemNumber)
	row("ads:ownerName", ad.OwnerName)
	row("ads:governorate", m.label(ads.GovernorateKey(ad.Governorate), ad.Governorate))
	if ad.HideContactInfo {
		fmt.Fprintf(&b, "- _%s_\n", m.t("ads:contactHidden"))
	} else {
		row("ads:contactPhone", ad.ContactPhone)
	}
	row("ads:postedBy", ad.Owner.FullName)
	if created, ok := ad.Created(); ok {
		row("ads:date", created.Format("2006-01-02"))
	}
	if ad.IsResolved {
		row("ads:status", m.t("ads:resolved"))
	}
	if ad.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", ad.Description)
	}
	return b.String()
}
