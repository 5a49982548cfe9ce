package tui

import (
	"errors"
	"strings"

	"github.com/mafqudat/mafqudat/internal/ads"
	"github.com/mafqudat/mafqudat/internal/api"
	"github.com/mafqudat/mafqudat/internal/i18n"
	"github.com/mafqudat/mafqudat/internal/session"
	"github.com/mafqudat/mafqudat/internal/update"
)

// errorKeys maps sentinel errors to their message keys. The first match
// wins.
var errorKeys = []struct {
	err error
	key string
}{
	{session.ErrSessionExpired, "errors:sessionExpired"},
	{api.ErrNoToken, "auth:loginRequired"},
	{api.ErrTimeout, "errors:timeout"},
	{api.ErrNetwork, "errors:network"},
	{ads.ErrIncomplete, "ads:fillAllFields"},
	{session.ErrNoPendingRegistration, "auth:noPendingRegistration"},
	{session.ErrAlreadyVerified, "auth:alreadyVerified"},
	{update.ErrDevBuild, "devBuild"},
}

// errorText turns err into a message in the active language. Server
// messages are shown verbatim.
func (m *Model) errorText(err error) string {
	var fe session.FieldErrors
	if errors.As(err, &fe) {
		texts := make([]string, 0, len(fe))
		for _, key := range fe.Keys() {
			texts = append(texts, m.t(key))
		}
		return strings.Join(texts, "\n")
	}
	for _, e := range errorKeys {
		if errors.Is(err, e.err) {
			return m.t(e.key)
		}
	}
	if errors.Is(err, ads.ErrUnknownFilter) {
		return m.t("ads:unknownFilter", map[string]any{"Key": detail(err)})
	}
	if errors.Is(err, ads.ErrInvalidChoice) {
		return m.t("invalidChoice", map[string]any{"Value": detail(err)})
	}
	if errors.Is(err, i18n.ErrUnsupportedLanguage) {
		return m.t("errors:unsupportedLanguage", map[string]any{"Code": strings.Trim(detail(err), `"`)})
	}
	if msg := api.MessageOf(err); msg != "" {
		return msg
	}
	var se *api.ServerError
	if errors.As(err, &se) {
		if se.Status == 404 {
			return m.t("ads:adNotFound")
		}
		return m.t("errors:server", map[string]any{"Status": se.Status})
	}
	return m.t("errors:unexpected")
}

// detail returns the text after the sentinel in "sentinel: detail".
func detail(err error) string {
	_, after, _ := strings.Cut(err.Error(), ": ")
	return after
}
