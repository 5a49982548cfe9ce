package ads

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mafqudat/mafqudat/internal/api"
)

// Filter keys accepted by Filter.Set.
const (
	FilterType        = "type"
	FilterCategory    = "category"
	FilterGovernorate = "governorate"
	FilterSearch      = "search"
)

var (
	// ErrUnknownFilter is returned by Set for a key it does not know.
	ErrUnknownFilter = errors.New("unknown filter")
	// ErrInvalidChoice is returned by Set for a value outside the choices.
	ErrInvalidChoice = errors.New("invalid choice")
)

// Filter narrows the ads list. Empty fields match everything.
type Filter struct {
	Type        string
	Category    string
	Governorate string
	Search      string
}

// Set assigns one filter. An empty value clears it.
func (f *Filter) Set(key, value string) error {
	value = strings.TrimSpace(value)
	var field *string
	var choices []Choice
	switch strings.ToLower(key) {
	case FilterType:
		field, choices = &f.Type, Types
	case FilterCategory:
		field, choices = &f.Category, Categories
	case FilterGovernorate:
		field, choices = &f.Governorate, Governorates
	case FilterSearch:
		f.Search = value
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFilter, key)
	}
	if value == "" {
		*field = ""
		return nil
	}
	c, ok := Lookup(choices, value)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidChoice, value)
	}
	*field = c.ID
	return nil
}

// Empty reports whether no filter is set.
func (f Filter) Empty() bool {
	return f == Filter{}
}

// Pairs returns the set filters as key/value pairs in a fixed order.
func (f Filter) Pairs() [][2]string {
	var out [][2]string
	for _, kv := range [][2]string{
		{FilterType, f.Type},
		{FilterCategory, f.Category},
		{FilterGovernorate, f.Governorate},
		{FilterSearch, f.Search},
	} {
		if kv[1] != "" {
			out = append(out, kv)
		}
	}
	return out
}

func (f Filter) params(page, limit int) api.ListParams {
	return api.ListParams{
		Page:        page,
		Limit:       limit,
		Type:        f.Type,
		Category:    f.Category,
		Governorate: f.Governorate,
		Search:      f.Search,
	}
}
