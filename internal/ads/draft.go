package ads

import (
	"errors"
	"strings"

	"github.com/mafqudat/mafqudat/internal/api"
)

// ErrIncomplete means a required field of a Draft is empty or not one of
// the allowed choices.
var ErrIncomplete = errors.New("all fields are required")

// Draft is an ad being composed.
type Draft struct {
	Type            string
	Category        string
	Governorate     string
	OwnerName       string
	ItemNumber      string
	Description     string
	ContactPhone    string
	HideContactInfo bool
}

// Validate requires every field.
func (d Draft) Validate() error {
	_, err := d.canonical()
	return err
}

// canonical resolves the choice fields to their ids. Types and
// governorates may be given by id in any case or by position; categories
// also accept the server's names.
func (d Draft) canonical() (Draft, error) {
	t, ok := Lookup(Types, d.Type)
	if !ok {
		return d, ErrIncomplete
	}
	c, ok := lookupCategory(d.Category)
	if !ok {
		return d, ErrIncomplete
	}
	g, ok := Lookup(Governorates, d.Governorate)
	if !ok {
		return d, ErrIncomplete
	}
	for _, v := range []string{d.OwnerName, d.ItemNumber, d.Description, d.ContactPhone} {
		if strings.TrimSpace(v) == "" {
			return d, ErrIncomplete
		}
	}
	d.Type, d.Category, d.Governorate = t.ID, c.ID, g.ID
	return d, nil
}

// lookupCategory matches a form id, a position or a server name.
func lookupCategory(input string) (Choice, bool) {
	if c, ok := Lookup(Categories, input); ok {
		return c, true
	}
	key, ok := categoryKeys[strings.TrimSpace(input)]
	if !ok {
		return Choice{}, false
	}
	for _, c := range Categories {
		if c.Key == key {
			return c, true
		}
	}
	return Choice{}, false
}

// NewAd converts a validated draft to the create request. Choice fields
// are sent as their canonical ids.
func (d Draft) NewAd() api.NewAd {
	if c, err := d.canonical(); err == nil {
		d = c
	}
	return api.NewAd{
		Type:            d.Type,
		Category:        d.Category,
		Governorate:     d.Governorate,
		OwnerName:       strings.TrimSpace(d.OwnerName),
		ItemNumber:      strings.TrimSpace(d.ItemNumber),
		Description:     strings.TrimSpace(d.Description),
		ContactPhone:    strings.TrimSpace(d.ContactPhone),
		HideContactInfo: d.HideContactInfo,
	}
}
