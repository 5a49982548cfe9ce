package ads

import (
	"strconv"
	"strings"
)

// Choice is one selectable value and the translation key of its label.
type Choice struct {
	ID  string
	Key string
}

// Types of ad.
var Types = []Choice{
	{ID: "lost", Key: "ads:lost"},
	{ID: "found", Key: "ads:found"},
}

// Categories of document. IDs are the numeric form ids the client maps to
// server names.
var Categories = []Choice{
	{ID: "1", Key: "ads:passport"},
	{ID: "2", Key: "ads:nationalID"},
	{ID: "3", Key: "ads:drivingLicense"},
	{ID: "4", Key: "ads:otherDocuments"},
}

// Governorates of Iraq.
var Governorates = []Choice{
	{ID: "baghdad", Key: "ads:baghdad"},
	{ID: "basra", Key: "ads:basra"},
	{ID: "nineveh", Key: "ads:nineveh"},
	{ID: "erbil", Key: "ads:erbil"},
	{ID: "sulaymaniyah", Key: "ads:sulaymaniyah"},
	{ID: "duhok", Key: "ads:duhok"},
	{ID: "kirkuk", Key: "ads:kirkuk"},
	{ID: "najaf", Key: "ads:najaf"},
	{ID: "karbala", Key: "ads:karbala"},
	{ID: "babylon", Key: "ads:babylon"},
	{ID: "anbar", Key: "ads:anbar"},
	{ID: "diyala", Key: "ads:diyala"},
	{ID: "saladin", Key: "ads:saladin"},
	{ID: "wasit", Key: "ads:wasit"},
	{ID: "maysan", Key: "ads:maysan"},
	{ID: "dhiQar", Key: "ads:dhiQar"},
	{ID: "muthanna", Key: "ads:muthanna"},
	{ID: "qadisiyyah", Key: "ads:qadisiyyah"},
}

// AllGovernoratesKey labels the unfiltered governorate.
const AllGovernoratesKey = "ads:allIraq"

// Lookup matches input against the choice IDs, case-insensitively, or as
// a 1-based position in the list.
func Lookup(choices []Choice, input string) (Choice, bool) {
	input = strings.TrimSpace(input)
	for _, c := range choices {
		if strings.EqualFold(c.ID, input) {
			return c, true
		}
	}
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(choices) {
		return choices[n-1], true
	}
	return Choice{}, false
}

// categoryKeys covers both form ids and the names the server returns.
var categoryKeys = map[string]string{
	"passport":       "ads:passport",
	"nationalID":     "ads:nationalID",
	"drivingLicense": "ads:drivingLicense",
	"otherDocuments": "ads:otherDocuments",
}

// CategoryKey returns the translation key for a category id or server
// name, or "" if unknown.
func CategoryKey(category string) string {
	if c, ok := Lookup(Categories, category); ok {
		return c.Key
	}
	return categoryKeys[category]
}

// GovernorateKey returns the translation key for a governorate, or "".
func GovernorateKey(id string) string {
	for _, g := range Governorates {
		if strings.EqualFold(g.ID, id) {
			return g.Key
		}
	}
	return ""
}

// TypeKey returns the translation key for "lost" or "found", or "".
func TypeKey(t string) string {
	for _, c := range Types {
		if c.ID == t {
			return c.Key
		}
	}
	return ""
}
