package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// User is the account record returned by the auth endpoints and persisted
// as the session's user data.
type User struct {
	ID          string `json:"_id,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	FullName    string `json:"fullName,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email,omitempty"`
	BirthDate   string `json:"birthDate,omitempty"`
	Role        string `json:"role,omitempty"`
}

// DisplayName returns the best human name available.
func (u User) DisplayName() string {
	first := u.FullName
	if first == "" {
		first = u.FirstName
	}
	name := strings.TrimSpace(first + " " + u.LastName)
	if name == "" {
		return u.PhoneNumber
	}
	return name
}

// Owner is the ad's poster. The server sends either a populated object or
// a bare id string.
type Owner struct {
	ID          string `json:"_id,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	FullName    string `json:"fullName,omitempty"`
}

func (o *Owner) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &o.ID)
	}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	type plain Owner
	return json.Unmarshal(data, (*plain)(o))
}

// Location is a GeoJSON point.
type Location struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Ad is a lost or found document listing.
type Ad struct {
	ID              string    `json:"_id"`
	Owner           Owner     `json:"userId"`
	Type            string    `json:"type"`
	Category        string    `json:"category"`
	Governorate     string    `json:"governorate"`
	OwnerName       string    `json:"ownerName"`
	ItemNumber      string    `json:"itemNumber"`
	Description     string    `json:"description"`
	Images          []string  `json:"images,omitempty"`
	ContactPhone    string    `json:"contactPhone"`
	Status          string    `json:"status,omitempty"`
	IsApproved      bool      `json:"isApproved"`
	IsResolved      bool      `json:"isResolved"`
	HideContactInfo bool      `json:"hideContactInfo"`
	CreatedAt       string    `json:"createdAt,omitempty"`
	UpdatedAt       string    `json:"updatedAt,omitempty"`
	Location        *Location `json:"location,omitempty"`
}

// Created parses CreatedAt. The server omits the zone on some records;
// those are read as UTC.
func (a Ad) Created() (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, a.CreatedAt); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NewAd is the body of CreateAd.
type NewAd struct {
	Type            string    `json:"type"`
	Category        string    `json:"category"`
	Governorate     string    `json:"governorate"`
	OwnerName       string    `json:"ownerName"`
	ItemNumber      string    `json:"itemNumber"`
	Description     string    `json:"description"`
	ContactPhone    string    `json:"contactPhone"`
	HideContactInfo bool      `json:"hideContactInfo"`
	Images          []string  `json:"images,omitempty"`
	Location        *Location `json:"location,omitempty"`
}

// AdUpdate carries the fields UpdateAd changes. Nil fields are left alone.
type AdUpdate struct {
	Description     *string `json:"description,omitempty"`
	ContactPhone    *string `json:"contactPhone,omitempty"`
	HideContactInfo *bool   `json:"hideContactInfo,omitempty"`
	IsResolved      *bool   `json:"isResolved,omitempty"`
	Status          *string `json:"status,omitempty"`
}

// ListParams filters ListAds. Zero values are not sent.
type ListParams struct {
	Page        int
	Limit       int
	Category    string
	Governorate string
	Search      string
	Type        string // "lost" or "found"
}

// Registration is the body of CompleteRegistration.
type Registration struct {
	PhoneNumber     string `json:"phoneNumber"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FullName        string `json:"fullName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email,omitempty"`
	BirthDate       string `json:"birthDate"`
}

// AuthResult is a successful auth response.
type AuthResult struct {
	Token             string
	User              *User
	Message           string
	IsProfileComplete bool
}

// envelope is the common response shape of every endpoint.
type envelope struct {
	Success           bool            `json:"success"`
	Message           string          `json:"message,omitempty"`
	Data              json.RawMessage `json:"data,omitempty"`
	Token             string          `json:"token,omitempty"`
	User              *User           `json:"user,omitempty"`
	IsProfileComplete bool            `json:"isProfileComplete,omitempty"`
}

var categoryNames = map[string]string{
	"1": "passport",
	"2": "nationalID",
	"3": "drivingLicense",
	"4": "otherDocuments",
}

// CategoryName maps the numeric category ids used by the forms to the
// names the server expects. Other values pass through.
func CategoryName(id string) string {
	if name, ok := categoryNames[id]; ok {
		return name
	}
	return id
}
