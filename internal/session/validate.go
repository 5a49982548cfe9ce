package session

import (
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// Form field names used as FieldErrors keys.
const (
	FieldPhone           = "phoneNumber"
	FieldOTP             = "otp"
	FieldFirstName       = "firstName"
	FieldLastName        = "lastName"
	FieldEmail           = "email"
	FieldBirthDate       = "birthDate"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

var (
	otpPattern   = regexp.MustCompile(`^[0-9]{6}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// FieldErrors maps a form field to the translation key of its problem.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e.Fields() {
		parts = append(parts, f+": "+e[f])
	}
	return "invalid input: " + strings.Join(parts, ", ")
}

// Fields returns the failing fields in a stable order.
func (e FieldErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Keys returns the translation keys in field order.
func (e FieldErrors) Keys() []string {
	keys := make([]string, 0, len(e))
	for _, f := range e.Fields() {
		keys = append(keys, e[f])
	}
	return keys
}

// check runs fn over a fresh FieldErrors and returns it only if something
// failed.
func check(fn func(FieldErrors)) error {
	fe := FieldErrors{}
	fn(fe)
	if len(fe) == 0 {
		return nil
	}
	return fe
}

func (e FieldErrors) phone(v string) {
	if utf8.RuneCountInString(v) < 10 || !strings.Contains(v, "+") {
		e[FieldPhone] = "auth:invalidPhoneNumber"
	}
}

func (e FieldErrors) otp(v string) {
	if !otpPattern.MatchString(v) {
		e[FieldOTP] = "auth:invalidOTP"
	}
}

func (e FieldErrors) password(v string) {
	if utf8.RuneCountInString(v) < 6 {
		e[FieldPassword] = "auth:passwordTooShort"
	}
}

// ValidatePhone checks a phone number in international form.
func ValidatePhone(phone string) error {
	return check(func(fe FieldErrors) { fe.phone(strings.TrimSpace(phone)) })
}

// ValidateOTP checks a six digit code.
func ValidateOTP(code string) error {
	return check(func(fe FieldErrors) { fe.otp(strings.TrimSpace(code)) })
}

// ValidateProfile checks every registration field. Email may be empty.
func ValidateProfile(p Profile) error {
	return check(func(fe FieldErrors) {
		fe.phone(strings.TrimSpace(p.PhoneNumber))
		if utf8.RuneCountInString(strings.TrimSpace(p.FirstName)) < 2 {
			fe[FieldFirstName] = "auth:firstNameTooShort"
		}
		if utf8.RuneCountInString(strings.TrimSpace(p.LastName)) < 2 {
			fe[FieldLastName] = "auth:lastNameTooShort"
		}
		if email := strings.TrimSpace(p.Email); email != "" && !emailPattern.MatchString(email) {
			fe[FieldEmail] = "auth:invalidEmail"
		}
		if _, err := time.Parse(time.DateOnly, strings.TrimSpace(p.BirthDate)); err != nil {
			fe[FieldBirthDate] = "auth:invalidBirthDate"
		}
		fe.password(p.Password)
		if p.Password != p.ConfirmPassword {
			fe[FieldConfirmPassword] = "auth:passwordsDoNotMatch"
		}
	})
}
