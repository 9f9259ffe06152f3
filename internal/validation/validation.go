package validation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sbilibin2017/gw-user-registration/internal/models"
)

// Validation error messages.
const (
	MsgEmailInvalid       = "Invalid email format"
	MsgPasswordInvalid    = "Password must be at least 8 characters with letters, numbers, and special characters (@$!%*#?&)"
	MsgPasswordMismatch   = "Password and confirm password do not match"
	MsgCountryCodeInvalid = "Country code must start with + followed by 1-4 digits"
	MsgMobileInvalid      = "Mobile number must be 10-15 digits"
	MsgUsernameInvalid    = "Username must be alphanumeric"
)

var (
	alphaRe        = regexp.MustCompile(`^[A-Za-z]+$`)
	alphanumericRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	emailRe        = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	countryCodeRe  = regexp.MustCompile(`^\+\d{1,4}$`)
	mobileRe       = regexp.MustCompile(`^\d{10,15}$`)
	nonDigitRe     = regexp.MustCompile(`[^\d]`)
	innerSpaceRe   = regexp.MustCompile(`\s+`)

	passwordCharsRe = regexp.MustCompile(`^[A-Za-z0-9@$!%*#?&]+$`)
	letterRe        = regexp.MustCompile(`[A-Za-z]`)
	digitRe         = regexp.MustCompile(`\d`)
	specialRe       = regexp.MustCompile(`[@$!%*#?&]`)
)

// FieldError describes a single field-level violation.
type FieldError struct {
	Type  string   `json:"type"`  // Violation category: missing, value_error, json_invalid
	Loc   []string `json:"loc"`   // Location of the offending value, e.g. ["body", "username"]
	Msg   string   `json:"msg"`   // Human-readable message
	Input string   `json:"input"` // Offending input; redacted for password fields
}

// FieldErrors is the full set of violations found in a payload.
type FieldErrors []FieldError

// Error implements the error interface.
func (e FieldErrors) Error() string {
	var b strings.Builder
	for i, fe := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(fe.Loc[len(fe.Loc)-1] + ": " + fe.Msg)
	}
	return b.String()
}

// Normalize sanitizes the payload in place before validation: whitespace is
// trimmed and collapsed, names are capitalized, the username is lowercased
// and the mobile number is stripped of non-digits. The email is lowercased
// unless emailCaseSensitive is set.
func Normalize(req *models.RegisterRequest, emailCaseSensitive bool) {
	req.Firstname = capitalize(sanitize(req.Firstname))
	req.Lastname = capitalize(sanitize(req.Lastname))
	req.Username = strings.ToLower(sanitize(req.Username))
	req.CountryCode = sanitize(req.CountryCode)
	req.MobileNumber = nonDigitRe.ReplaceAllString(sanitize(req.MobileNumber), "")
	req.Password = strings.TrimSpace(req.Password)
	req.ConfirmPassword = strings.TrimSpace(req.ConfirmPassword)

	req.Email = sanitize(req.Email)
	if !emailCaseSensitive {
		req.Email = strings.ToLower(req.Email)
	}
}

// sanitize trims leading/trailing whitespace and collapses inner runs.
func sanitize(s string) string {
	return innerSpaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// capitalize uppercases the first letter and lowercases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// registerRules is the rule table for the registration payload. Each rule is
// a pure predicate over the normalized request; check returns a violation
// type and message, or empty strings when the value is valid.
var registerRules = []struct {
	field    string
	redacted bool
	value    func(r *models.RegisterRequest) string
	check    func(v string, r *models.RegisterRequest) (string, string)
}{
	{
		field: "firstname",
		value: func(r *models.RegisterRequest) string { return r.Firstname },
		check: func(v string, _ *models.RegisterRequest) (string, string) { return checkAlpha(v, "First name") },
	},
	{
		field: "lastname",
		value: func(r *models.RegisterRequest) string { return r.Lastname },
		check: func(v string, _ *models.RegisterRequest) (string, string) { return checkAlpha(v, "Last name") },
	},
	{
		field: "email",
		value: func(r *models.RegisterRequest) string { return r.Email },
		check: func(v string, _ *models.RegisterRequest) (string, string) { return checkEmail(v) },
	},
	{
		field: "username",
		value: func(r *models.RegisterRequest) string { return r.Username },
		check: func(v string, _ *models.RegisterRequest) (string, string) { return checkUsername(v) },
	},
	{
		field:    "password",
		redacted: true,
		value:    func(r *models.RegisterRequest) string { return r.Password },
		check:    func(v string, _ *models.RegisterRequest) (string, string) { return checkPassword(v) },
	},
	{
		field:    "confirmpassword",
		redacted: true,
		value:    func(r *models.RegisterRequest) string { return r.ConfirmPassword },
		check: func(v string, r *models.RegisterRequest) (string, string) {
			return checkPasswordsMatch(r.Password, v)
		},
	},
	{
		field: "countrycode",
		value: func(r *models.RegisterRequest) string { return r.CountryCode },
		check: func(v string, _ *models.RegisterRequest) (string, string) { return checkCountryCode(v) },
	},
	{
		field: "mobilenumber",
		value: func(r *models.RegisterRequest) string { return r.MobileNumber },
		check: func(v string, _ *models.RegisterRequest) (string, string) { return checkMobileNumber(v) },
	},
}

// ValidateRegister checks every field of a normalized payload against the
// rule table and returns all violations found, or nil when the payload is
// valid. The check is pure: the same payload always yields the same verdict.
func ValidateRegister(req *models.RegisterRequest) FieldErrors {
	var errs FieldErrors
	for _, rule := range registerRules {
		v := rule.value(req)
		typ, msg := rule.check(v, req)
		if msg == "" {
			continue
		}
		input := v
		if rule.redacted {
			input = ""
		}
		errs = append(errs, FieldError{
			Type:  typ,
			Loc:   []string{"body", rule.field},
			Msg:   msg,
			Input: input,
		})
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkAlpha(v, label string) (string, string) {
	switch {
	case v == "":
		return "missing", label + " is required"
	case !alphaRe.MatchString(v):
		return "value_error", label + " must contain only alphabetic characters"
	case len(v) < 2:
		return "value_error", label + " must be at least 2 characters long"
	case len(v) > 50:
		return "value_error", label + " must not exceed 50 characters"
	}
	return "", ""
}

func checkEmail(v string) (string, string) {
	switch {
	case v == "":
		return "missing", "Email is required"
	case len(v) > 255:
		return "value_error", "Email must not exceed 255 characters"
	case !emailRe.MatchString(v):
		return "value_error", MsgEmailInvalid
	}
	return "", ""
}

func checkUsername(v string) (string, string) {
	switch {
	case v == "":
		return "missing", "Username is required"
	case !alphanumericRe.MatchString(v):
		return "value_error", MsgUsernameInvalid
	case len(v) < 3:
		return "value_error", "Username must be at least 3 characters long"
	case len(v) > 30:
		return "value_error", "Username must not exceed 30 characters"
	}
	return "", ""
}

func checkPassword(v string) (string, string) {
	switch {
	case v == "":
		return "missing", "Password is required"
	case len(v) < 8:
		return "value_error", "Password must be at least 8 characters long"
	case len(v) > 128:
		return "value_error", "Password must not exceed 128 characters"
	}
	// Must contain a letter, a digit and a special character, and nothing
	// outside the allowed character set.
	if !letterRe.MatchString(v) || !digitRe.MatchString(v) ||
		!specialRe.MatchString(v) || !passwordCharsRe.MatchString(v) {
		return "value_error", MsgPasswordInvalid
	}
	return "", ""
}

func checkPasswordsMatch(password, confirm string) (string, string) {
	switch {
	case confirm == "":
		return "missing", "Confirm password is required"
	case password != confirm:
		return "value_error", MsgPasswordMismatch
	}
	return "", ""
}

func checkCountryCode(v string) (string, string) {
	if v == "" {
		return "missing", "Country code is required"
	}
	if !countryCodeRe.MatchString(v) {
		return "value_error", MsgCountryCodeInvalid
	}
	code, err := strconv.Atoi(v[1:])
	if err != nil || code < 1 || code > 9999 {
		return "value_error", "Country code must be between +1 and +9999"
	}
	return "", ""
}

func checkMobileNumber(v string) (string, string) {
	if v == "" {
		return "missing", "Mobile number is required"
	}
	if !mobileRe.MatchString(v) {
		return "value_error", MsgMobileInvalid
	}
	return "", ""
}
