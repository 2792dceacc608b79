package authsvc

import (
	"strings"
	"unicode"

	"github.com/filedeck/filedeck/apiclient"
)

// Local form constraints. These short-circuit obviously invalid submissions
// before a network round trip; the server remains the security boundary and
// re-validates everything.
const (
	minUsernameLen    = 3
	minPasswordLen    = 6
	minNewPasswordLen = 8
)

// ValidateCredentials applies the login form rules.
func ValidateCredentials(creds Credentials) error {
	username := strings.TrimSpace(creds.Username)
	password := strings.TrimSpace(creds.Password)

	if username == "" || password == "" {
		return apiclient.LocalValidation("login", "username and password are required")
	}
	if len(username) < minUsernameLen || len(password) < minPasswordLen {
		return apiclient.LocalValidation("login", "invalid username or password format")
	}
	return nil
}

// ValidateNewUser applies the admin add-user form rules: username length
// plus the strong-password rule (length, upper, lower, digit, special).
func ValidateNewUser(nu NewUser) error {
	username := strings.TrimSpace(nu.Username)
	password := strings.TrimSpace(nu.Password)

	if username == "" || password == "" {
		return apiclient.LocalValidation("create user", "username and password are required")
	}
	if len(username) < minUsernameLen {
		return apiclient.LocalValidation("create user", "username must be at least 3 characters")
	}
	if !strongPassword(password) {
		return apiclient.LocalValidation("create user",
			"password must be at least 8 characters and include an uppercase letter, a lowercase letter, a number, and a special character")
	}
	return nil
}

func strongPassword(p string) bool {
	if len(p) < minNewPasswordLen {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune("@$!%*?&", r):
			special = true
		}
	}
	return upper && lower && digit && special
}
