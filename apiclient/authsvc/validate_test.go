package authsvc

import "testing"

func TestStrongPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{"all classes", "Str0ng!pass", true},
		{"minimum viable", "Aa1@aaaa", true},
		{"too short", "Aa1@aaa", false},
		{"no uppercase", "str0ng!pass", false},
		{"no lowercase", "STR0NG!PASS", false},
		{"no digit", "Strong!pass", false},
		{"no special", "Str0ngpass", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strongPassword(tt.password); got != tt.ok {
				t.Errorf("strongPassword(%q) = %v, want %v", tt.password, got, tt.ok)
			}
		})
	}
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name        string
		creds       Credentials
		shouldError bool
	}{
		{"valid", Credentials{Username: "user1", Password: "user123"}, false},
		{"whitespace only", Credentials{Username: "   ", Password: "user123"}, true},
		{"empty username", Credentials{Password: "user123"}, true},
		{"empty password", Credentials{Username: "user1"}, true},
		{"username too short", Credentials{Username: "ab", Password: "user123"}, true},
		{"password too short", Credentials{Username: "user1", Password: "12345"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredentials(tt.creds)
			if tt.shouldError && err == nil {
				t.Error("expected error, got none")
			}
			if !tt.shouldError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateNewUser(t *testing.T) {
	tests := []struct {
		name        string
		nu          NewUser
		shouldError bool
	}{
		{"valid", NewUser{Username: "newbie", Password: "Str0ng!pass"}, false},
		{"short username", NewUser{Username: "ab", Password: "Str0ng!pass"}, true},
		{"weak password", NewUser{Username: "newbie", Password: "password"}, true},
		{"empty", NewUser{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNewUser(tt.nu)
			if tt.shouldError && err == nil {
				t.Error("expected error, got none")
			}
			if !tt.shouldError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
