package session

import (
	"sync"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    Role
		shouldError bool
	}{
		{name: "admin", input: "admin", expected: RoleAdmin},
		{name: "user", input: "user", expected: RoleUser},
		{name: "empty", input: "", shouldError: true},
		{name: "unknown", input: "superuser", shouldError: true},
		{name: "case sensitive", input: "Admin", shouldError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.shouldError {
				if err == nil {
					t.Errorf("expected error for input %q, got none", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error for input %q: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestStoreEmpty(t *testing.T) {
	s := NewStore()

	if _, ok := s.Get(); ok {
		t.Error("empty store reported a session")
	}
	if _, err := s.Token(); err != ErrNoSession {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
	if _, ok := s.Role(); ok {
		t.Error("empty store reported a role")
	}
}

func TestStoreSetGetClear(t *testing.T) {
	s := NewStore()
	s.Set(Session{Token: "tok-123", Role: RoleUser})

	tok, err := s.Token()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok != "tok-123" {
		t.Errorf("expected token tok-123, got %q", tok)
	}
	if role, ok := s.Role(); !ok || role != RoleUser {
		t.Errorf("expected role user, got %q (present=%v)", role, ok)
	}

	s.Clear()
	if _, err := s.Token(); err != ErrNoSession {
		t.Errorf("expected ErrNoSession after Clear, got %v", err)
	}
}

func TestStoreSetEmptyTokenStaysUnauthenticated(t *testing.T) {
	s := NewStore()
	s.Set(Session{Token: "", Role: RoleAdmin})

	if _, err := s.Token(); err != ErrNoSession {
		t.Errorf("tokenless session must not authenticate, got %v", err)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	s.Set(Session{Token: "tok", Role: RoleUser})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Token()
			s.Get()
		}()
		go func() {
			defer wg.Done()
			s.Set(Session{Token: "tok", Role: RoleUser})
			s.Clear()
		}()
	}
	wg.Wait()
}
