package authsvc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/filedeck/filedeck/apiclient"
	"github.com/filedeck/filedeck/session"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := session.NewStore()
	return NewClient(srv.URL, store, srv.Client(), zap.NewNop()), store
}

func TestLoginSuccess(t *testing.T) {
	var gotBody Credentials
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Empty(t, r.Header.Get("Authorization"), "login must be unauthenticated")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "tok-xyz",
			"token_type":   "Bearer",
			"role":         "user",
		})
	}))

	result, err := c.Login(context.Background(), Credentials{Username: "user1", Password: "user123"})
	require.NoError(t, err)
	require.Equal(t, "user1", gotBody.Username)

	sess, err := result.Session()
	require.NoError(t, err)
	require.Equal(t, "tok-xyz", sess.Token)
	require.Equal(t, session.RoleUser, sess.Role)
}

func TestLoginLocalValidationSkipsNetwork(t *testing.T) {
	called := false
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	tests := []struct {
		name  string
		creds Credentials
	}{
		{"empty both", Credentials{}},
		{"empty password", Credentials{Username: "user1"}},
		{"short username", Credentials{Username: "ab", Password: "user123"}},
		{"short password", Credentials{Username: "user1", Password: "12345"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Login(context.Background(), tt.creds)
			require.Error(t, err)
			require.Equal(t, apiclient.KindLocalValidation, apiclient.KindOf(err))
		})
	}
	require.False(t, called, "local validation must not reach the network")
}

func TestLoginRejectedKeepsServerMessage(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
	}))

	_, err := c.Login(context.Background(), Credentials{Username: "user1", Password: "wrongpass"})
	require.Error(t, err)
	// A 401 at login is bad credentials, not an expired session: the
	// server's message survives and the kind is not unauthenticated.
	require.Equal(t, apiclient.KindRemoteOperation, apiclient.KindOf(err))
	require.EqualError(t, err, "Invalid credentials")
}

func TestLoginRejectedWithoutBodyFallsBack(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.Login(context.Background(), Credentials{Username: "user1", Password: "wrongpass"})
	require.Error(t, err)
	require.EqualError(t, err, "invalid credentials")
}

func TestLoginResultValidation(t *testing.T) {
	tests := []struct {
		name   string
		result LoginResult
	}{
		{"no token", LoginResult{TokenType: "Bearer", Role: "user"}},
		{"wrong token type", LoginResult{AccessToken: "t", TokenType: "Basic", Role: "user"}},
		{"bad role", LoginResult{AccessToken: "t", TokenType: "Bearer", Role: "root"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.result.Session()
			require.Error(t, err)
		})
	}
}

func TestProfileRequiresSession(t *testing.T) {
	called := false
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := c.Profile(context.Background())
	require.Error(t, err)
	require.True(t, apiclient.IsUnauthenticated(err))
	require.False(t, called, "missing token must fail before any network call")
}

func TestProfileSendsBearer(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Authenticated access granted",
			"user":    map[string]any{"user_id": 1, "role": "user"},
		})
	}))
	store.Set(session.Session{Token: "tok-abc", Role: session.RoleUser})

	p, err := c.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Authenticated access granted", p.Message)
}

func TestAdminCheckForbiddenForNonAdmin(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"message": "Forbidden"})
	}))
	store.Set(session.Session{Token: "user-token", Role: session.RoleUser})

	err := c.AdminCheck(context.Background())
	require.Error(t, err)
	require.True(t, apiclient.IsAuthorization(err))
}

func TestExpiredTokenNormalized(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Token expired"})
	}))
	store.Set(session.Session{Token: "stale", Role: session.RoleUser})

	_, err := c.Profile(context.Background())
	require.Error(t, err)
	require.True(t, apiclient.IsUnauthenticated(err))
	require.EqualError(t, err, apiclient.UnauthenticatedMessage)
}

func TestListUsers(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/admin/users", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]UserRecord{
			{ID: 1, Username: "admin", Role: "admin"},
			{ID: 2, Username: "user1", Role: "user"},
		})
	}))
	store.Set(session.Session{Token: "admin-token", Role: session.RoleAdmin})

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "user1", users[1].Username)
}

func TestCreateUser(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var nu NewUser
		require.NoError(t, json.NewDecoder(r.Body).Decode(&nu))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(UserRecord{ID: 7, Username: nu.Username, Role: "user"})
	}))
	store.Set(session.Session{Token: "admin-token", Role: session.RoleAdmin})

	created, err := c.CreateUser(context.Background(), NewUser{Username: "newbie", Password: "Str0ng!pass"})
	require.NoError(t, err)
	require.Equal(t, int64(7), created.ID)
	require.Equal(t, "newbie", created.Username)
}

func TestCreateUserWeakPasswordRejectedLocally(t *testing.T) {
	called := false
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	store.Set(session.Session{Token: "admin-token", Role: session.RoleAdmin})

	_, err := c.CreateUser(context.Background(), NewUser{Username: "newbie", Password: "weak"})
	require.Error(t, err)
	require.Equal(t, apiclient.KindLocalValidation, apiclient.KindOf(err))
	require.False(t, called)
}

func TestDeleteUser(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/admin/users/3", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
	}))
	store.Set(session.Session{Token: "admin-token", Role: session.RoleAdmin})

	require.NoError(t, c.DeleteUser(context.Background(), 3))
}

func TestNetworkFailureClassified(t *testing.T) {
	store := session.NewStore()
	store.Set(session.Session{Token: "tok", Role: session.RoleUser})
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, store, nil, zap.NewNop())
	_, err := c.Profile(context.Background())
	require.Error(t, err)
	require.Equal(t, apiclient.KindNetwork, apiclient.KindOf(err))
}
