// Package integration_test is the black-box verifier of the HTTP
// authentication/authorization contract the backend services must satisfy.
// It bypasses every client abstraction and asserts raw status codes and
// payload shapes against a running deployment.
//
// Configuration comes from the environment; tests skip when no deployment
// is reachable:
//
//	FILEDECK_AUTH_URL        auth service base URL (e.g. http://127.0.0.1:5000)
//	FILEDECK_FILE_URL        file service base URL (e.g. http://127.0.0.1:5002)
//	FILEDECK_TEST_USER       non-admin username (default "user1")
//	FILEDECK_TEST_PASSWORD   non-admin password (default "user123")
//	FILEDECK_TEST_ADMIN      admin username (default "admin")
//	FILEDECK_TEST_ADMIN_PASSWORD admin password (default "admin123")
package integration_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

func authURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("FILEDECK_AUTH_URL")
	if url == "" {
		t.Skip("FILEDECK_AUTH_URL not set; skipping integration test")
	}
	return url
}

func fileURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("FILEDECK_FILE_URL")
	if url == "" {
		t.Skip("FILEDECK_FILE_URL not set; skipping integration test")
	}
	return url
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testUser() (string, string) {
	return envOr("FILEDECK_TEST_USER", "user1"), envOr("FILEDECK_TEST_PASSWORD", "user123")
}

func testAdmin() (string, string) {
	return envOr("FILEDECK_TEST_ADMIN", "admin"), envOr("FILEDECK_TEST_ADMIN_PASSWORD", "admin123")
}

// postLogin submits credentials and returns the status code and decoded
// body. The body decodes into a flat map so shape assertions stay
// independent of any client-side types.
func postLogin(t *testing.T, base, username, password string) (int, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	require.NoError(t, err)

	resp, err := httpClient.Post(base+"/api/login", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	return resp.StatusCode, decodeBody(t, resp.Body)
}

func decodeBody(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(r)
	require.NoError(t, err)
	var body map[string]any
	if len(raw) > 0 {
		// Non-JSON bodies are allowed for some failure responses; shape
		// assertions then run against the nil map.
		_ = json.Unmarshal(raw, &body)
	}
	return body
}

// get performs a GET with an optional bearer token.
func get(t *testing.T, url, token string) (int, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	return resp.StatusCode, decodeBody(t, resp.Body)
}

// loginToken logs in and returns the issued bearer token, failing the test
// on any contract violation along the way.
func loginToken(t *testing.T, base, username, password string) string {
	t.Helper()

	status, body := postLogin(t, base, username, password)
	require.Equal(t, http.StatusOK, status)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

// requireErrorShape asserts a failure body carries a message under either
// documented key and no token.
func requireErrorShape(t *testing.T, body map[string]any) {
	t.Helper()
	require.NotContains(t, body, "access_token", "failure responses must not issue a token")
	hasMessage := body["message"] != nil || body["error"] != nil
	require.True(t, hasMessage, "failure responses must carry an error or message field, got %v", body)
}
