package integration_test

import (
	"net/http"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginSuccessIssuesBearerToken(t *testing.T) {
	base := authURL(t)
	username, password := testUser()

	status, body := postLogin(t, base, username, password)

	require.Equal(t, http.StatusOK, status)

	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token, "successful login must issue a token")
	require.Equal(t, "Bearer", body["token_type"])
	require.Contains(t, []any{"admin", "user"}, body["role"])
}

func TestLoginWrongPasswordRejected(t *testing.T) {
	base := authURL(t)
	username, _ := testUser()

	status, body := postLogin(t, base, username, "wrongpassword")

	require.Equal(t, http.StatusUnauthorized, status)
	requireErrorShape(t, body)
}

func TestLoginEmptyCredentialsRejected(t *testing.T) {
	base := authURL(t)

	status, body := postLogin(t, base, "", "")

	require.Equal(t, http.StatusBadRequest, status)
	requireErrorShape(t, body)
}

func TestLoginInvalidFormatFoldsIntoInvalidCredentials(t *testing.T) {
	base := authURL(t)

	// A syntactically invalid username with a short password: format
	// rejection folds into the generic invalid-credentials path.
	status, body := postLogin(t, base, "x", "1")

	require.Equal(t, http.StatusUnauthorized, status)
	require.NotContains(t, body, "access_token")
}

func TestFailedLoginIsIdempotent(t *testing.T) {
	base := authURL(t)
	username, _ := testUser()

	status1, body1 := postLogin(t, base, username, "wrongpassword")
	status2, body2 := postLogin(t, base, username, "wrongpassword")

	require.Equal(t, status1, status2, "repeating an identical failed login must yield the same status")
	requireErrorShape(t, body1)
	requireErrorShape(t, body2)
	require.Equal(t, keysOf(body1), keysOf(body2), "error shape must be stable across identical attempts")
}

func TestUnauthenticatedAccessToProtectedEndpoints(t *testing.T) {
	base := authURL(t)

	for _, path := range []string{"/api/profile", "/api/admin", "/api/admin/users"} {
		status, body := get(t, base+path, "")
		require.Contains(t, []int{http.StatusUnauthorized, http.StatusForbidden}, status,
			"unauthenticated GET %s must be rejected", path)
		require.NotContains(t, body, "user", "protected payload must not leak from %s", path)
		require.NotContains(t, body, "files", "protected payload must not leak from %s", path)
	}
}

func TestNonAdminTokenOnAdminEndpointIsExactly403(t *testing.T) {
	base := authURL(t)
	username, password := testUser()
	token := loginToken(t, base, username, password)

	status, _ := get(t, base+"/api/admin", token)
	require.Equal(t, http.StatusForbidden, status,
		"an authenticated non-admin must get exactly 403, not 401")
}

func TestAdminTokenPassesAdminGate(t *testing.T) {
	base := authURL(t)
	username, password := testAdmin()
	token := loginToken(t, base, username, password)

	status, _ := get(t, base+"/api/admin", token)
	require.Equal(t, http.StatusOK, status)
}

func TestProfileWithValidToken(t *testing.T) {
	base := authURL(t)
	username, password := testUser()
	token := loginToken(t, base, username, password)

	status, body := get(t, base+"/api/profile", token)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, body["user"])
}

// TestAuthorizationScenario is the end-to-end walk of the contract:
// a user logs in, is refused admin data, fails a bad login without a
// token, and bare requests stay out.
func TestAuthorizationScenario(t *testing.T) {
	base := authURL(t)
	username, password := testUser()

	// login(user1, user123) -> 200 with token T
	token := loginToken(t, base, username, password)

	// GET /api/admin with T -> 403
	status, _ := get(t, base+"/api/admin", token)
	require.Equal(t, http.StatusForbidden, status)

	// login(user1, wrongpassword) -> 401, body has no access_token
	status, body := postLogin(t, base, username, "wrongpassword")
	require.Equal(t, http.StatusUnauthorized, status)
	require.NotContains(t, body, "access_token")

	// GET /api/profile with no header -> 401 or 403
	status, _ = get(t, base+"/api/profile", "")
	require.Contains(t, []int{http.StatusUnauthorized, http.StatusForbidden}, status)
}

func keysOf(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
