package apiclient

import (
	"net/http"

	"github.com/filedeck/filedeck/session"
)

// Scheme selects how the session token is materialized on the wire. Each
// service boundary is constructed with exactly one scheme; a client can
// never mix schemes for the same target.
type Scheme int

const (
	// SchemeBearer sends "Authorization: Bearer <token>". This is the
	// authoritative scheme for both deployed service boundaries.
	SchemeBearer Scheme = iota
	// SchemeIdentity sends the token value in the X-User-Id header. Kept
	// only for targeting legacy file-service deployments that predate
	// token verification.
	SchemeIdentity
)

const identityHeader = "X-User-Id"

// Builder attaches session credentials to outgoing requests. It fails fast,
// before any network call, when the store holds no session; an
// unauthenticated request is never silently sent.
type Builder struct {
	store  *session.Store
	scheme Scheme
}

// NewBuilder binds a request builder to a session store with a fixed
// credential scheme.
func NewBuilder(store *session.Store, scheme Scheme) *Builder {
	return &Builder{store: store, scheme: scheme}
}

// Headers returns the credential header plus any extras. When no session is
// present it returns session.ErrNoSession and no network call must be made.
func (b *Builder) Headers(extra map[string]string) (http.Header, error) {
	token, err := b.store.Token()
	if err != nil {
		return nil, err
	}

	h := make(http.Header, len(extra)+1)
	switch b.scheme {
	case SchemeIdentity:
		h.Set(identityHeader, token)
	default:
		h.Set("Authorization", "Bearer "+token)
	}
	for k, v := range extra {
		h.Set(k, v)
	}
	return h, nil
}

// Apply builds the credential headers and copies them onto req.
func (b *Builder) Apply(req *http.Request, extra map[string]string) error {
	h, err := b.Headers(extra)
	if err != nil {
		return err
	}
	for k, vs := range h {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	return nil
}
