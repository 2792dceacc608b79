package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody bounds how much of a failed response is read while looking
// for a server-provided message.
const maxErrorBody = 64 << 10

// errorEnvelope is the error body shape used by the deployed services. The
// auth service writes {"message": ...}, the file service {"error": ...};
// both fields are decoded explicitly rather than duck-typed.
type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e errorEnvelope) text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// DecodeError maps a non-2xx response to the error taxonomy. 401 is always
// normalized to the logged-out message regardless of body content; 403
// becomes an authorization failure; anything else carries the server's
// message when the body yields one, falling back to a templated message
// with the status code and operation name.
func DecodeError(op string, resp *http.Response) *Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var env errorEnvelope
	_ = json.Unmarshal(body, &env)
	serverMsg := env.text()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		e := Unauthenticated(op, resp.StatusCode, nil)
		e.raw = serverMsg
		return e
	case http.StatusForbidden:
		msg := serverMsg
		if msg == "" {
			msg = fmt.Sprintf("%s failed: not permitted", op)
		}
		return &Error{
			Kind:    KindAuthorization,
			Op:      op,
			Status:  resp.StatusCode,
			Message: msg,
			raw:     serverMsg,
		}
	}

	msg := serverMsg
	if msg == "" {
		msg = fmt.Sprintf("%s failed (HTTP %d)", op, resp.StatusCode)
	}
	return &Error{
		Kind:    KindRemoteOperation,
		Op:      op,
		Status:  resp.StatusCode,
		Message: msg,
		raw:     serverMsg,
	}
}

// DecodeJSON reads a success body into out, mapping decode failures to a
// remote-operation error so the page controller sees a renderable message.
func DecodeJSON(op string, resp *http.Response, out any) *Error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{
			Kind:    KindRemoteOperation,
			Op:      op,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("%s failed: malformed server response", op),
			Err:     err,
		}
	}
	return nil
}

// WrapTransport classifies an error from http.Client.Do. A locally missing
// session stays an unauthenticated failure; everything else where no
// response arrived is a network failure.
func WrapTransport(op string, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NetworkFailure(op, err)
}
