package chat

import (
	"errors"
	"net/http"

	"github.com/aliyabuddy/aliyabuddy/internal/relay"
)

// ErrorKind categorizes pipeline failures for the HTTP edge.
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"      // credential missing, 500
	KindUpstream      ErrorKind = "upstream_rejection" // non-2xx from the completion API, passed through
	KindTransport     ErrorKind = "transport"          // network or decode failure, 500
)

// MissingCredentialError is returned when the selected provider has no API key.
type MissingCredentialError struct {
	Var string // environment variable that should hold the key
}

func (e *MissingCredentialError) Error() string { return "Missing " + e.Var }

// ErrMissingCredential matches any *MissingCredentialError via errors.Is.
var ErrMissingCredential = errors.New("missing credential")

func (e *MissingCredentialError) Is(target error) bool { return target == ErrMissingCredential }

// Classify maps a pipeline error to its kind, the HTTP status to answer with
// and the message for the error body. Upstream rejections keep their status
// and raw body.
func Classify(err error) (ErrorKind, int, string) {
	var missing *MissingCredentialError
	if errors.As(err, &missing) {
		return KindConfiguration, http.StatusInternalServerError, missing.Error()
	}

	var upErr *relay.UpstreamError
	if errors.As(err, &upErr) {
		return KindUpstream, upErr.StatusCode, upErr.Body
	}

	msg := err.Error()
	if msg == "" {
		msg = "Unknown error"
	}
	return KindTransport, http.StatusInternalServerError, msg
}
