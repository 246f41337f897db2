package upload

import (
	"errors"
	"fmt"
)

var (
	ErrNoBaseURL = fmt.Errorf("upload: base url not configured")
	ErrNotFile   = errors.New("upload: not a regular file")
)

// UnknownErrorMessage is reported when the endpoint gives neither a url nor
// an error.
const UnknownErrorMessage = "Unknown error"

// ServerError means the endpoint answered with JSON that carries no url.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// IsServerError reports whether err is a server-reported failure and returns
// its message.
func IsServerError(err error) (string, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se.Message, true
	}
	return "", false
}
