package usecases

import (
	"errors"
	"net/url"

	"github.com/ns-ai-search/console/internal/shared/constants"
)

// Pre-context callback failures. No redirect target is trusted yet, so the
// handler answers with a 400 JSON body.
var (
	ErrMissingCodeOrState = errors.New(constants.ConnectMsgMissingCodeOrState)
	ErrInvalidState       = errors.New(constants.ConnectMsgInvalidState)
)

// ConnectError is a failure reported to the plugin on the redirect back.
// RedirectURI is empty when no target could be derived.
type ConnectError struct {
	Code        constants.ConnectErrorCode
	Message     string
	RedirectURI string
	Err         error
}

func (e *ConnectError) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Err.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e *ConnectError) Unwrap() error { return e.Err }

// RedirectURL appends error and message to the redirect target.
func (e *ConnectError) RedirectURL() string {
	if e.RedirectURI == "" {
		return ""
	}
	return AppendQuery(e.RedirectURI, url.Values{
		"error":   {string(e.Code)},
		"message": {e.Message},
	})
}

func newConnectError(code constants.ConnectErrorCode, redirectURI string, err error) *ConnectError {
	return &ConnectError{
		Code:        code,
		Message:     code.Message(),
		RedirectURI: redirectURI,
		Err:         err,
	}
}

// AsConnectError unwraps err into a *ConnectError.
func AsConnectError(err error) (*ConnectError, bool) {
	var ce *ConnectError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
