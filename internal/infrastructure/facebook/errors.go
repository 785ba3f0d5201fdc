package facebook

import (
	"errors"
	"fmt"
)

// ErrNoAccessToken means Facebook answered 200 without an access_token.
var ErrNoAccessToken = errors.New("no access token in response")

// GraphError is the error object Graph API returns on non-2xx responses.
type GraphError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	Code       int    `json:"code"`
	Subcode    int    `json:"error_subcode"`
	FBTraceID  string `json:"fbtrace_id"`
}

func (e *GraphError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("graph api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("graph api: status %d: %s (type=%s code=%d fbtrace_id=%s)",
		e.StatusCode, e.Message, e.Type, e.Code, e.FBTraceID)
}

// IsGraphError reports whether err carries a Graph API error body.
func IsGraphError(err error) bool {
	var ge *GraphError
	return errors.As(err, &ge)
}
