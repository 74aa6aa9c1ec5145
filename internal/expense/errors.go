package expense

import (
	"context"
	"errors"
	"strings"

	"github.com/theirongolddev/paisa/internal/auth"
	"github.com/theirongolddev/paisa/internal/rtdb"
)

// Messages shown to the user.
const (
	MsgRequired      = "All fields are required."
	MsgAmountNumeric = "Amount must be a number."
	MsgDateFormat    = "Date must be in YYYY-MM-DD format."
	MsgLineFormat    = "The selected item has an unexpected format."
)

// RequiredFieldError reports blank required fields.
type RequiredFieldError struct {
	Fields []string
}

func (e *RequiredFieldError) Error() string { return MsgRequired }

// ValidationError reports a field whose value does not parse.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ParseError reports a display line that does not match FormatLine's shape.
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return "parsing expense line " + quote(e.Line) + ": " + e.Reason
}

func quote(s string) string {
	if len(s) > 60 {
		s = s[:57] + "..."
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// Describe maps an error to the title and message of the dialog that
// reports it.
func Describe(err error) (title, message string) {
	var (
		authErr   *auth.Error
		reqErr    *RequiredFieldError
		valErr    *ValidationError
		parseErr  *ParseError
		remoteErr *rtdb.RemoteError
	)
	switch {
	case err == nil:
		return "", ""
	case errors.As(err, &authErr):
		if authErr.Op == auth.OpSignUp {
			return "Sign Up Failed", authErr.Message
		}
		return "Login Failed", authErr.Message
	case errors.As(err, &reqErr):
		return "Input Error", reqErr.Error()
	case errors.As(err, &valErr):
		return "Invalid Input", valErr.Message
	case errors.As(err, &parseErr):
		return "Format Error", MsgLineFormat
	case errors.As(err, &remoteErr):
		return "Connection Error", remoteErr.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "Connection Error", "The request timed out."
	default:
		return "Error", err.Error()
	}
}
