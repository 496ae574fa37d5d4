package core

// error_messages.go maps technical errors to user-facing messages with
// codes for support reference. Users quote the code; support staff look it
// up here.
//
// # Table Errors (TBL001-TBL099)
//
//	TBL001 - Unknown table: The requested table does not exist
//	         Action: Check the address or pick a table from the menu
//	         Matches: ErrUnknownTable, "unknown table", "table not found"
//
//	TBL002 - Invalid column model: The table layout could not be read
//	         Action: Contact support with the table name
//	         Matches: "invalid column model", "decode column model"
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Source unavailable: The data for this table could not be loaded
//	         Action: Please try again in a few moments
//	         Matches: ErrSourceUnavailable
//
//	SRC002 - Connection refused: Unable to reach the data service
//	         Action: Please try again in a few moments
//	         Matches: "connection refused", "connection reset"
//
//	SRC003 - Unexpected data: The data service answered with an unexpected format
//	         Action: Contact support if the problem persists
//	         Matches: "decode rows", "unexpected status"
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Export failed: The spreadsheet could not be created
//	         Action: Please try again
//	         Matches: *export.Error
//
//	EXP002 - Exports busy: Too many exports in progress
//	         Action: Please wait a moment and try again
//	         Matches: ErrTooManyExports
//
// # Access Errors (AUTH001-AUTH099)
//
//	AUTH001 - Forbidden: Your profile cannot access this table
//	          Matches: ErrForbidden
//
//	AUTH002 - Not signed in: No active session
//	          Matches: ErrNoSession, "invalid api key"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled: "context canceled"
//	REQ002 - Request timeout: "context deadline exceeded", "timeout"
//	REQ003 - Invalid parameter: "invalid parameter"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check application logs for the original
// technical error.
//
// Typed and sentinel errors are checked first with errors.As / errors.Is,
// then message patterns are matched case-insensitively with strings.Contains.
// The first match wins in both passes.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/easyfin/internal/export"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

var (
	msgUnknownTable = UserMessage{
		Message: "Table not found",
		Action:  "Check the address or pick a table from the menu",
		Code:    "TBL001",
	}
	msgSourceUnavailable = UserMessage{
		Message: "The data for this table could not be loaded",
		Action:  "Please try again in a few moments",
		Code:    "SRC001",
	}
	msgExportFailed = UserMessage{
		Message: "The spreadsheet could not be created",
		Action:  "Please try again",
		Code:    "EXP001",
	}
	msgExportsBusy = UserMessage{
		Message: "Too many exports in progress",
		Action:  "Please wait a moment and try again",
		Code:    "EXP002",
	}
	msgForbidden = UserMessage{
		Message: "Your profile cannot access this table",
		Action:  "Ask an administrator for access",
		Code:    "AUTH001",
	}
	msgNoSession = UserMessage{
		Message: "You are not signed in",
		Action:  "Sign in and try again",
		Code:    "AUTH002",
	}
)

// errorKind maps a sentinel or typed error to its user message.
type errorKind struct {
	match func(error) bool
	msg   UserMessage
}

func is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

// errorKinds is checked before the message patterns. Order matters: the
// limiter error must win over the generic export failure.
var errorKinds = []errorKind{
	{is(ErrTooManyExports), msgExportsBusy},
	{func(err error) bool {
		var e *export.Error
		return errors.As(err, &e)
	}, msgExportFailed},
	{is(ErrUnknownTable), msgUnknownTable},
	{is(ErrForbidden), msgForbidden},
	{is(ErrNoSession), msgNoSession},
	{is(ErrSourceUnavailable), msgSourceUnavailable},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so more specific patterns come first.
var errorPatterns = []errorPattern{
	// Table errors
	{pattern: "unknown table", msg: msgUnknownTable},
	{pattern: "table not found", msg: msgUnknownTable},
	{
		pattern: "invalid column model",
		msg: UserMessage{
			Message: "The table layout could not be read",
			Action:  "Contact support with the table name",
			Code:    "TBL002",
		},
	},
	{
		pattern: "decode column model",
		msg: UserMessage{
			Message: "The table layout could not be read",
			Action:  "Contact support with the table name",
			Code:    "TBL002",
		},
	},

	// Source errors
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to reach the data service",
			Action:  "Please try again in a few moments",
			Code:    "SRC002",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Unable to reach the data service",
			Action:  "Please try again in a few moments",
			Code:    "SRC002",
		},
	},
	{
		pattern: "decode rows",
		msg: UserMessage{
			Message: "The data service answered with an unexpected format",
			Action:  "Contact support if the problem persists",
			Code:    "SRC003",
		},
	},
	{
		pattern: "unexpected status",
		msg: UserMessage{
			Message: "The data service answered with an unexpected format",
			Action:  "Contact support if the problem persists",
			Code:    "SRC003",
		},
	},

	// Access errors
	{pattern: "invalid api key", msg: msgNoSession},

	// Request errors
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "invalid parameter",
		msg: UserMessage{
			Message: "The request contains an invalid value",
			Action:  "Check the page, size and sort values",
			Code:    "REQ003",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If nothing matches, a generic fallback message with code ERR000 is returned.
//
// Example:
//
//	msg := MapError(fmt.Errorf("view %q: %w", key, ErrUnknownTable))
//	// msg.Code == "TBL001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, k := range errorKinds {
		if k.match(err) {
			return k.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a
// user-friendly message. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
