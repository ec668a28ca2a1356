package core

// errors.go defines the failure taxonomy and the mapping from technical
// errors to user-facing messages.
//
// Sentinel errors cover the outcomes callers branch on; everything else is
// wrapped with context and surfaced generically. MapError turns any error
// into a UserMessage with a short support code, matched case-insensitively
// against known substrings (first match wins, specific before general).

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the operations in this package.
var (
	// ErrUnauthorized means the caller's role does not permit the operation.
	ErrUnauthorized = errors.New("not authorized")

	// ErrEmptyUpload means no CSV payload was provided.
	ErrEmptyUpload = errors.New("no file uploaded")

	// ErrMalformedCSV means the payload could not be parsed as CSV.
	ErrMalformedCSV = errors.New("malformed csv")

	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials means login failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUsernameExists means the username is already taken.
	ErrUsernameExists = errors.New("username already exists")

	// ErrEmptyName means a project was submitted without a name.
	ErrEmptyName = errors.New("project name is required")

	// ErrEmptyNote is returned when a note submission has no text.
	ErrEmptyNote = errors.New("note is required")

	// ErrMissingField is returned when a required form field is blank.
	ErrMissingField = errors.New("missing required field")

	// ErrWeakPassword is returned when a password is too short.
	ErrWeakPassword = errors.New("password too short")
)

// UserMessage provides user-friendly error information with a support code.
type UserMessage struct {
	Message string `json:"message"` // What happened
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Permission errors (PERM001)
	{
		pattern: "not authorized",
		msg: UserMessage{
			Message: "You do not have permission to do that",
			Action:  "Ask an administrator if you need access",
			Code:    "PERM001",
		},
	},
	{
		pattern: "invalid credentials",
		msg: UserMessage{
			Message: "Username or password is incorrect",
			Action:  "Check your credentials and try again",
			Code:    "PERM002",
		},
	},

	// Import/file errors (IMP001-IMP003)
	{
		pattern: "no file uploaded",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please choose a CSV file to upload",
			Code:    "IMP001",
		},
	},
	{
		pattern: "malformed csv",
		msg: UserMessage{
			Message: "The file is not a valid CSV",
			Action:  "Ensure the file is comma-separated with a header row",
			Code:    "IMP002",
		},
	},
	{
		pattern: "file type not allowed",
		msg: UserMessage{
			Message: "This file type cannot be attached",
			Action:  "Allowed types: png, jpg, jpeg, gif, pdf, docx",
			Code:    "IMP003",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "The file exceeds the upload size limit",
			Action:  "Upload a smaller file",
			Code:    "IMP004",
		},
	},

	// Validation errors (VAL001-VAL005)
	{
		pattern: "project name is required",
		msg: UserMessage{
			Message: "The project needs a name",
			Action:  "Enter a non-empty project name",
			Code:    "VAL001",
		},
	},
	{
		pattern: "username already exists",
		msg: UserMessage{
			Message: "That username is already taken",
			Action:  "Pick a different username",
			Code:    "VAL002",
		},
	},
	{
		pattern: "note is required",
		msg: UserMessage{
			Message: "The note is empty",
			Action:  "Enter some text for the note",
			Code:    "VAL003",
		},
	},
	{
		pattern: "missing required field",
		msg: UserMessage{
			Message: "A required field is missing",
			Action:  "Fill in all required fields",
			Code:    "VAL004",
		},
	},
	{
		pattern: "password too short",
		msg: UserMessage{
			Message: "The password is too short",
			Action:  "Use at least 8 characters",
			Code:    "VAL005",
		},
	},

	// Lookup errors (REC001)
	{
		pattern: "not found",
		msg: UserMessage{
			Message: "The requested record was not found",
			Action:  "It may have been removed; refresh and try again",
			Code:    "REC001",
		},
	},

	// Database errors (DB001-DB004)
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Check for duplicate entries",
			Code:    "DB001",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A duplicate value was found",
			Action:  "Check for duplicate entries",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to reach the database",
			Action:  "Please try again in a few moments",
			Code:    "DB002",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "The database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The operation timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "DB004",
		},
	},

	// Cancellation (REQ001-REQ002)
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The request timed out",
			Action:  "Try again or check your connection",
			Code:    "REQ002",
		},
	},
}

// defaultMessage is the ERR000 fallback for unexpected errors. Support staff
// should check application logs for the original technical error.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
