package core

// error_messages.go maps technical errors to user-facing messages with codes
// support staff can look up.
//
// Codes by category:
//
//	IMP001 - Missing required columns (structural, blocks the whole import)
//	IMP002 - Row errors present, commit blocked
//	IMP003 - File decoded but carried no data rows
//	IMP004 - File is not parseable delimited text
//
//	REC001 - Record not found or not visible
//	REC002 - Invalid email format
//	REC003 - Description too short
//	REC004 - Record is not effectively expired
//	REC005 - Record is not in the trash
//
//	AUTH001 - No authenticated actor
//
//	DB001 - Duplicate key
//	DB002 - Connection problem
//	DB003 - Operation timed out
//	WR001  - Bulk write failed mid-batch (committed chunks stand)
//
//	ERR000 - Fallback for anything unmatched
//
// Typed errors are matched with errors.Is/As first; remaining store errors
// fall through to case-insensitive substring patterns, first match wins.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage is user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference code
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this ID already exists",
			Action:  "Refresh the list and try again",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to reach the record store",
			Action:  "Please try again in a few moments",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "The record store connection was interrupted",
			Action:  "Please try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The operation timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "DB003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The operation timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "DB003",
		},
	},
}

// MapError converts any error into a UserMessage. The original error is
// never shown to the client; log it server-side before mapping.
func MapError(err error) UserMessage {
	var structural *StructuralImportError
	var writeErr *WriteError

	switch {
	case errors.As(err, &structural):
		return UserMessage{
			Message: structural.Error(),
			Action:  "Add the missing columns to the header row and re-upload",
			Code:    "IMP001",
		}
	case errors.Is(err, ErrImportBlocked):
		return UserMessage{
			Message: "The file still has row errors",
			Action:  "Fix the listed rows and upload again; nothing was imported",
			Code:    "IMP002",
		}
	case errors.Is(err, ErrNoDataRows):
		return UserMessage{
			Message: "The file has no data rows",
			Action:  "Add at least one row below the header",
			Code:    "IMP003",
		}
	case errors.As(err, &writeErr):
		return UserMessage{
			Message: fmt.Sprintf("The import stopped after %d records were saved", writeErr.Committed),
			Action:  "Remove the already-imported rows from the file and retry the rest",
			Code:    "WR001",
		}
	case errors.Is(err, ErrNotFound):
		return UserMessage{
			Message: "Record not found",
			Action:  "It may have been deleted; refresh the list",
			Code:    "REC001",
		}
	case errors.Is(err, ErrInvalidEmail):
		return UserMessage{
			Message: "Invalid email format",
			Action:  "Use the form local@domain.tld",
			Code:    "REC002",
		}
	case errors.Is(err, ErrDescriptionTooShort):
		return UserMessage{
			Message: "Description is too short",
			Action:  fmt.Sprintf("Use at least %d characters", MinDescriptionLen),
			Code:    "REC003",
		}
	case errors.Is(err, ErrNotExpirable):
		return UserMessage{
			Message: "This record cannot be marked expired",
			Action:  "Only unsold records past their expiry date can be marked expired",
			Code:    "REC004",
		}
	case errors.Is(err, ErrNotTrashed):
		return UserMessage{
			Message: "This record is not in the trash",
			Action:  "Only trashed records can be restored",
			Code:    "REC005",
		}
	case errors.Is(err, ErrAuthRequired):
		return UserMessage{
			Message: "You are not signed in",
			Action:  "Provide an actor identity and try again",
			Code:    "AUTH001",
		}
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "malformed input") {
		return UserMessage{
			Message: "The file could not be read as CSV",
			Action:  "Save it as UTF-8 CSV and try again",
			Code:    "IMP004",
		}
	}
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return UserMessage{
		Message: "An unexpected error occurred",
		Action:  "Please try again or contact support",
		Code:    "ERR000",
	}
}
