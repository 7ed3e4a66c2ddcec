package errors

import (
	"errors"
	"fmt"
)

// Failure taxonomy. Only ErrAuthInvalid is fatal to the process; everything
// else degrades gracefully and is reported through return values.
var (
	ErrAuthInvalid        = errors.New("bot token rejected")
	ErrSourceUnavailable  = errors.New("update log unavailable")
	ErrHistoryUnavailable = errors.New("history currently unavailable")
	ErrNotInChat          = errors.New("bot is not in the chat")
	ErrFileTooLarge       = errors.New("file exceeds the download size limit")
	ErrTransferFailed     = errors.New("file transfer failed")
)

// Error carries an optional machine-readable code alongside the message.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error with a message
func New(message string) error {
	return &Error{
		Message: message,
	}
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// WrapWithCode wraps an error with a code and message
func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetCode returns the error code if it exists
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsAuthInvalid(err error) bool {
	return errors.Is(err, ErrAuthInvalid)
}

func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

func IsHistoryUnavailable(err error) bool {
	return errors.Is(err, ErrHistoryUnavailable)
}

func IsFileTooLarge(err error) bool {
	return errors.Is(err, ErrFileTooLarge)
}

func IsTransferFailed(err error) bool {
	return errors.Is(err, ErrTransferFailed)
}
