package domain

import (
	"errors"
	"fmt"
)

// ErrKind is used to map domain errors to HTTP status codes consistently.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"     // 400
	KindConflict       ErrKind = "conflict"       // 400
	KindCredentials    ErrKind = "credentials"    // 400
	KindUnauthorized   ErrKind = "unauthorized"   // 401
	KindNotFound       ErrKind = "not_found"      // 404
	KindRateLimited    ErrKind = "rate_limited"   // 429
	KindInfrastructure ErrKind = "infrastructure" // 500
	KindInternal       ErrKind = "internal"       // 500
)

// Error is a structured domain error.
// - Kind: high-level category for HTTP mapping
// - Code: stable machine code
// - Message: safe summary for clients
// - Meta: optional details (field, reason, etc.)
// - Cause: wrapped internal error for logging only
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

// Is reports whether err is a domain error carrying the given code.
func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// KindOf returns the kind of a domain error, or KindInternal for anything else.
func KindOf(err error) ErrKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// ----------------------
// Validation (400)
// ----------------------

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "Invalid JSON body", cause)
}

// ErrMissingFields is returned when register/login payloads are incomplete.
func ErrMissingFields(fields ...string) *Error {
	e := New(KindValidation, "missing_field", "All fields required")
	if len(fields) > 0 {
		meta := make(map[string]string, len(fields))
		for _, f := range fields {
			meta[f] = "required"
		}
		e.Meta = meta
	}
	return e
}

func ErrContentRequired() *Error {
	return New(KindValidation, "content_required", "Content required")
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, "invalid_field", "Invalid field"), map[string]string{
		"field":  field,
		"reason": reason,
	})
}

// ----------------------
// Conflict (400)
// ----------------------

func ErrEmailAlreadyExists() *Error {
	return New(KindConflict, "email_already_exists", "Email already exists")
}

// ----------------------
// Credentials (400)
// ----------------------

func ErrUserNotFound() *Error {
	return New(KindCredentials, "user_not_found", "User not found")
}

func ErrInvalidCredentials() *Error {
	return New(KindCredentials, "invalid_credentials", "Invalid credentials")
}

// ----------------------
// Unauthorized (401)
// ----------------------

func ErrTokenMissing() *Error {
	return New(KindUnauthorized, "token_missing", "Not authorized")
}

func ErrTokenInvalid() *Error {
	return New(KindUnauthorized, "token_invalid", "Not authorized")
}

func ErrTokenExpired() *Error {
	return New(KindUnauthorized, "token_expired", "Not authorized")
}

// ----------------------
// Not found (404)
// ----------------------

// ErrNoteNotFound covers both a missing note and a note owned by someone else.
func ErrNoteNotFound() *Error {
	return New(KindNotFound, "note_not_found", "Note not found")
}

// ----------------------
// Rate limit (429)
// ----------------------

func ErrRateLimited(scope string) *Error {
	return WithMeta(New(KindRateLimited, "rate_limited", "Too many requests"), map[string]string{
		"scope": scope,
	})
}

// ----------------------
// Infrastructure / internal (500)
// ----------------------

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "db_unavailable", "Server error", cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "Server error", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", "Server error", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "Server error", cause)
}
