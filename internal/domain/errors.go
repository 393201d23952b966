package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// ErrorKind is the top-level classification surfaced to API callers.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation_error"
	KindConfiguration ErrorKind = "configuration_error"
	KindStorage       ErrorKind = "storage_error"
	KindSynthesis     ErrorKind = "synthesis_error"
	KindUnknown       ErrorKind = "unknown_error"
)

// Stage names the pipeline step that produced an error.
type Stage string

const (
	StageValidation  Stage = "validation"
	StageIngest      Stage = "ingest"
	StageStorage     Stage = "storage"
	StageSynthesis   Stage = "synthesis"
	StagePersistence Stage = "persistence"
)

// SynthesisCategory refines KindSynthesis failures.
type SynthesisCategory string

const (
	CategoryMissingCredential SynthesisCategory = "MissingCredential"
	CategoryQuotaExceeded     SynthesisCategory = "QuotaExceeded"
	CategoryNetworkError      SynthesisCategory = "NetworkError"
	CategoryUnknown           SynthesisCategory = "Unknown"
)

// Error is the structured error every pipeline stage reports. Adapters fill in
// Kind and Category; the orchestrator stamps Stage.
type Error struct {
	Kind     ErrorKind
	Stage    Stage
	Category SynthesisCategory
	Message  string
	Missing  []string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Stage != "" {
		b.WriteString(" at ")
		b.WriteString(string(e.Stage))
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// WithStage returns a copy of e attributed to stage. An existing stage is kept.
func (e *Error) WithStage(stage Stage) *Error {
	cp := *e
	if cp.Stage == "" {
		cp.Stage = stage
	}
	return &cp
}

// ValidationError reports missing or unusable request input.
func ValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Stage: StageValidation, Message: msg}
}

// ConfigurationError reports required credentials that are absent. It is
// produced before any network call is attempted.
func ConfigurationError(missing ...string) *Error {
	return &Error{
		Kind:    KindConfiguration,
		Message: fmt.Sprintf("missing configuration: %s", strings.Join(missing, ", ")),
		Missing: append([]string(nil), missing...),
	}
}

// StorageError wraps a durable-store or document-store failure.
func StorageError(msg string, err error) *Error {
	return &Error{Kind: KindStorage, Message: msg, Err: err}
}

// SynthesisError wraps a generative-model failure with its category.
func SynthesisError(category SynthesisCategory, msg string, err error) *Error {
	if category == "" {
		category = CategoryUnknown
	}
	return &Error{Kind: KindSynthesis, Category: category, Message: msg, Err: err}
}

// UnknownError wraps an unexpected fault.
func UnknownError(msg string, err error) *Error {
	return &Error{Kind: KindUnknown, Message: msg, Err: err}
}

// AsError extracts the structured pipeline error from err, if any.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// KindOf returns the error kind of err, defaulting to KindUnknown.
func KindOf(err error) ErrorKind {
	if de, ok := AsError(err); ok {
		return de.Kind
	}
	return KindUnknown
}
