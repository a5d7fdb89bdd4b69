package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies a per-indexer failure for reporting and backoff.
type ErrorKind string

const (
	ErrKindNone               ErrorKind = ""
	ErrKindCapabilityMismatch ErrorKind = "capability_mismatch"
	ErrKindSanitizationEmpty  ErrorKind = "sanitization_empty"
	ErrKindMappingIncomplete  ErrorKind = "category_mapping_incomplete"
	ErrKindTransport          ErrorKind = "transport"
	ErrKindAuth               ErrorKind = "auth"
	ErrKindParse              ErrorKind = "parse"
	ErrKindBackoff            ErrorKind = "backoff"
	ErrKindAborted            ErrorKind = "aborted"
)

var (
	ErrCapabilityMismatch        = errors.New("indexer does not support this search")
	ErrSanitizationEmpty         = errors.New("search term is empty after sanitization")
	ErrCategoryMappingIncomplete = errors.New("indexer category mapping is incomplete")
	ErrNoIndexers                = errors.New("no indexers available")
)

// IndexerError is a classified failure raised while talking to one indexer.
type IndexerError struct {
	Kind       ErrorKind
	IndexerID  string
	StatusCode int
	Message    string
	Err        error
}

func (e *IndexerError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (http %d)", msg, e.StatusCode)
	}
	if e.IndexerID != "" {
		return fmt.Sprintf("%s error on %s: %s", e.Kind, e.IndexerID, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, msg)
}

func (e *IndexerError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps a network or HTTP status failure.
func NewTransportError(status int, err error) *IndexerError {
	return &IndexerError{Kind: ErrKindTransport, StatusCode: status, Err: err}
}

// NewAuthError reports rejected or expired credentials.
func NewAuthError(status int, msg string) *IndexerError {
	return &IndexerError{Kind: ErrKindAuth, StatusCode: status, Message: msg}
}

// NewParseError reports a response that could not be understood.
func NewParseError(msg string, err error) *IndexerError {
	return &IndexerError{Kind: ErrKindParse, Message: msg, Err: err}
}

// KindOf classifies any error returned along the search path.
// Unclassified errors count as transport failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ErrKindNone
	}
	var ie *IndexerError
	switch {
	case errors.As(err, &ie):
		return ie.Kind
	case errors.Is(err, ErrCapabilityMismatch):
		return ErrKindCapabilityMismatch
	case errors.Is(err, ErrSanitizationEmpty):
		return ErrKindSanitizationEmpty
	case errors.Is(err, ErrCategoryMappingIncomplete):
		return ErrKindMappingIncomplete
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrKindAborted
	}
	return ErrKindTransport
}

// CountsAsFailure reports whether kind should move the health state machine.
func (k ErrorKind) CountsAsFailure() bool {
	switch k {
	case ErrKindTransport, ErrKindAuth, ErrKindParse:
		return true
	}
	return false
}
