package models

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error so callers and HTTP handlers can react
// without string matching.
type Kind int

const (
	// KindUnknown is the zero value; errors from outside the core keep it.
	KindUnknown Kind = iota
	// KindInvalidInput marks a precondition violation in caller input.
	KindInvalidInput
	// KindInsufficientHistory marks a graceful degradation: not enough
	// stored samples to train or scan. Components usually absorb it.
	KindInsufficientHistory
	// KindModelFit marks a base regressor that failed to fit or predict.
	KindModelFit
	// KindUpstreamUnavailable marks a persistence-port failure. The core
	// never produces it itself; repositories bubble it unchanged.
	KindUpstreamUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindInsufficientHistory:
		return "insufficient_history"
	case KindModelFit:
		return "model_fit"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	default:
		return "unknown"
	}
}

// DomainError is a typed error produced by the decision core.
type DomainError struct {
	Kind Kind
	Op   string // operation that failed, e.g. "predictor.predict"
	Err  error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewInvalidInput wraps err as an invalid-input domain error.
func NewInvalidInput(op string, err error) error {
	return &DomainError{Kind: KindInvalidInput, Op: op, Err: err}
}

// NewInsufficientHistory wraps err as an insufficient-history domain error.
func NewInsufficientHistory(op string, err error) error {
	return &DomainError{Kind: KindInsufficientHistory, Op: op, Err: err}
}

// NewModelFit wraps err as a model-fit domain error.
func NewModelFit(op string, err error) error {
	return &DomainError{Kind: KindModelFit, Op: op, Err: err}
}

// KindOf extracts the Kind from err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
