package model

import (
	"fmt"
	"time"
)

// The error variants below form the closed set surfaced by the SDK. Callers
// match them with errors.As; every variant carries enough context (lead id,
// phase, source) to retry or report.

// ValidationError reports bad input to a core operation: an unknown lead id,
// a malformed field value, or an update to a field that is not mutable.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation: %s: %s", e.Field, e.Msg)
	}
	return "validation: " + e.Msg
}

// DataEnrichmentError reports an enrichment failure for a lead, optionally
// scoped to a single source.
type DataEnrichmentError struct {
	LeadID string
	Source string
	Msg    string
	Err    error
}

func (e *DataEnrichmentError) Error() string {
	msg := fmt.Sprintf("enrichment failed for lead %s", e.LeadID)
	if e.Source != "" {
		msg += " (source " + e.Source + ")"
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataEnrichmentError) Unwrap() error { return e.Err }

// ConfigurationError reports invalid settings at startup. It is fatal: the
// SDK refuses to initialize.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return "configuration: " + e.Msg }

// RateLimitError is surfaced when an external capability rejects a call for
// rate limiting. RetryAfter is zero when the service gave no hint.
type RateLimitError struct {
	Service    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: rate limit exceeded, retry after %s", e.Service, e.RetryAfter)
	}
	return e.Service + ": rate limit exceeded"
}

// ProcessingError reports a failure of the intelligence capability: rate
// limiting, a malformed response, or upstream unavailability, tagged with
// the model identifier.
type ProcessingError struct {
	Model string
	Msg   string
	Err   error
}

func (e *ProcessingError) Error() string {
	msg := "intelligence processing failed"
	if e.Model != "" {
		msg += " (model " + e.Model + ")"
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// Phase names used by OrchestrationError.
const (
	PhaseEnrichment = "enrichment"
	PhaseScoring    = "scoring"
)

// OrchestrationError wraps a failure raised from a composed operation
// (process-complete), annotated with the phase that failed.
type OrchestrationError struct {
	Phase  string
	LeadID string
	Err    error
}

func (e *OrchestrationError) Error() string {
	return fmt.Sprintf("process lead %s: %s phase failed: %v", e.LeadID, e.Phase, e.Err)
}

func (e *OrchestrationError) Unwrap() error { return e.Err }
