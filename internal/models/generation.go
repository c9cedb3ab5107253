package models

import "fmt"

// GenerationErrorKind classifies why a text generation produced no usable text.
type GenerationErrorKind string

const (
	GenBadRequest          GenerationErrorKind = "bad_request"
	GenTimeout             GenerationErrorKind = "timeout"
	GenServiceUnavailable  GenerationErrorKind = "service_unavailable"
	GenUnexpectedShape     GenerationErrorKind = "unexpected_shape"
	GenNotConfigured       GenerationErrorKind = "not_configured"
	GenReadmeNotFound      GenerationErrorKind = "readme_not_found"
	GenUpstreamUnavailable GenerationErrorKind = "upstream_unavailable"
)

// GenerationError carries the failure kind plus diagnostics.
type GenerationError struct {
	Kind         GenerationErrorKind `json:"kind"`
	Detail       string              `json:"detail"`
	FinishReason string              `json:"finish_reason,omitempty"`
}

func (e *GenerationError) Error() string {
	if e.FinishReason != "" {
		return fmt.Sprintf("%s: %s (finish reason: %s)", e.Kind, e.Detail, e.FinishReason)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// GenerationResult is either generated text or a GenerationError, never both.
type GenerationResult struct {
	Text string
	Err  *GenerationError
}

// OK reports whether the result carries text.
func (r GenerationResult) OK() bool {
	return r.Err == nil
}

// GeneratedText wraps successful output.
func GeneratedText(text string) GenerationResult {
	return GenerationResult{Text: text}
}

// GenerationFailed builds a failed result.
func GenerationFailed(kind GenerationErrorKind, detail string) GenerationResult {
	return GenerationResult{Err: &GenerationError{Kind: kind, Detail: detail}}
}
