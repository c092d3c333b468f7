// Package assistant is the boundary to the document-generation backend: a
// black box that, given a prompt, emits a sequence of text deltas or a
// single full response. Providers are interchangeable behind one interface;
// the rest of the system never sees transport details.
package assistant

import (
	"context"
	"errors"
)

var (
	// ErrRequestFailed marks a transport-level failure (network error or a
	// non-success status from the upstream API).
	ErrRequestFailed = errors.New("assistant request failed")
	// ErrNoResponseText is returned when a non-streaming response carries
	// none of the recognized text keys.
	ErrNoResponseText = errors.New("no recognized text field in assistant response")
)

// Provider generates document text. Stream delivers the response as ordered
// deltas through onDelta; deltas already delivered are confirmed even if
// Stream subsequently returns an error. Complete returns the whole response
// at once. Neither method retries: a failure is reported upward for the
// caller to re-trigger.
type Provider interface {
	Stream(ctx context.Context, prompt string, onDelta func(delta string)) error
	Complete(ctx context.Context, prompt string) (string, error)
}
