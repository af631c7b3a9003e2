package chat

import "errors"

// Routing failures are sentinel errors so the transport layer can map them
// to status codes with errors.Is instead of matching on message text.
var (
	// ErrEmptyMessage rejects blank (or whitespace-only) chat messages before
	// any provider work happens.
	ErrEmptyMessage = errors.New("message cannot be empty")

	// ErrUnsupportedProvider covers both provider names outside the supported
	// set and providers recognized but not wired in this deployment. Wrapped
	// errors name the offending provider.
	ErrUnsupportedProvider = errors.New("unsupported LLM type")

	// ErrUpstreamUnavailable wraps every provider invocation failure. Its text
	// is the stable user-facing message; the underlying cause stays in the
	// error chain for logging and never reaches callers' output.
	ErrUpstreamUnavailable = errors.New("AI service is unavailable")
)
