package translate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrJobRunning is returned by Translator.Start while a job is already
// running. The running job is unaffected.
var ErrJobRunning = errors.New("a translation job is already running")

// UnsupportedLanguageError reports that a provider rejected the requested
// source or target locale. Supported carries the provider's own locale
// identifiers so the caller can negotiate a close match and retry once.
type UnsupportedLanguageError struct {
	Service   string
	Requested string
	Supported []string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("%s does not support language %q (supported: %s)",
		e.Service, e.Requested, strings.Join(e.Supported, ", "))
}

// AuthError reports a rejected or missing API key. It aborts the job; no
// retry makes sense until the key changes.
type AuthError struct {
	Service string
	Detail  string
}

func (e *AuthError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s authentication failed: %s", e.Service, e.Detail)
	}
	return fmt.Sprintf("%s authentication failed", e.Service)
}

// QuotaError reports an exhausted quota or rate limit. The job is
// abandoned; this layer does not back off and retry.
type QuotaError struct {
	Service string
	Detail  string
}

func (e *QuotaError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s quota exceeded: %s", e.Service, e.Detail)
	}
	return fmt.Sprintf("%s quota exceeded", e.Service)
}

// NetworkError wraps transport-level failures and unexpected HTTP
// statuses. Not retried here; the caller reports it.
type NetworkError struct {
	Service string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
