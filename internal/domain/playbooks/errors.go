package playbooks

import "errors"

// ErrGenerationFailed indicates the external content generator failed for a
// playbook slot. Recorded as a null field and logged, never fatal.
var ErrGenerationFailed = errors.New("playbook generation failed")

// ErrQuotaExceeded indicates the provider returned a quota/limit error.
var ErrQuotaExceeded = errors.New("content generator quota exceeded")
