package roadmaps

import "errors"

// ErrNotFound indicates an unknown roadmap id or share code.
var ErrNotFound = errors.New("roadmap not found")

// ErrShareCodeTaken indicates the generated share code collided with an
// existing row. Di-recover lokal lewat retry, tidak pernah sampai ke caller.
var ErrShareCodeTaken = errors.New("share code already taken")

// ErrInvalidInput indicates structurally invalid input (missing identity
// fields, unknown playbook type). The scoring path itself never errors.
var ErrInvalidInput = errors.New("invalid input")

// ErrShareCodeExhausted indicates the bounded retry loop ran out of
// attempts; at 36^6 codes this should never happen in practice.
var ErrShareCodeExhausted = errors.New("share code space exhausted")
