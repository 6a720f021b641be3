package roadmaps

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	// Insert persists a new roadmap and fills in the assigned ID. Returns
	// ErrShareCodeTaken when the share_code unique constraint fires.
	Insert(ctx context.Context, r *Roadmap) error

	// GetByID returns ErrNotFound when no roadmap has that id.
	GetByID(ctx context.Context, id int64) (*Roadmap, error)

	// GetByShareCode atomically bumps view_count by 1 at the storage layer
	// before returning the roadmap. Exact, case-sensitive match only;
	// ErrNotFound otherwise.
	GetByShareCode(ctx context.Context, code string) (*Roadmap, error)

	// AttachPlaybook sets exactly one playbook column. Overwrites on
	// re-attach; ErrNotFound for an unknown id.
	AttachPlaybook(ctx context.Context, id int64, t PlaybookType, text string) error
}

// SnapshotStore port (interface untuk arsip JSON roadmap)
type SnapshotStore interface {
	UploadJSON(ctx context.Context, key string, v any) (string, error)
}
