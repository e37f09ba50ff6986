package vcxproj

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced filter, file, or document
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidSelector is returned when a delete selector supplies
	// neither or both of its mutually exclusive criteria.
	ErrInvalidSelector = errors.New("invalid selector")
)

// SyncError reports a partial commit: one document of the pair was written
// but the companion write failed, so the two files are out of sync on disk
// and need manual reconciliation.
type SyncError struct {
	Saved  string // path of the document that was written
	Failed string // path of the document whose write failed
	Err    error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("documents out of sync: %s saved but %s failed: %v", e.Saved, e.Failed, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }
