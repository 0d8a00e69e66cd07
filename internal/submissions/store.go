// Package submissions manages per-user submission storage: provisioning a
// user's area and copying named files in and out of it.
package submissions

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/safestorage/internal/common"
)

const (
	// MaxNameLength bounds a submission name; MaxPathLength bounds source
	// and destination file paths supplied by the caller.
	MaxNameLength = 255
	MaxPathLength = 4096
)

// Store is a per-user submission backend.
//
// Contract:
//   - Provision prepares the user's storage area; calling it again for the
//     same user is a no-op.
//   - Deprovision best-effort removes an empty, never-used area. It exists so
//     a failed registration does not leave an orphan directory behind.
//   - Put copies the file at sourcePath into the user's area under name,
//     overwriting a previous submission with the same name.
//   - Get copies the named submission to destinationPath, overwriting
//     whatever is there; fails with common.ErrSubmissionNotFound when the
//     name is unknown.
//   - Transfers are all-or-nothing from the caller's perspective: a failed
//     copy reports common.ErrTransferFailed and leaves no partial
//     destination behind.
type Store interface {
	Provision(ctx context.Context, username string) error
	Deprovision(ctx context.Context, username string) error
	Put(ctx context.Context, username, name, sourcePath string) error
	Get(ctx context.Context, username, name, destinationPath string) error
}

// CheckName validates a submission name: non-empty, bounded length, and no
// path separators or dot segments. Rejecting separators keeps a crafted name
// from escaping the user's directory.
func CheckName(name string) error {
	if name == "" || len(name) > MaxNameLength {
		return common.ErrInvalidSubmissionName
	}
	if strings.ContainsAny(name, `/\`) {
		return common.ErrInvalidSubmissionName
	}
	if name == "." || name == ".." {
		return common.ErrInvalidSubmissionName
	}
	return nil
}

// CheckPath validates a caller-supplied file path: non-empty and bounded.
func CheckPath(path string) error {
	if path == "" || len(path) > MaxPathLength {
		return common.ErrInvalidPath
	}
	return nil
}
