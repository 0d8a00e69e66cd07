// Package filex holds small filesystem helpers shared by the credential
// ledger and the submission store.
package filex

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// EnsureDir creates dir (and any missing parents). A pre-existing directory
// is not an error.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// RegularFileExists reports whether path names an existing regular file.
// A missing path is (false, nil); other stat failures are returned as errors.
func RegularFileExists(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return fi.Mode().IsRegular(), nil
}

// TempPath derives a sibling temp-file name for dst so writes can be staged
// and renamed into place. The random component keeps concurrent writers for
// the same destination from clobbering each other's staging files.
func TempPath(dst string) string {
	return fmt.Sprintf("%s.%s.tmp", dst, uuid.NewString())
}
