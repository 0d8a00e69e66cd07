package submissions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/safestorage/internal/common"
	"github.com/dmitrijs2005/safestorage/internal/filex"
	"github.com/dmitrijs2005/safestorage/internal/logging"
)

// UsersDirName is the directory under the app root that holds one
// subdirectory per registered user.
const UsersDirName = "users"

// FSStore keeps submissions on the local filesystem, one directory per user
// under <root>/users/. Writes are staged to a temp file and renamed into
// place, so a failed transfer never leaves a partial submission behind.
type FSStore struct {
	root      string
	chunkSize int
	depth     int
	logger    logging.Logger
}

func NewFSStore(root string, chunkSize, depth int, logger logging.Logger) *FSStore {
	return &FSStore{root: root, chunkSize: chunkSize, depth: depth, logger: logger}
}

func (s *FSStore) userDir(username string) string {
	return filepath.Join(s.root, UsersDirName, username)
}

func (s *FSStore) Provision(ctx context.Context, username string) error {
	if err := filex.EnsureDir(s.userDir(username)); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}
	return nil
}

// Deprovision removes the user's directory only if it is empty. Used to back
// out of a half-done registration; submissions are never implicitly deleted.
func (s *FSStore) Deprovision(ctx context.Context, username string) error {
	if err := os.Remove(s.userDir(username)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}
	return nil
}

func (s *FSStore) Put(ctx context.Context, username, name, sourcePath string) error {
	if err := CheckName(name); err != nil {
		return err
	}
	if err := CheckPath(sourcePath); err != nil {
		return err
	}

	ok, err := filex.RegularFileExists(sourcePath)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrTransferFailed, err)
	}
	if !ok {
		return common.ErrSourceNotFound
	}

	// Tolerate a missing user directory; Register normally provisions it.
	if err := s.Provision(ctx, username); err != nil {
		return err
	}

	dst := filepath.Join(s.userDir(username), name)
	if err := s.copyFile(ctx, sourcePath, dst); err != nil {
		return err
	}

	s.logger.Debug(ctx, "submission stored", "user", username, "submission", name)
	return nil
}

func (s *FSStore) Get(ctx context.Context, username, name, destinationPath string) error {
	if err := CheckName(name); err != nil {
		return err
	}
	if err := CheckPath(destinationPath); err != nil {
		return err
	}

	src := filepath.Join(s.userDir(username), name)
	ok, err := filex.RegularFileExists(src)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrTransferFailed, err)
	}
	if !ok {
		return common.ErrSubmissionNotFound
	}

	if err := s.copyFile(ctx, src, destinationPath); err != nil {
		return err
	}

	s.logger.Debug(ctx, "submission retrieved", "user", username, "submission", name)
	return nil
}

// copyFile copies src to dst all-or-nothing: bytes are streamed to a staging
// file next to dst, flushed, and renamed over dst. The staging file is
// removed on any failure.
func (s *FSStore) copyFile(ctx context.Context, src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: open source: %v", common.ErrTransferFailed, err)
	}
	defer in.Close()

	tmp := filex.TempPath(dst)
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o660)
	if err != nil {
		return fmt.Errorf("%w: create staging file: %v", common.ErrTransferFailed, err)
	}

	cleanup := func() {
		out.Close()
		os.Remove(tmp)
	}

	if _, err := CopyChunked(ctx, out, in, s.chunkSize, s.depth); err != nil {
		cleanup()
		return fmt.Errorf("%w: %v", common.ErrTransferFailed, err)
	}
	if err := out.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("%w: flush destination: %v", common.ErrTransferFailed, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: close destination: %v", common.ErrTransferFailed, err)
	}

	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: finalize destination: %v", common.ErrTransferFailed, err)
	}
	return nil
}
