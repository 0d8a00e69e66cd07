package credentials

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/dmitrijs2005/safestorage/internal/common"
	"github.com/dmitrijs2005/safestorage/internal/logging"
)

const (
	// maxUsernameWidth and maxDigestWidth bound the fields of a well-formed
	// ledger line. Lines outside these bounds are skipped, not fatal.
	maxUsernameWidth = 10
	maxDigestWidth   = 128
)

// LedgerStore keeps credentials in an append-only text file, one
// "username:digest" line per user. Lookups are full scans, which is fine for
// the intended data scale. All writers go through a mutex so the
// scan-then-append sequence is atomic with respect to other registrations.
type LedgerStore struct {
	path   string
	mu     sync.Mutex
	logger logging.Logger
}

func NewLedgerStore(path string, logger logging.Logger) *LedgerStore {
	return &LedgerStore{path: path, logger: logger}
}

func (s *LedgerStore) Exists(ctx context.Context, username string) (bool, error) {
	_, err := s.scan(ctx, username)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, common.ErrUserNotFound) {
		return false, nil
	}
	return false, err
}

func (s *LedgerStore) Lookup(ctx context.Context, username string) (string, error) {
	return s.scan(ctx, username)
}

func (s *LedgerStore) Append(ctx context.Context, username, digest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check under the write lock; the caller's Exists check may have
	// raced with another registration.
	_, err := s.scan(ctx, username)
	if err == nil {
		return common.ErrUserAlreadyExists
	}
	if !errors.Is(err, common.ErrUserNotFound) {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o660)
	if err != nil {
		return fmt.Errorf("%w: open ledger: %v", common.ErrStorageFailure, err)
	}

	if _, err := fmt.Fprintf(f, "%s:%s\n", username, digest); err != nil {
		f.Close()
		return fmt.Errorf("%w: append record: %v", common.ErrStorageFailure, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("%w: flush ledger: %v", common.ErrStorageFailure, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close ledger: %v", common.ErrStorageFailure, err)
	}
	return nil
}

func (s *LedgerStore) Close(ctx context.Context) error {
	return nil
}

// scan walks the ledger looking for an exact username match and returns the
// stored digest. Malformed lines are logged and skipped so one corrupt
// record cannot take down every lookup after it.
func (s *LedgerStore) scan(ctx context.Context, username string) (string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", common.ErrUserNotFound
		}
		return "", fmt.Errorf("%w: open ledger: %v", common.ErrStorageFailure, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}

		rec, ok := parseRecord(line)
		if !ok {
			s.logger.Warn(ctx, "skipping malformed ledger record", "path", s.path, "line", lineNo)
			continue
		}
		if rec.Username == username {
			return rec.Digest, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: read ledger: %v", common.ErrStorageFailure, err)
	}

	return "", common.ErrUserNotFound
}

func parseRecord(line string) (Record, bool) {
	name, digest, found := strings.Cut(line, ":")
	if !found {
		return Record{}, false
	}
	if name == "" || len(name) > maxUsernameWidth {
		return Record{}, false
	}
	if digest == "" || len(digest) > maxDigestWidth {
		return Record{}, false
	}
	return Record{Username: name, Digest: digest}, true
}
