// Package safestorage is a single-tenant credential and file-submission
// store. It registers users, authenticates one logged-in session at a time,
// and lets the authenticated user store and retrieve named submissions under
// an isolated per-user area.
//
// Typical use:
//
//	ss := safestorage.New(safestorage.Options{AppRoot: "/srv/safestorage"})
//	if st := ss.Init(ctx); !st.OK() {
//	    // handle st
//	}
//	defer ss.Deinit(ctx)
//
//	ss.Register(ctx, "UserA", "PassWord1@")
//	ss.Login(ctx, "UserA", "PassWord1@")
//	ss.Store(ctx, "Homework", "./dummyData")
package safestorage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/safestorage/internal/config"
	"github.com/dmitrijs2005/safestorage/internal/credentials"
	"github.com/dmitrijs2005/safestorage/internal/credentials/postgres"
	"github.com/dmitrijs2005/safestorage/internal/filex"
	"github.com/dmitrijs2005/safestorage/internal/hashing"
	"github.com/dmitrijs2005/safestorage/internal/logging"
	"github.com/dmitrijs2005/safestorage/internal/service"
	"github.com/dmitrijs2005/safestorage/internal/session"
	"github.com/dmitrijs2005/safestorage/internal/submissions"
	s3store "github.com/dmitrijs2005/safestorage/internal/submissions/s3"
)

// LedgerFileName is the credential ledger kept under the app root.
const LedgerFileName = "users.txt"

// Options configures a SafeStorage instance. The zero value selects the
// local defaults: ledger credentials and filesystem submissions under the
// current working directory, SHA-256 digests.
type Options struct {
	// AppRoot is the directory holding the credential ledger and the users/
	// tree. Empty means the current working directory, resolved at Init.
	AppRoot string

	// CredentialBackend is "ledger" (default) or "postgres".
	CredentialBackend string

	// SubmissionBackend is "fs" (default) or "s3".
	SubmissionBackend string

	// HashAlgorithm is "sha256" (default, compatible with existing ledgers)
	// or "argon2id" (salted; incompatible digest format).
	HashAlgorithm string

	// ChunkSize and PipelineDepth tune file transfers; zero means defaults.
	ChunkSize     int
	PipelineDepth int

	// DatabaseDSN is required for the postgres credential backend.
	DatabaseDSN string

	// S3 settings are required for the s3 submission backend.
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string

	// Logger receives structured operational logging. Nil means text
	// logging to stderr.
	Logger *slog.Logger
}

// SafeStorage is the public front door. All methods are safe for concurrent
// use; operations other than Init and Deinit require a prior successful
// Init.
type SafeStorage struct {
	opts   Options
	logger logging.Logger

	mu    sync.Mutex
	svc   *service.Service
	creds credentials.Store
}

// New builds an uninitialized SafeStorage. Call Init before use.
func New(opts Options) *SafeStorage {
	var logger logging.Logger = logging.NewTextLogger(os.Stderr)
	if opts.Logger != nil {
		logger = logging.NewSlogLogger(opts.Logger)
	}
	return &SafeStorage{opts: opts, logger: logger}
}

// Init establishes the app root, wires the configured backends, and resets
// the session to anonymous. It must run once before any other operation;
// running it again tears down the previous state first.
func (s *SafeStorage) Init(ctx context.Context) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.svc != nil {
		s.deinitLocked(ctx)
	}

	root := s.opts.AppRoot
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			s.logger.Error(ctx, "cannot resolve app root", "error", err)
			return StatusStorageFailure
		}
		root = cwd
	}
	if err := filex.EnsureDir(root); err != nil {
		s.logger.Error(ctx, "cannot create app root", "root", root, "error", err)
		return StatusStorageFailure
	}

	hasher, err := hashing.New(s.opts.HashAlgorithm)
	if err != nil {
		s.logger.Error(ctx, "unknown hash algorithm", "algorithm", s.opts.HashAlgorithm)
		return StatusHashFailed
	}

	creds, err := s.buildCredentialStore(ctx, root)
	if err != nil {
		s.logger.Error(ctx, "cannot open credential store", "error", err)
		return StatusStorageFailure
	}

	subs, err := s.buildSubmissionStore(ctx, root)
	if err != nil {
		creds.Close(ctx)
		s.logger.Error(ctx, "cannot open submission store", "error", err)
		return StatusStorageFailure
	}

	sess := session.New()
	sess.Reset()

	s.creds = creds
	s.svc = service.New(creds, subs, sess, hasher, s.logger)

	s.logger.Info(ctx, "initialized", "root", root,
		"credentials", s.credentialBackend(), "submissions", s.submissionBackend())
	return StatusSuccess
}

// Deinit releases process-wide resources (e.g., the database pool).
// Idempotent; a deinitialized instance can be re-initialized with Init.
func (s *SafeStorage) Deinit(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deinitLocked(ctx)
}

func (s *SafeStorage) deinitLocked(ctx context.Context) {
	if s.svc == nil {
		return
	}
	if err := s.creds.Close(ctx); err != nil {
		s.logger.Warn(ctx, "closing credential store", "error", err)
	}
	s.svc = nil
	s.creds = nil
}

func (s *SafeStorage) credentialBackend() string {
	if s.opts.CredentialBackend == "" {
		return config.CredentialBackendLedger
	}
	return s.opts.CredentialBackend
}

func (s *SafeStorage) submissionBackend() string {
	if s.opts.SubmissionBackend == "" {
		return config.SubmissionBackendFS
	}
	return s.opts.SubmissionBackend
}

func (s *SafeStorage) buildCredentialStore(ctx context.Context, root string) (credentials.Store, error) {
	switch s.credentialBackend() {
	case config.CredentialBackendLedger:
		return credentials.NewLedgerStore(filepath.Join(root, LedgerFileName), s.logger), nil
	case config.CredentialBackendPostgres:
		return postgres.Open(ctx, s.opts.DatabaseDSN)
	}
	return nil, fmt.Errorf("unknown credential backend %q", s.opts.CredentialBackend)
}

func (s *SafeStorage) buildSubmissionStore(ctx context.Context, root string) (submissions.Store, error) {
	switch s.submissionBackend() {
	case config.SubmissionBackendFS:
		return submissions.NewFSStore(root, s.opts.ChunkSize, s.opts.PipelineDepth, s.logger), nil
	case config.SubmissionBackendS3:
		return s3store.New(ctx, s3store.Config{
			Bucket:       s.opts.S3Bucket,
			Region:       s.opts.S3Region,
			BaseEndpoint: s.opts.S3BaseEndpoint,
			AccessKey:    s.opts.S3AccessKey,
			SecretKey:    s.opts.S3SecretKey,
		}, s.opts.ChunkSize, s.opts.PipelineDepth, s.logger)
	}
	return nil, fmt.Errorf("unknown submission backend %q", s.opts.SubmissionBackend)
}

func (s *SafeStorage) current() (*service.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.svc == nil {
		return nil, errNotInitialized
	}
	return s.svc, nil
}

// Register creates a new user with the given username and password and
// provisions the user's submission area. Valid whether or not a session is
// active; it does not log the new user in.
func (s *SafeStorage) Register(ctx context.Context, username, password string) Status {
	svc, err := s.current()
	if err != nil {
		return statusOf(err)
	}
	return statusOf(svc.Register(ctx, username, password))
}

// Login authenticates the user and opens the single session slot. Fails with
// StatusAlreadyLoggedIn while any session is active.
func (s *SafeStorage) Login(ctx context.Context, username, password string) Status {
	svc, err := s.current()
	if err != nil {
		return statusOf(err)
	}
	return statusOf(svc.Login(ctx, username, password))
}

// Logout closes the active session.
func (s *SafeStorage) Logout(ctx context.Context) Status {
	svc, err := s.current()
	if err != nil {
		return statusOf(err)
	}
	return statusOf(svc.Logout(ctx))
}

// Store saves the file at sourceFilePath as a submission named
// submissionName, owned by the logged-in user. An existing submission with
// the same name is overwritten.
func (s *SafeStorage) Store(ctx context.Context, submissionName, sourceFilePath string) Status {
	svc, err := s.current()
	if err != nil {
		return statusOf(err)
	}
	return statusOf(svc.Store(ctx, submissionName, sourceFilePath))
}

// Retrieve copies the named submission of the logged-in user to
// destinationFilePath, overwriting whatever is there.
func (s *SafeStorage) Retrieve(ctx context.Context, submissionName, destinationFilePath string) Status {
	svc, err := s.current()
	if err != nil {
		return statusOf(err)
	}
	return statusOf(svc.Retrieve(ctx, submissionName, destinationFilePath))
}

// CurrentUser returns the logged-in username, if any.
func (s *SafeStorage) CurrentUser() (string, bool) {
	s.mu.Lock()
	svc := s.svc
	s.mu.Unlock()
	if svc == nil {
		return "", false
	}
	return svc.CurrentUser()
}
