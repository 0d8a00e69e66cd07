// Package service orchestrates validation, hashing, credential persistence,
// session state, and submission storage behind the register/login/logout/
// store/retrieve operations.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/safestorage/internal/common"
	"github.com/dmitrijs2005/safestorage/internal/credentials"
	"github.com/dmitrijs2005/safestorage/internal/hashing"
	"github.com/dmitrijs2005/safestorage/internal/logging"
	"github.com/dmitrijs2005/safestorage/internal/session"
	"github.com/dmitrijs2005/safestorage/internal/submissions"
	"github.com/dmitrijs2005/safestorage/internal/validate"
)

// Service is the authentication and submission front door. All methods
// return sentinel errors from internal/common; callers match with errors.Is
// or map them to status codes at the API boundary.
type Service struct {
	creds  credentials.Store
	subs   submissions.Store
	sess   *session.Session
	hasher hashing.Hasher
	logger logging.Logger
}

func New(creds credentials.Store, subs submissions.Store, sess *session.Session, hasher hashing.Hasher, logger logging.Logger) *Service {
	return &Service{creds: creds, subs: subs, sess: sess, hasher: hasher, logger: logger}
}

// Register creates a new user: validates the credentials, provisions the
// user's submission area, and appends the credential record. Valid in any
// session state; it does not log the new user in.
//
// The submission area is provisioned before the credential is written: a
// registered user without a storage location is worse than a stray empty
// directory, and the directory is backed out best-effort if the append fails.
func (s *Service) Register(ctx context.Context, username, password string) error {
	if !validate.Username(username) {
		return common.ErrInvalidUsername
	}
	if !validate.Password(password) {
		return common.ErrInvalidPassword
	}

	exists, err := s.creds.Exists(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return common.ErrUserAlreadyExists
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, common.ErrHashFailed) {
			return err
		}
		return fmt.Errorf("%w: %v", common.ErrHashFailed, err)
	}

	if err := s.subs.Provision(ctx, username); err != nil {
		return err
	}

	if err := s.creds.Append(ctx, username, digest); err != nil {
		if deprovisionErr := s.subs.Deprovision(ctx, username); deprovisionErr != nil {
			s.logger.Warn(ctx, "could not remove provisioned directory after failed registration",
				"user", username, "error", deprovisionErr)
		}
		return err
	}

	s.logger.Info(ctx, "user registered", "user", username)
	return nil
}

// Login authenticates username/password and transitions the session to
// authenticated. Fails with common.ErrAlreadyLoggedIn when a session is
// active, regardless of the credentials supplied.
func (s *Service) Login(ctx context.Context, username, password string) error {
	// The state check comes first: with a session already active the call
	// fails the same way no matter what credentials were supplied.
	if _, active := s.sess.Current(); active {
		return common.ErrAlreadyLoggedIn
	}

	if !validate.Username(username) {
		return common.ErrInvalidUsername
	}
	if !validate.Password(password) {
		return common.ErrInvalidPassword
	}

	digest, err := s.creds.Lookup(ctx, username)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(password, digest)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrLoginFailed
	}

	// The session is the authority: if another login slipped in between the
	// check above and here, this fails rather than stacking identities.
	if err := s.sess.Login(username); err != nil {
		return err
	}

	s.logger.Info(ctx, "user logged in", "user", username)
	return nil
}

// Logout clears the authenticated session.
func (s *Service) Logout(ctx context.Context) error {
	username, _ := s.sess.Current()
	if err := s.sess.Logout(); err != nil {
		return err
	}

	s.logger.Info(ctx, "user logged out", "user", username)
	return nil
}

// Store saves the file at sourcePath as a named submission of the
// authenticated user.
func (s *Service) Store(ctx context.Context, name, sourcePath string) error {
	username, active := s.sess.Current()
	if !active {
		return common.ErrNotLoggedIn
	}
	return s.subs.Put(ctx, username, name, sourcePath)
}

// Retrieve copies the named submission of the authenticated user to
// destinationPath.
func (s *Service) Retrieve(ctx context.Context, name, destinationPath string) error {
	username, active := s.sess.Current()
	if !active {
		return common.ErrNotLoggedIn
	}
	return s.subs.Get(ctx, username, name, destinationPath)
}

// CurrentUser exposes the session identity for hosts that show a prompt.
func (s *Service) CurrentUser() (string, bool) {
	return s.sess.Current()
}
