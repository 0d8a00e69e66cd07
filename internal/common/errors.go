// Package common defines shared constants and sentinel errors used across
// the SafeStorage layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Input validation errors.
	ErrInvalidUsername       = errors.New("invalid username")
	ErrInvalidPassword       = errors.New("invalid password")
	ErrInvalidSubmissionName = errors.New("invalid submission name")
	ErrInvalidPath           = errors.New("invalid file path")

	// Session state errors.
	ErrAlreadyLoggedIn = errors.New("a user is already logged in")
	ErrNotLoggedIn     = errors.New("no user is logged in")

	// Lookup errors.
	ErrUserNotFound       = errors.New("user not found")
	ErrSourceNotFound     = errors.New("source file not found")
	ErrSubmissionNotFound = errors.New("submission not found")

	// Authentication failure (wrong password for an existing user).
	ErrLoginFailed = errors.New("login failed")

	// Registration conflict.
	ErrUserAlreadyExists = errors.New("user already exists")

	// Resource / I/O errors.
	ErrTransferFailed = errors.New("transfer failed")
	ErrStorageFailure = errors.New("storage failure")

	// Crypto primitive failure.
	ErrHashFailed = errors.New("hashing failed")
)
