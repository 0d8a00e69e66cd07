package safestorage

import (
	"errors"

	"github.com/dmitrijs2005/safestorage/internal/common"
)

// Status is the result code of a SafeStorage operation. Values are stable:
// the first eleven keep the numbering of the historical status table, and
// later values give their own codes to conditions previously reported as
// generic failures.
type Status int

const (
	StatusSuccess               Status = 0
	StatusUserAlreadyExists     Status = 1
	StatusInvalidUsername       Status = 2
	StatusInvalidPassword       Status = 3
	StatusUserNotFound          Status = 4
	StatusLoginFailed           Status = 5
	StatusNotLoggedIn           Status = 6
	StatusFileNotFound          Status = 7
	StatusOutOfMemory           Status = 8 // retained for numbering; never produced
	StatusHashFailed            Status = 9
	StatusUnknownError          Status = 10
	StatusAlreadyLoggedIn       Status = 11
	StatusInvalidSubmissionName Status = 12
	StatusInvalidPath           Status = 13
	StatusTransferFailed        Status = 14
	StatusStorageFailure        Status = 15
	StatusNotInitialized        Status = 16
)

var statusNames = map[Status]string{
	StatusSuccess:               "success",
	StatusUserAlreadyExists:     "user already exists",
	StatusInvalidUsername:       "invalid username",
	StatusInvalidPassword:       "invalid password",
	StatusUserNotFound:          "user not found",
	StatusLoginFailed:           "login failed",
	StatusNotLoggedIn:           "not logged in",
	StatusFileNotFound:          "file not found",
	StatusOutOfMemory:           "out of memory",
	StatusHashFailed:            "hashing failed",
	StatusUnknownError:          "unknown error",
	StatusAlreadyLoggedIn:       "already logged in",
	StatusInvalidSubmissionName: "invalid submission name",
	StatusInvalidPath:           "invalid file path",
	StatusTransferFailed:        "transfer failed",
	StatusStorageFailure:        "storage failure",
	StatusNotInitialized:        "not initialized",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown error"
}

// OK reports whether the status is StatusSuccess.
func (s Status) OK() bool {
	return s == StatusSuccess
}

// errNotInitialized guards operations invoked before Init.
var errNotInitialized = errors.New("safestorage: not initialized")

// statusOf maps an operation error to its Status. A nil error is
// StatusSuccess; anything unrecognized is StatusUnknownError.
func statusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}

	switch {
	case errors.Is(err, common.ErrInvalidUsername):
		return StatusInvalidUsername
	case errors.Is(err, common.ErrInvalidPassword):
		return StatusInvalidPassword
	case errors.Is(err, common.ErrInvalidSubmissionName):
		return StatusInvalidSubmissionName
	case errors.Is(err, common.ErrInvalidPath):
		return StatusInvalidPath
	case errors.Is(err, common.ErrUserAlreadyExists):
		return StatusUserAlreadyExists
	case errors.Is(err, common.ErrUserNotFound):
		return StatusUserNotFound
	case errors.Is(err, common.ErrLoginFailed):
		return StatusLoginFailed
	case errors.Is(err, common.ErrAlreadyLoggedIn):
		return StatusAlreadyLoggedIn
	case errors.Is(err, common.ErrNotLoggedIn):
		return StatusNotLoggedIn
	case errors.Is(err, common.ErrSourceNotFound), errors.Is(err, common.ErrSubmissionNotFound):
		return StatusFileNotFound
	case errors.Is(err, common.ErrTransferFailed):
		return StatusTransferFailed
	case errors.Is(err, common.ErrStorageFailure):
		return StatusStorageFailure
	case errors.Is(err, common.ErrHashFailed):
		return StatusHashFailed
	case errors.Is(err, errNotInitialized):
		return StatusNotInitialized
	}
	return StatusUnknownError
}
