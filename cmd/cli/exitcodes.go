package main

import (
	"errors"
	"net/http"

	"github.com/aryan0dhankhar/allocdesk/internal/apperror"
	"github.com/aryan0dhankhar/allocdesk/internal/lifecycle"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitFailure    = 1
	exitValidation = 2
	exitUsage      = 3
	exitNotFound   = 4
	exitRemote     = 5
	exitNetwork    = 6
	exitAuth       = 7
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

// exitCode maps an error to the process status: explicit codes first, then
// the apperror kind.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperror.KindLocal:
			return exitValidation
		case apperror.KindNotFound:
			return exitNotFound
		case apperror.KindTransport:
			return exitNetwork
		case apperror.KindRemote:
			if appErr.Status == http.StatusUnauthorized || appErr.Status == http.StatusForbidden {
				return exitAuth
			}
			return exitRemote
		}
	}
	return exitFailure
}

// userMessage is the one line printed for a failed command.
func userMessage(err error) string {
	var ce *cliError
	if errors.As(err, &ce) {
		err = ce.err
	}
	return lifecycle.Reason(err)
}
