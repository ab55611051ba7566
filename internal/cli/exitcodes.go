package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/ipmt/internal/configloader"
	"github.com/yaklabco/ipmt/pkg/fsutil"
	"github.com/yaklabco/ipmt/pkg/index"
	"github.com/yaklabco/ipmt/pkg/runner"
)

// Exit codes for ipmt.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitNoMatches indicates a search that found no occurrences.
	ExitNoMatches = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// Sentinel errors returned by commands.
var (
	// ErrNoMatches is returned when a search found no occurrences.
	ErrNoMatches = errors.New("no matches found")

	// ErrUsage marks invalid command-line usage.
	ErrUsage = errors.New("invalid usage")

	// ErrFilesFailed is returned when some files could not be indexed or searched.
	// The individual failures have already been reported.
	ErrFilesFailed = errors.New("some files could not be processed")
)

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrNoMatches):
		return ExitNoMatches
	case errors.Is(err, ErrUsage),
		errors.Is(err, runner.ErrNoFiles),
		errors.Is(err, index.ErrUnknownCompression):
		return ExitInvalidUsage
	case errors.Is(err, configloader.ErrInvalid):
		return ExitConfigError
	case errors.Is(err, ErrFilesFailed),
		errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, index.ErrNotFound),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
