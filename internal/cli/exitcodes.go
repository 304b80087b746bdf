package cli

import (
	"context"
	"errors"
	"io/fs"

	"github.com/yaklabco/bookpress/internal/configloader"
	"github.com/yaklabco/bookpress/pkg/book"
	"github.com/yaklabco/bookpress/pkg/fsutil"
	"github.com/yaklabco/bookpress/pkg/render"
)

// Exit codes for bookpress.
const (
	// ExitSuccess indicates a successful build.
	ExitSuccess = 0

	// ExitBuildStopped indicates the build ran but was stopped before
	// producing outputs: TK placeholders with stop_on_tks, an empty
	// manuscript, or cancellation.
	ExitBuildStopped = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitNoEngine indicates no usable PDF engine was found.
	ExitNoEngine = 69

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrUsage marks command-line usage errors so ExitCode can map them to
// ExitInvalidUsage. Flag parse failures are joined with it via the root
// command's flag error func.
var ErrUsage = errors.New("invalid usage")

// ErrConfigLoad marks configuration loading failures. Commands join it
// with the loader's error so the cause chain stays inspectable.
var ErrConfigLoad = errors.New("failed to load configuration")

// ExitCode maps an error returned by command execution to a process
// exit code. A nil error is success.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Deliberate stops: the build refused to continue, but nothing is
	// broken with the invocation itself.
	if errors.Is(err, book.ErrTKsFound) || errors.Is(err, book.ErrNoSources) {
		return ExitBuildStopped
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ExitBuildStopped
	}

	if errors.Is(err, render.ErrNoEngine) {
		return ExitNoEngine
	}

	if errors.Is(err, ErrConfigLoad) {
		return ExitConfigError
	}
	var validationErr *configloader.ValidationError
	if errors.As(err, &validationErr) {
		return ExitConfigError
	}

	if errors.Is(err, fsutil.ErrNotFound) ||
		errors.Is(err, fsutil.ErrPermissionDenied) ||
		errors.Is(err, fsutil.ErrIsDirectory) {
		return ExitIOError
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return ExitIOError
	}

	if errors.Is(err, ErrUsage) {
		return ExitInvalidUsage
	}

	return ExitInternalError
}
