package main

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/emergentmethods/flowctl/internal/logging"
)

// ExitCodeError ends the process with Code without printing an error. Commands
// return it when the outcome is a status rather than a failure, for example
// `get` finding nothing.
type ExitCodeError struct {
	Code int
}

func (e ExitCodeError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }

// withCmdRunLogger implements the Span pattern for CLI command logging.
// It emits a start log line and returns a context with logger attributes attached,
// plus a cleanup function to emit the success or failure log line.
//
// Usage:
//
//	ctx, cleanup := withCmdRunLogger(ctx, "get", "workflow/build")
//	defer func() { cleanup(err) }()
//
// Log message format:
// - Start:   CMD:<operation>/S (with resourceId in logger attributes)
// - Success: CMD:<operation>/EOK (with err, elapsed in logger attributes)
// - Failure: CMD:<operation>/EFAIL (with err, elapsed in logger attributes)
//
// ExitCodeError is logged as EOK.
// All lines use INFO level. The runId comes from the context logger set in
// PersistentPreRunE.
func withCmdRunLogger(ctx context.Context, operation, resourceID string) (context.Context, func(err error)) {
	startAt := time.Now()

	logger := logging.FromContext(ctx).With("resourceId", resourceID)
	ctx = logging.WithLogger(ctx, logger)

	logger.Info(ctx, "CMD:"+operation+"/S")

	cleanup := func(err error) {
		elapsed := time.Since(startAt).Seconds()
		var msg, errStr string

		var exitCodeErr ExitCodeError
		isExitCodeErr := errors.As(err, &exitCodeErr)

		if err == nil || isExitCodeErr {
			msg = "CMD:" + operation + "/EOK"
		} else {
			msg = "CMD:" + operation + "/EFAIL"
			errStr = truncate(err.Error(), 32)
		}

		if isExitCodeErr {
			logger.Info(ctx, msg, "err", errStr, "exitCode", exitCodeErr.Code, "elapsed", elapsed)
		} else {
			logger.Info(ctx, msg, "err", errStr, "elapsed", elapsed)
		}
	}

	return ctx, cleanup
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
