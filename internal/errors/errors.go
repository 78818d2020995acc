package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/levelup/internal/gate"
	"github.com/julianstephens/levelup/internal/logger"
	"github.com/julianstephens/levelup/internal/storage"
)

// Format formats an error message with a consistent "Error: " prefix,
// followed by a hint line when the failure has a known remedy.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// Hint suggests what the user can do about err, or returns "".
func Hint(err error) string {
	switch {
	case stderrors.Is(err, storage.ErrUnavailable):
		return "the database could not be opened; run 'levelup doctor' or pass --db"
	case stderrors.Is(err, storage.ErrQuotaExceeded):
		return "the disk is full; free some space or run 'levelup prune'"
	case stderrors.Is(err, gate.ErrUnavailable):
		return "no OS keyring was found; run with --no-lock to skip the password prompt"
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
