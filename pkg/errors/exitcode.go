package errors

import "errors"

// Exit codes, one per error category, so scripts can distinguish why
// an invocation failed. 0 is success, 1 is reserved for usage errors.
const (
	ExitOK         = 0
	ExitUsage      = 1
	ExitInternal   = 2
	ExitFilesystem = 3
)

var exitCodes = map[ErrorCode]int{
	ErrInvalidInput:         ExitUsage,
	ErrConfigLoad:           ExitInternal,
	ErrConfigValid:          ExitInternal,
	ErrUnsupportedEntryKind: 10,
	ErrTargetMismatch:       11,
	ErrSourceMissing:        12,
	ErrDestinationCollision: 13,
	ErrIncompleteMove:       14,
	ErrUserAborted:          15,
	ErrSearchFailed:         16,
	ErrSymlinkCreate:        17,
	ErrPermission:           ExitFilesystem,
}

// ExitCode maps an error to its process exit code. Errors that are
// not RelinkaErrors (bad flags, wrong argument count) count as usage
// errors; coded errors without a mapping fall back to ExitInternal.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var relinkaErr *RelinkaError
	if !errors.As(err, &relinkaErr) {
		return ExitUsage
	}
	if code, ok := exitCodes[relinkaErr.Code]; ok {
		return code
	}
	return ExitInternal
}
