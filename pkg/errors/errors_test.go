// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and exit-code mapping

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/mrizaln/relinka/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "source_missing_error",
			code:    errors.ErrSourceMissing,
			message: "source does not exist",
			wantStr: "[SOURCE_MISSING] source does not exist",
		},
		{
			name:    "target_mismatch_error",
			code:    errors.ErrTargetMismatch,
			message: "link points elsewhere",
			wantStr: "[TARGET_MISMATCH] link points elsewhere",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}
			if err.Error() != tt.wantStr {
				t.Errorf("New() string = %q, want %q", err.Error(), tt.wantStr)
			}
			if err.Details == nil {
				t.Error("New() details should be initialized")
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := errors.Wrap(cause, errors.ErrPermission, "failed to move entry")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
	if errors.GetErrorCode(err) != errors.ErrPermission {
		t.Errorf("GetErrorCode() = %v, want %v", errors.GetErrorCode(err), errors.ErrPermission)
	}

	if errors.Wrap(nil, errors.ErrPermission, "no-op") != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrIncompleteMove, "move interrupted").
		WithDetail("holding", "/tmp/.relinka-hold-1-2")

	details := errors.GetErrorDetails(err)
	if details["holding"] != "/tmp/.relinka-hold-1-2" {
		t.Errorf("detail holding = %v", details["holding"])
	}
}

func TestIsErrorCode(t *testing.T) {
	err := errors.Newf(errors.ErrUserAborted, "aborted")

	if !errors.IsErrorCode(err, errors.ErrUserAborted) {
		t.Error("IsErrorCode should match the code")
	}
	if errors.IsErrorCode(err, errors.ErrSourceMissing) {
		t.Error("IsErrorCode should not match a different code")
	}
	if errors.IsErrorCode(stderrors.New("plain"), errors.ErrUserAborted) {
		t.Error("IsErrorCode should not match a plain error")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: errors.ExitOK},
		{name: "plain_error_is_usage", err: stderrors.New("bad args"), want: errors.ExitUsage},
		{name: "unsupported_kind", err: errors.New(errors.ErrUnsupportedEntryKind, "dir"), want: 10},
		{name: "target_mismatch", err: errors.New(errors.ErrTargetMismatch, "link"), want: 11},
		{name: "user_aborted", err: errors.New(errors.ErrUserAborted, "no"), want: 15},
		{name: "unmapped_code", err: errors.New(errors.ErrUnknown, "?"), want: errors.ExitInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
