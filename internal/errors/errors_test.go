package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err: &AppError{
				Code:    ErrCodeNotFound,
				Message: "profile not found",
			},
			want: "profile not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeUnavailable,
				Message: "validation request failed",
				Cause:   errors.New("connection refused"),
			},
			want: "validation request failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(cause, ErrCodeInternal, "wrapped")
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause through Unwrap")
	}
}

func TestCodePredicates(t *testing.T) {
	tests := []struct {
		err   error
		check func(error) bool
		want  bool
	}{
		{Unauthorized("token rejected"), IsUnauthorized, true},
		{NotFound("no profile"), IsNotFound, true},
		{Unavailable("server down"), IsUnavailable, true},
		{Validation("bad email"), IsValidation, true},
		{Conflict("email taken"), IsConflict, true},
		{Internal("boom"), IsInternal, true},
		{NotFound("no profile"), IsUnauthorized, false},
		{errors.New("plain"), IsUnauthorized, false},
		{nil, IsNotFound, false},
	}

	for i, tt := range tests {
		if got := tt.check(tt.err); got != tt.want {
			t.Errorf("case %d: predicate = %v, want %v (err=%v)", i, got, tt.want, tt.err)
		}
	}
}

func TestCodePredicates_SeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("validate session: %w", Unauthorized("credential invalid"))
	if !IsUnauthorized(err) {
		t.Error("expected IsUnauthorized through fmt.Errorf wrapping")
	}
	if GetCode(err) != ErrCodeUnauthorized {
		t.Errorf("GetCode = %v, want %v", GetCode(err), ErrCodeUnauthorized)
	}
}

func TestWrap_NilReturnsNil(t *testing.T) {
	if Wrap(nil, ErrCodeInternal, "msg") != nil {
		t.Error("Wrap(nil, ...) should return nil")
	}
	if Wrapf(nil, ErrCodeInternal, "msg %d", 1) != nil {
		t.Error("Wrapf(nil, ...) should return nil")
	}
}

func TestGetCode_NonAppError(t *testing.T) {
	if GetCode(errors.New("plain")) != "" {
		t.Error("GetCode for non-AppError should be empty")
	}
}
