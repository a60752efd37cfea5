package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorIsMatchesTypeAndCode(t *testing.T) {
	sentinel := NewValidationError("systolic", "systolic_out_of_range", "systolic must be between 1 and 300")
	wrapped := fmt.Errorf("create reading: %w", sentinel)

	if !errors.Is(wrapped, NewValidationError("other", "systolic_out_of_range", "different message")) {
		t.Fatal("expected errors.Is to match on type and code")
	}
	if errors.Is(wrapped, NewValidationError("systolic", "diastolic_out_of_range", "")) {
		t.Fatal("expected different code not to match")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDependencyError(cause, "database")

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
	if err.Code != "database_unavailable" {
		t.Fatalf("expected code database_unavailable, got %q", err.Code)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewValidationError("date", "date_malformed", "bad"), http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("lookup: %w", ErrNotFound), http.StatusNotFound},
		{New(ErrorTypeConflict, "phone_exists", "taken"), http.StatusConflict},
		{New(ErrorTypeRateLimit, "too_many_attempts", "slow down"), http.StatusTooManyRequests},
		{NewDependencyError(errors.New("smtp down"), "mail"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestIsUserFacingHidesDependencyDetails(t *testing.T) {
	if IsUserFacing(NewDependencyError(errors.New("dial tcp"), "database")) {
		t.Fatal("expected dependency error to be hidden from users")
	}
	if !IsUserFacing(NewValidationError("value", "sugar_value_invalid", "bad")) {
		t.Fatal("expected validation error to be user facing")
	}
}
