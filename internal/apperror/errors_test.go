package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFromStatus_KeepsKind(t *testing.T) {
	tests := []struct {
		code     int
		wantType string
	}{
		{http.StatusBadRequest, "bad_request"},
		{http.StatusUnauthorized, "unauthorized"},
		{http.StatusForbidden, "forbidden"},
		{http.StatusNotFound, "not_found"},
		{http.StatusConflict, "conflict"},
		{http.StatusUnprocessableEntity, "validation_error"},
		{http.StatusServiceUnavailable, "remote_error"},
	}
	for _, tt := range tests {
		err := FromStatus(tt.code, "msg")
		if err.Type != tt.wantType {
			t.Errorf("FromStatus(%d).Type = %q, want %q", tt.code, err.Type, tt.wantType)
		}
		if err.Code != tt.code {
			t.Errorf("FromStatus(%d).Code = %d", tt.code, err.Code)
		}
	}
}

func TestFromStatus_EmptyMessageFallsBackToStatusText(t *testing.T) {
	err := FromStatus(http.StatusNotFound, "")
	if err.Message != "Not Found" {
		t.Errorf("expected status text, got %q", err.Message)
	}
}

func TestSafeMessage_HidesInternalErrors(t *testing.T) {
	if got := SafeMessage(errors.New("dial tcp 10.0.0.3:3306: refused")); got != "an unexpected error occurred" {
		t.Errorf("raw error leaked: %q", got)
	}
	wrapped := fmt.Errorf("saving: %w", NewValidation("title is required"))
	if got := SafeMessage(wrapped); got != "title is required" {
		t.Errorf("SafeMessage(wrapped) = %q", got)
	}
	if SafeCode(wrapped) != http.StatusUnprocessableEntity {
		t.Errorf("SafeCode(wrapped) = %d", SafeCode(wrapped))
	}
}

func TestNewUpstream_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewUpstream("Failed to load calendar data.", cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
	if IsValidation(err) || IsNotFound(err) {
		t.Error("upstream error misclassified")
	}
}

func TestConstructors_CodeAndType(t *testing.T) {
	tests := []struct {
		err      *AppError
		code     int
		typeName string
	}{
		{NewNotFound("x"), http.StatusNotFound, "not_found"},
		{NewBadRequest("x"), http.StatusBadRequest, "bad_request"},
		{NewUnauthorized("x"), http.StatusUnauthorized, "unauthorized"},
		{NewForbidden("x"), http.StatusForbidden, "forbidden"},
		{NewConflict("x"), http.StatusConflict, "conflict"},
		{NewValidation("x"), http.StatusUnprocessableEntity, "validation_error"},
	}
	for _, tt := range tests {
		if tt.err.Code != tt.code || tt.err.Type != tt.typeName || tt.err.Message != "x" {
			t.Errorf("got %+v, want code %d type %s", tt.err, tt.code, tt.typeName)
		}
		if tt.err.Internal != nil {
			t.Errorf("%s should carry no internal error", tt.typeName)
		}
	}
}
