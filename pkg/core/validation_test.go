package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidatePoolSize(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"one", 1, false},
		{"many", 64, false},
		{"zero", 0, true},
		{"negative", -3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePoolSize(tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePoolSize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !HasCode(err, CodeInvalidSize) {
				t.Errorf("ValidatePoolSize() code mismatch: %v", err)
			}
		})
	}
}

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantErr bool
	}{
		{"host and port", "127.0.0.1:7878", false},
		{"any host", ":8080", false},
		{"empty address", "", true},
		{"missing port", "localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAddress(tt.address)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAddress() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		wantErr bool
	}{
		{"valid timeout", 5 * time.Second, false},
		{"zero timeout", 0, false},
		{"negative timeout", -1 * time.Second, true},
		{"too large timeout", 10 * time.Minute, true},
		{"max valid timeout", 5 * time.Minute, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimeout(tt.timeout)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTimeout() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFailFast(t *testing.T) {
	// nil is a no-op
	FailFast(nil)
	FailFastIf(false, "unused")

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected error panic, got %v", r)
		}
		if !strings.HasPrefix(err.Error(), "fail-fast: ") {
			t.Errorf("unexpected message %q", err.Error())
		}
		if !errors.Is(err, &ValidationError{Code: CodeInvalidSize}) {
			t.Errorf("panic does not wrap the validation error: %v", err)
		}
	}()
	FailFast(ValidatePoolSize(0))
}

func TestFailFastIf(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("FailFastIf(true) should panic")
		}
	}()
	FailFastIf(true, "boom")
}

func TestValidationErrorIs(t *testing.T) {
	err := &ValidationError{Code: CodeInvalidJob, Message: "job cannot be nil"}
	if errors.Is(err, &ValidationError{Code: CodeInvalidSize}) {
		t.Error("different codes must not match")
	}
	if errors.Is(err, errors.New("job cannot be nil")) {
		t.Error("plain errors must not match")
	}
	if HasCode(errors.New("x"), CodeInvalidJob) {
		t.Error("HasCode on a plain error")
	}
}
