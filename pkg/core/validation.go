package core

import (
	"fmt"
	"net"
	"time"
)

// ValidatePoolSize validates a worker pool size
func ValidatePoolSize(size int) error {
	if size <= 0 {
		return &ValidationError{Code: CodeInvalidSize, Message: fmt.Sprintf("pool size must be positive, got %d", size)}
	}
	return nil
}

// ValidateAddress validates a host:port listen address
func ValidateAddress(address string) error {
	if address == "" {
		return &ValidationError{Code: CodeInvalidAddress, Message: "address cannot be empty"}
	}
	if _, _, err := net.SplitHostPort(address); err != nil {
		return &ValidationError{Code: CodeInvalidAddress, Message: fmt.Sprintf("invalid address %q: %v", address, err)}
	}
	return nil
}

// ValidateTimeout validates a timeout duration
func ValidateTimeout(timeout time.Duration) error {
	if timeout < 0 {
		return &ValidationError{Code: CodeInvalidTimeout, Message: "timeout cannot be negative"}
	}
	if timeout > 5*time.Minute {
		return &ValidationError{Code: CodeInvalidTimeout, Message: "timeout too large (max 5 minutes)"}
	}
	return nil
}

// FailFast panics with an error (fail-fast principle)
func FailFast(err error) {
	if err != nil {
		panic(fmt.Errorf("fail-fast: %w", err))
	}
}

// FailFastIf panics if condition is true
func FailFastIf(condition bool, message string) {
	if condition {
		panic(fmt.Errorf("fail-fast: %s", message))
	}
}
