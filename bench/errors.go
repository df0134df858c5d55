package bench

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParams       = errors.New("message size and count must be positive")
	ErrUnsupportedExchange = errors.New("unsupported role and discipline combination")
)

const (
	OpSend    = "send"
	OpReceive = "receive"
)

// TransportError is a failed send or receive. Index counts messages from 0
// after the warm-up exchange.
type TransportError struct {
	Op     string
	Index  int
	Warmup bool
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, messageName(e.Index, e.Warmup), e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// SizeMismatchError is a received message whose length is not the
// configured message size.
type SizeMismatchError struct {
	Index    int
	Warmup   bool
	Expected int
	Actual   int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("message size mismatch at %s: expected %d, got %d",
		messageName(e.Index, e.Warmup), e.Expected, e.Actual)
}

func messageName(index int, warmup bool) string {
	if warmup {
		return "warm-up message"
	}
	return fmt.Sprintf("message %d", index)
}
