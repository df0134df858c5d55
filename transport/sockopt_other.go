//go:build !linux && !darwin

package transport

import (
	"errors"
	"fmt"
)

func setTOS(fd uintptr, network string, tos int) error {
	if tos == 0 {
		return nil
	}
	return fmt.Errorf("setting TOS on %s: %w", network, errors.ErrUnsupported)
}
