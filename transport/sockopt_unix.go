//go:build linux || darwin

package transport

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func setTOS(fd uintptr, network string, tos int) error {
	if tos == 0 {
		return nil
	}
	switch network {
	case "tcp4", "udp4":
		return setSockOptInt(fd, unix.IPPROTO_IP, unix.IP_TOS, tos)
	case "tcp6", "udp6":
		return setSockOptInt(fd, unix.IPPROTO_IPV6, unix.IPV6_TCLASS, tos)
	}
	return nil
}

func setSockOptInt(fd uintptr, level, opt, val int) error {
	err := unix.SetsockoptInt(int(fd), level, opt, val)
	if err != nil {
		return fmt.Errorf("failed to set socket option (%v) to value (%v): %w", opt, val, err)
	}
	return nil
}
