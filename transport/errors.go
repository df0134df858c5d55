package transport

import "errors"

var (
	ErrUnsupportedScheme = errors.New("unsupported transport scheme")
	ErrInvalidEndpoint   = errors.New("invalid endpoint")
	ErrInvalidState      = errors.New("operation not allowed in current socket state")
	ErrMessageTooLarge   = errors.New("message exceeds maximum size")
	ErrAddrInUse         = errors.New("address already in use")
	ErrPeerExists        = errors.New("endpoint already has a peer")
	ErrClosed            = errors.New("socket closed")
)
