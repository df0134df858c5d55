package transport

// DefaultMaxMessageSize bounds a single frame so that a corrupt length
// prefix cannot make the receiver allocate without limit.
const DefaultMaxMessageSize = 256 << 20

type Options struct {
	// TOS sets the IPv4 TOS byte or IPv6 traffic class on TCP sockets. 0 leaves the default.
	TOS int
	// SendBuffer and RecvBuffer size the kernel socket buffers. 0 leaves the default.
	SendBuffer int
	RecvBuffer int
	NoDelay    bool
	// MaxMessageSize is the largest frame accepted or sent. 0 disables the check.
	MaxMessageSize int
}

func DefaultOptions() Options {
	return Options{
		NoDelay:        true,
		MaxMessageSize: DefaultMaxMessageSize,
	}
}
