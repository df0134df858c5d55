package msgperf

import "strings"

type Program uint32

const (
	LocalLatency Program = iota
	RemoteLatency
	LocalThroughput
	RemoteThroughput
	ProgramUnknown
)

func (p Program) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

func (p Program) String() string {
	switch p {
	case LocalLatency:
		return "local_lat"
	case RemoteLatency:
		return "remote_lat"
	case LocalThroughput:
		return "local_thr"
	case RemoteThroughput:
		return "remote_thr"
	}
	return "UNKNOWN"
}

func ParseProgram(s string) Program {
	switch strings.ToLower(s) {
	case "local_lat":
		return LocalLatency
	case "remote_lat":
		return RemoteLatency
	case "local_thr":
		return LocalThroughput
	case "remote_thr":
		return RemoteThroughput
	}
	return ProgramUnknown
}

// IsLocal reports whether the program binds its address instead of connecting to it.
func (p Program) IsLocal() bool {
	return p == LocalLatency || p == LocalThroughput
}

func (p Program) IsLatency() bool {
	return p == LocalLatency || p == RemoteLatency
}

// CountName is how the count argument is named in usage and status output.
func (p Program) CountName() string {
	if p.IsLatency() {
		return "roundtrip_count"
	}
	return "message_count"
}

// AddressName is how the address argument is named in usage output.
func (p Program) AddressName() string {
	if p.IsLocal() {
		return "bind_to"
	}
	return "connect_to"
}
