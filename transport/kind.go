package transport

import "strings"

// Kind selects the messaging pattern a socket takes part in.
type Kind uint32

const (
	Req Kind = iota
	Rep
	Push
	Pull
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case Req:
		return "REQ"
	case Rep:
		return "REP"
	case Push:
		return "PUSH"
	case Pull:
		return "PULL"
	}
	return "UNKNOWN"
}

func ParseKind(s string) Kind {
	switch strings.ToUpper(s) {
	case "REQ":
		return Req
	case "REP":
		return Rep
	case "PUSH":
		return Push
	case "PULL":
		return Pull
	}
	return KindUnknown
}

func (k Kind) canSend() bool {
	return k != Pull && k != KindUnknown
}

func (k Kind) canRecv() bool {
	return k != Push && k != KindUnknown
}
