package msgperf

// Params is the configuration of a single measurement session.
type Params struct {
	Address     string
	MessageSize int
	Count       int
}

// Filler is the byte senders put in every message.
const Filler = 'X'
