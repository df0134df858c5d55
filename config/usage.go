package config

import (
	"fmt"
	"io"

	"github.com/microsoft/msgperf/msgperf"
)

// Usage prints the command-line usage text
func Usage(w io.Writer, program msgperf.Program) {
	fmt.Fprintf(w, "Usage: %s [flags] <%s> <message_size> <%s>\n",
		program, program.AddressName(), program.CountName())
	fmt.Fprintf(w, "Example: %s %s\n", program, Example(program))

	fmt.Fprintln(w, "\nArguments")
	fmt.Fprintln(w, "================================================================================")
	printArgUsage(w, program.AddressName(), addressHelp(program)...)
	printArgUsage(w, "message_size", "Size of every message (format: <num>[KB | MB | GB]).",
		"Both ends of a test must use the same size.")
	printArgUsage(w, program.CountName(), countHelp(program))

	fmt.Fprintln(w, "\nFlags")
	fmt.Fprintln(w, "================================================================================")
	printFlagUsage(w, "h", "", "Help")
	printFlagUsage(w, "o", "<filename>", "Append JSON log records and results to <filename>.")
	printFlagUsage(w, "debug", "", "Enable debug information in logging output.")
	printFlagUsage(w, "ui", "", "Show progress in a text UI. Esc or Ctrl-C aborts the run.")
	printFlagUsage(w, "config", "<filename>", "Read options from a YAML file.",
		"Flags given on the command line take precedence.")
	printFlagUsage(w, "tos", "<number>",
		"Specifies 8-bit value to use in IPv4 TOS field or IPv6 Traffic Class field.")
	printFlagUsage(w, "sndbuf", "<size>", "Socket send buffer size (format: <num>[KB | MB]).",
		"Default: system default")
	printFlagUsage(w, "rcvbuf", "<size>", "Socket receive buffer size (format: <num>[KB | MB]).",
		"Default: system default")
	printFlagUsage(w, "maxmsg", "<size>", "Largest message accepted from the peer.",
		"Default: 256MB")
	if program == msgperf.RemoteThroughput {
		printFlagUsage(w, "settle", "<duration>",
			"Pause after connecting before the first message (format: <num>[ms | s]).",
			"Default: 100ms")
		printFlagUsage(w, "linger", "<duration>",
			"Pause after the last message before closing (format: <num>[ms | s]).",
			"Default: 100ms")
	}
}

// Example returns sample arguments for program.
func Example(program msgperf.Program) string {
	switch program {
	case msgperf.LocalLatency:
		return "tcp://*:5555 64 10000"
	case msgperf.RemoteLatency:
		return "tcp://localhost:5555 64 10000"
	case msgperf.LocalThroughput:
		return "tcp://*:5556 64 1000000"
	default:
		return "tcp://localhost:5556 64 1000000"
	}
}

func addressHelp(program msgperf.Program) []string {
	verb := "Connect to"
	if program.IsLocal() {
		verb = "Bind to"
	}
	return []string{
		verb + " the given endpoint (format: <scheme>://<address>).",
		"tcp://<host>:<port>  (\"*\" as host binds all interfaces)",
		"ipc://<path>         Unix domain socket",
		"inproc://<name>      in-process pipe",
		"ws://<host>:<port>/<path>  WebSocket",
	}
}

func countHelp(program msgperf.Program) string {
	if program.IsLatency() {
		return "Number of timed round trips, after one untimed warm-up."
	}
	return "Number of messages to transfer, including the first one."
}

func printArgUsage(w io.Writer, name string, helptext ...string) {
	fmt.Fprintf(w, "\t<%s>\n", name)
	for _, help := range helptext {
		fmt.Fprintf(w, "\t\t%s\n", help)
	}
}

func printFlagUsage(w io.Writer, flag, info string, helptext ...string) {
	fmt.Fprintf(w, "\t-%s %s\n", flag, info)
	for _, help := range helptext {
		fmt.Fprintf(w, "\t\t%s\n", help)
	}
}
