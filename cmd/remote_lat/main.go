// Command remote_lat measures request/reply round-trip latency against local_lat.
package main

import (
	"os"

	"github.com/microsoft/msgperf/internal/cmd"
	"github.com/microsoft/msgperf/msgperf"
)

func main() {
	os.Exit(cmd.Main(msgperf.RemoteLatency, os.Args[1:], os.Stdout, os.Stderr))
}
