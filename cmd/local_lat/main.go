// Command local_lat binds an address and echoes every request from remote_lat.
package main

import (
	"os"

	"github.com/microsoft/msgperf/internal/cmd"
	"github.com/microsoft/msgperf/msgperf"
)

func main() {
	os.Exit(cmd.Main(msgperf.LocalLatency, os.Args[1:], os.Stdout, os.Stderr))
}
