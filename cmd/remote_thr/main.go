// Command remote_thr sends a one-way message stream to local_thr.
package main

import (
	"os"

	"github.com/microsoft/msgperf/internal/cmd"
	"github.com/microsoft/msgperf/msgperf"
)

func main() {
	os.Exit(cmd.Main(msgperf.RemoteThroughput, os.Args[1:], os.Stdout, os.Stderr))
}
