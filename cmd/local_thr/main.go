// Command local_thr receives a one-way message stream from remote_thr and reports its rate.
package main

import (
	"os"

	"github.com/microsoft/msgperf/internal/cmd"
	"github.com/microsoft/msgperf/msgperf"
)

func main() {
	os.Exit(cmd.Main(msgperf.LocalThroughput, os.Args[1:], os.Stdout, os.Stderr))
}
