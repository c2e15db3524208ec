// Command mixrand generates cryptographically strong random bytes from
// whichever hardware and kernel entropy sources are available on the
// running Linux system, and can run as a daemon that tops up the
// kernel's own entropy pool when it runs low.
package main

import (
	"fmt"
	"os"

	"mixrand/internal/logging"
)

// version is the build version embedded in crash reports. Overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	logging.DefaultCrashHandler().SetVersion(version)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "daemon":
			logging.WrapPanic(func() { runDaemon(os.Args[2:]) })
			return
		case "check":
			logging.WrapPanic(func() { runCheck(os.Args[2:]) })
			return
		case "help", "-h", "--help":
			usage()
			return
		}
	}

	logging.WrapPanic(func() { runGenerate(os.Args[1:]) })
}

func usage() {
	fmt.Println(`mixrand - secure random byte generator for Linux

USAGE:
    mixrand [flags]              generate random bytes (default)
    mixrand daemon [flags]       monitor and top up the kernel entropy pool
    mixrand check [flags]        run FIPS 140-2 tests against each entropy source
    mixrand help                 show this help message

Run "mixrand <command> -h" for flags specific to that command.`)
}
