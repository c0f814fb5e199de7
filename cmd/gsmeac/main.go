// Command gsmeac plans backpacking trips in the GSMEAC briefing order:
// Ground, Situation, Mission, Execution, Administration and Command &
// Control.
//
// The plan lives in a .gsmeac directory under the working directory (see
// "gsmeac print-config"). Each invocation applies one command and flushes
// pending saves before exiting. "gsmeac wizard" keeps one session open and
// walks the sections interactively.
package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/calvinalkan/gsmeac/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Interrupts cancel the command context so the session still flushes
	// its pending save on the way out.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	defer signal.Stop(sigCh)

	return cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args, environ(), sigCh)
}

// environ returns the process environment as a map. Config lookup reads
// XDG_CONFIG_HOME and HOME from it; tests pass their own.
func environ() map[string]string {
	vars := os.Environ()
	env := make(map[string]string, len(vars))

	for _, kv := range vars {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}

	return env
}
