// zkprover is the out-of-process prover used by the exec engine. It reads one
// JSON request from stdin, proves or verifies it with the local engine over
// the built-in guest programs, and writes one JSON response to stdout.
//
// Usage:
//
//	zkprover [--log-level debug] prove|verify
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/weiihann/zkbench/guests"
	"github.com/weiihann/zkbench/zkvm"
)

func main() {
	logLevel := flag.String("log-level", "warn", "log level for stderr")
	flag.Parse()

	if flag.NArg() != 1 {
		fatal("expected exactly one command (%s or %s), got %d args",
			zkvm.CommandProve, zkvm.CommandVerify, flag.NArg())
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fatal("parse log level: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := flag.Arg(0)
	if err := zkvm.Serve(ctx, zkvm.NewLocal(logger), guests.Lookup, command, os.Stdin, os.Stdout); err != nil {
		stop()
		fatal("%s: %v", command, err)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "zkprover: "+format+"\n", args...)
	os.Exit(1)
}
