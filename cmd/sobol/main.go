// SPDX-License-Identifier: MIT

// Command sobol runs a variance-based sensitivity study on one of the
// reference models and prints first-order and total-order indices with their
// confidence intervals.
//
// Examples:
//
//	sobol --model ishigami --size 10000
//	sobol --model gfunction --dim 6 --method bootstrap --bootstrap-size 200
//	sobol --model linear --estimator jansen --metrics-addr :9090
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
