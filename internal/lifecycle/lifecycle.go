// Package lifecycle provides the process-wide shutdown signal and
// interruptible sleep the daemon and check loops share: SIGINT/SIGTERM
// install a single atomic flag, and any long sleep polls it in short
// steps instead of blocking past a requested shutdown.
package lifecycle

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"
)

const sleepStep = 250 * time.Millisecond

// Controller tracks shutdown state for one run of the daemon or check
// command. It is not a global: each command constructs its own so
// tests don't share signal state across runs.
type Controller struct {
	shutdown atomic.Bool
	sigCh    chan os.Signal
}

// New installs SIGINT/SIGTERM handlers and returns a Controller that
// flips to shut down the first time either arrives.
func New() *Controller {
	c := &Controller{sigCh: make(chan os.Signal, 1)}
	signal.Notify(c.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		if _, ok := <-c.sigCh; ok {
			c.shutdown.Store(true)
		}
	}()
	return c
}

// ShuttingDown reports whether a shutdown signal has been received.
func (c *Controller) ShuttingDown() bool {
	return c.shutdown.Load()
}

// Stop releases the signal handler registration. Call once the
// command's main loop has returned.
func (c *Controller) Stop() {
	signal.Stop(c.sigCh)
}

// Sleep blocks for total, polling ShuttingDown every 250ms so a
// pending shutdown interrupts a long wait instead of running it to
// completion.
func (c *Controller) Sleep(total time.Duration) {
	remaining := total
	for remaining > 0 && !c.ShuttingDown() {
		step := sleepStep
		if remaining < step {
			step = remaining
		}
		time.Sleep(step)
		remaining -= step
	}
}
