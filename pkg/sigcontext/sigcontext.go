// Package sigcontext derives contexts that are cancelled by process signals.
package sigcontext

import (
	"context"
	"os"
	"os/signal"
)

// WithSignalCancel returns a context that cancels itself when any of the
// given signals is delivered to the process. The returned cancel releases
// the signal handler and must be called; once released, a repeated signal
// falls through to the runtime's default handling (ie: a second ^C
// terminates the process).
func WithSignalCancel(ctx context.Context, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	sigctx, cancel := context.WithCancel(ctx)

	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, sigs...)

	go func() {
		defer signal.Stop(sigchan)
		select {
		case <-sigctx.Done():
		case <-sigchan:
			cancel()
		}
	}()

	return sigctx, cancel
}
