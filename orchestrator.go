// orchestrator.go - runs one Receiver and N Senders concurrently, stopping
// the whole group on the first failure (spec section 4.6).
//
// grounded on original_source/ntcpycon/bridge.py (run_bridge): gathers the
// receiver task and every sender task, and cancels the remaining tasks as
// soon as any one of them raises.

package ntcpycon

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run starts receiver and every sender concurrently under a shared
// errgroup, returning the first error any of them produce. Cancelling ctx,
// or any task failing, cancels the derived context passed to the rest.
func Run(ctx context.Context, receiver Receiver, senders []Sender) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return receiver.Run(groupCtx)
	})
	for _, sender := range senders {
		sender := sender
		group.Go(func() error {
			return sender.Run(groupCtx)
		})
	}

	return group.Wait()
}
