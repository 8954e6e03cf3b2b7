// worker.go - runs a blocking call on its own goroutine and returns its
// result over a channel, so a cancellable caller never has to interrupt the
// blocking call itself.
//
// grounded on IntuitionAmiga-IntuitionEngine's coprocessor_manager.go
// (CoprocWorker: a goroutine running a blocking CPU execution loop, signaled
// done via a closed channel) and SPEC_FULL.md section 5's worker-goroutine-
// plus-result-channel helper for blocking hardware-link I/O, which leaves
// the blocking call running rather than interrupting it.

package ntcpycon

import "context"

type blockingResult[T any] struct {
	value T
	err   error
}

// runBlocking executes fn on a dedicated goroutine and waits for either its
// result or ctx's cancellation. If ctx is cancelled first, runBlocking
// returns ctx.Err() immediately; fn's eventual result (if any) is discarded,
// matching spec section 5's "any value it produces after cancellation is
// discarded".
func runBlocking[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	done := make(chan blockingResult[T], 1)
	go func() {
		value, err := fn()
		done <- blockingResult[T]{value: value, err: err}
	}()

	select {
	case result := <-done:
		return result.value, result.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
