// fanout.go - broadcast fan-out: delivers each published frame to every
// registered sender via an independent bounded channel.
//
// grounded on IntuitionAmiga-IntuitionEngine's video_compositor.go (a
// sync.WaitGroup fanning work to per-region goroutines) for the "fan the
// same value out to N independent consumers" shape, generalized here to
// per-consumer buffered channels instead of a WaitGroup barrier, since
// spec section 4.4 requires independent per-sender mailboxes rather than a
// single joint barrier.

package ntcpycon

import (
	"context"
	"sync"
)

// mailboxCapacity bounds each sender's per-connection channel. A full
// channel blocks Publish, which is exactly the shared back-pressure spec
// section 5 describes: the slowest sender throttles the receiver.
const mailboxCapacity = 64

// Fanout delivers published frames to every registered sender's mailbox.
// A sender may register from its own goroutine as it starts up under the
// orchestrator (WebSocketSender does, after dialing; orchestrator.go runs
// receiver and senders concurrently), so registration is guarded against concurrent Publish
// calls rather than assumed to happen before the receiver starts.
type Fanout struct {
	mu        sync.RWMutex
	mailboxes []chan []byte
}

// NewFanout returns an empty fan-out with no registered senders.
func NewFanout() *Fanout {
	return &Fanout{}
}

// Register creates and returns a new bounded mailbox that will receive every
// subsequently published frame. A sender that registers after Publish has
// already been called for a given frame simply misses that frame, same as
// a real downstream consumer connecting mid-stream.
func (f *Fanout) Register() <-chan []byte {
	mailbox := make(chan []byte, mailboxCapacity)
	f.mu.Lock()
	f.mailboxes = append(f.mailboxes, mailbox)
	f.mu.Unlock()
	return mailbox
}

// Publish enqueues frame into every registered mailbox, in registration
// order, awaiting space in each if full. Publication order per sender
// matches receiver order (spec section 5); senders make no ordering
// guarantee relative to each other's delivery timing.
func (f *Fanout) Publish(ctx context.Context, frame []byte) error {
	f.mu.RLock()
	mailboxes := f.mailboxes
	f.mu.RUnlock()

	for _, mailbox := range mailboxes {
		select {
		case mailbox <- frame:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close closes every registered mailbox, the graceful-shutdown signal each
// sender's range-over-channel loop uses to know the stream has ended
// cleanly (the idiomatic replacement for the None-sentinel convention in
// original_source/ntcpycon/file_handler.py and pcap_replay.py).
func (f *Fanout) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, mailbox := range f.mailboxes {
		close(mailbox)
	}
}
