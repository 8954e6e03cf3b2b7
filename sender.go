// sender.go - the common Sender contract driven by the orchestrator.
//
// grounded on original_source/ntcpycon/abstract.py (Receiver/Sender ABCs).

package ntcpycon

import "context"

// Sender drains a Fanout-registered mailbox and emits each frame to a
// downstream consumer until the mailbox is closed or ctx is cancelled.
type Sender interface {
	Run(ctx context.Context) error
}
