// receiver.go - the common Receiver contract driven by the orchestrator.
//
// grounded on original_source/ntcpycon/abstract.py (Receiver/Sender ABCs).

package ntcpycon

import "context"

// Receiver produces a stream of observations, normalizes each into a
// BinaryFrame v3 payload, and publishes it to a Fanout until its source is
// exhausted or ctx is cancelled.
type Receiver interface {
	Run(ctx context.Context) error
}

// publishFrame encodes snapshot, applies idle-suppression, and — if not
// suppressed — publishes the encoded frame to fanout, updating suppressor's
// state. It is the shared tail end of the OCR-over-TCP and hardware-link
// receivers' per-observation pipelines (spec section 4.3); the replay
// receivers publish captured bytes directly.
func publishFrame(ctx context.Context, fanout *Fanout, suppressor *IdleSuppressor, snapshot Snapshot) error {
	fp := ComputeFingerprint(snapshot)
	if !suppressor.ShouldSend(fp) {
		return nil
	}
	encoded := Encode(snapshot)
	return fanout.Publish(ctx, encoded[:])
}
