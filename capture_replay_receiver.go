// capture_replay_receiver.go - replays a stored packet capture of
// the upstream WebSocket traffic, republishing each captured BinaryFrame
// payload through a Fanout (spec section 4.3.3).
//
// grounded on original_source/ntcpycon/pcap_replay.py (PcapReplay): filters
// captured packets by destination host and payload length before handing
// the demasked bytes to the reducer pipeline.

package ntcpycon

import "context"

// CapturedPacket is one payload observed on the wire, as handed to this
// receiver by whatever capture source (live libpcap handle, stored capture
// file) drives it. DestHost is matched against Host to discard traffic not
// addressed to the upstream WebSocket server.
type CapturedPacket struct {
	DestHost string
	Payload  []byte
}

// PacketSource yields captured packets until exhausted. The file-backed
// source (pcap_packet_source.go) wraps a pcapgo reader over a stored
// capture file; tests can supply a canned slice-backed source.
type PacketSource interface {
	Next(ctx context.Context) (CapturedPacket, error)
}

// CaptureReplayReceiver decodes WebSocket frames out of a packet capture and
// republishes their payloads as BinaryFrame v3 snapshots, without going
// through FromGym/FromOCR: a capture already carries encoded frames, so the
// Snapshot stage is skipped and the payload is forwarded unmodified minus
// idle-suppression (spec section 4.3.3, which is the one receiver variant
// that publishes raw bytes rather than deriving them from a Snapshot).
type CaptureReplayReceiver struct {
	Source PacketSource
	Fanout *Fanout
	Host   string
	Length int
}

// NewCaptureReplayReceiver returns a receiver that keeps only packets
// addressed to host whose WebSocket payload length equals length exactly,
// matching original_source/ntcpycon/pcap_replay.py's filter_payloads_by_len.
func NewCaptureReplayReceiver(source PacketSource, fanout *Fanout, host string, length int) *CaptureReplayReceiver {
	return &CaptureReplayReceiver{Source: source, Fanout: fanout, Host: host, Length: length}
}

// Run reads packets from r.Source until it is exhausted or ctx is
// cancelled, closing r.Fanout on clean exhaustion so downstream senders see
// their mailboxes close rather than hang (spec section 4.4).
func (r *CaptureReplayReceiver) Run(ctx context.Context) error {
	defer r.Fanout.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		packet, err := r.Source.Next(ctx)
		if err != nil {
			if err == errPacketSourceDone {
				return nil
			}
			return err
		}
		if packet.DestHost != r.Host {
			continue
		}

		frame, err := DecodeWebSocketFrame(packet.Payload)
		if err != nil {
			continue
		}
		if frame.Opcode != webSocketBinaryOpcode || len(frame.Data) != r.Length {
			continue
		}
		if err := r.Fanout.Publish(ctx, frame.Data); err != nil {
			return err
		}
	}
}

// webSocketBinaryOpcode is the RFC 6455 opcode for a binary data frame; text
// and control frames are never BinaryFrame traffic and are skipped.
const webSocketBinaryOpcode = 0x2

// errPacketSourceDone signals clean exhaustion of a PacketSource, the
// replacement for the original's end-of-file sentinel.
var errPacketSourceDone = &packetSourceDoneError{}

type packetSourceDoneError struct{}

func (*packetSourceDoneError) Error() string { return "packet source exhausted" }
