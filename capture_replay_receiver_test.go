package ntcpycon

import (
	"context"
	"testing"
)

type stubPacketSource struct {
	packets []CapturedPacket
	i       int
}

func (s *stubPacketSource) Next(ctx context.Context) (CapturedPacket, error) {
	if s.i >= len(s.packets) {
		return CapturedPacket{}, errPacketSourceDone
	}
	p := s.packets[s.i]
	s.i++
	return p, nil
}

func TestCaptureReplayReceiverFiltersByHostAndLength(t *testing.T) {
	small := append([]byte{0x82, 0x02}, []byte("hi")...)

	exact := make([]byte, 80)
	exact[0] = 0x82
	exact[1] = 78

	over := make([]byte, 102)
	over[0] = 0x82
	over[1] = 100

	source := &stubPacketSource{packets: []CapturedPacket{
		{DestHost: "10.0.0.1", Payload: exact}, // wrong host: dropped
		{DestHost: "10.0.0.2", Payload: small},  // right host, too short: dropped
		{DestHost: "10.0.0.2", Payload: over},   // right host, too long: dropped (proves exact match, not minimum)
		{DestHost: "10.0.0.2", Payload: exact},  // right host, exact length: kept
	}}

	fanout := NewFanout()
	mailbox := fanout.Register()
	receiver := NewCaptureReplayReceiver(source, fanout, "10.0.0.2", 78)

	if err := receiver.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	select {
	case frame, ok := <-mailbox:
		if !ok {
			t.Fatal("mailbox closed without delivering the qualifying frame")
		}
		if len(frame) != 78 {
			t.Fatalf("frame length = %d, want 78", len(frame))
		}
	default:
		t.Fatal("expected exactly one frame to have been published")
	}

	if _, ok := <-mailbox; ok {
		t.Fatal("expected no further frames")
	}
}
