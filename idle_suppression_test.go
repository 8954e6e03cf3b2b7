package ntcpycon

import (
	"testing"
	"time"
)

func TestIdleSuppressorCollapsesWithinWindow(t *testing.T) {
	base := time.Unix(0, 0)
	clock := base
	s := &IdleSuppressor{now: func() time.Time { return clock }}

	var fp Fingerprint
	fp[0] = 1

	if !s.ShouldSend(fp) {
		t.Fatal("first send should never be suppressed")
	}

	clock = base.Add(100 * time.Millisecond)
	if s.ShouldSend(fp) {
		t.Fatal("identical fingerprint 100ms later should be suppressed")
	}

	clock = base.Add(300 * time.Millisecond)
	if !s.ShouldSend(fp) {
		t.Fatal("identical fingerprint 300ms later should be sent")
	}
}

func TestIdleSuppressorAlwaysSendsDifferentFingerprint(t *testing.T) {
	s := NewIdleSuppressor()
	var a, b Fingerprint
	b[0] = 1

	if !s.ShouldSend(a) {
		t.Fatal("first send should never be suppressed")
	}
	if !s.ShouldSend(b) {
		t.Fatal("a differing fingerprint should never be suppressed")
	}
}
