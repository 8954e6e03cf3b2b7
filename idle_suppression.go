// idle_suppression.go - 250ms de-duplication against the last transmitted
// frame, used by the OCR-over-TCP and hardware-link receivers (spec section
// 4.3); the capture and file replay receivers publish without it.

package ntcpycon

import "time"

// IdleWindow is the monotonic-time window during which identical
// fingerprints are collapsed to a single emission.
const IdleWindow = 250 * time.Millisecond

// IdleSuppressor tracks the last fingerprint and transmission time a
// receiver has published, so repeated identical observations within the
// idle window can be suppressed.
type IdleSuppressor struct {
	hasLast      bool
	lastFp       Fingerprint
	lastSentAt   time.Time
	now          func() time.Time
}

// NewIdleSuppressor returns a suppressor using time.Now for its clock.
func NewIdleSuppressor() *IdleSuppressor {
	return &IdleSuppressor{now: time.Now}
}

// ShouldSend reports whether a frame with fingerprint fp should be
// published, and records that decision's timestamp when it does. A frame
// is suppressed only when its fingerprint matches the last published one
// AND less than IdleWindow has elapsed since that publish.
func (s *IdleSuppressor) ShouldSend(fp Fingerprint) bool {
	now := s.now()
	if s.hasLast && fp == s.lastFp && now.Sub(s.lastSentAt) < IdleWindow {
		return false
	}
	s.hasLast = true
	s.lastFp = fp
	s.lastSentAt = now
	return true
}
