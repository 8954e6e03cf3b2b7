package ntcpycon

import "testing"

func TestCheckFrameCounterTracksLastSeen(t *testing.T) {
	r := &HardwareLinkReceiver{}
	r.checkFrameCounter(100)
	if !r.haveLast || r.lastCounter != 100 {
		t.Fatalf("haveLast/lastCounter = %v/%d, want true/100", r.haveLast, r.lastCounter)
	}
	r.checkFrameCounter(101) // contiguous, no warning path exercised here
	r.checkFrameCounter(105) // gap: dropped 102..104, warning logged but not asserted
	if r.lastCounter != 105 {
		t.Fatalf("lastCounter = %d, want 105", r.lastCounter)
	}
}

func TestDroppedFramesErrorMessage(t *testing.T) {
	err := &DroppedFramesError{From: 102, To: 105}
	if got, want := err.Error(), "dropped 3 frame(s): 102 to 104"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestDecodeCompactStateFrame(t *testing.T) {
	response := make([]byte, compactFrameSize)
	response[4] = 4 // GameMode
	response[5] = 1 // Playstate
	response[6] = 2 // CurrentPiece
	response[7] = 3 // NextPiece

	body := response[compactChunkDataOffset : compactFrameSize-compactFooterLen]
	body[0] = 5 // TetriminoX
	body[1] = 6 // TetriminoY
	body[6] = 9 // Level

	frame, err := decodeCompactStateFrame(response, 42)
	if err != nil {
		t.Fatalf("decodeCompactStateFrame: %v", err)
	}
	if frame.GameMode != 4 || frame.Playstate != 1 || frame.CurrentPiece != 2 || frame.NextPiece != 3 {
		t.Fatalf("unexpected scalar fields: %+v", frame)
	}
	if frame.TetriminoX != 5 || frame.TetriminoY != 6 || frame.Level != 9 {
		t.Fatalf("unexpected body fields: %+v", frame)
	}
	if frame.FrameCounter != 42 {
		t.Fatalf("FrameCounter = %d, want 42", frame.FrameCounter)
	}
}

func TestDecodeCompactStateFramePieceStats(t *testing.T) {
	response := make([]byte, compactFrameSize)
	body := response[compactChunkDataOffset : compactFrameSize-compactFooterLen]
	want := [14]byte{0x01, 0x23, 0x04, 0x56, 0x07, 0x89, 0x01, 0x11, 0x02, 0x22, 0x00, 0x15, 0x00, 0x08}
	copy(body[15:29], want[:])

	frame, err := decodeCompactStateFrame(response, 0)
	if err != nil {
		t.Fatalf("decodeCompactStateFrame: %v", err)
	}
	if frame.PieceStats != want {
		t.Fatalf("PieceStats = %v, want %v", frame.PieceStats, want)
	}
}

func TestDecodeCompactStateFrameShortResponse(t *testing.T) {
	_, err := decodeCompactStateFrame(make([]byte, 10), 0)
	if _, ok := err.(*ShortReadError); !ok {
		t.Fatalf("err = %T, want *ShortReadError", err)
	}
}
