package ntcpycon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHybridBCD(t *testing.T) {
	assert.Equal(t, uint16(123), hybridBCD(1, 0x23))
	assert.Equal(t, uint16(0), hybridBCD(0, 0))
}

func TestGymMemoryLinesAndScore(t *testing.T) {
	g := NewGymMemory()
	g.LinesHi, g.LinesLo = 1, 0x23
	assert.Equal(t, uint16(123), g.Lines())

	g.Score = [4]byte{0x01, 0x02, 0x03, 0x00}
	assert.Equal(t, uint32(0x00030201), g.ScoreValue())
}

func TestApplyHardwareGameIDIncrementsOnEntry(t *testing.T) {
	g := NewGymMemory()
	clock := fixedClock(0)

	frame := HardwareFrame{GameMode: gameModePlaying, Playstate: playstateNone}
	if err := g.ApplyHardware(frame, clock); err != nil {
		t.Fatalf("ApplyHardware: %v", err)
	}
	if g.GameID != 1 {
		t.Fatalf("GameID = %d, want 1 after first entry into game_mode 4", g.GameID)
	}

	if err := g.ApplyHardware(frame, clock); err != nil {
		t.Fatalf("ApplyHardware: %v", err)
	}
	if g.GameID != 1 {
		t.Fatalf("GameID = %d, want still 1 while game_mode stays 4", g.GameID)
	}
}

func TestApplyHardwareKeepBufferPreservesPlayfield(t *testing.T) {
	g := NewGymMemory()
	clock := fixedClock(0)
	g.PlayfieldBuffer[5] = tileWhite

	frame := HardwareFrame{Playstate: playstateEntryDelay}
	if err := g.ApplyHardwareKeepBuffer(frame, clock); err != nil {
		t.Fatalf("ApplyHardwareKeepBuffer: %v", err)
	}
	if g.PlayfieldBuffer[5] != tileWhite {
		t.Fatalf("PlayfieldBuffer[5] = %#x, want tileWhite to survive a compact state frame", g.PlayfieldBuffer[5])
	}
}

func TestApplyHardwareUnexpectedPlaystate(t *testing.T) {
	g := NewGymMemory()
	frame := HardwareFrame{Playstate: 99}
	err := g.ApplyHardware(frame, fixedClock(0))
	if _, ok := err.(*UnexpectedPlaystateError); !ok {
		t.Fatalf("err = %T, want *UnexpectedPlaystateError", err)
	}
}

func TestOverlayLineClear(t *testing.T) {
	g := NewGymMemory()
	for i := range g.Playfield {
		g.Playfield[i] = tileGray
	}
	g.Playstate = playstateLineClear
	g.RowY = 2
	g.CompletedRows = [4]byte{3, 0, 0, 0}
	g.FrameCounter = 8

	if err := g.updatePlayfield(); err != nil {
		t.Fatalf("updatePlayfield: %v", err)
	}

	row := 3
	for col := 2; col < 5; col++ {
		if g.Playfield[row*10+col] != BlankTile {
			t.Errorf("row %d col %d = %#x, want BlankTile", row, col, g.Playfield[row*10+col])
		}
	}
	for col := 5; col < 8; col++ {
		if g.Playfield[row*10+col] != BlankTile {
			t.Errorf("row %d col %d = %#x, want BlankTile", row, col, g.Playfield[row*10+col])
		}
	}
	if g.Playfield[row*10+1] != tileGray {
		t.Errorf("row %d col 1 should be untouched", row)
	}
}

func TestOverlayLineClearNoOpOffGate(t *testing.T) {
	g := NewGymMemory()
	for i := range g.Playfield {
		g.Playfield[i] = tileGray
	}
	g.Playstate = playstateLineClear
	g.RowY = 2
	g.CompletedRows = [4]byte{3, 0, 0, 0}
	g.FrameCounter = 9 // not a multiple of 4

	if err := g.updatePlayfield(); err != nil {
		t.Fatalf("updatePlayfield: %v", err)
	}
	for _, cell := range g.Playfield {
		if cell != tileGray {
			t.Fatalf("playfield should be untouched when frame_counter%%4 != 0")
		}
	}
}

func TestFromGymResolvesDisplayCodes(t *testing.T) {
	g := NewGymMemory()
	g.Playfield[0] = tileEmpty
	g.Playfield[1] = tileGray
	g.Playfield[2] = tileBlack
	g.Playfield[3] = tileWhite

	snap := FromGym(g)
	want := [4]byte{0, 1, 2, 3}
	for i, w := range want {
		if snap.Playfield[i] != w {
			t.Errorf("Playfield[%d] = %d, want %d", i, snap.Playfield[i], w)
		}
	}
}

func fixedClock(ms int64) monotonicMillis {
	return func() int64 { return ms }
}
