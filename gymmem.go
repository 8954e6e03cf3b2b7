// gymmem.go - the persistent game-state reducer ("gym memory"). Applies
// successive raw observations into a running record and reconstructs the
// displayable playfield across NES Tetris's various animation states.
//
// grounded on original_source/ntcpycon/gymmem.py (GymMemory, overlay_piece,
// overlay_lineclear, _hybrid_bcd_convert) and SPEC_FULL.md section 4.2's
// finite-state-by-playstate expansion of update_playfield.

package ntcpycon

import "github.com/golang/glog"

// Playstate values recognized by the reducer's display-field strategy.
const (
	playstateNone          = 0
	playstatePieceFalling  = 1
	playstatePieceLocking  = 2
	playstateLineClear     = 4
	playstateEntryDelay    = 3
	playstateSpawn         = 5
	playstateGameOverA     = 6
	playstateGameOverB     = 7
	playstateSpawnAuto     = 8
	playstateTopOut        = 10
)

const gameModePlaying = 4

// GymMemory is the mutable, per-receiver record of accumulated NES Tetris
// state. A single instance is owned exclusively by one receiver for its
// entire lifetime; it is never read concurrently (spec section 5).
type GymMemory struct {
	GameMode      byte
	Playstate     byte
	RowY          byte
	CompletedRows [4]byte

	LinesHi byte
	LinesLo byte
	Level   byte
	Score   [4]byte // little-endian, index 0 = lowest byte

	NextPiece    byte
	CurrentPiece byte
	TetriminoX   byte
	TetriminoY   byte
	AutorepeatX  byte
	FrameCounter uint16

	PieceStatsHiLo [14]byte // T J Z O S L I, hi then lo per piece

	Playfield       [200]byte // currently displayable field, raw RAM tile ids
	PlayfieldBuffer [200]byte // latest raw playfield observation

	SpawnAutorepeatX byte

	Time   uint32 // ms since first observation
	GameID uint16 // monotone, advances on transition into game_mode 4

	firstObservedAt  int64 // ms timestamp of the first Apply* call, or -1
	previousGameMode byte
	hasObserved      bool
}

// NewGymMemory returns a freshly-initialized, empty game memory record.
func NewGymMemory() *GymMemory {
	return &GymMemory{firstObservedAt: -1}
}

// hybridBCD decodes the NES's two-byte hybrid BCD representation: the high
// byte is a plain hundreds counter, the low byte packs tens/units nibbles.
// grounded on original_source/ntcpycon/gymmem.py: _hybrid_bcd_convert
func hybridBCD(hi, lo byte) uint16 {
	return uint16(hi)*100 + uint16(lo>>4)*10 + uint16(lo&0x0F)
}

// Lines returns the decoded BCD line count.
func (g *GymMemory) Lines() uint16 { return hybridBCD(g.LinesHi, g.LinesLo) }

// ScoreValue returns the 32-bit little-endian score, low 24 bits of which
// are ever encoded on the wire.
func (g *GymMemory) ScoreValue() uint32 {
	return uint32(g.Score[3])<<24 | uint32(g.Score[2])<<16 | uint32(g.Score[1])<<8 | uint32(g.Score[0])
}

func (g *GymMemory) pieceStat(index int) uint16 {
	return hybridBCD(g.PieceStatsHiLo[index*2], g.PieceStatsHiLo[index*2+1])
}

// StatT, StatJ, ... return the decoded per-piece placement counts.
func (g *GymMemory) StatT() uint16 { return g.pieceStat(0) }
func (g *GymMemory) StatJ() uint16 { return g.pieceStat(1) }
func (g *GymMemory) StatZ() uint16 { return g.pieceStat(2) }
func (g *GymMemory) StatO() uint16 { return g.pieceStat(3) }
func (g *GymMemory) StatS() uint16 { return g.pieceStat(4) }
func (g *GymMemory) StatL() uint16 { return g.pieceStat(5) }
func (g *GymMemory) StatI() uint16 { return g.pieceStat(6) }

// monotonicMillis is injected so tests can drive the time-since-first-
// observation derivation deterministically; production code wires in
// time.Now().UnixMilli.
type monotonicMillis func() int64

// ApplyHardware applies a raw hardware observation to the memory record,
// following the five-step protocol in spec section 4.2.
func (g *GymMemory) ApplyHardware(frame HardwareFrame, nowMs monotonicMillis) error {
	g.applyScalars(frame, nowMs)
	g.PlayfieldBuffer = frame.Playfield
	return g.updatePlayfield()
}

// ApplyHardwareKeepBuffer applies a raw hardware observation's scalar fields
// without touching playfield_buffer, for the compact hardware protocol
// (spec section 4.3.2) whose state frames carry no playfield: the buffer is
// instead patched incrementally by separate chunk frames
// (HardwareLinkReceiver.applyChunk).
func (g *GymMemory) ApplyHardwareKeepBuffer(frame HardwareFrame, nowMs monotonicMillis) error {
	g.applyScalars(frame, nowMs)
	return g.updatePlayfield()
}

func (g *GymMemory) applyScalars(frame HardwareFrame, nowMs monotonicMillis) {
	g.previousGameMode = g.GameMode

	g.GameMode = frame.GameMode
	g.Playstate = frame.Playstate
	g.RowY = frame.RowY
	g.CompletedRows = frame.CompletedRows
	g.LinesHi = frame.LinesHi
	g.LinesLo = frame.LinesLo
	g.Level = frame.Level
	g.Score = frame.Score
	g.NextPiece = frame.NextPiece
	g.CurrentPiece = frame.CurrentPiece
	g.TetriminoX = frame.TetriminoX
	g.TetriminoY = frame.TetriminoY
	g.AutorepeatX = frame.AutorepeatX
	g.FrameCounter = frame.FrameCounter
	g.PieceStatsHiLo = frame.PieceStats

	g.touchTime(nowMs)

	if g.Playstate == playstateSpawnAuto {
		g.SpawnAutorepeatX = g.AutorepeatX
	}

	if g.GameMode == gameModePlaying && g.previousGameMode != gameModePlaying {
		// Known limitation, preserved intentionally: this reset+increment
		// re-fires on every non-4 -> 4 transition, including ones that are
		// not a genuinely new game (see SPEC_FULL.md / DESIGN.md).
		for i := range g.Playfield {
			g.Playfield[i] = BlankTile
		}
		g.GameID++
	}
}

func (g *GymMemory) touchTime(nowMs monotonicMillis) {
	if nowMs == nil {
		return
	}
	now := nowMs()
	if !g.hasObserved {
		g.firstObservedAt = now
		g.hasObserved = true
	}
	elapsed := now - g.firstObservedAt
	if elapsed < 0 {
		elapsed = 0
	}
	g.Time = uint32(elapsed) & maskElapsedMs
}

// updatePlayfield dispatches to the display-field strategy selected by
// playstate, per spec section 4.2.
func (g *GymMemory) updatePlayfield() error {
	switch g.Playstate {
	case playstatePieceFalling, playstateSpawnAuto:
		g.Playfield = g.PlayfieldBuffer
		g.overlayPiece()
	case playstatePieceLocking, playstateSpawn, playstateGameOverA, playstateGameOverB:
		g.Playfield = g.PlayfieldBuffer
		g.overlayPiece()
	case playstateLineClear:
		g.overlayLineClear()
	case playstateNone, playstateEntryDelay, playstateTopOut:
		// no field update
	default:
		return &UnexpectedPlaystateError{Playstate: g.Playstate}
	}
	return nil
}

// overlayPiece stamps the falling piece's four cells into the display
// playfield using the orientation and tile-id lookup tables.
// grounded on original_source/ntcpycon/gymmem.py: overlay_piece
func (g *GymMemory) overlayPiece() {
	if g.CurrentPiece > 0x12 {
		glog.Errorf("overlay_piece called with invalid current_piece id: %d", g.CurrentPiece)
		return
	}
	tile := pieceOrientationToTile[g.CurrentPiece]
	for _, off := range orientationTable[g.CurrentPiece] {
		idx := (int(g.TetriminoY)+off.dy)*10 + int(g.TetriminoX) + off.dx
		if idx >= 0 && idx < 200 {
			g.Playfield[idx] = tile
		}
	}
}

// lineClearRanges maps row_y to the (left, right) blank-range pairs,
// widening symmetrically around columns 4/5.
// grounded on original_source/ntcpycon/gymmem.py: overlay_lineclear
var lineClearRanges = [5][2][2]int{
	{{4, 5}, {5, 6}},
	{{3, 5}, {5, 7}},
	{{2, 5}, {5, 8}},
	{{1, 5}, {5, 9}},
	{{0, 5}, {5, 10}},
}

// overlayLineClear blanks the widening cell ranges of the line-clear
// animation. It is a no-op outside the 4-frame gating window or once row_y
// has exceeded the animation's range.
func (g *GymMemory) overlayLineClear() {
	if g.FrameCounter&3 != 0 {
		return
	}
	if g.RowY > 4 {
		return
	}
	ranges := lineClearRanges[g.RowY]
	for _, row := range g.CompletedRows {
		if row == 0 {
			continue
		}
		offset := int(row) * 10
		for _, r := range ranges {
			for col := r[0]; col < r[1]; col++ {
				g.Playfield[offset+col] = BlankTile
			}
		}
	}
}

// FromGym projects a GymMemory record into the canonical encodable Snapshot,
// resolving raw RAM tile ids to display codes via the tile table.
func FromGym(g *GymMemory) Snapshot {
	snap := ZeroSnapshot()
	snap.GameID = g.GameID
	snap.ElapsedMs = g.Time
	snap.Lines = g.Lines()
	snap.Level = g.Level
	snap.Score = g.ScoreValue() & maskScore
	snap.CurPiece = pieceOrientationPieceID(g.CurrentPiece)
	snap.Preview = pieceOrientationPieceID(g.NextPiece)
	snap.PieceStats = PieceStats{
		T: g.StatT(), J: g.StatJ(), Z: g.StatZ(), O: g.StatO(),
		S: g.StatS(), L: g.StatL(), I: g.StatI(),
	}
	for i, tile := range g.Playfield {
		snap.Playfield[i] = ramToDisplayCode(tile)
	}
	return snap
}

// pieceOrientationToIdentity maps an orientation code [0, 0x12] to the
// 7-valued piece identity (T J Z O S L I = 0..6) used by the wire frame's
// preview/current-piece fields, per the Glossary's 19-entry table.
var pieceOrientationToIdentity = [19]byte{
	PieceT, PieceT, PieceT, PieceT,
	PieceJ, PieceJ, PieceJ, PieceJ,
	PieceZ, PieceZ,
	PieceO,
	PieceS, PieceS,
	PieceL, PieceL, PieceL, PieceL,
	PieceI, PieceI,
}

func pieceOrientationPieceID(orientation byte) byte {
	if orientation > 0x12 {
		return unknownPiece
	}
	return pieceOrientationToIdentity[orientation]
}
