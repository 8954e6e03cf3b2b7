// hardwareframe.go - raw hardware memory dump, as read from the cartridge
// flasher's standard protocol response.
//
// grounded on original_source/ntcpycon/edlink.py's header comment, which
// lays out the exact field order and the 0xED (237-byte) total response
// size the standard CMD_SEND_STATS (0x42) protocol returns.

package ntcpycon

import "encoding/binary"

// StandardFrameSize is the fixed response length for the standard hardware
// link protocol (command byte 0x42).
const StandardFrameSize = 0xED

// standardFrameCounterOffset is where the little-endian frame counter lives
// in a standard hardware response, per spec section 6.
const standardFrameCounterOffset = 18

// HardwareFrame is the RawObservation variant produced by polling the
// cartridge flasher over its standard protocol. Field offsets are documented
// in SPEC_FULL.md section 4.3.
type HardwareFrame struct {
	GameMode       byte
	Playstate      byte
	RowY           byte
	CompletedRows  [4]byte
	LinesHi        byte
	LinesLo        byte
	Level          byte
	Score          [4]byte // little-endian
	NextPiece      byte
	CurrentPiece   byte
	TetriminoX     byte
	TetriminoY     byte
	FrameCounter   uint16
	AutorepeatX    byte
	PieceStats     [14]byte // hi/lo BCD pairs, T J Z O S L I
	Playfield      [200]byte
}

// DecodeHardwareFrame parses a standard-protocol response body (the 0xED
// bytes returned by the flasher, footer included) into a HardwareFrame.
func DecodeHardwareFrame(data []byte) (HardwareFrame, error) {
	if len(data) != StandardFrameSize {
		return HardwareFrame{}, &ShortReadError{Want: StandardFrameSize, Got: len(data)}
	}

	var f HardwareFrame
	f.GameMode = data[0]
	f.Playstate = data[1]
	f.RowY = data[2]
	copy(f.CompletedRows[:], data[3:7])
	f.LinesHi = data[7]
	f.LinesLo = data[8]
	f.Level = data[9]
	copy(f.Score[:], data[10:14])
	f.NextPiece = data[14]
	f.CurrentPiece = data[15]
	f.TetriminoX = data[16]
	f.TetriminoY = data[17]
	f.FrameCounter = binary.LittleEndian.Uint16(data[standardFrameCounterOffset : standardFrameCounterOffset+2])
	f.AutorepeatX = data[20]
	copy(f.PieceStats[:], data[21:35])
	copy(f.Playfield[:], data[35:235])
	return f, nil
}
