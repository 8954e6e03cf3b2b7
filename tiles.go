// tiles.go - RAM tile ids, piece orientation tables and piece name lookups.

package ntcpycon

// Raw RAM tile ids as they appear in the NES playfield VRAM dump. Any other
// byte value observed in a raw dump is an "unknown" tile and maps to display
// code 1, same as a T tile.
const (
	tileEmpty = 0xEF
	tileGray  = 0x7B
	tileWhite = 0x7C
	tileBlack = 0x7D

	// BlankTile is written into the display playfield by overlay_lineclear.
	BlankTile byte = tileEmpty
)

// ramToDisplayCode maps a raw RAM tile id to its 2-bit display code.
// grounded on original_source/ntcpycon/gymmem.py: RAM_TO_NTC_TILES
// (a defaultdict(lambda: 1) with three overrides).
func ramToDisplayCode(tile byte) byte {
	switch tile {
	case tileEmpty:
		return 0
	case tileGray:
		return 1
	case tileBlack:
		return 2
	case tileWhite:
		return 3
	default:
		return 1
	}
}

// pieceOrientationToTile maps a piece-orientation code [0, 0x12] to the raw
// RAM tile id written into the playfield by overlay_piece.
// grounded on original_source/ntcpycon/gymmem.py: PIECE_ORIENTATION_TO_TILE_ID
var pieceOrientationToTile = [19]byte{
	tileGray, tileGray, tileGray, tileGray,
	tileBlack, tileBlack, tileBlack, tileBlack,
	tileWhite, tileWhite,
	tileGray,
	tileBlack, tileBlack,
	tileWhite, tileWhite, tileWhite, tileWhite,
	tileGray, tileGray,
}

type cellOffset struct {
	dx, dy int
}

// orientationTable maps a piece-orientation code to the four cell offsets,
// relative to (tetrimino_x, tetrimino_y), that the piece occupies.
// grounded on original_source/ntcpycon/gymmem.py: ORIENTATION_TABLE
var orientationTable = [19][4]cellOffset{
	{{-1, 0}, {0, 0}, {1, 0}, {0, -1}},   // T up
	{{0, -1}, {0, 0}, {1, 0}, {0, 1}},    // T right
	{{-1, 0}, {0, 0}, {1, 0}, {0, 1}},    // T down (spawn)
	{{0, -1}, {-1, 0}, {0, 0}, {0, 1}},   // T left
	{{0, -1}, {0, 0}, {-1, 1}, {0, 1}},   // J left
	{{-1, -1}, {-1, 0}, {0, 0}, {1, 0}},  // J up
	{{0, -1}, {1, -1}, {0, 0}, {0, 1}},   // J right
	{{-1, 0}, {0, 0}, {1, 0}, {1, 1}},    // J down (spawn)
	{{-1, 0}, {0, 0}, {0, 1}, {1, 1}},    // Z horizontal (spawn)
	{{1, -1}, {0, 0}, {1, 0}, {0, 1}},    // Z vertical
	{{-1, 0}, {0, 0}, {-1, 1}, {0, 1}},   // O (spawn)
	{{0, 0}, {1, 0}, {-1, 1}, {0, 1}},    // S horizontal (spawn)
	{{0, -1}, {0, 0}, {1, 0}, {1, 1}},    // S vertical
	{{0, -1}, {0, 0}, {0, 1}, {1, 1}},    // L right
	{{-1, 0}, {0, 0}, {1, 0}, {-1, 1}},   // L down (spawn)
	{{-1, -1}, {0, -1}, {0, 0}, {0, 1}},  // L left
	{{1, -1}, {-1, 0}, {0, 0}, {1, 0}},   // L up
	{{0, -2}, {0, -1}, {0, 0}, {0, 1}},   // I vertical
	{{-2, 0}, {-1, 0}, {0, 0}, {1, 0}},   // I horizontal (spawn)
}

// Piece identity (not orientation) values used by the wire frame's
// current/preview piece fields and piece-stat ordering.
const (
	PieceT = 0
	PieceJ = 1
	PieceZ = 2
	PieceO = 3
	PieceS = 4
	PieceL = 5
	PieceI = 6
)

// pieceNameToValue maps the single-letter piece names used by OCR payloads.
var pieceNameToValue = map[string]byte{
	"T": PieceT,
	"J": PieceJ,
	"Z": PieceZ,
	"O": PieceO,
	"S": PieceS,
	"L": PieceL,
	"I": PieceI,
}
