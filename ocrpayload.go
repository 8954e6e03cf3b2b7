// ocrpayload.go - JSON-shaped OCR observation, normalized into a Snapshot.
//
// grounded on original_source/ntcpycon/nestrisocr.py (NOCRPayload) and
// original_source/ntcpycon/binaryframe.py (BinaryFrame.normalize_*)

package ntcpycon

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/golang/glog"
)

// OCRPayload is the tagged RawObservation variant produced by the
// OCR-over-TCP receiver. All numeric fields except Time (a float number of
// seconds) arrive as optional decimal strings, matching the wire format
// emitted by NESTrisOCR.
type OCRPayload struct {
	GameID  *string `json:"gameid"`
	Preview *string `json:"preview"`
	Lines   *string `json:"lines"`
	Level   *string `json:"level"`
	Score   *string `json:"score"`
	Field   *string `json:"field"`
	Time    *float64 `json:"time"`
	T       *string `json:"T"`
	J       *string `json:"J"`
	Z       *string `json:"Z"`
	O       *string `json:"O"`
	S       *string `json:"S"`
	L       *string `json:"L"`
	I       *string `json:"I"`
}

// DecodeOCRPayload parses a raw JSON byte slice into an OCRPayload.
// grounded on original_source/ntcpycon/binaryframe.py: decode_payload
func DecodeOCRPayload(raw []byte) (OCRPayload, error) {
	var payload OCRPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		glog.Errorf("ocr payload decode failed: %v", err)
		return OCRPayload{}, &MalformedJSONError{Raw: raw, Cause: err}
	}
	return payload, nil
}

// normalizeHexLeadScore rewrites a leading hex digit A-F to its decimal
// two-digit equivalent before the score is parsed, matching the nestrischamps
// quirk documented in original_source/ntcpycon/nestrisocr.py::score.
func normalizeHexLeadScore(score string) string {
	if score == "" {
		return score
	}
	switch score[0] {
	case 'A':
		return "10" + score[1:]
	case 'B':
		return "11" + score[1:]
	case 'C':
		return "12" + score[1:]
	case 'D':
		return "13" + score[1:]
	case 'E':
		return "14" + score[1:]
	case 'F':
		return "15" + score[1:]
	default:
		return score
	}
}

func parseDecimalOr(field *string, mask uint32, sentinel uint32) uint32 {
	if field == nil {
		return sentinel
	}
	value, err := strconv.ParseUint(*field, 10, 64)
	if err != nil {
		glog.V(1).Infof("unexpected numeric OCR field %q: %v", *field, err)
		return sentinel
	}
	return uint32(value) & mask
}

// FromOCR builds the canonical Snapshot directly from an OCR payload,
// without involving GymMemory. grounded on
// original_source/ntcpycon/binaryframe.py: BinaryFrame.set_binary_frame
func FromOCR(payload OCRPayload) Snapshot {
	snap := ZeroSnapshot()

	snap.GameID = uint16(parseDecimalOr(payload.GameID, maskGameID, maskGameID))
	snap.Lines = uint16(parseDecimalOr(payload.Lines, maskLines, maskLines))
	snap.Level = uint8(parseDecimalOr(payload.Level, maskLevel, maskLevel))

	if payload.Score != nil {
		score := normalizeHexLeadScore(strings.ToUpper(*payload.Score))
		snap.Score = parseDecimalOr(&score, maskScore, maskScore)
	}

	if payload.Time != nil {
		ms := int64(*payload.Time * 1000)
		if ms < 0 {
			ms = 0
		}
		snap.ElapsedMs = uint32(ms) & maskElapsedMs
	}

	if payload.Preview != nil {
		if value, ok := pieceNameToValue[*payload.Preview]; ok {
			snap.Preview = value
		} else {
			glog.V(1).Infof("unexpected OCR preview value: %q", *payload.Preview)
		}
	}

	snap.PieceStats = PieceStats{
		T: uint16(parseDecimalOr(payload.T, maskPieceStat, maskPieceStat)),
		J: uint16(parseDecimalOr(payload.J, maskPieceStat, maskPieceStat)),
		Z: uint16(parseDecimalOr(payload.Z, maskPieceStat, maskPieceStat)),
		O: uint16(parseDecimalOr(payload.O, maskPieceStat, maskPieceStat)),
		S: uint16(parseDecimalOr(payload.S, maskPieceStat, maskPieceStat)),
		L: uint16(parseDecimalOr(payload.L, maskPieceStat, maskPieceStat)),
		I: uint16(parseDecimalOr(payload.I, maskPieceStat, maskPieceStat)),
	}

	if payload.Field != nil && len(*payload.Field) == 200 {
		for i := 0; i < 200; i++ {
			digit := (*payload.Field)[i]
			if digit < '0' || digit > '3' {
				glog.V(1).Infof("unexpected OCR field digit %q at cell %d", digit, i)
				continue
			}
			snap.Playfield[i] = digit - '0'
		}
	} else if payload.Field != nil {
		glog.Errorf("OCR field length %d != 200, leaving playfield blank", len(*payload.Field))
	}

	return snap
}
