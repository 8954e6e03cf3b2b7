// hardware_link_receiver.go - polls the cartridge flasher's hardware link
// and publishes a BinaryFrame v3 per poll (spec section 4.3.2).
//
// grounded on original_source/ntcpycon/edlink.py (edlink): the 0x42/0xED
// standard poll loop and frame-counter drop detection are a direct
// translation of that function's while loop into a cancellable Run method.

package ntcpycon

import (
	"context"
	"encoding/binary"

	"github.com/golang/glog"
)

const (
	cmdStandard = 0x42
	cmdCompact  = 0x43

	compactFrameSize           = 0x40
	compactFrameCounterOffset  = 2
	compactFrameTypeOffset     = 8
	compactVramRowOffset       = 9
	compactChunkDataOffset     = 10
	compactFooterLen           = 2
)

// HardwareLinkReceiver polls a CartridgeLink in either the standard or
// compact protocol and drives a GymMemory + Fanout from the responses.
type HardwareLinkReceiver struct {
	Link    CartridgeLink
	Fanout  *Fanout
	Compact bool
	Now     monotonicMillis

	gym         *GymMemory
	lastCounter uint16
	haveLast    bool
}

// NewHardwareLinkReceiver returns a receiver ready to poll link.
func NewHardwareLinkReceiver(link CartridgeLink, fanout *Fanout, compact bool) *HardwareLinkReceiver {
	return &HardwareLinkReceiver{
		Link:    link,
		Fanout:  fanout,
		Compact: compact,
		Now:     defaultMonotonicMillis,
		gym:     NewGymMemory(),
	}
}

// Run polls the link in a tight loop until ctx is cancelled, the link
// returns an error, the reducer reports an UnexpectedPlaystateError (which
// fails the receiver task per spec section 7's disposition table), or a
// response arrives with the wrong length, which Run treats as the link
// closing and answers by returning nil.
func (r *HardwareLinkReceiver) Run(ctx context.Context) error {
	suppressor := NewIdleSuppressor()
	command := byte(cmdStandard)
	responseLen := StandardFrameSize
	if r.Compact {
		command = cmdCompact
		responseLen = compactFrameSize
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		response, err := pollOnce(ctx, r.Link, command, responseLen)
		if err != nil {
			return err
		}
		if len(response) != responseLen {
			return nil // link closed / EOF
		}

		if r.Compact {
			if err := r.handleCompact(ctx, suppressor, response); err != nil {
				return err
			}
			continue
		}
		if err := r.handleStandard(ctx, suppressor, response); err != nil {
			return err
		}
	}
}

func (r *HardwareLinkReceiver) checkFrameCounter(fc uint16) {
	if r.haveLast {
		expected := r.lastCounter + 1
		if expected != fc {
			glog.Warningf("%v", &DroppedFramesError{From: expected, To: fc})
		}
	}
	r.lastCounter = fc
	r.haveLast = true
}

func (r *HardwareLinkReceiver) handleStandard(ctx context.Context, suppressor *IdleSuppressor, response []byte) error {
	frame, err := DecodeHardwareFrame(response)
	if err != nil {
		return err
	}
	r.checkFrameCounter(frame.FrameCounter)

	if err := r.gym.ApplyHardware(frame, r.Now); err != nil {
		return err
	}
	return publishFrame(ctx, r.Fanout, suppressor, FromGym(r.gym))
}

func (r *HardwareLinkReceiver) handleCompact(ctx context.Context, suppressor *IdleSuppressor, response []byte) error {
	header := binary.LittleEndian.Uint16(response[0:2])
	footer := binary.LittleEndian.Uint16(response[compactFrameSize-compactFooterLen:])
	if header^footer != 0xFFFF {
		glog.Warningf("%v", &InvalidHeaderXorError{Header: header, Footer: footer})
		return nil
	}

	fc := binary.LittleEndian.Uint16(response[compactFrameCounterOffset : compactFrameCounterOffset+2])
	r.checkFrameCounter(fc)

	frameType := response[compactFrameTypeOffset]
	if frameType == 1 {
		r.applyChunk(response)
		return nil
	}

	frame, err := decodeCompactStateFrame(response, fc)
	if err != nil {
		return err
	}
	if err := r.gym.ApplyHardwareKeepBuffer(frame, r.Now); err != nil {
		return err
	}
	return publishFrame(ctx, r.Fanout, suppressor, FromGym(r.gym))
}

// applyChunk patches a vram-row-indexed slice of playfield_buffer from a
// compact playfield-chunk frame, per SPEC_FULL.md section 4.3.
func (r *HardwareLinkReceiver) applyChunk(response []byte) {
	const chunkTiles = 50
	vramRow := response[compactVramRowOffset]
	body := response[compactChunkDataOffset : compactChunkDataOffset+chunkTiles]

	start := int(vramRow) * 10
	for i, tile := range body {
		idx := start + i
		if idx < 0 || idx >= len(r.gym.PlayfieldBuffer) {
			break
		}
		r.gym.PlayfieldBuffer[idx] = tile
	}
}

// decodeCompactStateFrame decodes a compact state frame's body (everything
// but the playfield) into a HardwareFrame, leaving Playfield zero. The
// caller applies it with ApplyHardwareKeepBuffer, so a prior
// chunk-accumulated PlayfieldBuffer survives.
func decodeCompactStateFrame(response []byte, fc uint16) (HardwareFrame, error) {
	if len(response) != compactFrameSize {
		return HardwareFrame{}, &ShortReadError{Want: compactFrameSize, Got: len(response)}
	}
	var f HardwareFrame
	f.GameMode = response[4]
	f.Playstate = response[5]
	f.CurrentPiece = response[6]
	f.NextPiece = response[7]
	f.FrameCounter = fc

	body := response[compactChunkDataOffset : compactFrameSize-compactFooterLen]
	if len(body) >= 29 {
		f.TetriminoX = body[0]
		f.TetriminoY = body[1]
		f.AutorepeatX = body[2]
		f.RowY = body[3]
		f.LinesHi = body[4]
		f.LinesLo = body[5]
		f.Level = body[6]
		copy(f.Score[:], body[7:11])
		copy(f.CompletedRows[:], body[11:15])
		copy(f.PieceStats[:], body[15:29])
	}
	return f, nil
}

func defaultMonotonicMillis() int64 {
	return nowMillis()
}
