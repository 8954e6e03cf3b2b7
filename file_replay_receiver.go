// file_replay_receiver.go - replays a gzip-compressed capture file of
// previously recorded BinaryFrame payloads (spec section 4.3.4).
//
// grounded on original_source/ntcpycon/file_handler.py (FileReader): reads
// a version nibble to determine each frame's length, then reads exactly
// that many bytes and republishes them unmodified.

package ntcpycon

import (
	"compress/gzip"
	"context"
	"io"
)

// FileReplayReceiver reads a sequence of variably-sized BinaryFrame
// payloads out of a gzip-compressed capture file and republishes each one
// to a Fanout, pacing itself against ctx cancellation between frames.
type FileReplayReceiver struct {
	Source io.Reader
	Fanout *Fanout
}

// NewFileReplayReceiver returns a receiver that reads frames from source,
// which must yield gzip-compressed capture bytes.
func NewFileReplayReceiver(source io.Reader, fanout *Fanout) *FileReplayReceiver {
	return &FileReplayReceiver{Source: source, Fanout: fanout}
}

// Run decompresses r.Source and republishes every frame it contains until
// EOF or ctx cancellation, closing r.Fanout in either case so downstream
// senders observe the stream end.
func (r *FileReplayReceiver) Run(ctx context.Context) error {
	defer r.Fanout.Close()

	gz, err := gzip.NewReader(r.Source)
	if err != nil {
		return err
	}
	defer gz.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var firstByte [1]byte
		if _, err := io.ReadFull(gz, firstByte[:]); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		version := PeekVersion(firstByte[0])
		size, ok := FrameSize(version)
		if !ok {
			return errUnknownFrameVersion
		}

		frame := make([]byte, size)
		frame[0] = firstByte[0]
		if n, err := io.ReadFull(gz, frame[1:]); err != nil {
			return &ShortReadError{Want: size, Got: 1 + n}
		}

		if err := r.Fanout.Publish(ctx, frame); err != nil {
			return err
		}
	}
}

var errUnknownFrameVersion = &unknownFrameVersionError{}

type unknownFrameVersionError struct{}

func (*unknownFrameVersionError) Error() string { return "unrecognized BinaryFrame version nibble" }
