// capture_file_sender.go - writes fanned-out frames to a gzip-compressed
// capture file back to back, relying on each BinaryFrame payload's own
// version-keyed length (FrameSize) for framing on replay (spec section
// 4.5.2).
//
// grounded on original_source/ntcpycon/file_handler.py (FileWriter):
// buffers writes in memory and flushes every 500 frames, plus on close, to
// bound syscall overhead rather than flushing every frame.

package ntcpycon

import (
	"compress/gzip"
	"context"
	"os"
)

// flushEvery is the frame count at which CaptureFileSender flushes its
// buffered writes to disk.
const flushEvery = 500

// CaptureFileSender writes every frame delivered on its Fanout mailbox to a
// gzip-compressed file at Path, until the mailbox closes or ctx is
// cancelled.
type CaptureFileSender struct {
	Path      string
	Fanout    *Fanout
	Overwrite bool

	mailbox <-chan []byte
}

// NewCaptureFileSender returns a sender that will create Path on Run,
// failing with FileExistsError if it already exists and overwrite is false.
// It registers its mailbox against fanout here, so frames published before
// Run starts are queued for it rather than missed.
func NewCaptureFileSender(path string, fanout *Fanout, overwrite bool) *CaptureFileSender {
	return &CaptureFileSender{Path: path, Fanout: fanout, Overwrite: overwrite, mailbox: fanout.Register()}
}

// Run opens s.Path and writes every frame from its fan-out mailbox until
// the mailbox closes, flushing the gzip writer every flushEvery frames and
// once more before returning.
func (s *CaptureFileSender) Run(ctx context.Context) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !s.Overwrite {
		if _, err := os.Stat(s.Path); err == nil {
			return &FileExistsError{Path: s.Path}
		}
		flags = os.O_CREATE | os.O_WRONLY | os.O_EXCL
	}

	file, err := os.OpenFile(s.Path, flags, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	defer gz.Close()

	mailbox := s.mailbox
	if mailbox == nil {
		mailbox = s.Fanout.Register()
	}
	count := 0
	for {
		select {
		case <-ctx.Done():
			gz.Flush()
			return ctx.Err()
		case frame, ok := <-mailbox:
			if !ok {
				return gz.Close()
			}
			if _, err := gz.Write(frame); err != nil {
				return err
			}
			count++
			if count%flushEvery == 0 {
				if err := gz.Flush(); err != nil {
					return err
				}
			}
		}
	}
}
