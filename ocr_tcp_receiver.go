// ocr_tcp_receiver.go - OCR-over-TCP receiver (spec section 4.3.1).
//
// grounded on original_source/ntcpycon/tcp_server.py (TCPServer) for the
// length-prefix/resync framing and on
// IntuitionAmiga-IntuitionEngine/runtime_ipc.go for the accept-loop-plus-
// per-connection-goroutine shape.

package ntcpycon

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"strconv"

	"github.com/golang/glog"
)

// DefaultOCRPort is the default OCR-over-TCP listen port.
const DefaultOCRPort = 3338

// resyncMaxLength is the length-prefix threshold at or above which a frame
// is treated as a desynchronized stream rather than a real payload length.
const resyncMaxLength = 1000

// OCRTCPReceiver listens for NESTrisOCR clients and publishes a BinaryFrame
// v3 for every well-formed JSON observation received.
type OCRTCPReceiver struct {
	Port   int
	Fanout *Fanout

	listener net.Listener
}

// NewOCRTCPReceiver returns a receiver bound to port (DefaultOCRPort if 0).
func NewOCRTCPReceiver(port int, fanout *Fanout) *OCRTCPReceiver {
	if port == 0 {
		port = DefaultOCRPort
	}
	return &OCRTCPReceiver{Port: port, Fanout: fanout}
}

// Run listens on r.Port and serves OCR clients until ctx is cancelled.
func (r *OCRTCPReceiver) Run(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", portAddr(r.Port))
	if err != nil {
		return err
	}
	r.listener = listener

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	suppressor := NewIdleSuppressor()
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		go r.handleConn(ctx, conn, suppressor)
	}
}

func portAddr(port int) string {
	return ":" + strconv.Itoa(port)
}

func (r *OCRTCPReceiver) handleConn(ctx context.Context, conn net.Conn, suppressor *IdleSuppressor) {
	defer conn.Close()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		payload, err := readOCRFrame(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				glog.Errorf("ocr tcp read failed: %v", err)
			}
			return
		}
		if payload == nil {
			continue // resynchronized, no complete payload yet
		}

		ocr, err := DecodeOCRPayload(payload)
		if err != nil {
			glog.Errorf("dropping frame: %v", err)
			continue
		}

		snapshot := FromOCR(ocr)
		if err := publishFrame(ctx, r.Fanout, suppressor, snapshot); err != nil {
			glog.Errorf("publish failed: %v", err)
			return
		}
	}
}

// readOCRFrame reads one length-prefixed OCR JSON payload from conn. A nil,
// nil return means the stream was resynchronized and the caller should read
// again. grounded on original_source/ntcpycon/tcp_server.py: read_handler
func readOCRFrame(conn net.Conn) ([]byte, error) {
	var lengthBuf [4]byte
	if _, err := io.ReadFull(conn, lengthBuf[:]); err != nil {
		return nil, err
	}
	length := binary.LittleEndian.Uint32(lengthBuf[:])

	if length >= resyncMaxLength {
		glog.Errorf("payload length of %d possibly incorrect, flushing buffer", length)
		if err := drainUntilShort(conn); err != nil {
			return nil, err
		}
		return nil, nil
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(conn, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// drainUntilShort discards bytes from conn, 1000 at a time, until a read
// returns fewer bytes than requested (or an error), per spec section 4.3.1
// step 2.
func drainUntilShort(conn net.Conn) error {
	buf := make([]byte, resyncMaxLength)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return err
		}
		if n < resyncMaxLength {
			return nil
		}
	}
}
