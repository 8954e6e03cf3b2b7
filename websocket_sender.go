// websocket_sender.go - forwards fanned-out frames to an upstream WebSocket
// server (spec section 4.5.1).
//
// grounded on original_source/ntcpycon/websocket_client.py (WebsocketSender)
// for the connect-then-drain-the-queue shape; the read/write goroutine split
// is grounded on IntuitionAmiga-IntuitionEngine/runtime_ipc.go's
// per-connection reader/writer goroutine pair.

package ntcpycon

import (
	"context"
	"crypto/tls"

	"github.com/golang/glog"
	"github.com/gorilla/websocket"
)

// WebSocketSender connects to a single upstream WebSocket endpoint and
// writes every frame delivered on its Fanout mailbox as a binary message,
// until the mailbox closes or ctx is cancelled.
type WebSocketSender struct {
	URL             string
	Fanout          *Fanout
	InsecureSkipTLS bool
}

// NewWebSocketSender returns a sender that will dial url once Run is
// called, registering its own mailbox against fanout.
func NewWebSocketSender(url string, fanout *Fanout, insecureSkipTLS bool) *WebSocketSender {
	return &WebSocketSender{URL: url, Fanout: fanout, InsecureSkipTLS: insecureSkipTLS}
}

// Run dials s.URL, then forwards every frame from its fan-out mailbox as a
// binary WebSocket message until the mailbox closes (clean shutdown) or the
// connection fails (error return, per spec section 7's fatal disposition
// for an upstream sender's connection loss).
func (s *WebSocketSender) Run(ctx context.Context) error {
	dialer := *websocket.DefaultDialer
	if s.InsecureSkipTLS {
		dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	conn, _, err := dialer.DialContext(ctx, s.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	go s.drainReads(conn)

	mailbox := s.Fanout.Register()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-mailbox:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return err
			}
		}
	}
}

// drainReads discards inbound messages so gorilla/websocket's control-frame
// handling (ping/pong, close) keeps running; this sender never expects
// application data from the upstream server.
func (s *WebSocketSender) drainReads(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			glog.V(1).Infof("websocket sender read loop ended: %v", err)
			return
		}
	}
}
