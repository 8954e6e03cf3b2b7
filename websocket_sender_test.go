package ntcpycon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWebSocketSenderForwardsFrames(t *testing.T) {
	received := make(chan []byte, 1)
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		received <- data
		<-r.Context().Done()
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	fanout := NewFanout()
	sender := NewWebSocketSender(url, fanout, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runDone := make(chan error, 1)
	go func() { runDone <- sender.Run(ctx) }()

	frame := Encode(ZeroSnapshot())
	// Registration happens inside Run after the dial completes, so keep
	// republishing until the server reports receipt rather than racing
	// sender goroutine startup with a single Publish call.
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	timeout := time.After(2 * time.Second)

waitForDelivery:
	for {
		select {
		case <-ticker.C:
			fanout.Publish(ctx, frame[:])
		case data := <-received:
			if string(data) != string(frame[:]) {
				t.Fatalf("server received %v, want %v", data, frame[:])
			}
			break waitForDelivery
		case <-timeout:
			t.Fatal("server never received the forwarded frame")
		}
	}

	cancel()
	<-runDone
}
