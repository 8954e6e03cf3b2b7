package ntcpycon

import (
	"encoding/binary"
	"net"
	"testing"
	"time"
)

func TestReadOCRFrameResync(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		var lengthPrefix [4]byte
		binary.LittleEndian.PutUint32(lengthPrefix[:], 1000)
		client.Write(lengthPrefix[:])
		client.Write(make([]byte, 1200))

		binary.LittleEndian.PutUint32(lengthPrefix[:], 5)
		client.Write(lengthPrefix[:])
		client.Write([]byte(`{"T":"1"}`)[:5])
	}()

	server.SetDeadline(time.Now().Add(5 * time.Second))

	payload, err := readOCRFrame(server)
	if err != nil {
		t.Fatalf("readOCRFrame (resync pass): %v", err)
	}
	if payload != nil {
		t.Fatalf("expected nil payload on the oversized-length pass, got %q", payload)
	}

	payload, err = readOCRFrame(server)
	if err != nil {
		t.Fatalf("readOCRFrame (valid pass): %v", err)
	}
	if string(payload) != `{"T":` {
		t.Fatalf("payload = %q, want %q", payload, `{"T":`)
	}
}

func TestPortAddr(t *testing.T) {
	if got := portAddr(3338); got != ":3338" {
		t.Errorf("portAddr(3338) = %q, want %q", got, ":3338")
	}
}
