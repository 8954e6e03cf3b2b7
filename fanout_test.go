package ntcpycon

import (
	"context"
	"testing"
	"time"
)

func TestFanoutDeliversToAllRegistrants(t *testing.T) {
	f := NewFanout()
	a := f.Register()
	b := f.Register()

	ctx := context.Background()
	if err := f.Publish(ctx, []byte{1, 2, 3}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	for name, mailbox := range map[string]<-chan []byte{"a": a, "b": b} {
		select {
		case frame := <-mailbox:
			if len(frame) != 3 {
				t.Errorf("%s received %v, want len 3", name, frame)
			}
		case <-time.After(time.Second):
			t.Fatalf("%s never received a frame", name)
		}
	}
}

func TestFanoutCloseEndsMailboxes(t *testing.T) {
	f := NewFanout()
	mailbox := f.Register()
	f.Close()

	_, ok := <-mailbox
	if ok {
		t.Fatal("expected mailbox to be closed")
	}
}

func TestFanoutPublishBlocksOnFullMailbox(t *testing.T) {
	f := NewFanout()
	mailbox := f.Register()

	for i := 0; i < mailboxCapacity; i++ {
		if err := f.Publish(context.Background(), []byte{byte(i)}); err != nil {
			t.Fatalf("Publish %d: %v", i, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := f.Publish(ctx, []byte{0xFF})
	if err == nil {
		t.Fatal("expected Publish to block until cancelled on a full mailbox")
	}

	<-mailbox // drain one slot
}
