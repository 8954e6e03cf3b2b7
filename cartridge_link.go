// cartridge_link.go - abstraction over the external hardware-link library,
// treated per spec section 1 as an opaque blocking write_fifo(bytes) /
// receive_data(n) -> bytes pair, executed on a worker thread (worker.go).

package ntcpycon

import "context"

// CartridgeLink is the minimal surface this bridge needs from the hardware
// flasher's link library. Real implementations wrap a blocking USB/serial
// FIFO; test implementations can be driven with fixed response sequences.
type CartridgeLink interface {
	WriteFIFO(data []byte) error
	ReceiveData(n int) ([]byte, error)
}

// pollOnce issues a single command/response exchange against link, each
// half run on its own worker goroutine so ctx cancellation never has to
// interrupt the underlying blocking call.
func pollOnce(ctx context.Context, link CartridgeLink, command byte, responseLen int) ([]byte, error) {
	if _, err := runBlocking(ctx, func() (struct{}, error) {
		return struct{}{}, link.WriteFIFO([]byte{command})
	}); err != nil {
		return nil, err
	}
	return runBlocking(ctx, func() ([]byte, error) {
		return link.ReceiveData(responseLen)
	})
}
