// edlink_cartridge_link.go - CartridgeLink implementation over a USB
// serial connection to an EverDrive-N8-family flash cart.
//
// grounded on original_source/ntcpycon/edlink.py (edlinkn8.Everdrive):
// write_fifo/receive_data there are themselves thin wrappers over a USB
// serial link; go.bug.st/serial (seen in the pack's TheQueenIsDead-huskki,
// banshee-data-velocity.report, and KeesTucker-huskki manifests) is this
// bridge's serial library.

package ntcpycon

import (
	"time"

	"go.bug.st/serial"
)

// everdriveBaudRate matches the EverDrive-N8 USB-serial bridge's fixed
// rate.
const everdriveBaudRate = 460800

// edlinkCartridgeLink drives an EverDrive-N8 over its USB serial port.
type edlinkCartridgeLink struct {
	port serial.Port
}

// newEDLinkCartridgeLink opens the first serial port the system lists; it
// does not check that the port is an EverDrive. launch is accepted for parity with the original
// configuration surface; game-load-on-connect is out of scope for this
// bridge (spec Non-goals: no ROM flashing).
func newEDLinkCartridgeLink(launch bool) (CartridgeLink, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, err
	}
	if len(ports) == 0 {
		return nil, &noSerialPortError{}
	}

	mode := &serial.Mode{BaudRate: everdriveBaudRate}
	port, err := serial.Open(ports[0], mode)
	if err != nil {
		return nil, err
	}
	port.SetReadTimeout(2 * time.Second)

	_ = launch
	return &edlinkCartridgeLink{port: port}, nil
}

func (l *edlinkCartridgeLink) WriteFIFO(data []byte) error {
	_, err := l.port.Write(data)
	return err
}

func (l *edlinkCartridgeLink) ReceiveData(n int) ([]byte, error) {
	buf := make([]byte, n)
	read := 0
	for read < n {
		count, err := l.port.Read(buf[read:])
		if err != nil {
			return nil, err
		}
		if count == 0 {
			break
		}
		read += count
	}
	return buf[:read], nil
}

type noSerialPortError struct{}

func (*noSerialPortError) Error() string { return "no serial port available for edlink cartridge" }
