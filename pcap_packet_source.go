// pcap_packet_source.go - reads a stored packet capture file and yields its
// TCP payloads as CapturedPacket values for CaptureReplayReceiver.
//
// grounded on original_source/ntcpycon/pcap_replay.py (PCapReplay), which
// reads a capture with scapy's rdpcap; gopacket/pcapgo is the Go ecosystem
// equivalent for offline capture files and appears in the retrieved pack's
// manifests (e.g. banshee-data-velocity.report, xtaci-kcptun).

package ntcpycon

import (
	"context"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// filePacketSource adapts a pcapgo.Reader into the PacketSource interface.
type filePacketSource struct {
	source *gopacket.PacketSource
}

// newFileCapturePacketSource opens path as a pcap capture file.
func newFileCapturePacketSource(path string) (PacketSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	reader, err := pcapgo.NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &filePacketSource{source: gopacket.NewPacketSource(reader, layers.LinkTypeEthernet)}, nil
}

// Next returns the next captured packet's destination IP and TCP payload.
// Non-TCP/IP packets are skipped transparently.
func (s *filePacketSource) Next(ctx context.Context) (CapturedPacket, error) {
	for {
		select {
		case <-ctx.Done():
			return CapturedPacket{}, ctx.Err()
		default:
		}

		packet, err := s.source.NextPacket()
		if err != nil {
			if err == io.EOF {
				return CapturedPacket{}, errPacketSourceDone
			}
			return CapturedPacket{}, err
		}

		ipLayer := packet.Layer(layers.LayerTypeIPv4)
		tcpLayer := packet.Layer(layers.LayerTypeTCP)
		if ipLayer == nil || tcpLayer == nil {
			continue
		}
		ip, _ := ipLayer.(*layers.IPv4)
		tcp, _ := tcpLayer.(*layers.TCP)
		if len(tcp.Payload) == 0 {
			continue
		}

		return CapturedPacket{DestHost: ip.DstIP.String(), Payload: tcp.Payload}, nil
	}
}
