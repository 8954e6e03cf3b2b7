// config.go - YAML bridge configuration: one receiver, one or more
// senders (spec section 4.2).
//
// grounded on original_source/ntcpycon/config.py (get_receiver_and_senders,
// get_senders, get_receiver): the same three receiver/sender shapes,
// decoded here with gopkg.in/yaml.v3 instead of PyYAML.

package ntcpycon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root of a bridge configuration file.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Receiver ReceiverConfig `yaml:"receiver"`
	Senders  SendersConfig  `yaml:"senders"`
}

// ReceiverConfig names exactly one of its non-nil fields as the bridge's
// single observation source.
type ReceiverConfig struct {
	OCRServer     *OCRServerConfig     `yaml:"ocr_server"`
	EDLink        *EDLinkConfig        `yaml:"edlink"`
	LocalFile     *LocalFileConfig     `yaml:"local_file"`
	PacketCapture *PacketCaptureConfig `yaml:"packet_capture"`
}

// OCRServerConfig configures OCRTCPReceiver.
type OCRServerConfig struct {
	Port int `yaml:"port"`
}

// EDLinkConfig configures HardwareLinkReceiver.
type EDLinkConfig struct {
	Launch  bool `yaml:"launch"`
	Compact bool `yaml:"compact"`
}

// LocalFileConfig configures FileReplayReceiver, and doubles as the target
// for CaptureFileSender's local_file sender variant.
type LocalFileConfig struct {
	Filename  string `yaml:"filename"`
	Overwrite bool   `yaml:"overwrite"`
}

// PacketCaptureConfig configures CaptureReplayReceiver.
type PacketCaptureConfig struct {
	Filename string `yaml:"filename"`
	Dst      string `yaml:"dst"`
	Length   int    `yaml:"length"`
}

// SendersConfig lists every configured sender; at least one of Websockets
// or LocalFile must be present.
type SendersConfig struct {
	Websockets []WebSocketSenderConfig `yaml:"websockets"`
	LocalFile  *LocalFileConfig        `yaml:"local_file"`
}

// WebSocketSenderConfig configures one WebSocketSender instance.
type WebSocketSenderConfig struct {
	URI      string `yaml:"uri"`
	NoVerify bool   `yaml:"no_verify"`
}

// LoadConfig reads and parses the YAML bridge configuration at path.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("unable to load config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("unable to parse config: %w", err)
	}
	return cfg, nil
}

// BuildSenders constructs every sender named in cfg.Senders against fanout
// (the capture-file sender registers its mailbox here; a WebSocket sender
// registers once its Run has dialed). It returns an error if no
// sender is configured, matching the fatal-at-startup disposition in spec
// section 7.
func BuildSenders(cfg SendersConfig, fanout *Fanout) ([]Sender, error) {
	var senders []Sender

	for _, ws := range cfg.Websockets {
		if ws.URI == "" {
			return nil, fmt.Errorf("uri must be specified for websocket sender")
		}
		senders = append(senders, NewWebSocketSender(ws.URI, fanout, ws.NoVerify))
	}

	if cfg.LocalFile != nil {
		if cfg.LocalFile.Filename == "" {
			return nil, fmt.Errorf("filename must be specified for local_file sender")
		}
		senders = append(senders, NewCaptureFileSender(cfg.LocalFile.Filename, fanout, cfg.LocalFile.Overwrite))
	}

	if len(senders) == 0 {
		return nil, fmt.Errorf("at least one sender must be specified in config file")
	}
	return senders, nil
}

// BuildReceiver constructs the single receiver named in cfg, in the same
// precedence order as the original implementation: ocr_server, then
// edlink, then local_file, then packet_capture.
func BuildReceiver(cfg ReceiverConfig, fanout *Fanout) (Receiver, error) {
	switch {
	case cfg.OCRServer != nil:
		if cfg.OCRServer.Port == 0 {
			return nil, fmt.Errorf("port must be specified to start tcp server")
		}
		return NewOCRTCPReceiver(cfg.OCRServer.Port, fanout), nil

	case cfg.EDLink != nil:
		link, err := newEDLinkCartridgeLink(cfg.EDLink.Launch)
		if err != nil {
			return nil, err
		}
		return NewHardwareLinkReceiver(link, fanout, cfg.EDLink.Compact), nil

	case cfg.LocalFile != nil:
		if cfg.LocalFile.Filename == "" {
			return nil, fmt.Errorf("filename must be specified to read local_file")
		}
		file, err := os.Open(cfg.LocalFile.Filename)
		if err != nil {
			return nil, err
		}
		return NewFileReplayReceiver(file, fanout), nil

	case cfg.PacketCapture != nil:
		pc := cfg.PacketCapture
		if pc.Filename == "" {
			return nil, fmt.Errorf("filename must be specified to read packet_capture")
		}
		if pc.Dst == "" {
			return nil, fmt.Errorf("dst must be specified to read packet_capture")
		}
		if pc.Length == 0 {
			return nil, fmt.Errorf("length must be specified to read packet_capture")
		}
		source, err := newFileCapturePacketSource(pc.Filename)
		if err != nil {
			return nil, err
		}
		return NewCaptureReplayReceiver(source, fanout, pc.Dst, pc.Length), nil
	}

	return nil, fmt.Errorf("at least one receiver must be specified in config file")
}
