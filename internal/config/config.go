package config

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/cqc/internal/protocol"
)

const (
	DefaultAppID           uint16 = 1
	DefaultMaxMessageBytes uint32 = 64 * 1024

	// MinMessageBytes is the largest fixed body a session must accept:
	// the qubit id plus entanglement info of an EPR-OK.
	MinMessageBytes = protocol.QubitHeaderLen + protocol.EntInfoHeaderLen
)

// SessionConfig is the client-side view of one CQC session: the
// application id stamped on every request and the peers SEND/EPR address.
type SessionConfig struct {
	AppID  uint16       `toml:"app_id"`
	Limits LimitsConfig `toml:"limits"`
	Peers  []Peer       `toml:"peers"`
}

type LimitsConfig struct {
	MaxMessageBytes uint32 `toml:"max_message_bytes"`
}

type Peer struct {
	Name  string `toml:"name"`
	AppID uint16 `toml:"app_id"`
	Node  string `toml:"node"`
	Port  uint16 `toml:"port"`
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		AppID:  DefaultAppID,
		Limits: LimitsConfig{MaxMessageBytes: DefaultMaxMessageBytes},
	}
}

func LoadSessionConfig(path string) (SessionConfig, error) {
	cfg := DefaultSessionConfig()

	var raw SessionConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return SessionConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return SessionConfig{}, fmt.Errorf("config parse failed (%s): unknown key %s", path, undecoded[0])
	}

	if meta.IsDefined("app_id") {
		cfg.AppID = raw.AppID
	}
	if meta.IsDefined("limits", "max_message_bytes") && raw.Limits.MaxMessageBytes > 0 {
		cfg.Limits.MaxMessageBytes = raw.Limits.MaxMessageBytes
	}
	cfg.Peers = raw.Peers

	if err := ValidateSessionConfig(cfg); err != nil {
		return SessionConfig{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func ValidateSessionConfig(cfg SessionConfig) error {
	if cfg.Limits.MaxMessageBytes < MinMessageBytes {
		return fmt.Errorf("limits.max_message_bytes must be at least %d", MinMessageBytes)
	}
	seen := make(map[string]struct{}, len(cfg.Peers))
	for i, p := range cfg.Peers {
		if err := ValidatePeer(p); err != nil {
			return fmt.Errorf("peer[%d] invalid: %w", i, err)
		}
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if _, dup := seen[key]; dup {
			return fmt.Errorf("peer[%d] invalid: duplicate name %q", i, p.Name)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func ValidatePeer(p Peer) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	addr, err := netip.ParseAddr(strings.TrimSpace(p.Node))
	if err != nil {
		return fmt.Errorf("node %q: %w", p.Node, err)
	}
	if !addr.Is4() {
		return fmt.Errorf("node %q is not an IPv4 address", p.Node)
	}
	if p.Port == 0 {
		return fmt.Errorf("port is required")
	}
	return nil
}

// RemoteNode converts the peer to the header SEND and EPR carry. The peer
// must have passed ValidatePeer.
func (p Peer) RemoteNode() (protocol.RemoteNodeHeader, error) {
	if err := ValidatePeer(p); err != nil {
		return protocol.RemoteNodeHeader{}, err
	}
	addr := netip.MustParseAddr(strings.TrimSpace(p.Node))
	h, _ := protocol.RemoteNodeFromAddr(p.AppID, netip.AddrPortFrom(addr, p.Port))
	return h, nil
}

// Peer looks up a peer by name, case-insensitively.
func (c SessionConfig) Peer(name string) (Peer, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, p := range c.Peers {
		if strings.ToLower(strings.TrimSpace(p.Name)) == key {
			return p, true
		}
	}
	return Peer{}, false
}
