// Package config assembles the gateway's CLI flags, an optional static
// TOML overlay, and an optional .env file into the engine's Config.
// Nothing here runs after startup — no dynamic reconfiguration, per
// spec.md's Non-goals.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
)

// Defaults mirror spec.md §6's CLI table.
const (
	DefaultUDPPort       = 12345
	DefaultCore          = -1
	DefaultShmName       = "gateway"
	DefaultWarmupPackets = 1000
)

// Overlay is the optional static TOML file shape. Any field present here
// is used only to fill in values the CLI flags didn't explicitly set —
// flags always win.
type Overlay struct {
	Port          *uint16 `toml:"port"`
	Queue         *uint16 `toml:"queue"`
	UDPPort       *uint16 `toml:"udp_port"`
	Core          *int32  `toml:"core"`
	Shm           *string `toml:"shm"`
	WarmupPackets *int32  `toml:"warmup"`
	NoWarmup      *bool   `toml:"no_warmup"`
	Benchmark     *bool   `toml:"benchmark"`
}

// Config is the fully-resolved gateway configuration, CLI flags applied
// over any TOML overlay.
type Config struct {
	Port          uint16
	Queue         uint16
	UDPPort       uint16
	Core          int32
	ShmName       string
	WarmupPackets int32
	NoWarmup      bool
	Benchmark     bool
	Help          bool
}

// LoadOverlay reads an optional TOML file. A missing file is not an
// error — the overlay is pure convenience, per SPEC_FULL.md A1.
func LoadOverlay(path string) (*Overlay, error) {
	if path == "" {
		return &Overlay{}, nil
	}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Overlay{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading overlay %s: %w", path, err)
	}
	var o Overlay
	if err := toml.Unmarshal(b, &o); err != nil {
		return nil, fmt.Errorf("config: parsing overlay %s: %w", path, err)
	}
	return &o, nil
}

// LoadDotEnv loads a .env file into the process environment if present.
// A missing .env is not an error; this mirrors the common godotenv usage
// idiom of ignoring Load's error when the file is simply absent.
func LoadDotEnv(path string) {
	if path == "" {
		path = ".env"
	}
	_ = godotenv.Load(path)
}

// Parse builds a *pflag.FlagSet matching spec.md §6's CLI surface, parses
// args against it, applies overlay for anything not explicitly set on
// the command line, and returns the resolved Config.
func Parse(args []string, overlay *Overlay) (*Config, error) {
	fs := pflag.NewFlagSet("bbo-ingest", pflag.ContinueOnError)

	port := fs.Uint16P("port", "p", 0, "NIC port id")
	queue := fs.Uint16P("queue", "q", 0, "RX queue id")
	udpPort := fs.Uint16P("udp-port", "u", DefaultUDPPort, "Filter UDP destination port")
	core := fs.Int32P("core", "c", DefaultCore, "Pin to CPU core (-1 = none)")
	shm := fs.StringP("shm", "s", DefaultShmName, "Shared-memory name suffix")
	warmup := fs.Int32P("warmup", "w", DefaultWarmupPackets, "Synthetic warm-up packets")
	noWarmup := fs.BoolP("no-warmup", "n", false, "Skip warm-up")
	benchmark := fs.BoolP("benchmark", "b", false, "Periodic (5s) stats print")
	help := fs.BoolP("help", "h", false, "Print usage, exit 0")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:          *port,
		Queue:         *queue,
		UDPPort:       *udpPort,
		Core:          *core,
		ShmName:       *shm,
		WarmupPackets: *warmup,
		NoWarmup:      *noWarmup,
		Benchmark:     *benchmark,
		Help:          *help,
	}

	if overlay == nil {
		return cfg, nil
	}
	applyOverlay(cfg, overlay, fs)
	return cfg, nil
}

// applyOverlay fills in any field whose flag was not given on the command
// line AND that the overlay specifies — a flag the operator actually typed
// always wins over the overlay, even when its value equals the default.
func applyOverlay(cfg *Config, o *Overlay, fs *pflag.FlagSet) {
	if !fs.Changed("port") && o.Port != nil {
		cfg.Port = *o.Port
	}
	if !fs.Changed("queue") && o.Queue != nil {
		cfg.Queue = *o.Queue
	}
	if !fs.Changed("udp-port") && o.UDPPort != nil {
		cfg.UDPPort = *o.UDPPort
	}
	if !fs.Changed("core") && o.Core != nil {
		cfg.Core = *o.Core
	}
	if !fs.Changed("shm") && o.Shm != nil {
		cfg.ShmName = *o.Shm
	}
	if !fs.Changed("warmup") && o.WarmupPackets != nil {
		cfg.WarmupPackets = *o.WarmupPackets
	}
	if !fs.Changed("no-warmup") && o.NoWarmup != nil {
		cfg.NoWarmup = *o.NoWarmup
	}
	if !fs.Changed("benchmark") && o.Benchmark != nil {
		cfg.Benchmark = *o.Benchmark
	}
}
