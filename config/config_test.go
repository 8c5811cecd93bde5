package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil, nil)
	require.NoError(t, err)
	require.EqualValues(t, 0, cfg.Port)
	require.EqualValues(t, DefaultUDPPort, cfg.UDPPort)
	require.EqualValues(t, DefaultCore, cfg.Core)
	require.Equal(t, DefaultShmName, cfg.ShmName)
	require.EqualValues(t, DefaultWarmupPackets, cfg.WarmupPackets)
	require.False(t, cfg.NoWarmup)
	require.False(t, cfg.Benchmark)
}

func TestParseShortAndLongFlags(t *testing.T) {
	cfg, err := Parse([]string{"-p", "2", "--udp-port=9999", "-b"}, nil)
	require.NoError(t, err)
	require.EqualValues(t, 2, cfg.Port)
	require.EqualValues(t, 9999, cfg.UDPPort)
	require.True(t, cfg.Benchmark)
}

func TestHelpFlag(t *testing.T) {
	cfg, err := Parse([]string{"--help"}, nil)
	require.NoError(t, err)
	require.True(t, cfg.Help)
}

func TestLoadOverlayMissingFileIsNotError(t *testing.T) {
	o, err := LoadOverlay(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Nil(t, o.Port)
}

func TestOverlayFillsUnsetFlagsOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.toml")
	require.NoError(t, os.WriteFile(path, []byte("udp_port = 4242\nshm = \"from-overlay\"\n"), 0644))

	overlay, err := LoadOverlay(path)
	require.NoError(t, err)

	cfg, err := Parse([]string{"--shm", "from-cli"}, overlay)
	require.NoError(t, err)
	require.EqualValues(t, 4242, cfg.UDPPort, "overlay fills the flag that wasn't set")
	require.Equal(t, "from-cli", cfg.ShmName, "an explicit flag beats the overlay")
}

func TestLoadDotEnvMissingFileDoesNotPanic(t *testing.T) {
	require.NotPanics(t, func() {
		LoadDotEnv(filepath.Join(t.TempDir(), "absent.env"))
	})
}
