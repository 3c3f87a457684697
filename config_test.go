package ukf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigOverlay(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
noise:
  std_accel: 1.5
  std_radar_bearing: 0.01
use_radar: false
`))
	require.NoError(t, err)

	exp := DefaultConfig()
	exp.Noise.StdAccel = 1.5
	exp.Noise.StdRadarBearing = 0.01
	exp.UseRadar = false
	if diff := cmp.Diff(exp, *cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfigEmpty(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(DefaultConfig(), *cfg))
}

func TestParseConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		is   error
	}{
		{name: "negative noise", data: "noise:\n  std_lidar_px: -0.1\n", is: ErrInvalidNoise},
		{name: "zero noise", data: "noise:\n  std_yaw_accel: 0\n", is: ErrInvalidNoise},
		{name: "no sensor", data: "use_lidar: false\nuse_radar: false\n"},
		{name: "not yaml", data: "noise: [1, 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ukf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("use_lidar: false\n"), 0o600))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.UseLidar)
	assert.True(t, cfg.UseRadar)

	_, err = LoadConfig(filepath.Join(dir, "ukf.json"))
	assert.ErrorContains(t, err, "extension")
	_, err = LoadConfig(filepath.Join(dir, "missing.yml"))
	assert.ErrorContains(t, err, "failed to read config file")
}
