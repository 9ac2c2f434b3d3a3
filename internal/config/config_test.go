package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"g3d-renderer/internal/shade"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "render.json", `{
		"width": 320,
		"height": 200,
		"antialias": true,
		"background": "#102030",
		"lighting": {"ambient_percent": 10, "diffuse_percent": 90}
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
	assert.True(t, cfg.Antialias)
	require.NotNil(t, cfg.Lighting)
	assert.Equal(t, 10, cfg.Lighting.AmbientPercent)
	assert.Equal(t, 90, cfg.Lighting.DiffusePercent)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "render.toml", `
width = 128
format = "png"
z_shade = true
crop = true
crop_margin = 4
slab = 10
depth = 500

[lighting]
ambient_percent = 30
specular = false
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.Width)
	assert.Equal(t, "png", cfg.Format)
	assert.True(t, cfg.ZShade)
	assert.True(t, cfg.Crop)
	assert.Equal(t, 4, cfg.CropMargin)
	assert.Equal(t, 10, cfg.Slab)
	assert.Equal(t, 500, cfg.Depth)
	require.NotNil(t, cfg.Lighting)
	assert.Equal(t, 30, cfg.Lighting.AmbientPercent)
	assert.False(t, cfg.Lighting.Specular)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "config: read")

	_, err = Load(writeFile(t, "bad.toml", "width = ["))
	assert.ErrorContains(t, err, "config: parse")
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 512, cfg.Height)
	assert.Equal(t, "scenes", cfg.SceneDir)
	assert.Equal(t, "scenes", cfg.ImageDir)
	assert.Equal(t, "renders", cfg.OutputDir)
	assert.Equal(t, "webp", cfg.Format)
	assert.Equal(t, 1<<20, cfg.Depth)
	assert.Equal(t, 3, cfg.GeodesicLevel)
	assert.Equal(t, 1.0, cfg.OutputScale)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	require.NotNil(t, cfg.Lighting)
	assert.Equal(t, shade.DefaultLighting(), *cfg.Lighting)
	assert.Equal(t, uint32(0xFF000000), cfg.BackgroundARGB())
}

func TestResolveFlagsOverride(t *testing.T) {
	cfg := Config{SceneDir: "a", OutputDir: "out", Format: "png", Workers: 2, ImageDir: "img"}
	cfg.Resolve(Flags{SceneDir: "b", Workers: 7, Antialias: true})
	assert.Equal(t, "b", cfg.SceneDir)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "png", cfg.Format)
	assert.Equal(t, 7, cfg.Workers)
	assert.True(t, cfg.Antialias)
	assert.Equal(t, filepath.Join("b", "img"), cfg.ImageDir)
}

func TestParseARGB(t *testing.T) {
	cases := []struct {
		in   string
		want uint32
	}{
		{"#FF0000", 0xFFFF0000},
		{"#80112233", 0x80112233},
		{"0x00FF00", 0xFF00FF00},
		{" 0XFFFFFFFF ", 0xFFFFFFFF},
	}
	for _, c := range cases {
		got, err := ParseARGB(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
	for _, bad := range []string{"", "#FFF", "#GG0000", "red"} {
		_, err := ParseARGB(bad)
		assert.Error(t, err, bad)
	}
}
