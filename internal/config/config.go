package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"g3d-renderer/internal/shade"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	SceneDir  string `json:"scene_dir" toml:"scene_dir"`
	ImageDir  string `json:"image_dir" toml:"image_dir"`
	OutputDir string `json:"output_dir" toml:"output_dir"`

	// Frame
	Width                int    `json:"width" toml:"width"`
	Height               int    `json:"height" toml:"height"`
	Antialias            bool   `json:"antialias" toml:"antialias"`
	AntialiasTranslucent bool   `json:"antialias_translucent" toml:"antialias_translucent"`
	Greyscale            bool   `json:"greyscale" toml:"greyscale"`
	Background           string `json:"background" toml:"background"`
	Slab                 int    `json:"slab" toml:"slab"`
	Depth                int    `json:"depth" toml:"depth"`
	ZShade               bool   `json:"z_shade" toml:"z_shade"`
	GeodesicLevel        int    `json:"geodesic_level" toml:"geodesic_level"`

	Lighting *shade.Lighting `json:"lighting,omitempty" toml:"lighting,omitempty"`

	// Output
	Format      string  `json:"format" toml:"format"`
	OutputScale float64 `json:"output_scale" toml:"output_scale"`
	// Crop trims output to the drawn pixels plus CropMargin. Only
	// transparent backgrounds leave anything to trim.
	Crop       bool `json:"crop" toml:"crop"`
	CropMargin int  `json:"crop_margin" toml:"crop_margin"`
	Workers    int  `json:"workers" toml:"workers"`
}

// Load reads a config file and returns Config. Files ending in .toml are
// parsed as TOML, everything else as JSON.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	SceneDir  string
	OutputDir string
	Format    string
	Workers   int
	Antialias bool
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.SceneDir != "" {
		c.SceneDir = flags.SceneDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Antialias {
		c.Antialias = true
	}

	if c.SceneDir == "" {
		c.SceneDir = "scenes"
	}
	if c.ImageDir == "" {
		c.ImageDir = c.SceneDir
	} else if !filepath.IsAbs(c.ImageDir) {
		c.ImageDir = filepath.Join(c.SceneDir, c.ImageDir)
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(filepath.Dir(filepath.Clean(c.SceneDir)), "renders")
	}

	// Defaults for render settings
	if c.Width <= 0 {
		c.Width = 512
	}
	if c.Height <= 0 {
		c.Height = c.Width
	}
	if c.Background == "" {
		c.Background = "#000000"
	}
	if c.Depth <= c.Slab {
		c.Slab, c.Depth = 0, 1<<20
	}
	if c.GeodesicLevel <= 0 || c.GeodesicLevel > 3 {
		c.GeodesicLevel = 3
	}
	if c.Lighting == nil {
		l := shade.DefaultLighting()
		c.Lighting = &l
	}
	c.Format = strings.ToLower(c.Format)
	if c.Format != "png" {
		c.Format = "webp"
	}
	if c.OutputScale <= 0 {
		c.OutputScale = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// BackgroundARGB returns the parsed background color, opaque black when
// it does not parse.
func (c *Config) BackgroundARGB() uint32 {
	argb, err := ParseARGB(c.Background)
	if err != nil {
		return 0xFF000000
	}
	return argb
}

// ParseARGB parses "#RRGGBB", "#AARRGGBB" and the same forms with a "0x"
// prefix. Six-digit colors are opaque.
func ParseARGB(s string) (uint32, error) {
	h := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(h, "#"):
		h = h[1:]
	case strings.HasPrefix(h, "0x"), strings.HasPrefix(h, "0X"):
		h = h[2:]
	}
	if len(h) != 6 && len(h) != 8 {
		return 0, fmt.Errorf("config: color %q: want 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("config: color %q: %w", s, err)
	}
	if len(h) == 6 {
		v |= 0xFF000000
	}
	return uint32(v), nil
}
