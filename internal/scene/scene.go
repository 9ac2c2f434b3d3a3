// Package scene reads scene description files and draws them through a
// raster.Renderer.
//
// A scene lists objects in model space. The view rotates them about
// Center, scales by Zoom pixels per unit and places Center in the middle
// of the frame at depth Distance. Model y is up and z points at the
// viewer.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"g3d-renderer/internal/config"
	"g3d-renderer/internal/raster"
)

// Object types.
const (
	TypeSphere    = "sphere"
	TypeLine      = "line"
	TypeDashed    = "dashed"
	TypeDotted    = "dotted"
	TypeCircle    = "circle"
	TypeCylinder  = "cylinder"
	TypeCone      = "cone"
	TypeTriangle  = "triangle"
	TypeQuad      = "quad"
	TypeHermite   = "hermite"
	TypeRibbon    = "ribbon"
	TypeEllipsoid = "ellipsoid"
	TypeText      = "text"
	TypeImage     = "image"
	TypePoints    = "points"
	TypeRect      = "rect"
)

// pointCount is the number of positions each type needs; -1 means one
// or more.
var pointCount = map[string]int{
	TypeSphere:    1,
	TypeLine:      2,
	TypeDashed:    2,
	TypeDotted:    2,
	TypeCircle:    1,
	TypeCylinder:  2,
	TypeCone:      2,
	TypeTriangle:  3,
	TypeQuad:      4,
	TypeHermite:   4,
	TypeRibbon:    8,
	TypeEllipsoid: 1,
	TypeText:      1,
	TypeImage:     1,
	TypePoints:    -1,
	TypeRect:      1,
}

// Scene is one frame's worth of objects plus the view that projects them.
type Scene struct {
	Name       string     `json:"name" toml:"name"`
	Background string     `json:"background,omitempty" toml:"background,omitempty"`
	Zoom       float64    `json:"zoom" toml:"zoom"`
	Center     [3]float64 `json:"center" toml:"center"`
	Rotate     [3]float64 `json:"rotate" toml:"rotate"`
	Distance   float64    `json:"distance" toml:"distance"`
	Objects    []Object   `json:"objects" toml:"objects"`
}

// Object is one primitive. Which fields matter depends on Type; lengths
// (Diameter, Diameters, Axes) are in model units, Width and Height of
// images and rects in window pixels.
type Object struct {
	Type   string       `json:"type" toml:"type"`
	Points [][3]float64 `json:"points" toml:"points"`

	Color  string `json:"color" toml:"color"`
	Color2 string `json:"color2,omitempty" toml:"color2,omitempty"`
	// Translucency in [0,1]; 1 is invisible. Screened overrides it with
	// the checkerboard mask.
	Translucency float64 `json:"translucency,omitempty" toml:"translucency,omitempty"`
	Screened     bool    `json:"screened,omitempty" toml:"screened,omitempty"`

	Diameter  float64      `json:"diameter,omitempty" toml:"diameter,omitempty"`
	Diameters []float64    `json:"diameters,omitempty" toml:"diameters,omitempty"`
	Normals   [][3]float64 `json:"normals,omitempty" toml:"normals,omitempty"`
	Colors    []string     `json:"colors,omitempty" toml:"colors,omitempty"`
	Outline   bool         `json:"outline,omitempty" toml:"outline,omitempty"`

	Endcap string `json:"endcap,omitempty" toml:"endcap,omitempty"`

	// dashed lines
	Run  int `json:"run,omitempty" toml:"run,omitempty"`
	Rise int `json:"rise,omitempty" toml:"rise,omitempty"`

	// hermite curves and ribbons
	Tension int     `json:"tension,omitempty" toml:"tension,omitempty"`
	Border  bool    `json:"border,omitempty" toml:"border,omitempty"`
	Aspect  float64 `json:"aspect,omitempty" toml:"aspect,omitempty"`

	// ellipsoids
	Axes   [][3]float64 `json:"axes,omitempty" toml:"axes,omitempty"`
	Octant *int         `json:"octant,omitempty" toml:"octant,omitempty"`

	// text
	Text  string  `json:"text,omitempty" toml:"text,omitempty"`
	Font  string  `json:"font,omitempty" toml:"font,omitempty"`
	Style string  `json:"style,omitempty" toml:"style,omitempty"`
	Size  float64 `json:"size,omitempty" toml:"size,omitempty"`

	// images and rects
	Image  string `json:"image,omitempty" toml:"image,omitempty"`
	Width  int    `json:"width,omitempty" toml:"width,omitempty"`
	Height int    `json:"height,omitempty" toml:"height,omitempty"`
}

// LoadFile reads a scene from a .json or .toml file. A missing name is
// taken from the file name.
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	var s Scene
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &s)
	case ".json":
		err = json.Unmarshal(data, &s)
	default:
		return nil, fmt.Errorf("scene: %s: unknown extension", path)
	}
	if err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	if s.Name == "" {
		base := filepath.Base(path)
		s.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	return &s, nil
}

// Find returns every .json and .toml file under dir, sorted by path.
func Find(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".toml":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scene: scan %s: %w", dir, err)
	}
	return paths, nil
}

// Validate checks every object and reports all problems at once.
func (s *Scene) Validate() error {
	var errs []error
	if s.Background != "" {
		if _, err := config.ParseARGB(s.Background); err != nil {
			errs = append(errs, fmt.Errorf("background: %w", err))
		}
	}
	if s.Zoom < 0 {
		errs = append(errs, errors.New("zoom is negative"))
	}
	for i := range s.Objects {
		if err := s.Objects[i].validate(); err != nil {
			errs = append(errs, fmt.Errorf("object %d (%s): %w", i, s.Objects[i].Type, err))
		}
	}
	return errors.Join(errs...)
}

func (o *Object) validate() error {
	want, ok := pointCount[o.Type]
	if !ok {
		return fmt.Errorf("unknown type %q", o.Type)
	}
	switch {
	case want < 0 && len(o.Points) == 0:
		return errors.New("needs at least one point")
	case want >= 0 && len(o.Points) != want:
		return fmt.Errorf("needs %d points, has %d", want, len(o.Points))
	}
	for _, c := range append([]string{o.Color, o.Color2}, o.Colors...) {
		if c == "" {
			continue
		}
		if _, err := config.ParseARGB(c); err != nil {
			return err
		}
	}
	if o.Color == "" && len(o.Colors) == 0 && o.Type != TypeImage {
		return errors.New("no color")
	}
	if o.Translucency < 0 || o.Translucency > 1 {
		return fmt.Errorf("translucency %g outside [0,1]", o.Translucency)
	}
	if len(o.Normals) > 0 && len(o.Normals) != len(o.Points) {
		return fmt.Errorf("%d normals for %d points", len(o.Normals), len(o.Points))
	}
	if len(o.Colors) > 0 && len(o.Colors) != len(o.Points) {
		return fmt.Errorf("%d colors for %d points", len(o.Colors), len(o.Points))
	}
	if o.Endcap != "" && raster.ParseEndcap(o.Endcap).String() != o.Endcap {
		return fmt.Errorf("unknown endcap %q", o.Endcap)
	}
	switch o.Type {
	case TypeSphere, TypeCylinder, TypeCone:
		if o.Diameter <= 0 {
			return errors.New("diameter must be positive")
		}
	case TypeEllipsoid:
		if len(o.Axes) != 3 {
			return fmt.Errorf("needs 3 axes, has %d", len(o.Axes))
		}
		if o.Octant != nil && (*o.Octant < 0 || *o.Octant > 7) {
			return fmt.Errorf("octant %d outside 0..7", *o.Octant)
		}
	case TypeText:
		if o.Text == "" {
			return errors.New("empty text")
		}
	case TypeImage:
		if o.Image == "" {
			return errors.New("no image name")
		}
	case TypeRect:
		if o.Width <= 0 || o.Height <= 0 {
			return errors.New("width and height must be positive")
		}
	}
	return nil
}

// BackgroundARGB returns the scene's background, or def when the scene
// does not set one.
func (s *Scene) BackgroundARGB(def uint32) uint32 {
	if s.Background == "" {
		return def
	}
	argb, err := config.ParseARGB(s.Background)
	if err != nil {
		return def
	}
	return argb
}
