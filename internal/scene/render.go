package scene

import (
	"image"
	"strings"

	"g3d-renderer/internal/colix"
	"g3d-renderer/internal/config"
	"g3d-renderer/internal/mathutil"
	"g3d-renderer/internal/normix"
	"g3d-renderer/internal/raster"
)

// ImageSource resolves image object names to decoded images; nil means
// not found.
type ImageSource interface {
	Resolve(name string) *image.NRGBA
}

// Render draws the scene into an open frame: the opaque pass, then the
// translucent pass when anything translucent was offered. The caller owns
// BeginFrame and EndFrame. images may be nil.
func (s *Scene) Render(r *raster.Renderer, images ImageSource) {
	ctx := r.Context()
	w, h := r.Width()/r.Scale(), r.Height()/r.Scale()
	zScale := r.Scale()
	ctx.Normix.SetViewTransform(newView(s, w, h, 1, 1).rot)

	d := drawer{r: r, images: images, palette: ctx.Palette, normals: ctx.Normix}
	d.view = newView(s, w, h, r.Scale(), zScale)
	d.drawAll(s.Objects)
	if r.BeginTranslucentPass() {
		d.view = newView(s, w, h, r.Scale(), zScale)
		d.drawAll(s.Objects)
	}
}

type drawer struct {
	r       *raster.Renderer
	view    view
	images  ImageSource
	palette *colix.Palette
	normals *normix.Table
}

func (d *drawer) drawAll(objs []Object) {
	for i := range objs {
		d.draw(&objs[i])
	}
}

// colixOf allocates a color string with the object's translucency.
func (d *drawer) colixOf(o *Object, s string) colix.Colix {
	if s == "" {
		s = o.Color
	}
	argb, err := config.ParseARGB(s)
	if err != nil {
		return colix.None
	}
	c := d.palette.Allocate(argb)
	switch {
	case o.Screened:
		c = c.WithTranslucency(colix.Screened)
	case o.Translucency > 0:
		c = c.WithTranslucency(colix.TranslucencyFromFraction(o.Translucency))
	}
	return c
}

func (d *drawer) draw(o *Object) {
	r, v := d.r, d.view
	c := d.colixOf(o, "")
	c2 := c
	if o.Color2 != "" {
		c2 = d.colixOf(o, o.Color2)
	}
	pts := make([]raster.Point3i, len(o.Points))
	for i, p := range o.Points {
		pts[i] = v.project(p)
	}

	switch o.Type {
	case TypeSphere:
		if r.SetColix(c) {
			r.FillSphere(v.length(o.Diameter), pts[0].X, pts[0].Y, pts[0].Z)
		}
	case TypeLine, TypeDashed, TypeDotted:
		a, b := pts[0], pts[1]
		switch o.Type {
		case TypeLine:
			r.DrawLine(c, c2, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
		case TypeDotted:
			r.DrawDottedLine(c, c2, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
		default:
			run, rise := o.Run, o.Rise
			if run <= 0 {
				run, rise = 4, 4
			}
			r.DrawDashedLine(v.pixels(run), v.pixels(rise), c, c2, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
		}
	case TypeCircle:
		p := pts[0]
		if o.Outline {
			r.DrawCircle(c, v.length(o.Diameter), p.X, p.Y, p.Z)
		} else {
			r.FillCircle(c, v.length(o.Diameter), p.X, p.Y, p.Z)
		}
	case TypeCylinder:
		a, b := pts[0], pts[1]
		r.FillCylinder(c, c2, raster.ParseEndcap(o.Endcap), v.length(o.Diameter),
			a.X, a.Y, a.Z, b.X, b.Y, b.Z)
	case TypeCone:
		a, b := pts[0], pts[1]
		r.FillCone(c, raster.ParseEndcap(o.Endcap), v.length(o.Diameter),
			a.X, a.Y, a.Z, b.X, b.Y, b.Z, !o.Outline)
	case TypeTriangle:
		d.triangle(o, c, pts)
	case TypeQuad:
		if o.Outline {
			r.DrawQuadrilateral(c, pts[0], pts[1], pts[2], pts[3])
		} else if r.SetColix(c) {
			r.FillQuadrilateral(pts[0], pts[1], pts[2], pts[3])
		}
	case TypeHermite:
		d.hermite(o, c, pts)
	case TypeRibbon:
		var top, bottom [4]raster.Point3i
		copy(top[:], pts[:4])
		copy(bottom[:], pts[4:])
		if !r.SetColix(c) {
			return
		}
		if o.Outline {
			r.DrawHermiteRibbon(o.Tension, top, bottom)
		} else {
			r.FillHermiteRibbon(o.Tension, top, bottom, o.Border, o.Aspect)
		}
	case TypeEllipsoid:
		var axes [3]mathutil.Vec3
		for i := range axes {
			axes[i] = v.axis(o.Axes[i])
		}
		octant := -1
		if o.Octant != nil {
			octant = *o.Octant
		}
		if r.SetColix(c) {
			r.RenderEllipsoid(pts[0].X, pts[0].Y, pts[0].Z, axes, octant)
		}
	case TypeText:
		if r.SetColix(c) {
			r.DrawText(pts[0].X, pts[0].Y, pts[0].Z, fontOf(o), o.Text)
		}
	case TypeImage:
		d.image(o, pts[0])
	case TypePoints:
		r.DrawPoints(c, pts)
	case TypeRect:
		p := pts[0]
		if o.Outline {
			r.DrawRect(c, p.X, p.Y, p.Z, v.pixels(o.Width), v.pixels(o.Height))
		} else if r.SetColix(c) {
			r.FillRect(p.X, p.Y, p.Z, v.pixels(o.Width), v.pixels(o.Height))
		}
	}
}

// triangle fills with per-vertex normals and colors when given, the face
// normal otherwise.
func (d *drawer) triangle(o *Object, c colix.Colix, pts []raster.Point3i) {
	r := d.r
	if o.Outline {
		r.DrawTriangle(c, pts[0], pts[1], pts[2])
		return
	}
	var n [3]normix.Normix
	if len(o.Normals) == 3 {
		for i := range n {
			n[i] = d.normals.Quantize(mathutil.Vec3(o.Normals[i]))
		}
	} else {
		a := mathutil.Vec3(o.Points[0])
		face := mathutil.Vec3(o.Points[1]).Sub(a).Cross(mathutil.Vec3(o.Points[2]).Sub(a))
		if face.Len2() == 0 {
			if r.SetColix(c) {
				r.FillTriangleScreen(pts[0], pts[1], pts[2])
			}
			return
		}
		fn := normix.TwoSided(d.normals.Quantize(face))
		n = [3]normix.Normix{fn, fn, fn}
	}
	if len(o.Colors) == 3 {
		var cs [3]colix.Colix
		for i := range cs {
			cs[i] = d.colixOf(o, o.Colors[i])
		}
		r.FillTriangleColix(pts[0], cs[0], n[0], pts[1], cs[1], n[1], pts[2], cs[2], n[2])
		return
	}
	if !r.SetColix(c) {
		return
	}
	if n[0] == n[1] && n[1] == n[2] {
		r.FillTriangleFlat(pts[0], pts[1], pts[2], n[0])
	} else {
		r.FillTriangle(pts[0], pts[1], pts[2], n[0], n[1], n[2])
	}
}

func (d *drawer) hermite(o *Object, c colix.Colix, pts []raster.Point3i) {
	r, v := d.r, d.view
	var p [4]raster.Point3i
	copy(p[:], pts)
	if !r.SetColix(c) {
		return
	}
	if o.Diameter <= 0 && len(o.Diameters) == 0 {
		r.DrawHermite(o.Tension, p)
		return
	}
	dBeg, dMid, dEnd := o.Diameter, o.Diameter, o.Diameter
	if len(o.Diameters) == 3 {
		dBeg, dMid, dEnd = o.Diameters[0], o.Diameters[1], o.Diameters[2]
	}
	r.FillHermite(o.Tension, v.length(dBeg), v.length(dMid), v.length(dEnd), p)
}

func (d *drawer) image(o *Object, at raster.Point3i) {
	if d.images == nil {
		return
	}
	img := d.images.Resolve(o.Image)
	if img == nil {
		raster.Logger().Warn("scene: image not found", "image", o.Image)
		return
	}
	c := d.colixOf(o, "")
	if o.Color == "" {
		c = d.colixOf(o, "#FFFFFF")
	}
	if !d.r.SetColix(c) {
		return
	}
	v := d.view
	d.r.DrawImage(img, at.X, at.Y, at.Z, v.pixels(o.Width), v.pixels(o.Height))
}

func fontOf(o *Object) raster.Font {
	f := raster.Font{Face: o.Font, Size: o.Size}
	if f.Size <= 0 {
		f.Size = 13
	}
	switch strings.ToLower(o.Style) {
	case "bold":
		f.Style = raster.StyleBold
	case "italic":
		f.Style = raster.StyleItalic
	case "bolditalic", "bold-italic":
		f.Style = raster.StyleBoldItalic
	}
	return f
}
