// Package batch renders many scene files in parallel, one renderer per
// worker goroutine.
package batch

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"g3d-renderer/internal/config"
	"g3d-renderer/internal/present"
	"g3d-renderer/internal/raster"
	"g3d-renderer/internal/scene"
)

// Config holds all shared resources for a batch run.
type Config struct {
	Settings config.Config      // resolved render settings
	Glyphs   raster.GlyphSource // shared, must be safe for concurrent use
	Images   scene.ImageSource  // shared, must be safe for concurrent use
	Quiet    bool               // no progress lines
}

// Result holds the outcome of processing one scene.
type Result struct {
	Name    string
	Scene   string
	Image   string // output path relative to the output directory
	Objects int
	Success bool
	Error   string
}

// Run renders all scene files using a worker pool.
func Run(cfg Config, paths []string) []Result {
	total := len(paths)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 && !cfg.Quiet {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f scenes/sec\n", p, total, rate)
				}
			}
		}
	}()

	workers := max(cfg.Settings.Workers, 1)
	sceneChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wk := newWorker(cfg)
			defer wk.r.Release()
			for idx := range sceneChan {
				results[idx] = wk.process(paths[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range paths {
		sceneChan <- i
	}
	close(sceneChan)

	wg.Wait()
	close(done)

	return results
}

// worker owns one renderer and its context; nothing in it is shared.
type worker struct {
	cfg Config
	r   *raster.Renderer
}

func newWorker(cfg Config) *worker {
	s := cfg.Settings
	ctx := raster.NewContext(s.GeodesicLevel)
	if s.Lighting != nil {
		ctx.SetLighting(*s.Lighting)
	}
	ctx.Shades.SetGreyscale(s.Greyscale)

	r := raster.NewRenderer(ctx)
	r.SetAntialiasTranslucent(s.AntialiasTranslucent)
	if cfg.Glyphs != nil {
		r.SetGlyphSource(cfg.Glyphs)
	}
	// scene depths are in supersampled units for the whole frame
	zScale := 1
	if s.Antialias {
		zScale = 2
	}
	r.SetSlabAndDepth(s.Slab*zScale, s.Depth*zScale, s.ZShade)
	return &worker{cfg: cfg, r: r}
}

func (w *worker) process(path string) Result {
	s := w.cfg.Settings
	res := Result{Name: sceneName(s.SceneDir, path), Scene: path}

	sc, err := scene.LoadFile(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Objects = len(sc.Objects)

	bg := sc.BackgroundARGB(s.BackgroundARGB())
	capture := present.Capture{Background: bg}
	w.r.SetBackground(bg)
	w.r.BeginFrame(s.Width, s.Height, s.Antialias)
	sc.Render(w.r, w.cfg.Images)
	w.r.EndFrame(&capture)
	if capture.Image == nil {
		res.Error = "empty frame"
		return res
	}

	img := capture.Image
	if s.Crop {
		img = present.Crop(img, s.CropMargin)
	}
	img = present.Scale(img, s.OutputScale)

	res.Image = filepath.ToSlash(res.Name) + present.Ext(s.Format)
	outPath := filepath.Join(s.OutputDir, filepath.FromSlash(res.Image))
	if err := present.Save(outPath, img, s.Format); err != nil {
		res.Error = err.Error()
		return res
	}

	raster.Logger().Debug("batch: rendered", "scene", res.Name, "objects", res.Objects, "output", outPath)
	res.Success = true
	return res
}

// sceneName is path relative to dir without its extension, so nested
// scene folders map to nested output folders.
func sceneName(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(path)
	}
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}

// Failed returns the results that did not render.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Success {
			out = append(out, r)
		}
	}
	return out
}
