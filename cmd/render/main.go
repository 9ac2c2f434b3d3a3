package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"g3d-renderer/internal/batch"
	"g3d-renderer/internal/config"
	"g3d-renderer/internal/glyph"
	"g3d-renderer/internal/raster"
	"g3d-renderer/internal/scene"
	"g3d-renderer/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json or .toml)")
	testN := flag.Int("test", 0, "Render only first N scenes for testing")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	sceneDir := flag.String("scenes", "", "Scene directory (default: scenes)")
	outputDir := flag.String("output", "", "Output directory (default: renders next to the scene directory)")
	format := flag.String("format", "", "Output format: webp or png (default: webp)")
	antialias := flag.Bool("antialias", false, "Render with 2x2 supersampling")
	verbose := flag.Bool("v", false, "Log renderer diagnostics to stderr")

	flag.Parse()

	if *verbose {
		raster.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		SceneDir:  *sceneDir,
		OutputDir: *outputDir,
		Format:    *format,
		Workers:   *workers,
		Antialias: *antialias,
	})

	// Positional arguments name scene files directly
	paths := flag.Args()
	if len(paths) == 0 {
		var err error
		paths, err = scene.Find(cfg.SceneDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// Limit for testing
	if *testN > 0 && *testN < len(paths) {
		paths = paths[:*testN]
	}

	if len(paths) == 0 {
		fmt.Println("No scenes to render.")
		os.Exit(0)
	}

	// Build image index
	imgIndex := texture.BuildIndex(cfg.ImageDir)
	imgCache := texture.NewCache(imgIndex)
	fmt.Printf("Images: %d indexed\n", imgIndex.Len())

	glyphs, err := glyph.NewSource()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading fonts: %v\n", err)
		os.Exit(1)
	}
	defer glyphs.Close()

	// Print summary
	mode := ""
	if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *testN)
	}
	aa := ""
	if cfg.Antialias {
		aa = ", antialiased"
	}

	fmt.Printf("g3d scene renderer → %s%s\n", cfg.Format, mode)
	fmt.Printf("Scenes: %d, Workers: %d, Frame: %dx%d%s\n", len(paths), cfg.Workers, cfg.Width, cfg.Height, aa)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		Settings: cfg,
		Glyphs:   glyphs,
		Images:   imgCache,
	}, paths)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	failed := batch.Failed(results)
	fmt.Printf("Rendered: %d/%d\n", len(results)-len(failed), len(paths))

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		limit := min(len(failed), 20)
		for _, e := range failed[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failed) > 0 {
		os.Exit(1)
	}
}
