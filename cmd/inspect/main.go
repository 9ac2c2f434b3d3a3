package main

import (
	"fmt"
	"math"
	"os"
	"sort"

	"g3d-renderer/internal/scene"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: inspect <scene.json|scene.toml>...")
		os.Exit(2)
	}
	status := 0
	for _, path := range os.Args[1:] {
		s, err := scene.LoadFile(path)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			status = 1
			continue
		}
		fmt.Printf("%s: %d objects, zoom=%.2f, rotate=(%.1f, %.1f, %.1f)\n",
			s.Name, len(s.Objects), s.Zoom, s.Rotate[0], s.Rotate[1], s.Rotate[2])

		minP := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
		maxP := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
		byType := map[string]int{}
		translucent := 0
		for _, o := range s.Objects {
			byType[o.Type]++
			if o.Translucency > 0 || o.Screened {
				translucent++
			}
			for _, p := range o.Points {
				for c := 0; c < 3; c++ {
					minP[c] = math.Min(minP[c], p[c])
					maxP[c] = math.Max(maxP[c], p[c])
				}
			}
		}
		types := make([]string, 0, len(byType))
		for t := range byType {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Printf("  %-10s %d\n", t, byType[t])
		}
		fmt.Printf("  translucent: %d\n", translucent)
		if len(s.Objects) > 0 {
			fmt.Printf("  BBox: X[%.1f, %.1f] Y[%.1f, %.1f] Z[%.1f, %.1f]\n",
				minP[0], maxP[0], minP[1], maxP[1], minP[2], maxP[2])
			fmt.Printf("  Size: %.1f x %.1f x %.1f\n", maxP[0]-minP[0], maxP[1]-minP[1], maxP[2]-minP[2])
		}
	}
	os.Exit(status)
}
