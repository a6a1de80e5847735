// Package pkg provides the core libraries for svgdiff visual comparison.
//
// # Overview
//
// The packages in this directory implement the full comparison pipeline,
// organized into three areas:
//
// Analysis:
//   - geometry: SVG dimension probing, intrinsic size resolution, and the
//     aspect ratio guard
//   - plan: render planning (target canvas, scale factors, alignment offsets)
//   - repair: pre-comparison document repair for missing or broken bounds
//
// Execution:
//   - raster: rasterization backends and the caching adapter around them
//   - diffimg: pixel-level image comparison with per-channel thresholds
//   - pipeline: the runner tying analysis, rendering, and diffing together,
//     plus batch orchestration over document pairs
//
// Infrastructure:
//   - cache: pluggable byte caches (file, Redis, null) for rendered output
//   - config: TOML configuration loading
//   - report: comparison record persistence (file or MongoDB)
//   - svgio: pair manifests, JSON reports, and diff image export
//   - errors: coded errors with user-facing messages
//   - observability: hook points for compare, render, batch, and cache events
//   - buildinfo: embedded version information
//
// # Architecture
//
// Data flows through the pipeline in stages:
//
//	SVG pair
//	   |
//	   v
//	geometry.Analyzer ---> geometry.Guard (aspect ratio check)
//	   |
//	   v
//	plan.Planner (canvas, scale, alignment)
//	   |
//	   v
//	raster.Adapter (cached rasterization)
//	   |
//	   v
//	diffimg.Diff (pixel comparison)
//	   |
//	   v
//	pipeline.Result ---> report.Store / svgio export
//
// # Quick Start
//
//	runner := pipeline.NewRunner(raster.NewLocalBackend(), pipeline.RunnerOptions{})
//	result, err := runner.ComparePaths(ctx, "a.svg", "b.svg", pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%.2f%% of pixels differ\n", result.RoundedPercentage())
package pkg
