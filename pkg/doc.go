// Package pkg provides the core libraries for Scatterbox doodle walls.
//
// # Overview
//
// Scatterbox places a gallery of project drawings inside a container so
// that no two overlap and the result reads as hand-arranged. Placement is
// blue-noise: Poisson-disk samples, farthest-point seeding and a few rounds
// of Lloyd relaxation. The pkg directory is organized into four areas:
//
//  1. Layout: [scatter], [gallery], [board]
//  2. Rendering: [render] and its sink, styles and diagram subpackages
//  3. Orchestration: [pipeline], [server], [config]
//  4. Runtime helpers: [cache], [trigger], [guard], [handoff], [errors]
//
// # Architecture
//
// The typical data flow:
//
//	projects.json / projects.yaml / URL
//	         ↓
//	    [gallery] (load, measure)
//	         ↓
//	    [scatter] (sample, seed, relax, place)
//	         ↓
//	    [board] (positioned tiles + diagnostics)
//	         ↓
//	    SVG/HTML/PNG/PDF/JSON output
//
// # Quick Start
//
//	g, _ := gallery.Load(ctx, "projects.json", nil)
//	opts := pipeline.Options{Width: 1200, ViewportHeight: 900, Seed: 42}
//	_ = opts.ValidateForLayout()
//	b, _ := pipeline.GenerateBoard(ctx, g, opts)
//	svg := sink.RenderSVG(b, sink.WithLabels())
//
// # Main Packages
//
// [scatter] is the engine and knows nothing about projects: it takes item
// sizes and a container and returns positions. [gallery] turns project
// documents into measured items. [board] is the serialized result.
//
// [pipeline] ties loading, layout and rendering together and is shared by
// the CLI and the HTTP [server], so both produce identical boards for the
// same inputs. Seeded layouts are cached through [cache], which has file,
// memory, Redis and MongoDB backends.
//
// [trigger] debounces relayout requests and announces the first completed
// layout. [guard] decides when hover tooltips may open after a transition,
// and [handoff] computes the arrow flight between the portfolio and the
// home page.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/scatter/...  # The engine only
//	go test -run Example       # Examples only
package pkg
