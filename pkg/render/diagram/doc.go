// Package diagram renders a board's geometry through Graphviz.
//
// Every element is pinned with pos="x,y!" and laid out by the neato
// engine, so Graphviz draws the board exactly as computed: tiles as boxes,
// optionally the Poisson-disc samples as points and the relaxed centers
// as circles joined to the tiles they anchor.
//
//	dot := diagram.ToDOT(b, diagram.Options{Samples: true, Centers: true})
//	svg, err := diagram.RenderSVG(ctx, dot)
package diagram
