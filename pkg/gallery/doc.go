// Package gallery loads the project list behind a doodle wall and turns it
// into items for the layout engine.
//
// A gallery is a JSON or YAML array of [Project] records, read from a file
// or fetched over HTTP(S) without caching. [Items] measures each project
// with a [Measurer] and returns one [scatter.Item] per project, in order.
//
//	g, err := gallery.Load(ctx, "assets/data/projects.json", nil)
//	items := gallery.Items(ctx, g, gallery.FixedWidth(120))
//	scatter.Layout(items, 1200, 800, nil)
package gallery
