// Package canvas defines the drawing surface plasmid maps render onto.
//
// The map layout code never writes SVG directly. It creates circles, paths
// and text through the [Canvas] interface, groups them in a [Set], styles
// them with [Attrs], binds click and hover handlers, and finally resizes the
// surface to the requested output size. This keeps layout and output
// independent: the same drawing calls feed the SVG, PNG and JSON sinks.
//
// [Scene] is the retained in-memory implementation. It records every
// primitive in paint order together with its visibility, attributes,
// transition duration and handlers, which lets sinks serialize the result
// and lets tests or the terminal UI replay interaction with
// [Scene.Click], [Scene.HoverIn] and [Scene.HoverOut].
package canvas
