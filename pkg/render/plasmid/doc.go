// Package plasmid lays out and draws circular and linear plasmid maps.
//
// # Overview
//
// A [Map] takes a parsed [feature.Sequence] and draws it onto a
// [canvas.Canvas]. Each update runs the same pipeline:
//
//  1. Lane resolution: overlapping features are pushed onto alternate
//     lanes (inner and outer rings, or rows above and below the line)
//     until no lane holds two features that overlap beyond tolerance.
//  2. Visibility: digest mode hides non-enzyme labels, and enzymes are
//     shown only when their cut count is in the cutter set.
//  3. Label placement: labels are grouped into sections around the map
//     and ordered so connector lines cross as little as possible.
//  4. Bounding box: the drawing grows to fit every label list.
//  5. Drawing and rescale to the requested output size.
//
// # Lanes
//
// Lanes are numbered from the baseline (0). Each resolution round moves the
// losers of the current lane to the next lane in the sequence
// 0, -1, +1, -2, +2, ... On circular maps lane i has radius 200 + 20i; on
// linear maps it sits 20i pixels below the plasmid line. When two features
// conflict the larger one stays. A feature that loses lets the features it
// had displaced come back, provided they no longer clash with the winner.
// Resolution stops after a round without pushes, or after eleven rounds
// with a warning on the map logger.
//
// # Interaction
//
// Features and labels are bound to click and hover handlers. Hovering a
// feature highlights it (and every other site of the same enzyme); clicking
// calls [Options.FeatureClick]. The per-type operations ([Map.HideFeatureType],
// [Map.ShowFeatureLabelType], ...) redraw the map, while the per-feature
// operations ([Map.HideFeature], ...) only toggle what is already drawn.
//
// # Concurrency
//
// A Map is not safe for concurrent use. Maps built from the same Sequence
// share its features read-only and may be drawn on separate goroutines.
package plasmid
