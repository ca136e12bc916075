// Package feature parses plasmid annotation lists.
//
// The input is the JSON triple produced by the annotation service:
//
//	[2686, [{"feature": "EcoRI", "start": 396, "end": 401, "type_id": 4, "cut": 396, "clockwise": true}, ...], "tcgcgcgtttcgg..."]
//
// [Read] turns it into a [Sequence]: an ordered list of immutable
// [Feature] values plus the sequence length. Parsing also groups
// restriction enzymes by name so every cutter knows how many sites it has
// ([Feature.CutCount]) and where its siblings are ([Feature.OtherCutters]).
// Those counts belong to the sequence, not to any one drawing, and are
// computed once here.
//
// Map views in package plasmid wrap features rather than copy them, so one
// Sequence can back a circular and a linear map at the same time.
package feature
