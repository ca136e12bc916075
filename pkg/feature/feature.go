package feature

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is the annotation kind of a feature. The numeric values are the
// type_id codes used by the input JSON.
type Type int

const (
	TypeFeature      Type = 1
	TypePromoter     Type = 2
	TypePrimer       Type = 3
	TypeEnzyme       Type = 4
	TypeGene         Type = 5
	TypeOrigin       Type = 6
	TypeRegulatory   Type = 7
	TypeTerminator   Type = 8
	TypeExactFeature Type = 9
	TypeORF          Type = 10
)

var typeNames = map[Type]string{
	TypeFeature:      "feature",
	TypePromoter:     "promoter",
	TypePrimer:       "primer",
	TypeEnzyme:       "enzyme",
	TypeGene:         "gene",
	TypeOrigin:       "origin",
	TypeRegulatory:   "regulatory",
	TypeTerminator:   "terminator",
	TypeExactFeature: "exact_feature",
	TypeORF:          "orf",
}

// Types lists every known type in type_id order.
var Types = []Type{
	TypeFeature, TypePromoter, TypePrimer, TypeEnzyme, TypeGene,
	TypeOrigin, TypeRegulatory, TypeTerminator, TypeExactFeature, TypeORF,
}

// String returns the lowercase type name, e.g. "enzyme".
func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "type(" + strconv.Itoa(int(t)) + ")"
}

// Valid reports whether t is one of the known type codes.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// ParseType resolves a type from its name ("orf", "Enzyme") or numeric code ("4").
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, n := range typeNames {
		if n == s {
			return t, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Type(n).Valid() {
		return Type(n), nil
	}
	return 0, fmt.Errorf("unknown feature type %q", s)
}

// Feature is one parsed annotation. Features are created by [Read] or
// [NewSequence] and never mutated afterwards; map views wrap them instead
// of copying them.
type Feature struct {
	ID          int    `json:"id" bson:"id"`
	Name        string `json:"feature" bson:"name"`
	Start       int    `json:"start" bson:"start"`
	End         int    `json:"end" bson:"end"`
	Type        Type   `json:"type_id" bson:"type_id"`
	Clockwise   bool   `json:"clockwise" bson:"clockwise"`
	Cut         int    `json:"cut,omitempty" bson:"cut,omitempty"`
	DefaultShow bool   `json:"show_feature" bson:"show_feature"`

	otherCutters []int
}

// CrossesBoundary reports whether the feature wraps past the origin.
func (f *Feature) CrossesBoundary() bool { return f.End < f.Start }

// IsEnzyme reports whether the feature is a restriction site.
func (f *Feature) IsEnzyme() bool { return f.Type == TypeEnzyme }

// IsORF reports whether the feature is an open reading frame.
func (f *Feature) IsORF() bool { return f.Type == TypeORF }

// HasCut reports whether an enzyme carries an explicit cut position.
func (f *Feature) HasCut() bool { return f.IsEnzyme() && f.Cut != 0 }

// CutPosition returns the enzyme cut site. Enzymes without an explicit cut
// fall back to their start; non-enzymes return -1.
func (f *Feature) CutPosition() int {
	if !f.IsEnzyme() {
		return -1
	}
	if f.Cut != 0 {
		return f.Cut
	}
	return f.Start
}

// CutCount returns how many times this enzyme cuts the sequence (0 for
// non-enzymes).
func (f *Feature) CutCount() int { return len(f.otherCutters) }

// OtherCutters returns the IDs of every enzyme feature sharing this one's
// name, itself included, in parse order.
func (f *Feature) OtherCutters() []int { return f.otherCutters }

// LabelName is the text shown in map labels. Enzymes with a known cut site
// show it in parentheses.
func (f *Feature) LabelName() string {
	if f.HasCut() {
		return f.Name + " (" + strconv.Itoa(f.Cut) + ")"
	}
	return f.Name
}

// BPSize returns the feature length in base pairs on a sequence of length n.
func (f *Feature) BPSize(n int) int {
	if f.CrossesBoundary() {
		return n - f.Start + f.End + 1
	}
	return f.End - f.Start + 1
}

// ClockwiseSequence returns the bases covered by the feature read in the
// forward direction, wrapping at the origin. It returns "" when seq does not
// cover the feature.
func (f *Feature) ClockwiseSequence(seq string) string {
	if len(seq) < f.Start || len(seq) < f.End {
		return ""
	}
	if f.End >= f.Start {
		return seq[f.Start-1 : f.End]
	}
	return seq[f.Start-1:] + seq[:f.End]
}
