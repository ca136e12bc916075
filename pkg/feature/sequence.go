package feature

import (
	"github.com/samber/lo"

	"github.com/matzehuels/plasmap/pkg/errors"
)

// Sequence is a parsed feature list together with the sequence length it
// annotates. It is shared read-only by every map drawn from it.
type Sequence struct {
	Length   int
	Features []*Feature
	Bases    string
}

// NewSequence validates features against length, numbers them in order and
// computes the enzyme cutter groups. The features are owned by the returned
// Sequence afterwards.
func NewSequence(length int, features []*Feature, bases string) (*Sequence, error) {
	if length <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidSequenceLength, "sequence length must be positive, got %d", length)
	}
	for i, f := range features {
		if f == nil {
			return nil, errors.New(errors.ErrCodeInvalidFeature, "feature %d: missing record", i)
		}
		if err := validate(f, length); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFeature, err, "feature %d (%s)", i, f.Name)
		}
		f.ID = i
	}
	s := &Sequence{Length: length, Features: features, Bases: bases}
	s.aggregateCutters()
	return s, nil
}

func validate(f *Feature, length int) error {
	if !f.Type.Valid() {
		return errors.New(errors.ErrCodeInvalidFeature, "unknown type_id %d", int(f.Type))
	}
	if f.Start < 1 || f.Start > length {
		return errors.New(errors.ErrCodeInvalidFeature, "start %d outside [1, %d]", f.Start, length)
	}
	if f.End < 1 || f.End > length {
		return errors.New(errors.ErrCodeInvalidFeature, "end %d outside [1, %d]", f.End, length)
	}
	return nil
}

// aggregateCutters groups enzymes by name in parse order and hands each
// member the full group, itself included.
func (s *Sequence) aggregateCutters() {
	enzymes := s.Enzymes()
	groups := lo.GroupBy(enzymes, func(f *Feature) string { return f.Name })
	for _, f := range enzymes {
		f.otherCutters = lo.Map(groups[f.Name], func(g *Feature, _ int) int { return g.ID })
	}
}

// Feature returns the feature with the given ID.
func (s *Sequence) Feature(id int) (*Feature, bool) {
	if id < 0 || id >= len(s.Features) {
		return nil, false
	}
	return s.Features[id], true
}

// Enzymes returns the restriction-site features in parse order.
func (s *Sequence) Enzymes() []*Feature {
	return lo.Filter(s.Features, func(f *Feature, _ int) bool { return f.IsEnzyme() })
}

// ORFs returns the open reading frames in parse order.
func (s *Sequence) ORFs() []*Feature {
	return lo.Filter(s.Features, func(f *Feature, _ int) bool { return f.IsORF() })
}

// Standard returns every feature that is neither an enzyme nor an ORF.
func (s *Sequence) Standard() []*Feature {
	return lo.Filter(s.Features, func(f *Feature, _ int) bool { return !f.IsEnzyme() && !f.IsORF() })
}

// OfType returns the features of type t in parse order.
func (s *Sequence) OfType(t Type) []*Feature {
	return lo.Filter(s.Features, func(f *Feature, _ int) bool { return f.Type == t })
}

// Cutters returns the enzyme features named name.
func (s *Sequence) Cutters(name string) []*Feature {
	return lo.Filter(s.Features, func(f *Feature, _ int) bool { return f.IsEnzyme() && f.Name == name })
}

// CutCounts maps each enzyme name to the number of sites it cuts.
func (s *Sequence) CutCounts() map[string]int {
	return lo.CountValuesBy(s.Enzymes(), func(f *Feature) string { return f.Name })
}

// TypeCounts maps each present type to its number of features.
func (s *Sequence) TypeCounts() map[Type]int {
	return lo.CountValuesBy(s.Features, func(f *Feature) Type { return f.Type })
}
