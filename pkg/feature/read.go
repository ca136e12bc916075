package feature

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/plasmap/pkg/errors"
)

// Read parses the map input format:
//
//	[seq_length, [feature, ...], "optional full sequence"]
//
// Each feature record carries feature, start, end, type_id, clockwise and
// optionally cut and show_feature. Numeric fields may be JSON numbers or
// numeric strings. Missing or non-numeric positions are rejected.
func Read(data []byte) (*Sequence, error) {
	var top []json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode feature list")
	}
	if len(top) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "expected [seq_length, features[, sequence]], got %d elements", len(top))
	}

	var length flexInt
	if err := json.Unmarshal(top[0], &length); err != nil || !length.set {
		return nil, errors.New(errors.ErrCodeInvalidSequenceLength, "sequence length is not an integer: %s", top[0])
	}

	var records []record
	if err := json.Unmarshal(top[1], &records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFeature, err, "decode features")
	}

	var bases string
	if len(top) > 2 {
		if err := json.Unmarshal(top[2], &bases); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode sequence")
		}
	}

	features := make([]*Feature, 0, len(records))
	for i, r := range records {
		f, err := r.feature()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFeature, err, "feature %d", i)
		}
		features = append(features, f)
	}
	return NewSequence(length.v, features, bases)
}

// ReadFile reads and parses a feature list from disk.
func ReadFile(path string) (*Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return Read(data)
}

// MarshalJSON writes the sequence back in the input format accepted by [Read].
func (s *Sequence) MarshalJSON() ([]byte, error) {
	records := make([]outRecord, len(s.Features))
	for i, f := range s.Features {
		show := 0
		if f.DefaultShow {
			show = 1
		}
		records[i] = outRecord{
			Feature: f.Name, Start: f.Start, End: f.End,
			TypeID: int(f.Type), Clockwise: f.Clockwise,
			Cut: f.Cut, ShowFeature: show,
		}
	}
	top := []any{s.Length, records}
	if s.Bases != "" {
		top = append(top, s.Bases)
	}
	return json.Marshal(top)
}

type record struct {
	Feature     *string  `json:"feature"`
	Start       flexInt  `json:"start"`
	End         flexInt  `json:"end"`
	TypeID      flexInt  `json:"type_id"`
	Clockwise   flexBool `json:"clockwise"`
	Cut         flexInt  `json:"cut"`
	ShowFeature flexInt  `json:"show_feature"`
}

type outRecord struct {
	Feature     string `json:"feature"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	TypeID      int    `json:"type_id"`
	Clockwise   bool   `json:"clockwise"`
	Cut         int    `json:"cut,omitempty"`
	ShowFeature int    `json:"show_feature"`
}

func (r record) feature() (*Feature, error) {
	switch {
	case !r.Start.set:
		return nil, fmt.Errorf("missing start")
	case !r.End.set:
		return nil, fmt.Errorf("missing end")
	case !r.TypeID.set:
		return nil, fmt.Errorf("missing type_id")
	}
	f := &Feature{
		Start:       r.Start.v,
		End:         r.End.v,
		Type:        Type(r.TypeID.v),
		Clockwise:   r.Clockwise.v,
		Cut:         r.Cut.v,
		DefaultShow: !r.ShowFeature.set || r.ShowFeature.v != 0,
	}
	if r.Feature != nil {
		f.Name = *r.Feature
	}
	return f, nil
}

// flexInt accepts 12, 12.0 and "12". Null and "" leave it unset.
type flexInt struct {
	v   int
	set bool
}

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if s == "null" {
		return nil
	}
	s = strings.TrimSpace(strings.Trim(s, `"`))
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) || f < float64(math.MinInt) || f >= float64(math.MaxInt) {
			return fmt.Errorf("not an integer: %s", b)
		}
		v = int(f)
	}
	n.v, n.set = v, true
	return nil
}

// flexBool accepts true, 1, "true" and "1".
type flexBool struct {
	v bool
}

func (fb *flexBool) UnmarshalJSON(b []byte) error {
	s := strings.ToLower(strings.Trim(string(bytes.TrimSpace(b)), `"`))
	switch s {
	case "true", "1":
		fb.v = true
	case "false", "0", "", "null":
		fb.v = false
	default:
		return fmt.Errorf("not a boolean: %s", b)
	}
	return nil
}
