package plasmid

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plasmap/pkg/feature"
	"github.com/matzehuels/plasmap/pkg/render/canvas"
)

func feat(name string, start, end int, typ feature.Type) *feature.Feature {
	return &feature.Feature{Name: name, Start: start, End: end, Type: typ, Clockwise: true, DefaultShow: true}
}

func newSeq(t *testing.T, length int, fs ...*feature.Feature) *feature.Sequence {
	t.Helper()
	seq, err := feature.NewSequence(length, fs, "")
	if err != nil {
		t.Fatalf("NewSequence: %v", err)
	}
	return seq
}

func newTestMap(t *testing.T, topo Topology, seq *feature.Sequence, opts Options) (*Map, *canvas.Scene) {
	t.Helper()
	scene := canvas.NewScene(drawSize, drawSize)
	m, err := New(topo, seq, scene, opts)
	if err != nil {
		t.Fatalf("New(%s): %v", topo, err)
	}
	return m, scene
}

func lanes(m *Map) []int {
	out := make([]int, len(m.features))
	for i, f := range m.features {
		out[i] = f.lane
	}
	return out
}

func TestNextLane(t *testing.T) {
	want := []int{-1, 1, -2, 2, -3, 3}
	cur := 0
	for k := 1; k <= len(want); k++ {
		cur = nextLane(cur, k)
		if cur != want[k-1] {
			t.Fatalf("round %d: lane = %d, want %d", k, cur, want[k-1])
		}
	}
}

func TestResolveRoundPush(t *testing.T) {
	tests := []struct {
		name       string
		a, b       [2]int
		wantPushed string
		wantWinner string
	}{
		{"equal sizes keep the incumbent", [2]int{100, 200}, [2]int{150, 250}, "B", "A"},
		{"larger newcomer displaces", [2]int{100, 200}, [2]int{150, 300}, "A", "B"},
	}
	for _, topo := range []Topology{Circular, Linear} {
		for _, tt := range tests {
			t.Run(string(topo)+"/"+tt.name, func(t *testing.T) {
				seq := newSeq(t, 1000,
					feat("A", tt.a[0], tt.a[1], feature.TypeFeature),
					feat("B", tt.b[0], tt.b[1], feature.TypeFeature))
				m, _ := newTestMap(t, topo, seq, Options{})

				if n := m.resolveRound(0, -1); n != 1 {
					t.Fatalf("resolveRound() = %d pushes, want 1", n)
				}
				byName := map[string]*drawnFeature{"A": m.features[0], "B": m.features[1]}
				winner, pushed := byName[tt.wantWinner], byName[tt.wantPushed]
				if winner.lane != 0 || pushed.lane != -1 {
					t.Errorf("lanes = %v, want winner on 0 and loser on -1", lanes(m))
				}
				if len(winner.pushed) != 1 || winner.pushed[0] != pushed {
					t.Errorf("winner.pushed = %v, want [%s]", winner.pushed, tt.wantPushed)
				}
			})
		}
	}
}

func TestResolveExtent(t *testing.T) {
	seq := newSeq(t, 1000,
		feat("A", 100, 200, feature.TypeFeature),
		feat("B", 150, 250, feature.TypeFeature))

	circ, _ := newTestMap(t, Circular, seq, Options{})
	circ.Draw()
	if got := circ.MaxExtent(); got != plasmidRadius {
		t.Errorf("circular MaxExtent() = %v, want %v", got, plasmidRadius)
	}
	if got := circ.LabelPos(); got != plasmidRadius+DefaultCircularLabelOffset {
		t.Errorf("circular LabelPos() = %v", got)
	}

	lin, _ := newTestMap(t, Linear, seq, Options{})
	lin.Draw()
	if got := lin.MaxExtent(); got != laneSpacing {
		t.Errorf("linear MaxExtent() = %v, want %v", got, laneSpacing)
	}
	if got := lanes(lin); got[0] != 0 || got[1] != -1 {
		t.Errorf("linear lanes = %v, want [0 -1]", got)
	}
}

func crowdedFeatures() []*feature.Feature {
	ccw := feat("f4", 250, 600, feature.TypeORF)
	ccw.Clockwise = false
	f7 := feat("f7", 550, 560, feature.TypePrimer)
	f7.Clockwise = false
	return []*feature.Feature{
		feat("f1", 10, 400, feature.TypeGene),
		feat("f2", 50, 120, feature.TypeFeature),
		feat("f3", 100, 300, feature.TypePromoter),
		ccw,
		feat("f5", 280, 320, feature.TypePrimer),
		feat("f6", 500, 900, feature.TypeFeature),
		f7,
		feat("f8", 700, 1200, feature.TypeGene),
		feat("f9", 1100, 1300, feature.TypeFeature),
		feat("f10", 1250, 1500, feature.TypeORF),
		feat("f11", 1480, 1490, feature.TypePrimer),
		feat("f12", 1600, 1990, feature.TypeFeature),
		feat("f13", 1900, 150, feature.TypeOrigin),
		feat("f14", 1950, 60, feature.TypeFeature),
		feat("EcoRI", 700, 700, feature.TypeEnzyme),
	}
}

func TestResolveLeavesNoOverlapOnALane(t *testing.T) {
	for _, topo := range []Topology{Circular, Linear} {
		t.Run(string(topo), func(t *testing.T) {
			m, _ := newTestMap(t, topo, newSeq(t, 2000, crowdedFeatures()...), Options{})
			m.Draw()

			for i, a := range m.features {
				for _, b := range m.features[i+1:] {
					if a.lane != b.lane || m.skipped(a) || m.skipped(b) {
						continue
					}
					if conflicting(m, a, b) {
						t.Errorf("%s and %s overlap on lane %d", a.Name, b.Name, a.lane)
					}
				}
			}
		})
	}
}

// conflicting applies the lane tolerance to every wrapped copy of b.
func conflicting(m *Map, a, b *drawnFeature) bool {
	tol := m.topo.tolerance()
	sa, sb := m.topo.span(a), m.topo.span(b)
	if sa.size <= tol.minSize || sb.size <= tol.minSize {
		return false
	}
	shifts := []float64{0}
	if p := m.topo.period(); p > 0 {
		shifts = []float64{-p, 0, p}
	}
	for _, d := range shifts {
		s := sb.shift(d)
		overlap := min(sa.end, s.end) - max(sa.start, s.start)
		if overlap <= tol.cutoff {
			continue
		}
		if overlap > 0 && (overlap/sa.size <= tol.pct || overlap/s.size <= tol.pct) {
			continue
		}
		return true
	}
	return false
}

func TestResolveIsIdempotent(t *testing.T) {
	for _, topo := range []Topology{Circular, Linear} {
		t.Run(string(topo), func(t *testing.T) {
			m, _ := newTestMap(t, topo, newSeq(t, 2000, crowdedFeatures()...), Options{})
			m.Draw()
			first, extent := lanes(m), m.MaxExtent()

			m.Redraw(true)
			m.Redraw(true)
			second := lanes(m)
			for i := range first {
				if first[i] != second[i] {
					t.Fatalf("lanes changed: %v then %v", first, second)
				}
			}
			if m.MaxExtent() != extent {
				t.Errorf("MaxExtent() = %v, want %v", m.MaxExtent(), extent)
			}
		})
	}
}

func TestResolveSkipsEnzymesAndHidden(t *testing.T) {
	hidden := feat("hidden", 100, 300, feature.TypeFeature)
	hidden.DefaultShow = false
	seq := newSeq(t, 1000,
		feat("A", 100, 200, feature.TypeFeature),
		hidden,
		feat("EcoRI", 150, 150, feature.TypeEnzyme))
	m, _ := newTestMap(t, Circular, seq, Options{})
	m.Draw()

	for _, f := range m.features {
		if f.lane != 0 {
			t.Errorf("%s moved to lane %d", f.Name, f.lane)
		}
	}
}

func TestResolveWrapsAroundOrigin(t *testing.T) {
	// B crosses the origin and overlaps A only after wrapping.
	seq := newSeq(t, 1000,
		feat("A", 5, 60, feature.TypeFeature),
		feat("B", 900, 40, feature.TypeFeature))
	m, _ := newTestMap(t, Circular, seq, Options{})
	m.Draw()

	a, b := m.features[0], m.features[1]
	if a.lane == b.lane {
		t.Fatalf("A and B share lane %d", a.lane)
	}
	if b.lane != 0 {
		t.Errorf("larger wrapping feature lane = %d, want 0", b.lane)
	}
}

func TestResolveGivesUpWithWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	var fs []*feature.Feature
	for range 14 {
		fs = append(fs, feat("dup", 100, 200, feature.TypeFeature))
	}
	m, _ := newTestMap(t, Circular, newSeq(t, 1000, fs...), Options{Logger: logger})
	m.Draw()

	if !strings.Contains(buf.String(), "lane resolution gave up") {
		t.Errorf("expected a warning, log was %q", buf.String())
	}
	// Eleven rounds visit lanes 0, -1, 1, ..., 5 and leave the rest on -6.
	if got, want := m.MaxExtent(), plasmidRadius+5*laneSpacing; got != want {
		t.Errorf("MaxExtent() = %v, want %v", got, want)
	}
}

func TestCircularWraparoundGeometry(t *testing.T) {
	seq := newSeq(t, 1000, feat("ori", 990, 10, feature.TypeFeature))
	m, _ := newTestMap(t, Circular, seq, Options{})
	m.Draw()

	g := m.Layout().Features[0]
	if want := 21.0 / 1000 * 360; math.Abs(g.Size-want) > 1e-9 {
		t.Errorf("real size = %v, want %v", g.Size, want)
	}
	if g.Center > PlasmidStart || g.Center <= PlasmidStart-360 {
		t.Errorf("real center %v outside (-270, 90]", g.Center)
	}
}

func TestArrowheadFloorsSize(t *testing.T) {
	seq := newSeq(t, 10000, feat("p", 100, 101, feature.TypePrimer))

	circ, _ := newTestMap(t, Circular, seq, Options{})
	circ.Draw()
	if got, want := circ.Layout().Features[0].Size, headAngle(plasmidRadius); math.Abs(got-want) > 1e-9 {
		t.Errorf("circular size = %v, want head floor %v", got, want)
	}

	lin, _ := newTestMap(t, Linear, seq, Options{})
	lin.Draw()
	if got := lin.Layout().Features[0].Size; got != linHeadLength {
		t.Errorf("linear size = %v, want %v", got, linHeadLength)
	}
}
