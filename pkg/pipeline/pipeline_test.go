package pipeline

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/plasmap/pkg/cache"
	"github.com/matzehuels/plasmap/pkg/errors"
	"github.com/matzehuels/plasmap/pkg/observability"
	"github.com/matzehuels/plasmap/pkg/render/plasmid"
)

const puc19 = `[2686, [
	{"feature": "lacZ-alpha", "start": 146, "end": 469, "type_id": 5, "clockwise": false},
	{"feature": "lac promoter", "start": 470, "end": 500, "type_id": 2, "clockwise": false},
	{"feature": "AmpR", "start": 1626, "end": 2486, "type_id": 5, "clockwise": false},
	{"feature": "ori", "start": 867, "end": 1455, "type_id": 6, "clockwise": false},
	{"feature": "EcoRI", "start": 396, "end": 401, "type_id": 4, "cut": 397, "clockwise": true},
	{"feature": "HindIII", "start": 447, "end": 452, "type_id": 4, "cut": 448, "clockwise": true}
]]`

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	o.SetDefaults()
	if o.Topology != "circular" {
		t.Errorf("Topology = %q, want circular", o.Topology)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", o.Formats)
	}
	if o.Scale != DefaultScale {
		t.Errorf("Scale = %g, want %g", o.Scale, DefaultScale)
	}
	if o.Logger == nil || o.Map.Logger != o.Logger {
		t.Error("map should inherit the pipeline logger")
	}

	o = Options{Formats: []string{"svg", "png", "svg"}}
	o.SetDefaults()
	if len(o.Formats) != 2 {
		t.Errorf("duplicate formats kept: %v", o.Formats)
	}
}

func TestOptionsValidate(t *testing.T) {
	bad := -0.5
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"topology", Options{Topology: "helical"}, errors.ErrCodeInvalidTopology},
		{"format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"scale", Options{Scale: -1}, errors.ErrCodeInvalidConfig},
		{"map opacity", Options{Map: plasmid.Options{Opacity: &bad}}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want code %s", err, tt.code)
			}
		})
	}
	if err := (Options{}).Validate(); err != nil {
		t.Errorf("zero Options should validate: %v", err)
	}
}

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		data string
	}{
		{"toml", ".toml", `
topology = "linear"
formats = ["svg", "json"]

[map]
plasmid_name = "pUC19"
cutters = [1, 2]
opacity = 0.0
draw_tic_mark = false
`},
		{"yaml", ".yml", `
topology: linear
formats: [svg, json]
map:
  plasmid_name: pUC19
  cutters: [1, 2]
  opacity: 0
  draw_tic_mark: false
`},
		{"json", "json", `{"topology": "linear", "formats": ["svg", "json"],
 "map": {"plasmid_name": "pUC19", "cutters": [1, 2], "opacity": 0, "draw_tic_mark": false}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := ParseConfig([]byte(tt.data), tt.ext)
			if err != nil {
				t.Fatalf("ParseConfig() error: %v", err)
			}
			if o.Topology != "linear" || len(o.Formats) != 2 || o.Map.PlasmidName != "pUC19" {
				t.Errorf("decoded %+v", o)
			}
			if len(o.Map.Cutters) != 2 || o.Map.Cutters[1] != 2 {
				t.Errorf("Cutters = %v", o.Map.Cutters)
			}
			if o.Map.Opacity == nil || *o.Map.Opacity != 0 {
				t.Error("explicit zero opacity lost")
			}
			if o.Map.DrawTicMarks == nil || *o.Map.DrawTicMarks {
				t.Error("draw_tic_mark = false lost")
			}
			if o.Map.LabelOffset != nil {
				t.Error("unset label_offset should stay nil")
			}
		})
	}
}

func TestParseConfigRejects(t *testing.T) {
	tests := []struct {
		name, ext, data string
	}{
		{"unknown toml key", ".toml", `topolgy = "linear"`},
		{"unknown yaml key", ".yaml", "formatz: [svg]\n"},
		{"unknown json key", ".json", `{"scael": 2}`},
		{"bad extension", ".ini", ""},
		{"invalid value", ".toml", `formats = ["bmp"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.data), tt.ext); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.toml")
	if err := os.WriteFile(path, []byte("topology = \"linear\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	o, err := LoadConfig(path)
	if err != nil || o.Topology != "linear" {
		t.Errorf("LoadConfig() = %+v, %v", o, err)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(cache.NewMemoryCache(), nil, nil)
	opts := Options{Formats: []string{FormatSVG, FormatJSON}, Map: plasmid.Options{PlasmidName: "pUC19"}}

	res, err := r.Execute(context.Background(), []byte(puc19), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.Stats.FeatureCount != 6 || res.Sequence.Length != 2686 {
		t.Errorf("sequence = %d features, length %d", res.Stats.FeatureCount, res.Sequence.Length)
	}
	if res.Map == nil || res.Scene == nil {
		t.Fatal("fresh run should carry the drawn map")
	}
	if res.CacheInfo != (CacheInfo{}) {
		t.Errorf("first run CacheInfo = %+v", res.CacheInfo)
	}
	svg := string(res.Artifacts[FormatSVG])
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "pUC19") {
		t.Error("SVG artifact incomplete")
	}
	var layout plasmid.Layout
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &layout); err != nil {
		t.Fatalf("JSON artifact: %v", err)
	}
	if layout.Topology != plasmid.Circular || len(layout.Features) != 6 {
		t.Errorf("JSON layout = %s, %d features", layout.Topology, len(layout.Features))
	}

	again, err := r.Execute(context.Background(), []byte(puc19), opts)
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !again.CacheInfo.ParseHit || !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v", again.CacheInfo)
	}
	if again.Map != nil {
		t.Error("cached run should not draw")
	}
	if string(again.Artifacts[FormatSVG]) != svg {
		t.Error("cached SVG differs")
	}
	if again.Layout.MaxExtent != res.Layout.MaxExtent {
		t.Error("cached layout differs")
	}
}

func TestExecuteSharesLayoutAcrossFormatting(t *testing.T) {
	r := NewRunner(cache.NewMemoryCache(), nil, nil)
	ctx := context.Background()
	if _, err := r.Execute(ctx, []byte(puc19), Options{}); err != nil {
		t.Fatal(err)
	}

	compact := strings.Join(strings.Fields(puc19), " ")
	res, err := r.Execute(ctx, []byte(compact), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.ParseHit {
		t.Error("different bytes should miss the sequence cache")
	}
	if !res.CacheInfo.RenderHit {
		t.Error("same features should hit the artifact cache")
	}
}

func TestExecuteCacheKeys(t *testing.T) {
	r := NewRunner(cache.NewMemoryCache(), nil, nil)
	ctx := context.Background()
	if _, err := r.Execute(ctx, []byte(puc19), Options{}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		opts Options
	}{
		{"topology", Options{Topology: "linear"}},
		{"map option", Options{Map: plasmid.Options{Cutters: []int{1, 2}}}},
		{"static", Options{Static: true}},
		{"refresh", Options{Refresh: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Execute(ctx, []byte(puc19), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if res.CacheInfo.RenderHit {
				t.Error("changed inputs should not be served from cache")
			}
		})
	}
}

func TestExecuteSequence(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()
	seq, _, _, err := r.Read(ctx, []byte(puc19), Options{})
	if err != nil {
		t.Fatal(err)
	}
	res, err := r.ExecuteSequence(ctx, seq, Options{Topology: "linear"})
	if err != nil {
		t.Fatalf("ExecuteSequence() error: %v", err)
	}
	if res.Layout.Topology != plasmid.Linear || len(res.Artifacts[FormatSVG]) == 0 {
		t.Errorf("layout %s, svg %d bytes", res.Layout.Topology, len(res.Artifacts[FormatSVG]))
	}
}

func TestExecuteRejectsBadInput(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	nan := math.NaN()
	tests := []struct {
		name string
		data string
		opts Options
		code errors.Code
	}{
		{"not json", `{`, Options{}, errors.ErrCodeInvalidInput},
		{"zero length", `[0, []]`, Options{}, errors.ErrCodeInvalidSequenceLength},
		{"feature outside sequence", `[100, [{"feature": "x", "start": 5, "end": 500, "type_id": 1}]]`, Options{}, errors.ErrCodeInvalidFeature},
		{"bad format", puc19, Options{Formats: []string{"tiff"}}, errors.ErrCodeInvalidFormat},
		{"NaN opacity", puc19, Options{Map: plasmid.Options{Opacity: &nan}}, errors.ErrCodeInvalidConfig},
		{"NaN scale", puc19, Options{Scale: math.NaN()}, errors.ErrCodeInvalidConfig},
		{"infinite scale", puc19, Options{Scale: math.Inf(1)}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(context.Background(), []byte(tt.data), tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("Execute() = %v, want code %s", err, tt.code)
			}
		})
	}
}

// unkeyedLayouts reports every layout as having no stable cache key.
type unkeyedLayouts struct{ cache.DefaultKeyer }

func (unkeyedLayouts) LayoutKey(string, cache.LayoutKeyOpts) string { return "" }

func TestExecuteSkipsCacheWithoutKey(t *testing.T) {
	mem := cache.NewMemoryCache()
	r := NewRunner(mem, unkeyedLayouts{}, nil)
	ctx := context.Background()

	alpha := `[1000, [{"feature": "alpha", "start": 100, "end": 300, "type_id": 5}]]`
	beta := `[1000, [{"feature": "beta", "start": 400, "end": 600, "type_id": 5}]]`
	if _, err := r.Execute(ctx, []byte(alpha), Options{Map: plasmid.Options{PlasmidName: "alpha"}}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, []byte(beta), Options{Map: plasmid.Options{PlasmidName: "beta"}})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("CacheInfo = %+v, want layout and render misses", res.CacheInfo)
	}
	svg := string(res.Artifacts[FormatSVG])
	if !strings.Contains(svg, "beta") || strings.Contains(svg, "alpha") {
		t.Error("second sequence served another sequence's map")
	}
	// Only the two parsed sequences are cached.
	if n := mem.Len(); n != 2 {
		t.Errorf("cache holds %d entries, want 2", n)
	}
}

func TestExecutePNGPureGo(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := Options{Formats: []string{FormatPNG}, PureGo: true, Scale: 1, Map: plasmid.Options{MapWidth: 100, MapHeight: 100}}
	res, err := r.Execute(context.Background(), []byte(puc19), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if png := res.Artifacts[FormatPNG]; len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Error("PNG artifact missing signature")
	}
}

type stageRecorder struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *stageRecorder) record(e string) {
	h.mu.Lock()
	h.events = append(h.events, e)
	h.mu.Unlock()
}

func (h *stageRecorder) OnParseComplete(_ context.Context, _ string, n int, _ time.Duration, _ error) {
	h.record("parse")
}

func (h *stageRecorder) OnLayoutComplete(_ context.Context, topo string, _ time.Duration, _ error) {
	h.record("layout:" + topo)
}

func (h *stageRecorder) OnRenderComplete(_ context.Context, formats []string, _ time.Duration, _ error) {
	h.record("render:" + strings.Join(formats, ","))
}

func TestExecuteEmitsHooks(t *testing.T) {
	rec := &stageRecorder{}
	observability.SetPipelineHooks(rec)
	t.Cleanup(observability.Reset)

	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), []byte(puc19), Options{Topology: "linear"}); err != nil {
		t.Fatal(err)
	}
	want := "parse layout:linear render:svg"
	if got := strings.Join(rec.events, " "); got != want {
		t.Errorf("events = %q, want %q", got, want)
	}
}
