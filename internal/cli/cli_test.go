package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/plasmap/pkg/buildinfo"
	"github.com/matzehuels/plasmap/pkg/errors"
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

// testEnv isolates a command run: a private cache dir, no Redis, and the
// fixture written to dir/puc19.json.
func testEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(envRedisURL, "")
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "puc19.json"), []byte(puc19), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

// run executes the root command with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(puc19))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,pdf,png", []string{"svg", "pdf", "png"}},
		{" SVG , json,", []string{"svg", "json"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseCutters(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{"1", []int{1}, false},
		{"1, 2,3", []int{1, 2, 3}, false},
		{"none", []int{}, false},
		{"0", nil, true},
		{"two", nil, true},
	}
	for _, tt := range tests {
		got, err := parseCutters(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseCutters(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !slices.Equal(got, tt.want) {
			t.Errorf("parseCutters(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if tt.input == "none" && got == nil {
			t.Error(`parseCutters("none") = nil, want an empty selection`)
		}
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"render", "inspect", "view", "serve", "cache", "version", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	dir := testEnv(t)
	input := filepath.Join(dir, "puc19.json")

	out, err := run(t, "render", input, "-f", "svg,json", "--name", "pUC19", "-t", "linear")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(out, "Rendered linear map") || !strings.Contains(out, iconFresh) {
		t.Errorf("output = %q", out)
	}

	svg, err := os.ReadFile(filepath.Join(dir, "puc19.svg"))
	if err != nil {
		t.Fatalf("svg not written: %v", err)
	}
	if !bytes.Contains(svg, []byte("pUC19")) {
		t.Error("svg missing plasmid name")
	}

	data, err := os.ReadFile(filepath.Join(dir, "puc19.layout.json"))
	if err != nil {
		t.Fatalf("layout not written: %v", err)
	}
	var l plasmid.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		t.Fatalf("layout json: %v", err)
	}
	if l.Topology != plasmid.Linear || l.Length != 2686 || len(l.Features) != 6 {
		t.Errorf("layout = %s %d bp %d features", l.Topology, l.Length, len(l.Features))
	}

	// The input is left alone and a second run is served from the cache.
	if in, _ := os.ReadFile(input); string(in) != puc19 {
		t.Error("input overwritten")
	}
	out, err = run(t, "render", input, "-f", "svg,json", "--name", "pUC19", "-t", "linear")
	if err != nil {
		t.Fatalf("second render error: %v", err)
	}
	if !strings.Contains(out, iconCached) {
		t.Errorf("second run output = %q, want cached", out)
	}
}

func TestRenderCommandStdin(t *testing.T) {
	dir := testEnv(t)
	base := filepath.Join(dir, "out", "map")

	if _, err := run(t, "render", "-", "-o", base+".svg", "--no-cache", "--static"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("svg not written: %v", err)
	}
	if bytes.Contains(svg, []byte("<script")) {
		t.Error("static svg carries a script")
	}
}

func TestRenderCommandConfigOverride(t *testing.T) {
	dir := testEnv(t)
	config := filepath.Join(dir, "map.toml")
	toml := "topology = \"linear\"\nformats = [\"json\"]\n\n[map]\nplasmid_name = \"from file\"\ncutters = [1, 2]\n"
	if err := os.WriteFile(config, []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := run(t, "render", filepath.Join(dir, "puc19.json"), "-c", config, "--name", "from flag", "--no-cache")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "puc19.layout.json"))
	if err != nil {
		t.Fatalf("formats from the config file not used: %v", err)
	}
	var l plasmid.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		t.Fatal(err)
	}
	if l.Name != "from flag" {
		t.Errorf("Name = %q, want the flag value", l.Name)
	}
	if l.Topology != plasmid.Linear {
		t.Errorf("Topology = %s, want linear from the file", l.Topology)
	}
	if !slices.Equal(l.Cutters, []int{1, 2}) {
		t.Errorf("Cutters = %v, want [1 2] from the file", l.Cutters)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := testEnv(t)
	input := filepath.Join(dir, "puc19.json")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing input", []string{"render", filepath.Join(dir, "nope.json")}, errors.ErrCodeNotFound},
		{"bad format", []string{"render", input, "-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"bad topology", []string{"render", input, "-t", "spiral"}, errors.ErrCodeInvalidTopology},
		{"bad cutters", []string{"render", input, "--cutters", "x"}, errors.ErrCodeInvalidInput},
		{"bad opacity", []string{"render", input, "--opacity", "2"}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestInspectCommand(t *testing.T) {
	dir := testEnv(t)

	out, err := run(t, "inspect", filepath.Join(dir, "puc19.json"), "--name", "pUC19", "--cutters", "1")
	if err != nil {
		t.Fatalf("inspect error: %v", err)
	}
	for _, want := range []string{"pUC19", "2686 bp", "lacZ-alpha", "AmpR", "ENZYME", "EcoRI", "HindIII", "promoter, enzyme, gene, origin"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q", want)
		}
	}
}

func TestCacheCommands(t *testing.T) {
	dir := testEnv(t)

	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	want, _ := cacheDir()
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}

	if out, _ = run(t, "cache", "clear"); !strings.Contains(out, "Cache is empty") {
		t.Errorf("clear on empty cache = %q", out)
	}
	if _, err := run(t, "render", filepath.Join(dir, "puc19.json")); err != nil {
		t.Fatal(err)
	}
	if out, _ = run(t, "cache", "clear"); !strings.Contains(out, "Cleared 3 cached entries") {
		t.Errorf("clear after render = %q, want sequence, layout and svg removed", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version", "--json")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	var info buildinfo.Info
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("version json: %v", err)
	}
	if info.Version == "" || info.Go == "" {
		t.Errorf("info = %+v", info)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error: %v", err)
	}
	if !strings.Contains(out, "plasmap") {
		t.Error("bash completion does not mention the command")
	}
	if _, err := run(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell accepted")
	}
}
