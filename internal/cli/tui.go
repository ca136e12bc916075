package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/plasmap/pkg/feature"
	"github.com/matzehuels/plasmap/pkg/pipeline"
	"github.com/matzehuels/plasmap/pkg/render/canvas"
	"github.com/matzehuels/plasmap/pkg/render/plasmid"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// maxCutterKey is the largest cut count that has a toggle key.
const maxCutterKey = 9

// =============================================================================
// ViewerModel - interactive map toggles
// =============================================================================

// ViewerModel is the bubbletea model behind the view command. Each toggle
// goes through the map facade and the SVG is written again.
type ViewerModel struct {
	ctx   context.Context
	m     *plasmid.Map
	scene *canvas.Scene
	opts  pipeline.Options
	path  string

	Types       []feature.Type
	counts      map[feature.Type]int
	Cursor      int
	TypeHidden  map[feature.Type]bool
	LabelHidden map[feature.Type]bool
	Extra       bool
	Cutters     []int

	Writes int
	Status string
	Err    error
}

// NewViewerModel wraps a drawn map. The SVG is written to path on every
// change.
func NewViewerModel(ctx context.Context, m *plasmid.Map, scene *canvas.Scene, opts pipeline.Options, path string) ViewerModel {
	opts.Formats = []string{pipeline.FormatSVG}
	return ViewerModel{
		ctx:         ctx,
		m:           m,
		scene:       scene,
		opts:        opts,
		path:        path,
		Types:       m.Types(),
		counts:      m.Sequence().TypeCounts(),
		TypeHidden:  map[feature.Type]bool{},
		LabelHidden: map[feature.Type]bool{},
		Extra:       m.Options().ShowExtraFeatures,
		Cutters:     m.Cutters(),
	}
}

func (v ViewerModel) Init() tea.Cmd {
	return nil
}

func (v ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch k := key.String(); k {
	case "q", "ctrl+c", "esc":
		return v, tea.Quit
	case "up", "k":
		if v.Cursor > 0 {
			v.Cursor--
		}
		return v, nil
	case "down", "j":
		if v.Cursor < len(v.Types)-1 {
			v.Cursor++
		}
		return v, nil
	case " ", "enter":
		v.toggleType()
	case "l":
		v.toggleLabels()
	case "x":
		v.toggleExtra()
	case "w":
		v.Status = "wrote " + v.path
	default:
		if len(k) != 1 || k[0] < '1' || k[0] > '0'+maxCutterKey {
			return v, nil
		}
		v.toggleCutter(int(k[0] - '0'))
	}
	v.save()
	return v, nil
}

func (v *ViewerModel) current() (feature.Type, bool) {
	if v.Cursor < 0 || v.Cursor >= len(v.Types) {
		return 0, false
	}
	return v.Types[v.Cursor], true
}

func (v *ViewerModel) toggleType() {
	t, ok := v.current()
	if !ok {
		return
	}
	if v.TypeHidden[t] {
		v.m.ShowFeatureType(t)
		v.TypeHidden[t] = false
		v.LabelHidden[t] = false
		v.Status = "showing " + t.String()
		return
	}
	v.m.HideFeatureType(t)
	v.TypeHidden[t] = true
	v.Status = "hiding " + t.String()
}

func (v *ViewerModel) toggleLabels() {
	t, ok := v.current()
	if !ok {
		return
	}
	if v.LabelHidden[t] {
		v.m.ShowFeatureLabelType(t)
		v.LabelHidden[t] = false
		v.Status = "labeling " + t.String()
		return
	}
	v.m.HideFeatureLabelType(t)
	v.LabelHidden[t] = true
	v.Status = "unlabeling " + t.String()
}

func (v *ViewerModel) toggleExtra() {
	v.Extra = !v.Extra
	if v.Extra {
		v.m.ShowExtraFeatures()
		v.Status = "showing extra features"
		return
	}
	v.m.HideExtraFeatures()
	v.Status = "hiding extra features"
}

func (v *ViewerModel) toggleCutter(n int) {
	if i := slices.Index(v.Cutters, n); i >= 0 {
		v.Cutters = slices.Delete(slices.Clone(v.Cutters), i, i+1)
	} else {
		v.Cutters = append(slices.Clone(v.Cutters), n)
		slices.Sort(v.Cutters)
	}
	v.m.RedrawCutters(v.Cutters)
	v.Status = "cutters " + formatCutters(v.Cutters)
}

// save renders the current drawing and writes it to the output path.
func (v *ViewerModel) save() {
	arts, err := pipeline.Render(v.ctx, v.m, v.scene, v.opts)
	if err == nil {
		err = os.WriteFile(v.path, arts[pipeline.FormatSVG], 0o644)
	}
	v.Err = err
	if err == nil {
		v.Writes++
	}
}

func (v ViewerModel) View() string {
	var b strings.Builder

	title := v.m.Options().PlasmidName
	if title == "" {
		title = "plasmid map"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s · %d bp · %s", v.m.Topology(), v.m.Sequence().Length, v.path)))
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(v.Types))
	for i, t := range v.Types {
		cursor := " "
		if i == v.Cursor {
			cursor = "›"
		}
		rows = append(rows, []string{
			cursor,
			t.String(),
			fmt.Sprint(v.counts[t]),
			onOff(!v.TypeHidden[t]),
			onOff(!v.TypeHidden[t] && !v.LabelHidden[t]),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Type", "Features", "Shown", "Labels").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == v.Cursor:
				return listSelectedStyle
			case row >= 0 && row < len(v.Types) && v.TypeHidden[v.Types[row]]:
				return listDimStyle
			}
			return listNormalStyle
		})
	b.WriteString(t.Render())
	b.WriteString("\n\n")

	b.WriteString(listNormalStyle.Render("extra features ") + StyleHighlight.Render(onOff(v.Extra)))
	b.WriteString("\n")
	b.WriteString(listNormalStyle.Render("cutters        ") + StyleHighlight.Render(formatCutters(v.Cutters)))
	b.WriteString("\n\n")

	switch {
	case v.Err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + v.Err.Error())
	case v.Status != "":
		b.WriteString(styleIconSuccess.Render(iconSuccess) + " " + v.Status)
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ move · space type · l labels · x extra · 1-9 cutters · w write · q quit"))
	b.WriteString("\n")
	return b.String()
}

func formatCutters(cutters []int) string {
	if len(cutters) == 0 {
		return "none"
	}
	parts := make([]string, len(cutters))
	for i, n := range cutters {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ",")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
