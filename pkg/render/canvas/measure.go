package canvas

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultFontSize is the pixel size used when a text node has no
	// font-size attribute.
	DefaultFontSize = 10.0

	fontCharWidth  = 0.55
	fontLineHeight = 1.2
	ptToPx         = 4.0 / 3.0
)

// FontSizePx converts a font-size attribute ("13pt", "16px", 12) to pixels.
// Unparseable values yield def.
func FontSizePx(v any, def float64) float64 {
	switch s := v.(type) {
	case float64:
		return s
	case int:
		return float64(s)
	case string:
		s = strings.TrimSpace(s)
		scale := 1.0
		switch {
		case strings.HasSuffix(s, "pt"):
			s, scale = strings.TrimSuffix(s, "pt"), ptToPx
		case strings.HasSuffix(s, "px"):
			s = strings.TrimSuffix(s, "px")
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f * scale
		}
	}
	return def
}

// TextBBox estimates the box of text drawn at (x, y) with the given pixel
// size and anchor. Text is centred vertically on y, one line per "\n".
func TextBBox(x, y float64, text string, size float64, anchor string) Box {
	lines := strings.Split(text, "\n")
	longest := 0
	for _, l := range lines {
		longest = max(longest, utf8.RuneCountInString(l))
	}
	w := float64(longest) * size * fontCharWidth
	h := float64(len(lines)) * size * fontLineHeight

	left := x
	switch anchor {
	case "end":
		left = x - w
	case "middle", "":
		left = x - w/2
	}
	return Box{X: left, Y: y - h/2, Width: w, Height: h}
}

// PathBBox returns the extent of the end points in an SVG path made of
// M, L, H, V, A and Z commands (absolute coordinates). Arc bulges are not
// included.
func PathBBox(d string) Box {
	var (
		xs, ys []float64
		cmd    byte
		nums   []float64
	)
	flush := func() {
		switch cmd {
		case 'M', 'L':
			for i := 0; i+1 < len(nums); i += 2 {
				xs, ys = append(xs, nums[i]), append(ys, nums[i+1])
			}
		case 'A':
			for i := 0; i+6 < len(nums); i += 7 {
				xs, ys = append(xs, nums[i+5]), append(ys, nums[i+6])
			}
		case 'H':
			for _, n := range nums {
				xs = append(xs, n)
			}
		case 'V':
			for _, n := range nums {
				ys = append(ys, n)
			}
		}
		nums = nums[:0]
	}

	for _, tok := range tokenizePath(d) {
		if len(tok) == 1 && strings.ContainsAny(tok, "MLHVAZmlhvaz") {
			flush()
			cmd = strings.ToUpper(tok)[0]
			continue
		}
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			nums = append(nums, f)
		}
	}
	flush()

	if len(xs) == 0 || len(ys) == 0 {
		return Box{}
	}
	minX, maxX := minMax(xs)
	minY, maxY := minMax(ys)
	return Box{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func tokenizePath(d string) []string {
	var toks []string
	var cur strings.Builder
	emit := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range d {
		switch {
		case strings.ContainsRune("MLHVAZmlhvaz", r):
			emit()
			toks = append(toks, string(r))
		case r == ' ' || r == ',' || r == '\n' || r == '\t':
			emit()
		case r == '-' && cur.Len() > 0 && !strings.HasSuffix(cur.String(), "e"):
			emit()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	emit()
	return toks
}

func minMax(v []float64) (lo, hi float64) {
	lo, hi = v[0], v[0]
	for _, x := range v[1:] {
		lo, hi = min(lo, x), max(hi, x)
	}
	return lo, hi
}
