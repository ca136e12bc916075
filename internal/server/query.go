package server

import (
	"net/url"
	"strconv"
	"strings"

	perrors "github.com/matzehuels/plasmap/pkg/errors"
	"github.com/matzehuels/plasmap/pkg/pipeline"
)

// parseMapQuery reads pipeline options from a query string:
//
//	format=svg|png|pdf|json  topology=circular|linear  name=pUC19
//	cutters=1,2  width=640  height=640  label_offset=10  opacity=0.7
//	fade_time=200  digest=true  extra=true  ticks=false  size=false
//	offset=100  static=true  scale=2  dom_id=map1
//
// Only one format is rendered per request.
func parseMapQuery(q url.Values) (pipeline.Options, error) {
	var (
		o pipeline.Options
		p = queryParser{q: q}
	)
	o.Topology = q.Get("topology")
	if f := q.Get("format"); f != "" {
		o.Formats = []string{strings.ToLower(f)}
	} else {
		o.Formats = []string{pipeline.FormatSVG}
	}

	m := &o.Map
	m.PlasmidName = q.Get("name")
	m.MapDOMID = q.Get("dom_id")
	m.MapWidth = p.int("width")
	m.MapHeight = p.int("height")
	m.FadeTime = p.int("fade_time")
	m.RegionStartOffset = p.int("offset")
	m.Digest = p.bool("digest")
	m.ShowExtraFeatures = p.bool("extra")
	m.LabelOffset = p.optInt("label_offset")
	m.Opacity = p.optFloat("opacity")
	m.DigestFadeFactor = p.optFloat("digest_fade_factor")
	m.DrawTicMarks = p.optBool("ticks")
	m.DrawPlasmidSize = p.optBool("size")
	if v := q.Get("cutters"); v != "" {
		m.Cutters = []int{}
		for _, part := range strings.Split(v, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				p.fail("cutters", v)
				break
			}
			m.Cutters = append(m.Cutters, n)
		}
	}
	o.Static = p.bool("static")
	if v := p.optFloat("scale"); v != nil {
		o.Scale = *v
	}

	if p.err != nil {
		return o, p.err
	}
	return o, o.Validate()
}

// queryParser records the first malformed parameter.
type queryParser struct {
	q   url.Values
	err error
}

func (p *queryParser) fail(key, value string) {
	if p.err == nil {
		p.err = perrors.New(perrors.ErrCodeInvalidInput, "invalid value %q for %s", value, key)
	}
}

func (p *queryParser) int(key string) int {
	if v := p.optInt(key); v != nil {
		return *v
	}
	return 0
}

func (p *queryParser) bool(key string) bool {
	if v := p.optBool(key); v != nil {
		return *v
	}
	return false
}

func (p *queryParser) optInt(key string) *int {
	v := p.q.Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v)
		return nil
	}
	return &n
}

func (p *queryParser) optFloat(key string) *float64 {
	v := p.q.Get(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v)
		return nil
	}
	return &f
}

func (p *queryParser) optBool(key string) *bool {
	v := p.q.Get(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, v)
		return nil
	}
	return &b
}
