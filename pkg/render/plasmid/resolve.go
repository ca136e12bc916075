package plasmid

import (
	"github.com/samber/lo"
)

// tolerance controls when two features on the same lane count as
// overlapping. Units follow the sweep axis: degrees on circular maps,
// pixels on linear ones.
type tolerance struct {
	cutoff  float64 // overlaps at or below this are ignored
	pct     float64 // both overlap ratios must exceed this
	minSize float64 // features at or below this size never conflict
}

// span is a feature's extent along the sweep axis, which increases in
// sequence direction. On circular maps end may exceed 360 for features that
// cross the origin.
type span struct {
	start, end, size float64
}

func (s span) shift(d float64) span {
	return span{start: s.start + d, end: s.end + d, size: s.size}
}

// nextLane returns the lane tried after cur in round k (1-based). Starting
// from the baseline the lanes visited are 0, -1, +1, -2, +2, ...
func nextLane(cur, k int) int {
	if k%2 == 0 {
		return cur + k
	}
	return cur - k
}

// resolveConflicts moves overlapping features to alternate lanes and
// returns the largest extent reached.
func (m *Map) resolveConflicts() float64 {
	for _, f := range m.features {
		f.lane = 0
	}

	cur := 0
	extent := m.topo.extent(0)
	for k := 1; ; k++ {
		next := nextLane(cur, k)
		conflicts := m.resolveRound(cur, next)
		extent = max(extent, m.topo.extent(cur))

		m.logger.Debug("resolved lane", "lane", cur, "value", m.topo.laneValue(cur), "pushed", conflicts)

		cur = next
		if conflicts == 0 {
			break
		}
		if k == maxResolveRounds {
			extent = max(extent, m.topo.extent(cur))
			m.logger.Warn("lane resolution gave up, overlaps remain",
				"topology", m.topo.kind(), "rounds", k, "conflicts", conflicts)
			break
		}
	}

	lanes := lo.Uniq(lo.Map(m.features, func(f *drawnFeature, _ int) int { return f.lane }))
	m.logger.Debug("lanes assigned", "features", len(m.features), "lanes", len(lanes), "extent", extent)
	return extent
}

// skipped reports whether f takes no part in lane resolution. Extra
// features count as hidden unless they are switched on, whatever their
// current state.
func (m *Map) skipped(f *drawnFeature) bool {
	if !f.visible || (!f.DefaultShow && !m.showAll) {
		return true
	}
	return f.IsEnzyme() || m.topo.excluded(f)
}

// resolveRound sweeps the features on lane cur once (twice around a circle,
// to catch the origin) and pushes losers to lane next. It returns the
// number of pushes.
func (m *Map) resolveRound(cur, next int) int {
	for _, f := range m.features {
		f.pushed = nil
	}

	var (
		tol       = m.topo.tolerance()
		period    = m.topo.period()
		n         = len(m.features)
		walks     = 1
		conflicts int

		incumbent *drawnFeature
		incSize   float64
		furthest  float64
	)
	if period > 0 {
		walks = 2
	}

	push := func(winner, loser *drawnFeature) {
		winner.pushed = append(winner.pushed, loser)
		conflicts++
		loser.lane = next

		// The loser's own victims may return, unless they still clash with
		// the winner or one of their victims is back on this lane.
		for _, pf := range loser.pushed {
			if m.clash(winner, pf, tol.cutoff) {
				continue
			}
			if lo.ContainsBy(pf.pushed, func(p *drawnFeature) bool { return p.lane == cur }) {
				continue
			}
			pf.lane = cur
		}
	}

	for i := 0; i < walks*n; i++ {
		f := m.features[i%n]
		lap := i / n
		if lap > 0 && (incumbent == nil || furthest <= period) {
			break
		}
		if f.lane != cur || m.skipped(f) {
			continue
		}

		sp := m.topo.span(f).shift(float64(lap) * period)
		if incumbent == nil {
			incumbent, incSize, furthest = f, sp.size, sp.end
			continue
		}

		overlap := furthest - sp.start
		if overlap <= tol.cutoff {
			incumbent, incSize, furthest = f, sp.size, sp.end
			if lap > 0 {
				break
			}
			continue
		}

		if incumbent == f || incSize <= tol.minSize || sp.size <= tol.minSize {
			continue
		}
		if overlap > 0 && (overlap/incSize <= tol.pct || overlap/sp.size <= tol.pct) {
			continue
		}

		if sp.size > incSize {
			push(f, incumbent)
			incumbent, incSize, furthest = f, sp.size, sp.end
		} else {
			push(incumbent, f)
		}
	}
	return conflicts
}

// clash reports whether a and b overlap beyond cutoff, trying every
// wrapped copy of b on circular maps.
func (m *Map) clash(a, b *drawnFeature, cutoff float64) bool {
	sa, sb := m.topo.span(a), m.topo.span(b)
	shifts := []float64{0}
	if p := m.topo.period(); p > 0 {
		shifts = []float64{-p, 0, p}
	}
	return lo.SomeBy(shifts, func(d float64) bool {
		s := sb.shift(d)
		return sa.end-s.start > cutoff && s.end-sa.start > cutoff
	})
}
