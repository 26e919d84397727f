// CLAUDE:SUMMARY Synthesizes inline [X]/[ ] markers from PDF vector checkbox drawings.
package extract

import "math"

// ptPerCm converts centimetres to PDF user-space points (72 dpi).
const ptPerCm = 72.0 / 2.54

// squareSideSlack is the maximum width/height difference, in user-space
// units, for a rectangle to still count as a square.
const squareSideSlack = 2.0

// marker is a synthesized checkbox glyph positioned on the page.
type marker struct {
	x, y  float64
	glyph string
}

// checkboxMarkers detects checkbox-style form widgets among the page's
// vector drawings. Drawings are clustered by fixed-radius single-link
// grouping on their bounding-box centroids; a group containing a small
// near-square rectangle is a checkbox, checked when the group collectively
// draws at least two line segments (the cross strokes).
//
// This is a layout heuristic. Small decorative squares can produce false
// positives; that is accepted.
func checkboxMarkers(ds []drawing, cfg CheckboxConfig) []marker {
	minSide := cfg.MinSizeCm * ptPerCm
	maxSide := cfg.MaxSizeCm * ptPerCm

	var out []marker
	for _, group := range clusterDrawings(ds, cfg.Radius) {
		var boxX, boxY float64
		found := false
		segments := 0

		for _, idx := range group {
			d := ds[idx]
			segments += d.segments
			if found {
				continue
			}
			for _, r := range d.rects {
				if isCheckboxSquare(r, minSide, maxSide) {
					boxX, boxY = d.centroid()
					found = true
					break
				}
			}
		}
		if !found {
			continue
		}

		glyph := "[ ]"
		if segments >= 2 {
			glyph = "[X]"
		}
		// Nudged slightly upward so the marker sorts just before the
		// label text that follows it in reading order.
		out = append(out, marker{x: boxX, y: boxY + 1, glyph: glyph})
	}
	return out
}

func isCheckboxSquare(r rectShape, minSide, maxSide float64) bool {
	w, h := math.Abs(r.w), math.Abs(r.h)
	if math.Abs(w-h) > squareSideSlack {
		return false
	}
	side := math.Max(w, h)
	return side >= minSide && side <= maxSide
}

// clusterDrawings groups drawings whose centroids lie within radius of any
// member already in the group (single-link, transitive within one pass).
func clusterDrawings(ds []drawing, radius float64) [][]int {
	used := make([]bool, len(ds))
	var groups [][]int

	for i := range ds {
		if used[i] {
			continue
		}
		used[i] = true
		group := []int{i}

		for j := 0; j < len(group); j++ {
			ax, ay := ds[group[j]].centroid()
			for k := range ds {
				if used[k] {
					continue
				}
				bx, by := ds[k].centroid()
				if math.Hypot(ax-bx, ay-by) <= radius {
					used[k] = true
					group = append(group, k)
				}
			}
		}
		groups = append(groups, group)
	}
	return groups
}
