package vision

import "sort"

// grid describes a detected ruled table as sorted pixel boundaries.
// len(rowBounds)-1 rows by len(colBounds)-1 columns.
type grid struct {
	rowBounds []int
	colBounds []int
}

func (g *grid) rows() int { return len(g.rowBounds) - 1 }
func (g *grid) cols() int { return len(g.colBounds) - 1 }

// detectGrid looks for a ruled table grid in the ink mask. It returns nil
// when fewer than a 2x2 cell grid is present.
func detectGrid(mask *inkMask) *grid {
	// A ruled line must span a substantial fraction of the image to count;
	// short strokes and underlines are ignored.
	minHRun := mask.w / 3
	minVRun := mask.h / 3

	hLines := horizontalLines(mask, minHRun)
	vLines := verticalLines(mask, minVRun)

	rowBounds := mergeLinePositions(hLines, lineMergeGap(mask.h))
	colBounds := mergeLinePositions(vLines, lineMergeGap(mask.w))

	// 2x2 cells requires 3 boundaries on each axis.
	if len(rowBounds) < 3 || len(colBounds) < 3 {
		return nil
	}
	return &grid{rowBounds: rowBounds, colBounds: colBounds}
}

// lineMergeGap returns how close two detected scanlines must be to belong to
// the same (thick or slightly bent) ruled line.
func lineMergeGap(dim int) int {
	gap := dim / 100
	if gap < 3 {
		gap = 3
	}
	return gap
}

// horizontalLines returns the y coordinates of scanlines whose longest
// contiguous ink run meets the minimum length.
func horizontalLines(mask *inkMask, minRun int) []int {
	var lines []int
	for y := 0; y < mask.h; y++ {
		run, best := 0, 0
		for x := 0; x < mask.w; x++ {
			if mask.at(x, y) {
				run++
				if run > best {
					best = run
				}
			} else {
				run = 0
			}
		}
		if best >= minRun {
			lines = append(lines, y)
		}
	}
	return lines
}

// verticalLines returns the x coordinates of columns whose longest contiguous
// ink run meets the minimum length.
func verticalLines(mask *inkMask, minRun int) []int {
	var lines []int
	for x := 0; x < mask.w; x++ {
		run, best := 0, 0
		for y := 0; y < mask.h; y++ {
			if mask.at(x, y) {
				run++
				if run > best {
					best = run
				}
			} else {
				run = 0
			}
		}
		if best >= minRun {
			lines = append(lines, x)
		}
	}
	return lines
}

// mergeLinePositions collapses adjacent scanline coordinates into single line
// centers. Ruled lines are several pixels thick, so consecutive coordinates
// within maxGap are one line.
func mergeLinePositions(positions []int, maxGap int) []int {
	if len(positions) == 0 {
		return nil
	}
	sort.Ints(positions)

	var merged []int
	start := positions[0]
	prev := positions[0]
	for _, p := range positions[1:] {
		if p-prev > maxGap {
			merged = append(merged, (start+prev)/2)
			start = p
		}
		prev = p
	}
	merged = append(merged, (start+prev)/2)
	return merged
}
