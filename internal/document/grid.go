package document

import (
	"sort"
	"strings"
)

// GridConfig tunes geometric table-candidate detection.
type GridConfig struct {
	ColumnTolerance float64 // max X distance (points) between starts in one column
	MinRows         int     // min consecutive aligned lines for a table
	MinCols         int     // min aligned columns a line must hit
	JoinGap         float64 // runs closer than this (points) are joined without a space
}

// DefaultGridConfig returns the detection defaults.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		ColumnTolerance: 4.0,
		MinRows:         2,
		MinCols:         3,
		JoinGap:         1.0,
	}
}

// word is a positioned run of text on a page.
type word struct {
	X, W float64
	S    string
}

// line is one visual row of words, left to right.
type line struct {
	Y     float64
	Words []word
}

// mergeRuns joins runs that touch horizontally (per-glyph emitters) into words.
// Runs without a known width are kept separate.
func mergeRuns(ws []word, joinGap float64) []word {
	var out []word
	for _, w := range ws {
		if strings.TrimSpace(w.S) == "" {
			continue
		}
		if n := len(out); n > 0 {
			prev := &out[n-1]
			if prev.W > 0 && w.X-(prev.X+prev.W) < joinGap && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(w.S, " ") {
				prev.S += w.S
				prev.W = w.X + w.W - prev.X
				continue
			}
		}
		out = append(out, w)
	}
	for i := range out {
		out[i].S = strings.TrimSpace(out[i].S)
	}
	return out
}

// renderText joins words with single spaces and lines with newlines.
func renderText(lines []line) string {
	var b strings.Builder
	for i, ln := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, w := range ln.Words {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(w.S)
		}
	}
	return b.String()
}

type column struct {
	x     float64
	lines map[int]struct{}
}

// columnAnchors clusters word start positions and keeps clusters that start
// words on at least minRows distinct lines.
func columnAnchors(lines []line, cfg GridConfig) []float64 {
	type start struct {
		x    float64
		line int
	}
	var starts []start
	for i, ln := range lines {
		for _, w := range ln.Words {
			starts = append(starts, start{x: w.X, line: i})
		}
	}
	if len(starts) == 0 {
		return nil
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].x < starts[j].x })

	var cols []column
	last := starts[0].x
	cur := column{x: starts[0].x, lines: map[int]struct{}{}}
	for _, s := range starts {
		if s.x-last > cfg.ColumnTolerance {
			cols = append(cols, cur)
			cur = column{x: s.x, lines: map[int]struct{}{}}
		}
		cur.lines[s.line] = struct{}{}
		last = s.x
	}
	cols = append(cols, cur)

	var anchors []float64
	for _, c := range cols {
		if len(c.lines) >= cfg.MinRows {
			anchors = append(anchors, c.x)
		}
	}
	return anchors
}

// anchorIndex returns the index of the anchor a word starting at x belongs to, or -1.
func anchorIndex(anchors []float64, x, tol float64) int {
	for i, a := range anchors {
		if x >= a-tol && x <= a+tol*2 {
			return i
		}
	}
	return -1
}

// detectTables finds runs of consecutive lines whose words start on shared
// column anchors and lays their words out as table candidates.
func detectTables(lines []line, cfg GridConfig) []Table {
	anchors := columnAnchors(lines, cfg)
	if len(anchors) < cfg.MinCols {
		return nil
	}

	aligned := make([]bool, len(lines))
	for i, ln := range lines {
		hit := map[int]struct{}{}
		for _, w := range ln.Words {
			if idx := anchorIndex(anchors, w.X, cfg.ColumnTolerance); idx >= 0 {
				hit[idx] = struct{}{}
			}
		}
		aligned[i] = len(hit) >= cfg.MinCols
	}

	var tables []Table
	for i := 0; i < len(lines); {
		if !aligned[i] {
			i++
			continue
		}
		j := i
		for j < len(lines) && aligned[j] {
			j++
		}
		if j-i >= cfg.MinRows {
			tables = append(tables, layoutBlock(lines[i:j], anchors, cfg))
		}
		i = j
	}
	return tables
}

// layoutBlock assigns each word of the block to the nearest column at or left of it.
func layoutBlock(block []line, anchors []float64, cfg GridConfig) Table {
	used := map[int]struct{}{}
	for _, ln := range block {
		for _, w := range ln.Words {
			if idx := anchorIndex(anchors, w.X, cfg.ColumnTolerance); idx >= 0 {
				used[idx] = struct{}{}
			}
		}
	}
	var cols []float64
	for i, a := range anchors {
		if _, ok := used[i]; ok {
			cols = append(cols, a)
		}
	}

	rows := make([][]string, 0, len(block))
	for _, ln := range block {
		row := make([]string, len(cols))
		for _, w := range ln.Words {
			c := 0
			for k, x := range cols {
				if w.X+cfg.ColumnTolerance >= x {
					c = k
				}
			}
			if row[c] != "" {
				row[c] += " "
			}
			row[c] += w.S
		}
		rows = append(rows, row)
	}
	return Table{Rows: rows}
}
