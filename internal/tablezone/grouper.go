package tablezone

import (
	"math"
	"sort"

	"github.com/joseph-ayodele/docextract/internal/layout"
)

// Grouper clusters LINE blocks into visual rows. It returns the rows in
// vertical order, each row sorted left to right. Clustering is a replaceable
// strategy: the default quantizes the top coordinate, which is cheap but
// fragile against skewed scans.
type Grouper interface {
	Group(lines []*layout.Block) [][]*layout.Block
}

// QuantizeGrouper groups lines whose bounding-box top rounds to the same
// value at the configured number of decimal places.
type QuantizeGrouper struct {
	Decimals int
}

// NewQuantizeGrouper returns the default grouper (3 decimal places).
func NewQuantizeGrouper() *QuantizeGrouper {
	return &QuantizeGrouper{Decimals: 3}
}

func (g *QuantizeGrouper) Group(lines []*layout.Block) [][]*layout.Block {
	decimals := g.Decimals
	if decimals <= 0 {
		decimals = 3
	}
	scale := math.Pow(10, float64(decimals))

	rows := make(map[float64][]*layout.Block)
	for _, ln := range lines {
		key := math.Round(ln.BoundingBox.Top*scale) / scale
		rows[key] = append(rows[key], ln)
	}

	keys := make([]float64, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	out := make([][]*layout.Block, 0, len(keys))
	for _, k := range keys {
		row := rows[k]
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].BoundingBox.Left < row[j].BoundingBox.Left
		})
		out = append(out, row)
	}
	return out
}
