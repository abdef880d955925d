package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/solarsite-cli/internal/dataset"
)

// RankEntry is one row of the ranking table.
type RankEntry struct {
	Country string
	MeanGHI float64
}

// Ranking orders labels by mean GHI, highest first.
type Ranking struct {
	Entries []RankEntry
	// NoData tells the presentation layer to render a placeholder.
	NoData bool
}

// Best returns the top-ranked site.
func (r *Ranking) Best() (RankEntry, bool) {
	if r == nil || len(r.Entries) == 0 || math.IsNaN(r.Entries[0].MeanGHI) {
		return RankEntry{}, false
	}
	return r.Entries[0], true
}

// Rank computes per-label mean GHI and sorts descending. Ties keep label
// order; labels without any GHI reading sort last.
func Rank(t *dataset.Table) *Ranking {
	if t.Empty() {
		return &Ranking{NoData: true}
	}
	groups := groupBy(t)
	out := &Ranking{}
	for _, label := range t.Labels() {
		out.Entries = append(out.Entries, RankEntry{Country: label, MeanGHI: groups[label].metrics[dataset.GHI].Mean()})
	}
	sort.SliceStable(out.Entries, func(i, j int) bool {
		a, b := out.Entries[i].MeanGHI, out.Entries[j].MeanGHI
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		return a > b
	})
	return out
}
