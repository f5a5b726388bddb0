package similarity

import (
	"sort"

	"github.com/nao1215/screenwitness/internal/model"
)

// DefaultThreshold is the minimum ratio for a page to join a cluster.
const DefaultThreshold = 70

// Grouper clusters pages by title similarity.
type Grouper struct {
	// Threshold is the minimum TokenSortRatio against the cluster seed.
	// Zero or negative means DefaultThreshold.
	Threshold int
}

// NewGrouper returns a Grouper with the given threshold.
func NewGrouper(threshold int) Grouper {
	return Grouper{Threshold: threshold}
}

func (g Grouper) threshold() int {
	if g.Threshold <= 0 {
		return DefaultThreshold
	}
	return g.Threshold
}

// Group returns pages reordered so that similar titles are adjacent.
// The input slice is not modified.
func (g Grouper) Group(pages []*model.CapturedPage) []*model.CapturedPage {
	out := make([]*model.CapturedPage, 0, len(pages))
	for _, cluster := range g.Clusters(pages) {
		out = append(out, cluster...)
	}
	return out
}

// Clusters returns the clusters in formation order. Pages titled
// model.UnknownTitle are never clustered; when present they form the last
// entry, in title-sorted input order.
//
// The algorithm is greedy single linkage against a seed: the first
// remaining page (after a stable sort by title) is the seed, every
// remaining page scoring at least the threshold against the seed joins
// it, and the cluster is removed from the pool.
func (g Grouper) Clusters(pages []*model.CapturedPage) [][]*model.CapturedPage {
	sorted := make([]*model.CapturedPage, len(pages))
	copy(sorted, pages)
	sortByTitle(sorted)

	type entry struct {
		page   *model.CapturedPage
		tokens string
	}

	var (
		pool    []entry
		unknown []*model.CapturedPage
	)
	for _, p := range sorted {
		if p.PageTitle == model.UnknownTitle {
			unknown = append(unknown, p)
			continue
		}
		pool = append(pool, entry{page: p, tokens: SortedTokens(p.PageTitle)})
	}

	threshold := g.threshold()
	var clusters [][]*model.CapturedPage
	for len(pool) > 0 {
		seed := pool[0]
		cluster := []*model.CapturedPage{seed.page}
		rest := pool[:0:0]

		for _, e := range pool[1:] {
			if sortedRatio(seed.tokens, e.tokens) >= threshold {
				cluster = append(cluster, e.page)
			} else {
				rest = append(rest, e)
			}
		}

		sortByTitle(cluster)
		clusters = append(clusters, cluster)
		pool = rest
	}

	if len(unknown) > 0 {
		clusters = append(clusters, unknown)
	}
	return clusters
}

func sortByTitle(pages []*model.CapturedPage) {
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].PageTitle < pages[j].PageTitle
	})
}
