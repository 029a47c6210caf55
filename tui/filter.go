// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"sort"

	"github.com/charmbracelet/bubbles/list"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// fuzzyFilter ranks targets containing the runes of term in order, closest first.
func fuzzyFilter(term string, targets []string) []list.Rank {
	ranks := fuzzy.RankFindNormalizedFold(term, targets)
	sort.Stable(ranks)

	return lo.Map(ranks, func(r fuzzy.Rank, _ int) list.Rank {
		return list.Rank{Index: r.OriginalIndex}
	})
}

// nearEnd reports whether the cursor at index is within threshold items of the end of count items.
func nearEnd(index, count, threshold int) bool {
	if count == 0 {
		return false
	}
	return index >= count-1-threshold
}
