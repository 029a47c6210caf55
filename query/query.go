// Package query remembers the selectors given to the list command and suggests them back.
package query

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/filesystem"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/key"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

type queryRecord struct {
	Rank     int    `json:"rank"`
	Section  string `json:"section"`
	Selector string `json:"selector"`
}

func cacher() *gache.Cache[map[string]*queryRecord] {
	return gache.New[map[string]*queryRecord](
		&gache.Options{
			Path:       where.Queries(),
			FileSystem: &filesystem.GacheFs{},
		},
	)
}

func recordKey(section, selector string) string {
	return section + "\x00" + selector
}

// Remember records selector as used on section, or raises its rank by weight.
func Remember(section, selector string, weight int) error {
	selector = sanitize(selector)
	if selector == "" {
		return nil
	}

	c := cacher()
	cached, expired, err := c.Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*queryRecord)
	}

	k := recordKey(section, selector)
	if record, ok := cached[k]; ok {
		record.Rank += weight
	} else {
		cached[k] = &queryRecord{Rank: weight, Section: section, Selector: selector}
	}

	return c.Set(cached)
}

// Suggest returns the selectors used on section that fuzzy-match the partial input, most used first.
func Suggest(section, partial string) []string {
	if !viper.GetBool(key.CliSelectorSuggestions) {
		return []string{}
	}

	cached, expired, err := cacher().Get()
	if err != nil || expired || cached == nil {
		return []string{}
	}

	partial = sanitize(partial)
	records := lo.Filter(lo.Values(cached), func(r *queryRecord, _ int) bool {
		return (section == "" || r.Section == section) && fuzzy.Match(partial, r.Selector)
	})

	slices.SortFunc(records, func(a, b *queryRecord) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}
		return strings.Compare(a.Selector, b.Selector)
	})

	return lo.Uniq(lo.Map(records, func(r *queryRecord, _ int) string {
		return r.Selector
	}))
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
