package inline

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/section"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/store"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Selector narrows the rows of a listing.
type Selector func([]section.Row) []section.Row

// Options configures a non-interactive run.
type Options struct {
	Out      io.Writer
	Context  context.Context
	Section  section.Entry
	Store    *store.Store
	Env      *section.Env
	Pages    int
	Json     bool
	Selector mo.Option[Selector]
}

// ParseSelector parses a row selector.
//
//	first, last, all   the obvious
//	5                  the row at index 5
//	2-4                rows 2 to 4 inclusive
//	@text@             rows containing text
//	~text~             rows fuzzily matching text
func ParseSelector(description string) (Selector, error) {
	switch description {
	case "first":
		return func(rows []section.Row) []section.Row {
			return lo.Slice(rows, 0, 1)
		}, nil
	case "last":
		return func(rows []section.Row) []section.Row {
			return lo.Slice(rows, len(rows)-1, len(rows))
		}, nil
	case "all", "":
		return func(rows []section.Row) []section.Row {
			return rows
		}, nil
	}

	if from, to, ok := strings.Cut(description, "-"); ok {
		start, err1 := strconv.Atoi(from)
		end, err2 := strconv.Atoi(to)
		if err1 == nil && err2 == nil && start >= 0 && end >= start {
			return func(rows []section.Row) []section.Row {
				return lo.Slice(rows, start, end+1)
			}, nil
		}
	}

	if sub, ok := enclosed(description, "@"); ok {
		sub = strings.ToLower(sub)
		return func(rows []section.Row) []section.Row {
			return lo.Filter(rows, func(r section.Row, _ int) bool {
				return strings.Contains(strings.ToLower(r.Item.FilterValue()), sub)
			})
		}, nil
	}

	if pattern, ok := enclosed(description, "~"); ok {
		return func(rows []section.Row) []section.Row {
			return lo.Filter(rows, func(r section.Row, _ int) bool {
				return fuzzy.MatchNormalizedFold(pattern, r.Item.FilterValue())
			})
		}, nil
	}

	if idx, err := strconv.Atoi(description); err == nil && idx >= 0 {
		return func(rows []section.Row) []section.Row {
			return lo.Slice(rows, idx, idx+1)
		}, nil
	}

	return nil, fmt.Errorf("invalid selector: %s", description)
}

func enclosed(s, mark string) (string, bool) {
	if len(s) < 2*len(mark) || !strings.HasPrefix(s, mark) || !strings.HasSuffix(s, mark) {
		return "", false
	}
	return s[len(mark) : len(s)-len(mark)], true
}
