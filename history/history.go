// Package history records which sections were opened, so the interface can resume the last one.
package history

import (
	"sort"
	"time"

	"github.com/metafates/gache"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/filesystem"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Visit is how often and when a section was last opened.
type Visit struct {
	Section string    `json:"section"`
	Count   int       `json:"count"`
	Last    time.Time `json:"last"`
}

func cacher() *gache.Cache[map[string]*Visit] {
	return gache.New[map[string]*Visit](
		&gache.Options{
			Path:       where.History(),
			FileSystem: &filesystem.GacheFs{},
		},
	)
}

// Get returns every recorded visit, keyed by section.
func Get() (map[string]*Visit, error) {
	cached, expired, err := cacher().Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Visit), nil
	}
	return cached, nil
}

// Record notes that section was opened at.
func Record(section string, at time.Time) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	visit, ok := saved[section]
	if !ok {
		visit = &Visit{Section: section}
		saved[section] = visit
	}
	visit.Count++
	visit.Last = at

	return cacher().Set(saved)
}

// Recent returns the visits, latest first.
func Recent() ([]*Visit, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	visits := lo.Values(saved)
	sort.Slice(visits, func(i, j int) bool {
		return visits[i].Last.After(visits[j].Last)
	})
	return visits, nil
}

// Last returns the most recently opened section.
func Last() mo.Option[string] {
	visits, err := Recent()
	if err != nil || len(visits) == 0 {
		return mo.None[string]()
	}
	return mo.Some(visits[0].Section)
}

// Remove forgets section.
func Remove(section string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, section)
	return cacher().Set(saved)
}
