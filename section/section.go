// Package section binds every list of the portal to a store slice, a page fetcher and a row renderer.
package section

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/api"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/icon"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/key"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/loading"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/store"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/user"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/where"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/workspace"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Env carries what fetchers need besides the page number.
type Env struct {
	Client    api.Requester
	Users     *user.Cache
	Workspace *workspace.Service
	Now       func() time.Time
}

// NewEnv builds the environment of client from the configuration.
func NewEnv(client api.Requester) *Env {
	ttl := time.Duration(viper.GetInt(key.WorkspaceCacheTTL)) * time.Minute
	return &Env{
		Client:    client,
		Users:     user.NewCache(client),
		Workspace: workspace.NewService(client, viper.GetString(key.WorkspaceFilter), where.Workspace(), ttl),
		Now:       time.Now,
	}
}

// Item is how a list entry is displayed.
type Item struct {
	Title       string
	Description string
	// Mark is an optional status icon (unread, attachment, absent).
	Mark string
}

// FilterValue returns the text matched by list filters.
func (i Item) FilterValue() string {
	return i.Title + " " + i.Description
}

// Row pairs an entry with its display.
type Row struct {
	Item  Item
	Value any
}

// Listing is the outcome of a non-interactive load.
type Listing struct {
	Section string
	State   loading.State
	Pages   int
	Rows    []Row
	Err     error
}

// Entry is the type-independent view of a Section.
type Entry interface {
	Name() string
	Title() string
	Description() string
	Icon() icon.Icon
	Key() store.Key
	// Track mounts or reuses the machine of the section in st.
	Track(st *store.Store, env *Env) loading.Tracker
	// Load brings the machine of the section to rest with up to pages pages.
	Load(ctx context.Context, st *store.Store, env *Env, pages int) Listing
	// Sample returns an empty slice of the element type, for schema reflection.
	Sample() any
}

// Section describes a list of T.
type Section[T any] struct {
	name        string
	title       string
	description string
	icon        icon.Icon
	fetcher     func(env *Env) loading.Fetcher[T]
	id          func(T) string
	pageSize    func() int
	single      bool
	render      func(T) Item
}

var _ Entry = (*Section[struct{}])(nil)

func (s *Section[T]) Name() string        { return s.name }
func (s *Section[T]) Title() string       { return s.title }
func (s *Section[T]) Description() string { return s.description }
func (s *Section[T]) Icon() icon.Icon     { return s.icon }
func (s *Section[T]) Key() store.Key      { return store.Key(s.name) }
func (s *Section[T]) Sample() any         { return []T{} }

// Render returns the display of item.
func (s *Section[T]) Render(item T) Item {
	return s.render(item)
}

// Rows renders items.
func (s *Section[T]) Rows(items []T) []Row {
	return lo.Map(items, func(item T, _ int) Row {
		return Row{Item: s.render(item), Value: item}
	})
}

// Machine mounts or reuses the machine of the section in st.
func (s *Section[T]) Machine(st *store.Store, env *Env) *loading.Machine[T] {
	return store.Ensure(st, s.Key(), func() *loading.Machine[T] {
		size := 0
		if s.pageSize != nil {
			size = s.pageSize()
		}
		return loading.New(loading.Options[T]{
			Name:       s.name,
			Fetch:      s.fetcher(env),
			ID:         s.id,
			PageSize:   size,
			SinglePage: s.single,
		})
	})
}

// Track implements Entry.
func (s *Section[T]) Track(st *store.Store, env *Env) loading.Tracker {
	return s.Machine(st, env)
}

// Load implements Entry.
func (s *Section[T]) Load(ctx context.Context, st *store.Store, env *Env, pages int) Listing {
	m := s.Machine(st, env)

	if intent, ok := m.FocusIntent(); ok {
		if _, err := m.Run(ctx, intent); err != nil {
			return s.listing(m, err)
		}
	}

	for page := 1; page < pages && m.CanFetchNext(); page++ {
		if err := m.FetchNext(ctx); err != nil && !errors.Is(err, loading.ErrNoMorePages) {
			return s.listing(m, err)
		}
		if m.State() == loading.FetchNextFailed {
			break
		}
	}

	return s.listing(m, m.Err())
}

func (s *Section[T]) listing(m *loading.Machine[T], err error) Listing {
	return Listing{
		Section: s.name,
		State:   m.State(),
		Pages:   m.Page() + 1,
		Rows:    s.Rows(m.Data()),
		Err:     err,
	}
}

var registry = make(map[string]Entry)

func register(entries ...Entry) {
	for _, e := range entries {
		if _, exists := registry[e.Name()]; exists {
			panic("duplicate section: " + e.Name())
		}
		registry[e.Name()] = e
	}
}

// Get returns the section called name.
func Get(name string) (Entry, bool) {
	e, ok := registry[name]
	return e, ok
}

// Names returns every section name in menu order.
func Names() []string {
	return lo.Map(All(), func(e Entry, _ int) string { return e.Name() })
}

// All returns every section in menu order.
func All() []Entry {
	entries := lo.Values(registry)
	sort.Slice(entries, func(i, j int) bool {
		return order[entries[i].Name()] < order[entries[j].Name()]
	})
	return entries
}
