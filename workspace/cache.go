package workspace

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/filesystem"
	"github.com/samber/mo"
)

// cacheData is the on-disk layout of a cacher file.
type cacheData[K comparable, T any] struct {
	Entries map[K]T `json:"entries"`
}

// cacher is a keyed, disk-backed cache shared by every screen reading the workspace.
type cacher[K comparable, T any] struct {
	internal *gache.Cache[*cacheData[K, T]]
	mu       sync.RWMutex
}

func newCacher[K comparable, T any](dir, name string, lifetime time.Duration) *cacher[K, T] {
	_ = filesystem.API().MkdirAll(dir, os.ModePerm)

	return &cacher[K, T]{
		internal: gache.New[*cacheData[K, T]](
			&gache.Options{
				Path:       filepath.Join(dir, name),
				Lifetime:   lifetime,
				FileSystem: &filesystem.GacheFs{},
			},
		),
	}
}

// Get returns the value under key unless the file expired.
func (c *cacher[K, T]) Get(key K) mo.Option[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil {
		return mo.None[T]()
	}

	value, ok := data.Entries[key]
	if !ok {
		return mo.None[T]()
	}
	return mo.Some(value)
}

// Set stores value under key. An expired file is started afresh.
func (c *cacher[K, T]) Set(key K, value T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil {
		return err
	}

	if expired || data == nil || data.Entries == nil {
		data = &cacheData[K, T]{Entries: make(map[K]T)}
	}
	data.Entries[key] = value
	return c.internal.Set(data)
}
