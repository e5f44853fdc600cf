package render

import (
	"fmt"
	"slices"

	"rmmv-tiles/internal/tilemap"

	"github.com/dgraph-io/ristretto/v2"
)

// SubImageKey identifies a source rectangle on one tileset page. The page
// itself is whatever the cache was last bound to.
type SubImageKey struct {
	Set        int
	X, Y, W, H int
}

// Pack folds the key into 64 bits: 6 bits of set, 15 of x and y, 14 of width
// and height. ok is false when a field does not fit.
func (k SubImageKey) Pack() (key uint64, ok bool) {
	if k.Set < 0 || k.Set >= 1<<6 ||
		k.X < 0 || k.X >= 1<<15 || k.Y < 0 || k.Y >= 1<<15 ||
		k.W < 0 || k.W >= 1<<14 || k.H < 0 || k.H >= 1<<14 {
		return 0, false
	}
	key = uint64(k.Set)<<58 | uint64(k.X)<<43 | uint64(k.Y)<<28 | uint64(k.W)<<14 | uint64(k.H)
	return key, true
}

// SubImageCache memoizes sub-images of tileset pages in a bounded ristretto
// cache. Every entry costs 1, so the bound is an entry count.
type SubImageCache[V any] struct {
	cache  *ristretto.Cache[uint64, V]
	pages  []tilemap.Bitmap
	hits   int
	misses int
}

// NewSubImageCache creates a cache holding up to maxEntries sub-images.
func NewSubImageCache[V any](maxEntries int64) (*SubImageCache[V], error) {
	if maxEntries <= 0 {
		maxEntries = 4096
	}
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, V]{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("sub-image cache: %w", err)
	}
	return &SubImageCache[V]{cache: cache}, nil
}

// Get returns the cached value for key, calling build on a miss. Keys that
// cannot be packed bypass the cache.
func (s *SubImageCache[V]) Get(key SubImageKey, build func() V) V {
	packed, ok := key.Pack()
	if !ok {
		s.misses++
		return build()
	}
	if v, found := s.cache.Get(packed); found {
		s.hits++
		return v
	}
	s.misses++
	v := build()
	s.cache.Set(packed, v, 1)
	s.cache.Wait()
	return v
}

// Hits and Misses count lookups since creation or the last Clear.
func (s *SubImageCache[V]) Hits() int   { return s.hits }
func (s *SubImageCache[V]) Misses() int { return s.misses }

// Clear drops every entry, typically after a tileset change.
func (s *SubImageCache[V]) Clear() {
	s.cache.Clear()
	s.hits, s.misses = 0, 0
}

// Bind ties the cache to a set of tileset pages. Entries cut from other pages
// are dropped; the result reports whether that happened.
func (s *SubImageCache[V]) Bind(pages []tilemap.Bitmap) bool {
	if slices.Equal(s.pages, pages) {
		return false
	}
	s.pages = slices.Clone(pages)
	s.Clear()
	return true
}

// Close stops the cache's background goroutines.
func (s *SubImageCache[V]) Close() { s.cache.Close() }
