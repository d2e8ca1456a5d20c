package repositories

import (
	"errors"
	"strconv"
	"sync"

	"github.com/bradfitz/gomemcache/memcache"
)

// fakeMemcache simula Memcached en memoria
type fakeMemcache struct {
	mu    sync.Mutex
	items map[string]memcache.Item
	err   error
}

func newFakeMemcache() *fakeMemcache {
	return &fakeMemcache{items: make(map[string]memcache.Item)}
}

func (f *fakeMemcache) Get(key string) (*memcache.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	item, ok := f.items[key]
	if !ok {
		return nil, memcache.ErrCacheMiss
	}
	return &item, nil
}

func (f *fakeMemcache) Set(item *memcache.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.items[item.Key] = *item
	return nil
}

func (f *fakeMemcache) Add(item *memcache.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.items[item.Key]; ok {
		return memcache.ErrNotStored
	}
	f.items[item.Key] = *item
	return nil
}

func (f *fakeMemcache) Increment(key string, delta uint64) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	item, ok := f.items[key]
	if !ok {
		return 0, memcache.ErrCacheMiss
	}
	current, err := strconv.ParseUint(string(item.Value), 10, 64)
	if err != nil {
		return 0, errors.New("non-numeric value")
	}
	current += delta
	item.Value = []byte(strconv.FormatUint(current, 10))
	f.items[key] = item
	return current, nil
}

func (f *fakeMemcache) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.items[key]; !ok {
		return memcache.ErrCacheMiss
	}
	delete(f.items, key)
	return nil
}

func (f *fakeMemcache) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = make(map[string]memcache.Item)
}
