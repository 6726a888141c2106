package store

import (
	"hash/fnv"
	"sync"
)

const shardCount = 32

// shardedMap is a mutex-striped hash map. Keys hash to a fixed shard, so
// operations on different keys rarely contend and operations on the same
// key are linearizable. There is no map-wide lock.
type shardedMap[V any] struct {
	shards [shardCount]struct {
		mu sync.RWMutex
		m  map[string]V
	}
}

func newShardedMap[V any]() *shardedMap[V] {
	sm := &shardedMap[V]{}
	for i := range sm.shards {
		sm.shards[i].m = make(map[string]V)
	}
	return sm
}

func shardIndex(key string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return h.Sum32() % shardCount
}

func (sm *shardedMap[V]) get(key string) (V, bool) {
	sh := &sm.shards[shardIndex(key)]
	sh.mu.RLock()
	v, ok := sh.m[key]
	sh.mu.RUnlock()
	return v, ok
}

func (sm *shardedMap[V]) set(key string, v V) {
	sh := &sm.shards[shardIndex(key)]
	sh.mu.Lock()
	sh.m[key] = v
	sh.mu.Unlock()
}

// update applies fn to the current value under the shard lock. fn receives
// the existing value (or the zero value) and whether the key was present,
// and returns the new value plus whether to store it.
func (sm *shardedMap[V]) update(key string, fn func(cur V, ok bool) (V, bool)) {
	sh := &sm.shards[shardIndex(key)]
	sh.mu.Lock()
	cur, ok := sh.m[key]
	if next, store := fn(cur, ok); store {
		sh.m[key] = next
	}
	sh.mu.Unlock()
}

// getOrCreate returns the value for key, inserting newV() under the shard
// lock if the key is absent. Exactly one caller creates the value.
func (sm *shardedMap[V]) getOrCreate(key string, newV func() V) V {
	sh := &sm.shards[shardIndex(key)]
	sh.mu.RLock()
	v, ok := sh.m[key]
	sh.mu.RUnlock()
	if ok {
		return v
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if v, ok = sh.m[key]; ok {
		return v
	}
	v = newV()
	sh.m[key] = v
	return v
}
