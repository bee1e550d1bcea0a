package store

import "sync"

// keyPool recycles key buffers for point reads and writes.
// A key is a record prefix plus an ID or tag name, so 128 bytes covers
// nearly every key without growing.
var keyPool = sync.Pool{
	New: func() any {
		return make([]byte, 0, 128)
	},
}

// buildKey returns prefix+suffix in a pooled buffer.
// The slice is only valid until releaseKey is called:
//
//	key := buildKey(tagPrefix, name)
//	defer releaseKey(key)
func buildKey(prefix, suffix string) []byte {
	buf, _ := keyPool.Get().([]byte)
	buf = append(buf[:0], prefix...)
	return append(buf, suffix...)
}

// releaseKey hands a buffer from buildKey back to the pool.
// Buffers that grew past 512 bytes for an unusually long tag are dropped.
func releaseKey(key []byte) {
	if cap(key) <= 512 {
		keyPool.Put(key[:0])
	}
}
