package lrucache

// node is one key's slot in the recency list. The list and the index map
// both point at the same node, so a promotion or eviction only ever
// touches one allocation.
type node struct {
	key   string
	value []byte
	prev  *node
	next  *node
}

// Cache is a fixed-capacity, strict-recency-order cache of (key, value)
// pairs. The zero value is not usable; construct one with New.
type Cache struct {
	mu       spinLock
	capacity int
	nodes    map[string]*node
	head     *node // most recently used
	tail     *node // least recently used
}
