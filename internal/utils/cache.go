package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheEntry 缓存值与过期时间
type cacheEntry[V any] struct {
	value     V
	expiredAt time.Time
}

// LRUCache 带 TTL 的定长 LRU 缓存，并发安全
type LRUCache[K comparable, V any] struct {
	storage *lru.Cache[K, cacheEntry[V]]
	ttl     time.Duration
}

// NewLRUCache size 为最大条数，ttl 为单条有效期
func NewLRUCache[K comparable, V any](size int, ttl time.Duration) *LRUCache[K, V] {
	if size <= 0 {
		size = 128
	}
	c, _ := lru.New[K, cacheEntry[V]](size)
	return &LRUCache[K, V]{
		storage: c,
		ttl:     ttl,
	}
}

// Set 写入或覆盖
func (c *LRUCache[K, V]) Set(key K, value V) {
	c.storage.Add(key, cacheEntry[V]{
		value:     value,
		expiredAt: time.Now().Add(c.ttl),
	})
}

// Get 读取，过期条目顺便删除
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	var zero V
	entry, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}
	if time.Now().After(entry.expiredAt) {
		c.storage.Remove(key)
		return zero, false
	}
	return entry.value, true
}

// Purge 清空
func (c *LRUCache[K, V]) Purge() {
	c.storage.Purge()
}

// Len 当前条数（含尚未清理的过期条目）
func (c *LRUCache[K, V]) Len() int {
	return c.storage.Len()
}
