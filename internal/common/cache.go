package common

import (
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	DefaultCacheExpiration = 10 * time.Minute
	DefaultCacheCleanup    = 15 * time.Minute
)

type Cache struct {
	*cache.Cache
}

func NewCache(expirationTime, cleanupTime time.Duration) *Cache {
	return &Cache{cache.New(expirationTime, cleanupTime)}
}

func (c *Cache) Set(key string, value interface{}, expiration ...time.Duration) {
	if len(expiration) > 0 {
		c.Cache.Set(key, value, expiration[0])
		return
	}
	c.Cache.Set(key, value, cache.DefaultExpiration)
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.Cache.Get(key)
}

func (c *Cache) Flush() {
	c.Cache.Flush()
}

// CacheKeyPublishedBlogs builds the key for one page of the public blog
// listing. The sort column must already be normalized so that every spelling
// of an unrecognized sort lands on the default entry.
func CacheKeyPublishedBlogs(page, limit int, author, title string, tags []string, sort string) string {
	return "blogs:" + strconv.Itoa(page) + ":" + strconv.Itoa(limit) + ":" + author + ":" + title + ":" + strings.Join(tags, ",") + ":" + sort
}
