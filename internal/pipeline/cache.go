package pipeline

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ResultCache remembers recent results so identical submissions are not
// processed twice. A cache created with a non-positive size stores nothing.
type ResultCache struct {
	lru *lru.Cache[string, *Result]
}

func NewResultCache(size int) (*ResultCache, error) {
	if size <= 0 {
		return &ResultCache{}, nil
	}
	c, err := lru.New[string, *Result](size)
	if err != nil {
		return nil, err
	}
	return &ResultCache{lru: c}, nil
}

// CacheKey identifies a submission by its content and processing parameters.
func CacheKey(contentHash string, p Params) string {
	return strings.Join([]string{
		contentHash,
		p.Format.String(),
		p.Options.Key(),
		p.layer(),
		strconv.FormatBool(p.Trees),
	}, ":")
}

func (c *ResultCache) Get(key string) (*Result, bool) {
	if c == nil || c.lru == nil {
		return nil, false
	}
	return c.lru.Get(key)
}

func (c *ResultCache) Add(key string, r *Result) {
	if c == nil || c.lru == nil {
		return
	}
	c.lru.Add(key, r)
}

// Len returns the number of cached results.
func (c *ResultCache) Len() int {
	if c == nil || c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
