// Package cache holds parse results by entity identifier for the loader
package cache

import "github.com/ppiankov/ethnia/internal/model"

// Cache defines the interface for per-identifier result caching
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	Clear()
	Len() int
}

// Key builds the cache key of one entity
func Key(kind model.Kind, id string) string {
	return "ethnia:v1:" + string(kind) + ":" + id
}
