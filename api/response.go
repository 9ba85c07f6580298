package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"stockledger.GO/config"
	"stockledger.GO/core/cache"
	"stockledger.GO/core/errs"
)

// CacheTagStock tags every cached stock read; mutations invalidate the tag.
const CacheTagStock = "stock"

// ParseDate accepts "2006-01-02" or RFC3339.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// WriteError renders a core error with its taxonomy status code.
func WriteError(c echo.Context, err error) error {
	return c.JSON(errs.HTTPStatus(err), map[string]string{"error": err.Error()})
}

// InvalidateStockCache drops every cached stock read after a committed
// mutation, both in-process and in Redis when configured.
func InvalidateStockCache() {
	local := cache.GetInstance()
	if config.RedisClient != nil {
		for _, key := range local.GetKeysByTag(CacheTagStock) {
			if s, ok := key.(string); ok {
				config.RedisClient.Del(config.RedisCtx(), s)
			}
		}
	}
	local.DeleteByTag(CacheTagStock)
}
