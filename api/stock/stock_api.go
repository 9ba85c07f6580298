package stock

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"stockledger.GO/api"
	"stockledger.GO/config"
	"stockledger.GO/core/cache"
	ledgerRepo "stockledger.GO/model/repository/ledger"
	stockRepo "stockledger.GO/model/repository/stock"
)

func init() {
	api.RegisterModule(RegisterStockRoutes)
}

const stockAllKey = "stock:all"

func cacheTTL() int64 {
	if config.AppConfig != nil && config.AppConfig.StockCacheTTLSec > 0 {
		return config.AppConfig.StockCacheTTLSec
	}
	return 30
}

func RegisterStockRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/stock")
	stocks := stockRepo.New(db)
	ledgers := ledgerRepo.New(db)

	// GET /api/stock – all stock records (cached)
	g.GET("", func(c echo.Context) error {
		local := cache.GetInstance()
		if v, ok := local.Get(stockAllKey); ok {
			return c.JSON(http.StatusOK, v)
		}
		if config.RedisClient != nil {
			if blob, err := config.RedisClient.Get(config.RedisCtx(), stockAllKey).Bytes(); err == nil {
				return c.JSONBlob(http.StatusOK, blob)
			}
		}

		records, err := stocks.All()
		if err != nil {
			return api.WriteError(c, err)
		}
		local.Set(stockAllKey, records, cacheTTL(), []string{api.CacheTagStock})
		if config.RedisClient != nil {
			if blob, err := json.Marshal(records); err == nil {
				config.RedisClient.Set(config.RedisCtx(), stockAllKey, blob,
					time.Duration(cacheTTL())*time.Second)
			}
		}
		return c.JSON(http.StatusOK, records)
	})

	// GET /api/stock/item?product_id=&variation_id= – one record
	g.GET("/item", func(c echo.Context) error {
		key, err := parseKey(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		rec, err := stocks.Get(key)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, rec)
	})

	// GET /api/stock/low – records at or below reorder level
	g.GET("/low", func(c echo.Context) error {
		records, err := stocks.BelowReorderLevel()
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, records)
	})

	// GET /api/stock/ledger?product_id=&variation_id= – bin card
	g.GET("/ledger", func(c echo.Context) error {
		key, err := parseKey(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		entries, err := ledgers.ForItem(key.ProductID, key.VariationID)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, entries)
	})
}

func parseKey(c echo.Context) (stockRepo.Key, error) {
	productID, err := strconv.ParseUint(c.QueryParam("product_id"), 10, 32)
	if err != nil || productID == 0 {
		return stockRepo.Key{}, errors.New("product_id is required")
	}
	var variationID uint64
	if v := c.QueryParam("variation_id"); v != "" {
		variationID, err = strconv.ParseUint(v, 10, 32)
		if err != nil {
			return stockRepo.Key{}, errors.New("variation_id must be numeric")
		}
	}
	return stockRepo.Key{ProductID: uint(productID), VariationID: uint(variationID)}, nil
}
