package catalog

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"stockledger.GO/api"
	catalogService "stockledger.GO/service/catalog"
)

func init() {
	api.RegisterModule(RegisterCatalogRoutes)
}

// DeleteRequest carries the acting user for a cascade delete.
type DeleteRequest struct {
	Actor string `json:"actor"`
}

func RegisterCatalogRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/products")
	svc := catalogService.NewService(db)

	// DELETE /api/products/:id – cascade soft delete of the hierarchy
	g.DELETE("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
		}
		var body DeleteRequest
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		}
		result, err := svc.DeleteProduct(c.Request().Context(), uint(id), body.Actor)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, result)
	})
}
