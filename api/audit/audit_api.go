package audit

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"stockledger.GO/api"
	auditRepo "stockledger.GO/model/repository/audit"
)

func init() {
	api.RegisterModule(RegisterAuditRoutes)
}

func RegisterAuditRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/audit")
	repo := auditRepo.New(db)

	// GET /api/audit?limit=50 – newest audit entries
	g.GET("", func(c echo.Context) error {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		entries, err := repo.Recent(limit)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, entries)
	})

	// GET /api/audit/:entity/:id – history of one entity
	g.GET("/:entity/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
		}
		entries, err := repo.ForEntity(c.Param("entity"), uint(id))
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, entries)
	})
}
