package returns

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"stockledger.GO/api"
	returnsService "stockledger.GO/service/returns"
)

func init() {
	api.RegisterModule(RegisterReturnsRoutes)
}

// CreateReturnRequest is the JSON body of POST /api/returns.
type CreateReturnRequest struct {
	SupplierID uint                `json:"supplier_id"`
	ReturnDate string              `json:"return_date"`
	Reason     string              `json:"reason"`
	Actor      string              `json:"actor"`
	Lines      []ReturnLineRequest `json:"lines"`
}

type ReturnLineRequest struct {
	ProductID   uint   `json:"product_id"`
	VariationID uint   `json:"variation_id"`
	Quantity    int    `json:"quantity"`
	Remarks     string `json:"remarks"`
}

// ActorRequest carries the acting user for approve/reject.
type ActorRequest struct {
	Actor string `json:"actor"`
}

func RegisterReturnsRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/returns")
	svc := returnsService.NewService(db)

	// POST /api/returns – open a PENDING return request
	g.POST("", func(c echo.Context) error {
		var body CreateReturnRequest
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		}
		returnDate, err := api.ParseDate(body.ReturnDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "return_date must be YYYY-MM-DD or RFC3339"})
		}

		in := returnsService.CreateInput{
			SupplierID: body.SupplierID,
			ReturnDate: returnDate,
			Reason:     body.Reason,
			Actor:      body.Actor,
		}
		for _, line := range body.Lines {
			in.Lines = append(in.Lines, returnsService.LineInput{
				ProductID:   line.ProductID,
				VariationID: line.VariationID,
				Quantity:    line.Quantity,
				Remarks:     line.Remarks,
			})
		}

		request, err := svc.Create(c.Request().Context(), in)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusCreated, request)
	})

	// POST /api/returns/:id/approve – decrement stock, terminal APPROVED
	g.POST("/:id/approve", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
		}
		var body ActorRequest
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		}
		result, err := svc.Approve(c.Request().Context(), uint(id), body.Actor)
		if err != nil {
			return api.WriteError(c, err)
		}
		api.InvalidateStockCache()
		return c.JSON(http.StatusOK, result)
	})

	// POST /api/returns/:id/reject – terminal REJECTED, no stock effect
	g.POST("/:id/reject", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
		}
		var body ActorRequest
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		}
		request, err := svc.Reject(c.Request().Context(), uint(id), body.Actor)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, request)
	})

	// GET /api/returns/:id
	g.GET("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
		}
		request, err := svc.Get(uint(id))
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, request)
	})
}
