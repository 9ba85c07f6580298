package receipt

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stockledger.GO/api"
	receiptService "stockledger.GO/service/receipt"
)

func init() {
	api.RegisterModule(RegisterReceiptRoutes)
}

// CreateReceiptRequest is the JSON body of POST /api/receipts. Dates accept
// "2006-01-02" or RFC3339.
type CreateReceiptRequest struct {
	SupplierID     uint                 `json:"supplier_id"`
	ReceivedDate   string               `json:"received_date"`
	Remarks        string               `json:"remarks"`
	IdempotencyKey string               `json:"idempotency_key"`
	Actor          string               `json:"actor"`
	Lines          []ReceiptLineRequest `json:"lines"`
}

type ReceiptLineRequest struct {
	ProductID        uint             `json:"product_id"`
	VariationID      uint             `json:"variation_id"`
	QuantityReceived int              `json:"quantity_received"`
	UnitCost         *decimal.Decimal `json:"unit_cost"`
	Location         string           `json:"location"`
}

func RegisterReceiptRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/receipts")
	svc := receiptService.NewService(db)

	// POST /api/receipts – create a goods receipt note
	g.POST("", func(c echo.Context) error {
		var body CreateReceiptRequest
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		}
		receivedDate, err := api.ParseDate(body.ReceivedDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "received_date must be YYYY-MM-DD or RFC3339"})
		}

		in := receiptService.CreateInput{
			SupplierID:     body.SupplierID,
			ReceivedDate:   receivedDate,
			Remarks:        body.Remarks,
			IdempotencyKey: body.IdempotencyKey,
			Actor:          body.Actor,
		}
		for _, line := range body.Lines {
			in.Lines = append(in.Lines, receiptService.LineInput{
				ProductID:        line.ProductID,
				VariationID:      line.VariationID,
				QuantityReceived: line.QuantityReceived,
				UnitCost:         line.UnitCost,
				Location:         line.Location,
			})
		}

		result, err := svc.Create(c.Request().Context(), in)
		if err != nil {
			return api.WriteError(c, err)
		}
		api.InvalidateStockCache()
		return c.JSON(http.StatusCreated, result)
	})

	// GET /api/receipts – newest receipts
	g.GET("", func(c echo.Context) error {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		notes, err := svc.Recent(limit)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, notes)
	})

	// GET /api/receipts/:id
	g.GET("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
		}
		note, err := svc.Get(uint(id))
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, note)
	})
}
