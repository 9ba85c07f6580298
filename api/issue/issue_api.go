package issue

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stockledger.GO/api"
	issueService "stockledger.GO/service/issue"
)

func init() {
	api.RegisterModule(RegisterIssueRoutes)
}

// CreateIssueRequest is the JSON body of POST /api/issues.
type CreateIssueRequest struct {
	IssuedTo       string             `json:"issued_to"`
	IssueReason    string             `json:"issue_reason"`
	IssueDate      string             `json:"issue_date"`
	Remarks        string             `json:"remarks"`
	IdempotencyKey string             `json:"idempotency_key"`
	Actor          string             `json:"actor"`
	Lines          []IssueLineRequest `json:"lines"`
}

type IssueLineRequest struct {
	ProductID      uint            `json:"product_id"`
	VariationID    uint            `json:"variation_id"`
	QuantityIssued int             `json:"quantity_issued"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
}

func RegisterIssueRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/issues")
	svc := issueService.NewService(db)

	// POST /api/issues – create a goods issue note
	g.POST("", func(c echo.Context) error {
		var body CreateIssueRequest
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		}
		issueDate, err := api.ParseDate(body.IssueDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "issue_date must be YYYY-MM-DD or RFC3339"})
		}

		in := issueService.CreateInput{
			IssuedTo:       body.IssuedTo,
			IssueReason:    body.IssueReason,
			IssueDate:      issueDate,
			Remarks:        body.Remarks,
			IdempotencyKey: body.IdempotencyKey,
			Actor:          body.Actor,
		}
		for _, line := range body.Lines {
			in.Lines = append(in.Lines, issueService.LineInput{
				ProductID:      line.ProductID,
				VariationID:    line.VariationID,
				QuantityIssued: line.QuantityIssued,
				UnitCost:       line.UnitCost,
			})
		}

		result, err := svc.Create(c.Request().Context(), in)
		if err != nil {
			return api.WriteError(c, err)
		}
		api.InvalidateStockCache()
		return c.JSON(http.StatusCreated, result)
	})

	// GET /api/issues – newest issue notes
	g.GET("", func(c echo.Context) error {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		notes, err := svc.Recent(limit)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, notes)
	})

	// GET /api/issues/:id
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
