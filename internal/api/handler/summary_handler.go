package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/panaderia/storefront-api/internal/core/ports"
	"github.com/panaderia/storefront-api/pkg/analytics"
)

// topProductsLimit caps the best-seller list in the summary payload.
const topProductsLimit = 5

type summaryResponse struct {
	TotalOrders      int                      `json:"total_orders"`
	OrdersByStatus   map[string]int           `json:"orders_by_status"`
	GrossRevenue     string                   `json:"gross_revenue"`
	DeliveredRevenue string                   `json:"delivered_revenue"`
	AverageOrder     string                   `json:"average_order"`
	RevenueByDay     []dailyRevenueResponse   `json:"revenue_by_day"`
	TopProducts      []productSalesResponse   `json:"top_products"`
}

type dailyRevenueResponse struct {
	Day     string `json:"day"`
	Orders  int    `json:"orders"`
	Revenue string `json:"revenue"`
}

type productSalesResponse struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Revenue   string `json:"revenue"`
}

// SummaryHandler serves the admin dashboard aggregation.
type SummaryHandler struct {
	orders ports.OrderService
}

func NewSummaryHandler(orders ports.OrderService) *SummaryHandler {
	return &SummaryHandler{orders: orders}
}

// Get handles GET /api/admin/summary.
//
// @Summary      Revenue and order summary (admin)
// @Tags         admin
// @Produce      json
// @Success      200  {object}  summaryResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/summary [get]
func (h *SummaryHandler) Get(c echo.Context) error {
	orders, err := h.orders.List(c.Request().Context())
	if err != nil {
		return err
	}

	summary := analytics.Summarize(orders)

	byStatus := make(map[string]int, len(summary.OrdersByStatus))
	for status, n := range summary.OrdersByStatus {
		byStatus[string(status)] = n
	}

	daily := analytics.RevenueByDay(orders)
	days := make([]dailyRevenueResponse, 0, len(daily))
	for _, d := range daily {
		days = append(days, dailyRevenueResponse{Day: d.Day, Orders: d.Orders, Revenue: d.Revenue.StringFixed(2)})
	}

	top := analytics.TopProducts(orders, topProductsLimit)
	sellers := make([]productSalesResponse, 0, len(top))
	for _, p := range top {
		sellers = append(sellers, productSalesResponse{
			ProductID: p.ProductID,
			Name:      p.Name,
			Quantity:  p.Quantity,
			Revenue:   p.Revenue.StringFixed(2),
		})
	}

	return c.JSON(http.StatusOK, summaryResponse{
		TotalOrders:      summary.TotalOrders,
		OrdersByStatus:   byStatus,
		GrossRevenue:     summary.GrossRevenue.StringFixed(2),
		DeliveredRevenue: summary.DeliveredRevenue.StringFixed(2),
		AverageOrder:     summary.AverageOrder.StringFixed(2),
		RevenueByDay:     days,
		TopProducts:      sellers,
	})
}
