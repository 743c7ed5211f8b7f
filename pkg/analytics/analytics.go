// Package analytics aggregates order records into the figures the admin
// dashboard displays. It is pure filter/reduce over already-fetched orders:
// no storage access, no mutation.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/panaderia/storefront-api/internal/core/domain"
)

// Summary is the headline dashboard view.
type Summary struct {
	TotalOrders      int                        `json:"total_orders"`
	OrdersByStatus   map[domain.OrderStatus]int `json:"orders_by_status"`
	GrossRevenue     decimal.Decimal            `json:"gross_revenue"`
	DeliveredRevenue decimal.Decimal            `json:"delivered_revenue"`
	AverageOrder     decimal.Decimal            `json:"average_order"`
}

// Summarize computes the headline figures. Cancelled orders are excluded from
// all revenue numbers; the average is over non-cancelled orders at two-decimal
// precision.
func Summarize(orders []*domain.Order) Summary {
	s := Summary{
		OrdersByStatus:   make(map[domain.OrderStatus]int),
		GrossRevenue:     decimal.Zero,
		DeliveredRevenue: decimal.Zero,
		AverageOrder:     decimal.Zero,
	}

	counted := 0
	for _, o := range orders {
		s.TotalOrders++
		s.OrdersByStatus[o.Status]++
		if o.Status == domain.StatusCancelled {
			continue
		}
		counted++
		s.GrossRevenue = s.GrossRevenue.Add(o.TotalAmount)
		if o.Status == domain.StatusDelivered {
			s.DeliveredRevenue = s.DeliveredRevenue.Add(o.TotalAmount)
		}
	}

	if counted > 0 {
		s.AverageOrder = s.GrossRevenue.DivRound(decimal.NewFromInt(int64(counted)), 2)
	}
	return s
}

// DailyRevenue is the revenue recorded on one calendar day (UTC).
type DailyRevenue struct {
	Day     string          `json:"day"` // YYYY-MM-DD
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// RevenueByDay buckets non-cancelled orders by creation day, oldest first.
func RevenueByDay(orders []*domain.Order) []DailyRevenue {
	byDay := make(map[string]*DailyRevenue)
	for _, o := range orders {
		if o.Status == domain.StatusCancelled {
			continue
		}
		day := o.CreatedAt.UTC().Format("2006-01-02")
		entry, ok := byDay[day]
		if !ok {
			entry = &DailyRevenue{Day: day, Revenue: decimal.Zero}
			byDay[day] = entry
		}
		entry.Orders++
		entry.Revenue = entry.Revenue.Add(o.TotalAmount)
	}

	out := make([]DailyRevenue, 0, len(byDay))
	for _, entry := range byDay {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// ProductSales is the aggregate quantity and revenue for one product across
// all non-cancelled orders, keyed by the line-item snapshot.
type ProductSales struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// TopProducts returns the best sellers by quantity, capped at limit.
func TopProducts(orders []*domain.Order, limit int) []ProductSales {
	byProduct := make(map[int64]*ProductSales)
	for _, o := range orders {
		if o.Status == domain.StatusCancelled {
			continue
		}
		for _, it := range o.Items {
			entry, ok := byProduct[it.ProductID]
			if !ok {
				entry = &ProductSales{ProductID: it.ProductID, Name: it.Name, Revenue: decimal.Zero}
				byProduct[it.ProductID] = entry
			}
			entry.Quantity += it.Quantity
			entry.Revenue = entry.Revenue.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}

	out := make([]ProductSales, 0, len(byProduct))
	for _, entry := range byProduct {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].ProductID < out[j].ProductID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
