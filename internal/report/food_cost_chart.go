package report

import (
	"fmt"
	"sort"
	"time"

	"mutfak-backend/internal/costing"
	"mutfak-backend/internal/database"

	"github.com/gofiber/fiber/v2"
)

type FoodCostChartPoint struct {
	Label       string  `json:"label"` // tarih / hafta başlangıcı / ay başlangıcı
	Revenue     float64 `json:"revenue"`
	FoodCost    float64 `json:"food_cost"`
	FoodCostPct float64 `json:"food_cost_pct"`
}

type FoodCostChartResponse struct {
	Period            string               `json:"period"` // daily | weekly | monthly
	From              string               `json:"from"`
	To                string               `json:"to"`
	Points            []FoodCostChartPoint `json:"points"`
	TotalRevenue      float64              `json:"total_revenue"`
	TotalFoodCost     float64              `json:"total_food_cost"`
	OverallPct        float64              `json:"overall_pct"`
	TargetFoodCostPct float64              `json:"target_food_cost_pct"`
}

// GET /api/dashboard/food-cost-chart?period=daily&count=7
// Satış defterinden ciro / teorik gıda maliyeti serisi. Yüzde kovaya göre
// hesaplanır; sayım bazlı gerçek yüzde için reconciliation/food-cost kullanılır.
func FoodCostChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		period := c.Query("period", "daily") // daily | weekly | monthly
		countStr := c.Query("count", "")

		var count int
		if countStr == "" {
			switch period {
			case "weekly":
				count = 8
			case "monthly":
				count = 12
			default:
				period = "daily"
				count = 7
			}
		} else {
			if _, err := fmt.Sscan(countStr, &count); err != nil || count <= 0 || count > 60 {
				return fiber.NewError(fiber.StatusBadRequest, "count geçersiz")
			}
		}

		now := time.Now()
		loc := now.Location()
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		var start time.Time

		var sql string
		switch period {
		case "weekly":
			start = end.AddDate(0, 0, -7*(count-1))
			sql = `
				SELECT date_trunc('week', date)::date AS bucket,
					   SUM(total_revenue) AS revenue,
					   SUM(total_cost) AS cost
				FROM sales
				WHERE date >= ? AND date <= ?
				GROUP BY bucket
				ORDER BY bucket ASC;
			`
		case "monthly":
			end = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
			start = end.AddDate(0, -(count - 1), 0)
			end = start.AddDate(0, count, 0).AddDate(0, 0, -1)
			sql = `
				SELECT date_trunc('month', date)::date AS bucket,
					   SUM(total_revenue) AS revenue,
					   SUM(total_cost) AS cost
				FROM sales
				WHERE date >= ? AND date <= ?
				GROUP BY bucket
				ORDER BY bucket ASC;
			`
		default:
			period = "daily"
			start = end.AddDate(0, 0, -(count - 1))
			sql = `
				SELECT date::date AS bucket,
					   SUM(total_revenue) AS revenue,
					   SUM(total_cost) AS cost
				FROM sales
				WHERE date >= ? AND date <= ?
				GROUP BY bucket
				ORDER BY bucket ASC;
			`
		}

		type row struct {
			Bucket  time.Time `gorm:"column:bucket"`
			Revenue float64   `gorm:"column:revenue"`
			Cost    float64   `gorm:"column:cost"`
		}
		var rows []row
		if err := database.DB.Raw(sql, start, end).Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Grafik verisi toplanamadı")
		}

		sort.Slice(rows, func(i, j int) bool { return rows[i].Bucket.Before(rows[j].Bucket) })

		resp := FoodCostChartResponse{
			Period:            period,
			From:              start.Format("2006-01-02"),
			To:                end.Format("2006-01-02"),
			Points:            make([]FoodCostChartPoint, 0, len(rows)),
			TargetFoodCostPct: costing.DefaultTargetFoodCostPct,
		}
		for _, r := range rows {
			resp.Points = append(resp.Points, FoodCostChartPoint{
				Label:       r.Bucket.Format("2006-01-02"),
				Revenue:     r.Revenue,
				FoodCost:    r.Cost,
				FoodCostPct: costing.FoodCostPercentage(r.Cost, r.Revenue),
			})
			resp.TotalRevenue += r.Revenue
			resp.TotalFoodCost += r.Cost
		}
		resp.OverallPct = costing.FoodCostPercentage(resp.TotalFoodCost, resp.TotalRevenue)

		return c.JSON(resp)
	}
}
