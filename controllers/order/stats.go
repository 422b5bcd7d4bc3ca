package orderControllers

import (
	"net/http"
	"time"

	"github.com/abubakar8866/Bookify-Online-Book-Shopping/apperrors"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStats struct {
	TodaysOrderCount int64           `json:"todays_order_count"`
	TotalOrdersCount int64           `json:"total_orders_count"`
	TodaysOrderTotal decimal.Decimal `json:"todays_order_total"`
	TotalOrderAmount decimal.Decimal `json:"total_order_amount"`
	RecentOrders     []models.Order  `json:"recent_orders"`
}

type RangeStats struct {
	OrderCount int64           `json:"order_count"`
	OrderTotal decimal.Decimal `json:"order_total"`
}

type rangeRequest struct {
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

func sumTotals(db *gorm.DB, start, end *time.Time) (decimal.Decimal, error) {
	q := db.Model(&models.Order{})
	if start != nil {
		q = q.Where("created_at >= ?", *start)
	}
	if end != nil {
		q = q.Where("created_at <= ?", *end)
	}
	var total decimal.NullDecimal
	if err := q.Select("SUM(total)").Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func statsInRange(db *gorm.DB, start, end time.Time) (*RangeStats, error) {
	var count int64
	if err := db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Count(&count).Error; err != nil {
		return nil, err
	}
	total, err := sumTotals(db, &start, &end)
	if err != nil {
		return nil, err
	}
	return &RangeStats{OrderCount: count, OrderTotal: total}, nil
}

// GetOrderStatsHandler returns the dashboard numbers: today's counts and
// sums, overall totals, and the five most recent orders.
func GetOrderStatsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		var stats OrderStats
		if err := db.Model(&models.Order{}).
			Where("created_at >= ?", startOfToday).
			Count(&stats.TodaysOrderCount).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		if err := db.Model(&models.Order{}).Count(&stats.TotalOrdersCount).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		var err error
		if stats.TodaysOrderTotal, err = sumTotals(db, &startOfToday, nil); err != nil {
			apperrors.Respond(c, err)
			return
		}
		if stats.TotalOrderAmount, err = sumTotals(db, nil, nil); err != nil {
			apperrors.Respond(c, err)
			return
		}

		if err := db.Preload("Items").
			Order("created_at DESC").
			Limit(5).
			Find(&stats.RecentOrders).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func GetOrderStatsByRangeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req rangeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.Validation("start_date and end_date are required"))
			return
		}
		stats, err := statsInRange(db, req.StartDate, req.EndDate)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func GetWeeklyStatsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // treat Sunday as the last day of the week
		}
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
			AddDate(0, 0, -(weekday - 1))
		end := start.AddDate(0, 0, 7).Add(-time.Second)

		stats, err := statsInRange(db, start, end)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func GetMonthlyStatsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end := start.AddDate(0, 1, 0).Add(-time.Second)

		stats, err := statsInRange(db, start, end)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
