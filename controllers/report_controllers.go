package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/casacomida/orders-app/middlewares"
	"github.com/casacomida/orders-app/models"
	"github.com/casacomida/orders-app/utils"
)

// ReportController serves sales aggregations for the back office.
type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

// reportDateRange reads from/to query params like dateRange does, but
// defaults to the last 30 days instead of today.
func reportDateRange(c *gin.Context) (time.Time, time.Time, error) {
	from, to, err := dateRange(c)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if c.Query("from") == "" {
		from = from.AddDate(0, 0, -30)
	}
	return from, to, nil
}

// GetSalesReport aggregates ordered quantities by dish category, by dish,
// and order counts and totals by payment method over a date range.
func (rc *ReportController) GetSalesReport(c *gin.Context) {
	from, to, err := reportDateRange(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	type categoryRow struct {
		Category string `json:"category"`
		Quantity int64  `json:"quantity"`
	}
	type dishRow struct {
		DishID   uint   `json:"dish_id"`
		Name     string `json:"name"`
		Category string `json:"category"`
		Quantity int64  `json:"quantity"`
	}
	type paymentRow struct {
		PaymentMethod string  `json:"payment_method"`
		Orders        int64   `json:"orders"`
		Total         float64 `json:"total"`
	}

	scope := middlewares.ScopeFromContext(c)

	itemsInRange := func() *gorm.DB {
		query := rc.DB.Model(&models.OrderItem{}).
			Joins("JOIN dishes ON dishes.id = order_items.dish_id").
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("orders.created_at >= ? AND orders.created_at < ?", from, to)
		return scope.ApplyColumn(query, "orders.company_id")
	}

	var byCategory []categoryRow
	err = itemsInRange().
		Select("dishes.category AS category, SUM(order_items.quantity) AS quantity").
		Group("dishes.category").
		Order("quantity DESC").
		Scan(&byCategory).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var byDish []dishRow
	err = itemsInRange().
		Select("dishes.id AS dish_id, dishes.name AS name, dishes.category AS category, SUM(order_items.quantity) AS quantity").
		Group("dishes.id, dishes.name, dishes.category").
		Order("quantity DESC").
		Scan(&byDish).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var byPayment []paymentRow
	query := rc.DB.Model(&models.Order{}).
		Select("orders.payment_method AS payment_method, COUNT(*) AS orders, SUM(orders.total_amount) AS total").
		Where("orders.created_at >= ? AND orders.created_at < ?", from, to).
		Group("orders.payment_method").
		Order("total DESC")
	err = scope.ApplyColumn(query, "orders.company_id").Scan(&byPayment).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Sales report", gin.H{
		"from":            from,
		"to":              to,
		"by_category":     byCategory,
		"by_dish":         byDish,
		"payment_methods": byPayment,
	})
}
