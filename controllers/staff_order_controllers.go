package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/casacomida/orders-app/middlewares"
	"github.com/casacomida/orders-app/models"
	"github.com/casacomida/orders-app/services"
	"github.com/casacomida/orders-app/utils"
)

// StaffOrderController is the back-office view on orders. Every query goes
// through the caller's company scope.
type StaffOrderController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewStaffOrderController(db *gorm.DB, orders *services.OrderService) *StaffOrderController {
	return &StaffOrderController{DB: db, Orders: orders}
}

// ListOrders returns orders visible to the caller, optionally filtered by
// payment status and creation date.
func (sc *StaffOrderController) ListOrders(c *gin.Context) {
	scope := middlewares.ScopeFromContext(c)

	query := scope.Apply(sc.DB.Model(&models.Order{})).
		Preload("OrderItems").
		Preload("Courier").
		Order("target_slot asc")

	if status := c.Query("status"); status != "" {
		query = query.Where("payment_status = ?", status)
	}
	if date := c.Query("date"); date != "" {
		day, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid date, expected YYYY-MM-DD"))
			return
		}
		query = query.Where("created_at >= ? AND created_at < ?", day, day.AddDate(0, 0, 1))
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrder returns one order, or not-found when out of scope.
func (sc *StaffOrderController) GetOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := sc.Orders.Get(middlewares.ScopeFromContext(c), uint(id))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// AssignCourier assigns or reassigns a courier to an order.
func (sc *StaffOrderController) AssignCourier(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	type AssignReq struct {
		CourierID uint `json:"courier_id" binding:"required"`
	}
	var req AssignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := sc.Orders.AssignCourier(middlewares.ScopeFromContext(c), uint(id), req.CourierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, ErrNotFound)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Courier assigned", order)
}

// MarkPaid flips an order to paid and posts the ledger entries. Paying a
// paid order answers with a warning and changes nothing.
func (sc *StaffOrderController) MarkPaid(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := sc.Orders.MarkPaid(middlewares.ScopeFromContext(c), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyPaid):
			utils.RespondJSON(c, http.StatusOK, "Order is already paid", order)
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondError(c, http.StatusNotFound, ErrNotFound)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order marked as paid", order)
}
