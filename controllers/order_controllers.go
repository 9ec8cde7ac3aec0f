package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/casacomida/orders-app/models"
	"github.com/casacomida/orders-app/services"
	"github.com/casacomida/orders-app/utils"
)

// OrderController serves the public, unauthenticated ordering flow. All of
// it operates on the configured default company.
type OrderController struct {
	DB               *gorm.DB
	Orders           *services.OrderService
	Slots            *services.SlotService
	Delivery         *services.DeliveryService
	Carts            *services.CartService
	Maps             *services.MapsService
	DefaultCompanyID uint
}

func NewOrderController(db *gorm.DB, orders *services.OrderService, slots *services.SlotService,
	delivery *services.DeliveryService, carts *services.CartService, maps *services.MapsService,
	defaultCompanyID uint) *OrderController {
	return &OrderController{
		DB:               db,
		Orders:           orders,
		Slots:            slots,
		Delivery:         delivery,
		Carts:            carts,
		Maps:             maps,
		DefaultCompanyID: defaultCompanyID,
	}
}

// GetMenu lists the active dishes customers can order.
func (oc *OrderController) GetMenu(c *gin.Context) {
	var dishes []models.Dish
	err := models.ScopeForCompany(oc.DefaultCompanyID).
		Apply(oc.DB.Where("active = ?", true)).
		Order("id asc").
		Find(&dishes).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu", dishes)
}

// GetSlots lists the bookable time slots for today.
func (oc *OrderController) GetSlots(c *gin.Context) {
	slots := oc.Slots.AvailableSlots(models.ScopeForCompany(oc.DefaultCompanyID))
	utils.RespondJSON(c, http.StatusOK, "Available slots", slots)
}

// GetRestaurantInfo returns the cached places-lookup result.
func (oc *OrderController) GetRestaurantInfo(c *gin.Context) {
	info := oc.Maps.RestaurantInfo(c.Request.Context())
	utils.RespondJSON(c, http.StatusOK, "Restaurant info", info)
}

// CreateOrder is the order submission boundary. The cart lives in the
// caller's session; everything else arrives in the body. Failed delivery
// qualification degrades to pickup, it never rejects the order.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	type OrderReq struct {
		CustomerName      string `json:"customer_name"`
		CustomerSurname   string `json:"customer_surname"`
		DeliveryAddress   string `json:"delivery_address"`
		PaymentMethod     string `json:"payment_method"`
		Slot              string `json:"slot"`
		DeliveryRequested bool   `json:"delivery_requested"`
	}

	var req OrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerSurname = strings.TrimSpace(req.CustomerSurname)
	req.DeliveryAddress = strings.TrimSpace(req.DeliveryAddress)

	if req.CustomerName == "" || req.CustomerSurname == "" || req.PaymentMethod == "" || req.Slot == "" {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("name, surname, payment method and delivery slot are required"))
		return
	}
	if req.DeliveryRequested && req.DeliveryAddress == "" {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("a delivery address is required for home delivery"))
		return
	}

	slot, err := oc.Slots.ParseSlot(req.Slot)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	sid := cartSessionID(c)
	cart, err := oc.Carts.Items(c.Request.Context(), sid)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	decision := oc.Delivery.CheckDelivery(c.Request.Context(), oc.DefaultCompanyID,
		req.DeliveryAddress, req.DeliveryRequested)

	order, err := oc.Orders.Create(oc.DefaultCompanyID, services.OrderInput{
		CustomerName:    req.CustomerName,
		CustomerSurname: req.CustomerSurname,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		Slot:            slot,
		Cart:            cart,
		Decision:        decision,
	})
	if err != nil {
		var unavailable *services.DishUnavailableError
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			utils.RespondError(c, http.StatusBadRequest, err)
		case errors.Is(err, services.ErrSlotFull):
			utils.RespondError(c, http.StatusConflict, err)
		case errors.As(err, &unavailable):
			utils.RespondError(c, http.StatusBadRequest, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	if err := oc.Carts.Clear(c.Request.Context(), sid); err != nil {
		utils.ErrorLogger.Printf("Failed to clear cart %s after order #%d: %v", sid, order.ID, err)
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", gin.H{
		"order":    order,
		"delivery": decision,
	})
}

// GetOrderConfirmation shows a freshly placed order back to the customer.
func (oc *OrderController) GetOrderConfirmation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.Get(models.ScopeForCompany(oc.DefaultCompanyID), uint(id))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order confirmation", order)
}
