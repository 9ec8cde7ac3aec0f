package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casacomida/orders-app/models"
	"github.com/casacomida/orders-app/services"
	"github.com/casacomida/orders-app/utils"
)

const cartCookieName = "cart_session"

type CartController struct {
	DB               *gorm.DB
	Carts            *services.CartService
	DefaultCompanyID uint
}

func NewCartController(db *gorm.DB, carts *services.CartService, defaultCompanyID uint) *CartController {
	return &CartController{DB: db, Carts: carts, DefaultCompanyID: defaultCompanyID}
}

// cartSessionID returns the caller's cart session, creating the cookie on
// first use.
func cartSessionID(c *gin.Context) string {
	if sid, err := c.Cookie(cartCookieName); err == nil && sid != "" {
		return sid
	}
	sid := uuid.NewString()
	c.SetCookie(cartCookieName, sid, int(services.CartTTL.Seconds()), "/", "", false, true)
	return sid
}

type cartLine struct {
	DishID    uint    `json:"dish_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// cartDetail joins the raw cart against the active catalog of the default
// company. Dishes that disappeared from the catalog are skipped.
func (cc *CartController) cartDetail(items map[uint]int) ([]cartLine, float64) {
	lines := []cartLine{}
	var total float64

	scope := models.ScopeForCompany(cc.DefaultCompanyID)
	for dishID, quantity := range items {
		var dish models.Dish
		if err := scope.Apply(cc.DB.Where("active = ?", true)).First(&dish, dishID).Error; err != nil {
			continue
		}
		subtotal := dish.Price * float64(quantity)
		lines = append(lines, cartLine{
			DishID:    dish.ID,
			Name:      dish.Name,
			Quantity:  quantity,
			UnitPrice: dish.Price,
			Subtotal:  subtotal,
		})
		total += subtotal
	}
	return lines, total
}

// AddToCart adds a dish to the session cart.
func (cc *CartController) AddToCart(c *gin.Context) {
	dishID, err := strconv.Atoi(c.Param("dish_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	type AddReq struct {
		Quantity int `json:"quantity"`
	}
	req := AddReq{Quantity: 1}
	_ = c.ShouldBindJSON(&req)
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	// The dish must exist and be active in the ordering company.
	var dish models.Dish
	err = models.ScopeForCompany(cc.DefaultCompanyID).
		Apply(cc.DB.Where("active = ?", true)).
		First(&dish, dishID).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrNotFound)
		return
	}

	sid := cartSessionID(c)
	items, err := cc.Carts.Add(c.Request.Context(), sid, dish.ID, req.Quantity)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	lines, total := cc.cartDetail(items)
	utils.RespondJSON(c, http.StatusOK, "Dish added to cart", gin.H{"items": lines, "total": total})
}

// UpdateCartQuantity sets the quantity of a dish; zero removes it.
func (cc *CartController) UpdateCartQuantity(c *gin.Context) {
	dishID, err := strconv.Atoi(c.Param("dish_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	type UpdateReq struct {
		Quantity int `json:"quantity" binding:"min=0"`
	}
	var req UpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	sid := cartSessionID(c)
	items, err := cc.Carts.UpdateQuantity(c.Request.Context(), sid, uint(dishID), req.Quantity)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	lines, total := cc.cartDetail(items)
	utils.RespondJSON(c, http.StatusOK, "Cart updated", gin.H{"items": lines, "total": total})
}

// RemoveFromCart drops a dish from the cart.
func (cc *CartController) RemoveFromCart(c *gin.Context) {
	dishID, err := strconv.Atoi(c.Param("dish_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	sid := cartSessionID(c)
	items, err := cc.Carts.Remove(c.Request.Context(), sid, uint(dishID))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	lines, total := cc.cartDetail(items)
	utils.RespondJSON(c, http.StatusOK, "Dish removed from cart", gin.H{"items": lines, "total": total})
}

// GetCartStatus returns the current cart detail and total.
func (cc *CartController) GetCartStatus(c *gin.Context) {
	sid := cartSessionID(c)
	items, err := cc.Carts.Items(c.Request.Context(), sid)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	lines, total := cc.cartDetail(items)
	utils.RespondJSON(c, http.StatusOK, "Cart status", gin.H{"items": lines, "total": total})
}

// ClearCart empties the cart.
func (cc *CartController) ClearCart(c *gin.Context) {
	sid := cartSessionID(c)
	if err := cc.Carts.Clear(c.Request.Context(), sid); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart cleared", nil)
}
