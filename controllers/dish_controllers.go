package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/casacomida/orders-app/middlewares"
	"github.com/casacomida/orders-app/models"
	"github.com/casacomida/orders-app/utils"
)

type DishController struct {
	DB *gorm.DB
}

func NewDishController(db *gorm.DB) *DishController {
	return &DishController{DB: db}
}

// resolveCompanyID decides which company a created row belongs to. A
// super_admin must name the company; everyone else writes into their own.
func resolveCompanyID(c *gin.Context, requested *uint) (uint, error) {
	scope := middlewares.ScopeFromContext(c)
	if scope.Unrestricted() {
		if requested == nil || *requested == 0 {
			return 0, errors.New("company_id is required")
		}
		return *requested, nil
	}
	if id, ok := scope.CompanyID(); ok {
		return id, nil
	}
	return 0, ErrNoPermission
}

// ListDishes returns the catalog visible to the caller, inactive rows
// included so staff can reactivate them.
func (dc *DishController) ListDishes(c *gin.Context) {
	var dishes []models.Dish
	err := middlewares.ScopeFromContext(c).
		Apply(dc.DB.Order("id asc")).
		Find(&dishes).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of dishes", dishes)
}

type dishReq struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	CompanyID   *uint   `json:"company_id"`
}

// CreateDish adds a dish to the caller's catalog.
func (dc *DishController) CreateDish(c *gin.Context) {
	var req dishReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Price < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("price must not be negative"))
		return
	}

	companyID, err := resolveCompanyID(c, req.CompanyID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	dish := models.Dish{
		CompanyID:   companyID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Active:      true,
	}
	if err := dc.DB.Create(&dish).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Dish created", dish)
}

// UpdateDish edits name, description, category, price or active flag.
// Price changes never touch existing order items.
func (dc *DishController) UpdateDish(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("dish_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var dish models.Dish
	if err := middlewares.ScopeFromContext(c).Apply(dc.DB).First(&dish, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrNotFound)
		return
	}

	type updateReq struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Category    *string  `json:"category"`
		Price       *float64 `json:"price"`
		Active      *bool    `json:"active"`
	}
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Price != nil && *req.Price < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("price must not be negative"))
		return
	}
	if req.Name != nil {
		dish.Name = *req.Name
	}
	if req.Description != nil {
		dish.Description = *req.Description
	}
	if req.Category != nil {
		dish.Category = *req.Category
	}
	if req.Price != nil {
		dish.Price = *req.Price
	}
	if req.Active != nil {
		dish.Active = *req.Active
	}

	if err := dc.DB.Save(&dish).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish updated", dish)
}

// DeleteDish soft-deletes: the row stays, only the flag flips. Safe to
// retry.
func (dc *DishController) DeleteDish(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("dish_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var dish models.Dish
	if err := middlewares.ScopeFromContext(c).Apply(dc.DB).First(&dish, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrNotFound)
		return
	}

	dish.Active = false
	if err := dc.DB.Save(&dish).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish deactivated", dish)
}
