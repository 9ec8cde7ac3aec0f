package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/casacomida/orders-app/middlewares"
	"github.com/casacomida/orders-app/models"
	"github.com/casacomida/orders-app/utils"
)

type CourierController struct {
	DB *gorm.DB
}

func NewCourierController(db *gorm.DB) *CourierController {
	return &CourierController{DB: db}
}

func (cc *CourierController) ListCouriers(c *gin.Context) {
	var couriers []models.Courier
	err := middlewares.ScopeFromContext(c).
		Apply(cc.DB.Order("id asc")).
		Find(&couriers).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of couriers", couriers)
}

func (cc *CourierController) CreateCourier(c *gin.Context) {
	type courierReq struct {
		Name      string `json:"name" binding:"required"`
		Surname   string `json:"surname" binding:"required"`
		Phone     string `json:"phone"`
		CompanyID *uint  `json:"company_id"`
	}
	var req courierReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	companyID, err := resolveCompanyID(c, req.CompanyID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	courier := models.Courier{
		CompanyID: companyID,
		Name:      req.Name,
		Surname:   req.Surname,
		Phone:     req.Phone,
		Active:    true,
	}
	if err := cc.DB.Create(&courier).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Courier created", courier)
}

func (cc *CourierController) UpdateCourier(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("courier_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var courier models.Courier
	if err := middlewares.ScopeFromContext(c).Apply(cc.DB).First(&courier, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrNotFound)
		return
	}

	type updateReq struct {
		Name    *string `json:"name"`
		Surname *string `json:"surname"`
		Phone   *string `json:"phone"`
		Active  *bool   `json:"active"`
	}
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		courier.Name = *req.Name
	}
	if req.Surname != nil {
		courier.Surname = *req.Surname
	}
	if req.Phone != nil {
		courier.Phone = *req.Phone
	}
	if req.Active != nil {
		courier.Active = *req.Active
	}

	if err := cc.DB.Save(&courier).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Courier updated", courier)
}

// DeleteCourier soft-deletes. Existing orders keep their courier reference.
func (cc *CourierController) DeleteCourier(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("courier_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var courier models.Courier
	if err := middlewares.ScopeFromContext(c).Apply(cc.DB).First(&courier, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrNotFound)
		return
	}

	courier.Active = false
	if err := cc.DB.Save(&courier).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Courier deactivated", courier)
}
