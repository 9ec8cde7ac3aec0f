package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/casacomida/orders-app/models"
	"github.com/casacomida/orders-app/utils"
)

// CompanyController manages tenants. Routes are gated by RequireSuperAdmin.
type CompanyController struct {
	DB *gorm.DB
}

func NewCompanyController(db *gorm.DB) *CompanyController {
	return &CompanyController{DB: db}
}

func (cc *CompanyController) ListCompanies(c *gin.Context) {
	var companies []models.Company
	if err := cc.DB.Order("id asc").Find(&companies).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of companies", companies)
}

func (cc *CompanyController) CreateCompany(c *gin.Context) {
	type companyReq struct {
		Name    string `json:"name" binding:"required"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}
	var req companyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	company := models.Company{Name: req.Name, Phone: req.Phone, Address: req.Address, Active: true}
	if err := cc.DB.Create(&company).Error; err != nil {
		if isDuplicateErr(err) {
			utils.RespondError(c, http.StatusConflict, errors.New("a company with that name already exists"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Company created", company)
}

func (cc *CompanyController) UpdateCompany(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("company_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var company models.Company
	if err := cc.DB.First(&company, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrNotFound)
		return
	}

	type updateReq struct {
		Name    *string `json:"name"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
	}
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.Phone != nil {
		company.Phone = *req.Phone
	}
	if req.Address != nil {
		company.Address = *req.Address
	}

	if err := cc.DB.Save(&company).Error; err != nil {
		if isDuplicateErr(err) {
			utils.RespondError(c, http.StatusConflict, errors.New("a company with that name already exists"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Company updated", company)
}

// DeactivateCompany soft-deletes the company and cascades the deactivation
// to its users in one transaction. Companies are never hard-deleted.
func (cc *CompanyController) DeactivateCompany(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("company_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var company models.Company
	if err := cc.DB.First(&company, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrNotFound)
		return
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Company{}).Where("id = ?", company.ID).
			Update("active", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("company_id = ?", company.ID).
			Update("active", false).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Company %d deactivated along with its users", company.ID)
	utils.RespondJSON(c, http.StatusOK, "Company deactivated", gin.H{"company_id": company.ID})
}
