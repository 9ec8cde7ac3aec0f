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

// UserController manages staff accounts. A company_admin only sees and
// edits accounts of their own company; creating super_admin accounts is
// reserved to super_admin callers.
type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

func (uc *UserController) ListUsers(c *gin.Context) {
	var users []models.User
	err := middlewares.ScopeFromContext(c).
		Apply(uc.DB.Order("id asc")).
		Find(&users).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of users", users)
}

func (uc *UserController) CreateUser(c *gin.Context) {
	type userReq struct {
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=8"`
		Name      string `json:"name" binding:"required"`
		Surname   string `json:"surname" binding:"required"`
		Role      string `json:"role" binding:"required"`
		CompanyID *uint  `json:"company_id"`
	}
	var req userReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	role := models.Role(req.Role)
	if !role.Valid() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown role"))
		return
	}

	callerRole := middlewares.RoleFromContext(c)
	if role.CanManageAllCompanies() && !callerRole.CanManageAllCompanies() {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var companyID *uint
	if !role.CanManageAllCompanies() {
		resolved, err := resolveCompanyID(c, req.CompanyID)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		companyID = &resolved
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Email:              req.Email,
		Password:           hash,
		Name:               req.Name,
		Surname:            req.Surname,
		Role:               role,
		CompanyID:          companyID,
		Active:             true,
		MustChangePassword: true,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		if isDuplicateErr(err) {
			utils.RespondError(c, http.StatusConflict, errors.New("a user with that email already exists"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "User created", user)
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := middlewares.ScopeFromContext(c).Apply(uc.DB).First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrNotFound)
		return
	}

	type updateReq struct {
		Name    *string `json:"name"`
		Surname *string `json:"surname"`
		Role    *string `json:"role"`
		Active  *bool   `json:"active"`
	}
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Role != nil {
		role := models.Role(*req.Role)
		if !role.Valid() {
			utils.RespondError(c, http.StatusBadRequest, errors.New("unknown role"))
			return
		}
		if role.CanManageAllCompanies() && !middlewares.RoleFromContext(c).CanManageAllCompanies() {
			utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
			return
		}
		user.Role = role
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Surname != nil {
		user.Surname = *req.Surname
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User updated", user)
}

// DeactivateUser soft-deletes the account. Safe to retry.
func (uc *UserController) DeactivateUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := middlewares.ScopeFromContext(c).Apply(uc.DB).First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrNotFound)
		return
	}

	user.Active = false
	if err := uc.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User deactivated", user)
}
