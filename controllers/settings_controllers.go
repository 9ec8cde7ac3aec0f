package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/casacomida/orders-app/middlewares"
	"github.com/casacomida/orders-app/models"
	"github.com/casacomida/orders-app/services"
	"github.com/casacomida/orders-app/utils"
)

// SettingsController exposes the tenant-overridable configuration keys.
type SettingsController struct {
	Settings             *services.SettingsService
	DefaultDeliveryFee   float64
	DefaultCourierPayout float64
}

func NewSettingsController(settings *services.SettingsService, defaultDeliveryFee, defaultCourierPayout float64) *SettingsController {
	return &SettingsController{
		Settings:             settings,
		DefaultDeliveryFee:   defaultDeliveryFee,
		DefaultCourierPayout: defaultCourierPayout,
	}
}

// settingsCompanyID resolves which company's settings the caller works on.
// A super_admin may pass company_id=0 (or omit it) to address the global
// defaults.
func settingsCompanyID(c *gin.Context, requested *uint) (*uint, error) {
	scope := middlewares.ScopeFromContext(c)
	if scope.Unrestricted() {
		if requested == nil || *requested == 0 {
			return nil, nil
		}
		return requested, nil
	}
	if id, ok := scope.CompanyID(); ok {
		return &id, nil
	}
	return nil, ErrNoPermission
}

// GetSettings returns the effective values of the known keys for the
// caller's company.
func (sc *SettingsController) GetSettings(c *gin.Context) {
	var requested *uint
	if v, ok := c.GetQuery("company_id"); ok && v != "" {
		parsed, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid company_id"))
			return
		}
		id := uint(parsed)
		requested = &id
	}

	companyID, err := settingsCompanyID(c, requested)
	if err != nil {
		utils.RespondError(c, http.StatusForbidden, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Settings", gin.H{
		models.SettingDeliveryFee:   sc.Settings.GetFloat(models.SettingDeliveryFee, companyID, sc.DefaultDeliveryFee),
		models.SettingCourierPayout: sc.Settings.GetFloat(models.SettingCourierPayout, companyID, sc.DefaultCourierPayout),
	})
}

// UpdateSetting writes one key. Tenant values override the global default;
// last write wins.
func (sc *SettingsController) UpdateSetting(c *gin.Context) {
	type settingReq struct {
		Key       string `json:"key" binding:"required"`
		Value     string `json:"value" binding:"required"`
		CompanyID *uint  `json:"company_id"`
	}
	var req settingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Key != models.SettingDeliveryFee && req.Key != models.SettingCourierPayout {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown setting key"))
		return
	}

	companyID, err := settingsCompanyID(c, req.CompanyID)
	if err != nil {
		utils.RespondError(c, http.StatusForbidden, err)
		return
	}

	if err := sc.Settings.Set(req.Key, req.Value, companyID); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Setting updated", gin.H{"key": req.Key, "value": req.Value})
}
