package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/casacomida/orders-app/middlewares"
	"github.com/casacomida/orders-app/models"
	"github.com/casacomida/orders-app/utils"
)

// CashboxController serves the cash register: the append-only ledger, the
// daily balance and the courier payout report.
type CashboxController struct {
	DB *gorm.DB
}

func NewCashboxController(db *gorm.DB) *CashboxController {
	return &CashboxController{DB: db}
}

// dateRange reads from/to query params, defaulting to today.
func dateRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid from date, expected YYYY-MM-DD")
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid to date, expected YYYY-MM-DD")
		}
		to = parsed.AddDate(0, 0, 1)
	}
	return from, to, nil
}

// GetLedger lists ledger entries in a date range with running totals per
// entry type.
func (cb *CashboxController) GetLedger(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	scope := middlewares.ScopeFromContext(c)

	var entries []models.LedgerEntry
	err = scope.Apply(cb.DB.Where("recorded_at >= ? AND recorded_at < ?", from, to)).
		Order("recorded_at asc").
		Find(&entries).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var income, expenses, payouts float64
	for _, entry := range entries {
		switch entry.Type {
		case models.LedgerIncome:
			income += entry.Amount
		case models.LedgerExpense:
			expenses += entry.Amount
		case models.LedgerCourierPayout:
			payouts += entry.Amount
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Cash register", gin.H{
		"entries":           entries,
		"income":            income,
		"expenses":          expenses,
		"courier_payouts":   payouts,
		"balance":           income - expenses - payouts,
		"balance_formatted": utils.FormatCurrencyARS(income - expenses - payouts),
	})
}

// AddExpense records a manual expense entry. Ledger rows are append-only,
// there is no update or delete.
func (cb *CashboxController) AddExpense(c *gin.Context) {
	type expenseReq struct {
		Amount      float64 `json:"amount"`
		Description string  `json:"description" binding:"required"`
		CompanyID   *uint   `json:"company_id"`
	}
	var req expenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Amount <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("amount must be positive"))
		return
	}

	companyID, err := resolveCompanyID(c, req.CompanyID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	entry := models.LedgerEntry{
		CompanyID:   companyID,
		Type:        models.LedgerExpense,
		Amount:      req.Amount,
		Description: req.Description,
		RecordedAt:  time.Now(),
	}
	if err := cb.DB.Create(&entry).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Expense recorded", entry)
}

// GetCourierReport aggregates payout entries per courier for a date range.
func (cb *CashboxController) GetCourierReport(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	type courierRow struct {
		CourierID  uint    `json:"courier_id"`
		Name       string  `json:"name"`
		Surname    string  `json:"surname"`
		Deliveries int64   `json:"deliveries"`
		Total      float64 `json:"total"`
	}

	scope := middlewares.ScopeFromContext(c)

	var rows []courierRow
	query := cb.DB.Model(&models.LedgerEntry{}).
		Select("ledger_entries.courier_id AS courier_id, couriers.name AS name, couriers.surname AS surname, COUNT(*) AS deliveries, SUM(ledger_entries.amount) AS total").
		Joins("JOIN couriers ON couriers.id = ledger_entries.courier_id").
		Where("ledger_entries.type = ?", models.LedgerCourierPayout).
		Where("ledger_entries.recorded_at >= ? AND ledger_entries.recorded_at < ?", from, to).
		Group("ledger_entries.courier_id, couriers.name, couriers.surname")
	err = scope.ApplyColumn(query, "ledger_entries.company_id").Scan(&rows).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Courier payout report", rows)
}
