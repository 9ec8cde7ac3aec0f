package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/casacomida/orders-app/models"
	"github.com/casacomida/orders-app/utils"
)

var (
	ErrEmptyCart   = errors.New("the cart is empty")
	ErrSlotFull    = errors.New("the selected time slot is full")
	ErrAlreadyPaid = errors.New("the order is already paid")
)

// DishUnavailableError names the offending cart entry so the customer can
// fix it.
type DishUnavailableError struct {
	DishID uint
}

func (e *DishUnavailableError) Error() string {
	return fmt.Sprintf("dish %d is not available", e.DishID)
}

// OrderInput is everything the order submission boundary collects.
type OrderInput struct {
	CustomerName    string
	CustomerSurname string
	DeliveryAddress string
	PaymentMethod   string
	Slot            time.Time
	Cart            map[uint]int // dish id -> quantity
	Decision        DeliveryDecision
}

// OrderService owns the order lifecycle: transactional creation and the
// one-way pending -> paid transition with its ledger postings.
type OrderService struct {
	DB       *gorm.DB
	Slots    *SlotService
	Settings *SettingsService

	DefaultCourierPayout float64

	Now func() time.Time
}

func NewOrderService(db *gorm.DB, slots *SlotService, settings *SettingsService, defaultCourierPayout float64) *OrderService {
	return &OrderService{
		DB:                   db,
		Slots:                slots,
		Settings:             settings,
		DefaultCourierPayout: defaultCourierPayout,
		Now:                  time.Now,
	}
}

// Create validates the cart against the company catalog, snapshots unit
// prices, re-checks the slot capacity and persists header plus items in a
// single transaction.
func (os *OrderService) Create(companyID uint, in OrderInput) (*models.Order, error) {
	if len(in.Cart) == 0 {
		return nil, ErrEmptyCart
	}

	scope := models.ScopeForCompany(companyID)

	// Live capacity check at submission time. Still racy against a
	// concurrent booker, see SlotService.
	if os.Slots.SlotIsFull(scope, in.Slot) {
		return nil, ErrSlotFull
	}

	order := &models.Order{
		CompanyID:       companyID,
		CustomerName:    in.CustomerName,
		CustomerSurname: in.CustomerSurname,
		DeliveryAddress: in.DeliveryAddress,
		IsDelivery:      in.Decision.IsDelivery,
		TargetSlot:      in.Slot,
		DeliveryFee:     in.Decision.Fee,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   models.PaymentPending,
		CustomerLat:     in.Decision.Lat,
		CustomerLon:     in.Decision.Lon,
	}

	err := os.DB.Transaction(func(tx *gorm.DB) error {
		total := in.Decision.Fee

		var items []models.OrderItem
		for dishID, quantity := range in.Cart {
			if quantity <= 0 {
				return &DishUnavailableError{DishID: dishID}
			}

			var dish models.Dish
			err := scope.Apply(tx.Where("id = ? AND active = ?", dishID, true)).First(&dish).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &DishUnavailableError{DishID: dishID}
				}
				return err
			}

			items = append(items, models.OrderItem{
				DishID:    dish.ID,
				Quantity:  quantity,
				UnitPrice: dish.Price,
			})
			total += dish.Price * float64(quantity)
		}

		order.TotalAmount = total
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		order.OrderItems = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order #%d created for company %d, total %s", order.ID, companyID, utils.FormatCurrencyARS(order.TotalAmount))
	return order, nil
}

// Get loads one order with its items and courier, honoring the scope. Out
// of scope ids surface as record-not-found, never as forbidden.
func (os *OrderService) Get(scope models.CompanyScope, orderID uint) (*models.Order, error) {
	var order models.Order
	err := scope.Apply(os.DB.Preload("OrderItems").Preload("OrderItems.Dish").Preload("Courier")).
		First(&order, orderID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkPaid flips a pending order to paid and posts the cash register
// entries: one income row for the total, and a courier payout row when a
// delivery has an assigned courier. Paying an already paid order is a
// no-op reported through ErrAlreadyPaid.
func (os *OrderService) MarkPaid(scope models.CompanyScope, orderID uint) (*models.Order, error) {
	order, err := os.Get(scope, orderID)
	if err != nil {
		return nil, err
	}

	if order.IsPaid() {
		return order, ErrAlreadyPaid
	}

	paidAt := os.Now()

	err = os.DB.Transaction(func(tx *gorm.DB) error {
		// Guard the state flip against a concurrent payer: only the
		// pending row is updated.
		result := scope.Apply(tx.Model(&models.Order{}).
			Where("id = ? AND payment_status = ?", order.ID, models.PaymentPending)).
			Updates(map[string]interface{}{
				"payment_status": models.PaymentPaid,
				"paid_at":        paidAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyPaid
		}

		income := models.LedgerEntry{
			CompanyID:   order.CompanyID,
			Type:        models.LedgerIncome,
			Amount:      order.TotalAmount,
			Description: fmt.Sprintf("Payment of order #%d (%s)", order.ID, order.PaymentMethod),
			OrderID:     &order.ID,
			RecordedAt:  paidAt,
		}
		if err := tx.Create(&income).Error; err != nil {
			return err
		}

		if order.IsDelivery && order.CourierID != nil {
			payout := os.Settings.GetFloat(models.SettingCourierPayout, &order.CompanyID, os.DefaultCourierPayout)
			entry := models.LedgerEntry{
				CompanyID:   order.CompanyID,
				Type:        models.LedgerCourierPayout,
				Amount:      payout,
				Description: fmt.Sprintf("Courier payout for order #%d", order.ID),
				OrderID:     &order.ID,
				CourierID:   order.CourierID,
				RecordedAt:  paidAt,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyPaid) {
			refreshed, getErr := os.Get(scope, orderID)
			if getErr != nil {
				return nil, getErr
			}
			return refreshed, ErrAlreadyPaid
		}
		return nil, err
	}

	order.PaymentStatus = models.PaymentPaid
	order.PaidAt = &paidAt
	utils.InfoLogger.Printf("Order #%d marked paid, income of %s recorded", order.ID, utils.FormatCurrencyARS(order.TotalAmount))
	return order, nil
}

// AssignCourier points the order at a courier of the same company. The
// previous assignment is overwritten, no history is kept.
func (os *OrderService) AssignCourier(scope models.CompanyScope, orderID, courierID uint) (*models.Order, error) {
	order, err := os.Get(scope, orderID)
	if err != nil {
		return nil, err
	}

	var courier models.Courier
	err = models.ScopeForCompany(order.CompanyID).
		Apply(os.DB.Where("active = ?", true)).
		First(&courier, courierID).Error
	if err != nil {
		return nil, err
	}

	if err := os.DB.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("courier_id", courier.ID).Error; err != nil {
		return nil, err
	}

	order.CourierID = &courier.ID
	order.Courier = &courier
	return order, nil
}
