package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/casacomida/orders-app/models"
	"github.com/casacomida/orders-app/utils"
)

// SlotService computes the bookable delivery/pickup time slots for a
// company and enforces the per-slot capacity ceiling against live pending
// order counts.
//
// Capacity is checked when the slot list is generated and checked again at
// order submission. The two checks are not atomic: two near-simultaneous
// bookers can both pass the write-time check for the last seat in a slot.
// That window is accepted, there is no cross-request lock.
type SlotService struct {
	DB *gorm.DB

	Opening         string // "HH:MM"
	Closing         string // "HH:MM"
	IntervalMinutes int
	Capacity        int

	// Now is replaceable in tests.
	Now func() time.Time
}

func NewSlotService(db *gorm.DB, opening, closing string, intervalMinutes, capacity int) *SlotService {
	return &SlotService{
		DB:              db,
		Opening:         opening,
		Closing:         closing,
		IntervalMinutes: intervalMinutes,
		Capacity:        capacity,
		Now:             time.Now,
	}
}

// AvailableSlots returns the offerable "HH:MM" slots for today: interval
// boundaries after now, up to and including closing time, whose pending
// order count is below capacity. Malformed opening/closing configuration
// yields an empty list, never an error.
func (ss *SlotService) AvailableSlots(scope models.CompanyScope) []string {
	now := ss.Now()

	opening, closing, ok := ss.window(now)
	if !ok {
		return []string{}
	}

	occupied := ss.PendingCountsBySlot(scope)

	slots := []string{}
	for t := ss.firstBoundary(now, opening); !t.After(closing); t = t.Add(time.Duration(ss.IntervalMinutes) * time.Minute) {
		if !t.After(now) {
			continue
		}
		if occupied[t] >= int64(ss.Capacity) {
			continue
		}
		slots = append(slots, t.Format("15:04"))
	}
	return slots
}

// PendingCountsBySlot loads the number of pending orders per future slot,
// limited to what the scope can see.
func (ss *SlotService) PendingCountsBySlot(scope models.CompanyScope) map[time.Time]int64 {
	type slotCount struct {
		TargetSlot time.Time
		Count      int64
	}

	var rows []slotCount
	query := ss.DB.Model(&models.Order{}).
		Select("target_slot, COUNT(*) AS count").
		Where("payment_status = ?", models.PaymentPending).
		Where("target_slot >= ?", ss.Now()).
		Group("target_slot")
	if err := scope.Apply(query).Scan(&rows).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to load occupied slots: %v", err)
		return map[time.Time]int64{}
	}

	counts := make(map[time.Time]int64, len(rows))
	for _, row := range rows {
		counts[row.TargetSlot.Local()] = row.Count
	}
	return counts
}

// SlotIsFull re-checks the live pending count for one slot. Called at order
// submission so the decision does not rely on the stale count behind the
// slot list the customer saw.
func (ss *SlotService) SlotIsFull(scope models.CompanyScope, slot time.Time) bool {
	var count int64
	query := ss.DB.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentPending).
		Where("target_slot = ?", slot)
	if err := scope.Apply(query).Count(&count).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to count orders in slot: %v", err)
		// Fail closed: an unreadable count must not admit another order.
		return true
	}
	return count >= int64(ss.Capacity)
}

// ParseSlot validates a requested "HH:MM" slot and anchors it to today.
// The slot must be an interval boundary inside the operating window.
func (ss *SlotService) ParseSlot(value string) (time.Time, error) {
	now := ss.Now()

	clock, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid delivery slot %q", value)
	}

	opening, closing, ok := ss.window(now)
	if !ok {
		return time.Time{}, fmt.Errorf("operating hours are not configured")
	}

	slot := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
	if slot.Before(opening) || slot.After(closing) {
		return time.Time{}, fmt.Errorf("slot %s is outside operating hours", value)
	}
	if int(slot.Sub(opening).Minutes())%ss.IntervalMinutes != 0 {
		return time.Time{}, fmt.Errorf("slot %s is not a valid interval boundary", value)
	}
	return slot, nil
}

// firstBoundary rounds now up to the next interval boundary and clamps it
// to opening time.
func (ss *SlotService) firstBoundary(now, opening time.Time) time.Time {
	t := now.Truncate(time.Minute)
	if add := (ss.IntervalMinutes - t.Minute()%ss.IntervalMinutes) % ss.IntervalMinutes; add > 0 {
		t = t.Add(time.Duration(add) * time.Minute)
	}
	if t.Before(opening) {
		t = opening
	}
	return t
}

func (ss *SlotService) window(now time.Time) (opening, closing time.Time, ok bool) {
	openHour, openMin, err1 := parseClock(ss.Opening)
	closeHour, closeMin, err2 := parseClock(ss.Closing)
	if err1 != nil || err2 != nil || ss.IntervalMinutes <= 0 {
		utils.ErrorLogger.Printf("Malformed operating hours configuration: %q - %q", ss.Opening, ss.Closing)
		return time.Time{}, time.Time{}, false
	}

	opening = time.Date(now.Year(), now.Month(), now.Day(), openHour, openMin, 0, 0, now.Location())
	closing = time.Date(now.Year(), now.Month(), now.Day(), closeHour, closeMin, 0, 0, now.Location())
	if closing.Before(opening) {
		return time.Time{}, time.Time{}, false
	}
	return opening, closing, true
}

func parseClock(value string) (hour, minute int, err error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid clock value %q", value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock value %q out of range", value)
	}
	return hour, minute, nil
}
