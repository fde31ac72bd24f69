package watch

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/centraldaresenha/go-booking/catalog"
	"github.com/centraldaresenha/go-booking/entities"
	"github.com/centraldaresenha/go-booking/logging"
	"github.com/centraldaresenha/go-booking/persistence"
	"github.com/centraldaresenha/go-booking/utils"
)

type WatchOptions struct {
	SnapshotFile string
	Catalog      *catalog.FieldCatalog
	Log          persistence.Persistence
}

type slotCheck struct {
	field entities.Field
	day   entities.Weekday
	slot  string
}

type plannedCheck struct {
	check slotCheck
	delay time.Duration
}

// Run re-checks today's slots from an availability snapshot: one timer per
// slot, fired at the slot's start time, that fetches the venue detail again
// and records whether the slot is still offered.
func Run(ctx context.Context, options *WatchOptions) error {
	fields, err := utils.ReadSnapshot(options.SnapshotFile)
	if err != nil {
		return fmt.Errorf("error reading availability snapshot: %w", err)
	}

	now := time.Now()
	today := entities.WeekdayFromTime(now)
	var checks []slotCheck
	for _, field := range fields {
		for _, slot := range field.Slots(today) {
			checks = append(checks, slotCheck{field: field, day: today, slot: slot})
		}
	}

	// Spread the checks out a little so a venue with many slots does not
	// get hit by a burst of detail fetches.
	planned := planChecks(checks, now, 30*time.Second)
	logging.GetLogger().Info("scheduling slot checks",
		zap.String("weekday", today.String()),
		zap.Int("slots", len(checks)),
		zap.Int("scheduled", len(planned)))

	runSlotTimers(ctx, planned, options)
	return nil
}

// planChecks turns slot labels into timer delays relative to now. Slots with
// unparsable labels and slots that already started are dropped.
func planChecks(checks []slotCheck, now time.Time, maxJitter time.Duration) []plannedCheck {
	log := logging.GetLogger()
	var planned []plannedCheck
	for _, check := range checks {
		// Slot labels are "HH:MM" on today's date in local time.
		startTimeStr := now.Format("2006-01-02") + "T" + check.slot + ":00"
		startTime, err := time.ParseInLocation("2006-01-02T15:04:05", startTimeStr, now.Location())
		if err != nil {
			log.Warn("could not parse slot label",
				zap.String("slot", check.slot),
				zap.Int("field", check.field.ID),
				zap.Error(err))
			continue
		}
		var jitter time.Duration
		if maxJitter > 0 {
			jitter = time.Duration(rand.Int63n(int64(maxJitter)))
		}
		delay := startTime.Add(jitter).Sub(now)
		if delay <= 0 {
			log.Debug("slot already started, skipping",
				zap.String("slot", check.slot),
				zap.Int("field", check.field.ID))
			continue
		}
		planned = append(planned, plannedCheck{check: check, delay: delay})
	}
	return planned
}

func runSlotTimers(ctx context.Context, planned []plannedCheck, options *WatchOptions) {
	log := logging.GetLogger()
	var wg sync.WaitGroup
	for _, p := range planned {
		wg.Add(1)
		go func(c slotCheck, delay time.Duration) {
			defer wg.Done()
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			if err := checkSlot(ctx, c, options); err != nil {
				log.Error("slot check failed",
					zap.String("slot", c.slot),
					zap.Int("field", c.field.ID),
					zap.Error(err))
			}
		}(p.check, p.delay)
	}
	wg.Wait()
}

func checkSlot(ctx context.Context, c slotCheck, options *WatchOptions) error {
	details, err := options.Catalog.FieldDetail(ctx, c.field.ID)
	if err != nil {
		return fmt.Errorf("error fetching detail for field %d: %w", c.field.ID, err)
	}
	offered := false
	for _, detail := range details {
		for _, slot := range detail.Slots(c.day) {
			if slot == c.slot {
				offered = true
				break
			}
		}
	}
	// Prefer the venue name from the fresh detail records over the
	// snapshot's, which may be stale.
	name := utils.GetFieldName(c.field.ID, details)
	if name == "" {
		name = c.field.Name
	}
	entry := &entities.SlotCheckEntry{
		FieldID:   c.field.ID,
		FieldName: name,
		Weekday:   c.day,
		Slot:      c.slot,
		Offered:   offered,
		CheckedAt: time.Now(),
	}
	if err := options.Log.WriteSlotCheck(ctx, entry); err != nil {
		return fmt.Errorf("error logging slot check: %w", err)
	}
	logging.GetLogger().Info("slot checked",
		zap.Int("field", c.field.ID),
		zap.String("slot", c.slot),
		zap.Bool("offered", offered))
	return nil
}
