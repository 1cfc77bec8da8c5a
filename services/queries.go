package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/catering-app/events"
	"github.com/yeremiapane/catering-app/models"
	"github.com/yeremiapane/catering-app/utils"
)

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

func preloadBooking(db *gorm.DB) *gorm.DB {
	return db.Preload("Lines", byPosition).Preload("Lines.Menu")
}

func preloadOrder(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", byPosition).
		Preload("Items.Menu").
		Preload("Booking").
		Preload("Booking.Lines", byPosition).
		Preload("Booking.Lines.Menu")
}

// dedupeIDs drops zero and repeated ids, keeping first-seen order.
func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// resolveMenus loads the requested menus in request order. Unknown ids are
// dropped unless strict is set, in which case they fail the request.
func resolveMenus(ctx context.Context, db *gorm.DB, ids []uint, strict bool) ([]models.Menu, error) {
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	var found []models.Menu
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, wrapDBError("menu", err)
	}
	byID := make(map[uint]models.Menu, len(found))
	for _, m := range found {
		byID[m.ID] = m
	}

	menus := make([]models.Menu, 0, len(ids))
	var missing []string
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			missing = append(missing, fmt.Sprint(id))
			continue
		}
		menus = append(menus, m)
	}
	if len(missing) > 0 {
		if strict {
			return nil, ValidationError("unknown menu ids: %s", strings.Join(missing, ", "))
		}
		utils.InfoLogger.Debugf("Dropping unknown menu ids: %s", strings.Join(missing, ", "))
	}
	return menus, nil
}

func publish(ctx context.Context, p events.Publisher, e events.Event) {
	if p == nil {
		return
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	if err := p.Publish(ctx, e); err != nil {
		utils.ErrorLogger.Printf("Failed to publish %s event: %v", e.Type, err)
	}
}
