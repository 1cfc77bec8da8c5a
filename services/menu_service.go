package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/catering-app/models"
	"github.com/yeremiapane/catering-app/utils"
)

type CreateMenuRequest struct {
	Title       string   `json:"title" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	EventType   string   `json:"eventType"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" binding:"required"`
	Image       string   `json:"image"`
}

type MenuFilter struct {
	Category  string
	EventType string
}

type MenuService struct {
	db *gorm.DB
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{db: db}
}

// ListMenus filters by category and event type. Dishes offered for "All"
// events match every event type.
func (s *MenuService) ListMenus(ctx context.Context, filter MenuFilter) ([]models.Menu, error) {
	db := s.db.WithContext(ctx).Order("category ASC").Order("id ASC")
	if c := strings.TrimSpace(filter.Category); c != "" {
		db = db.Where("category = ?", c)
	}
	if et := strings.TrimSpace(filter.EventType); et != "" && et != models.MenuEventTypeAll {
		db = db.Where("event_type IN ?", []string{et, models.MenuEventTypeAll})
	}

	menus := []models.Menu{}
	if err := db.Find(&menus).Error; err != nil {
		return nil, wrapDBError("menu", err)
	}
	return menus, nil
}

func (s *MenuService) GetMenu(ctx context.Context, menuID uint) (*models.Menu, error) {
	var menu models.Menu
	if err := s.db.WithContext(ctx).First(&menu, menuID).Error; err != nil {
		return nil, wrapDBError("menu", err)
	}
	return &menu, nil
}

func (s *MenuService) CreateMenu(ctx context.Context, req CreateMenuRequest) (*models.Menu, error) {
	if req.Price == nil {
		return nil, ValidationError("price is required")
	}
	menu := models.Menu{
		Title:       strings.TrimSpace(req.Title),
		Category:    strings.TrimSpace(req.Category),
		EventType:   strings.TrimSpace(req.EventType),
		Description: strings.TrimSpace(req.Description),
		Price:       *req.Price,
		Image:       strings.TrimSpace(req.Image),
	}
	switch {
	case menu.Title == "":
		return nil, ValidationError("title is required")
	case menu.Category == "":
		return nil, ValidationError("category is required")
	case menu.Price < 0:
		return nil, ValidationError("price must not be negative")
	case !isCents(menu.Price):
		return nil, ValidationError("price must have at most two decimal places")
	}
	if menu.EventType == "" {
		menu.EventType = models.MenuEventTypeAll
	}
	if menu.EventType != models.MenuEventTypeAll && !models.EventType(menu.EventType).Valid() {
		return nil, ValidationError("invalid eventType %q", menu.EventType)
	}

	if err := s.db.WithContext(ctx).Create(&menu).Error; err != nil {
		return nil, wrapDBError("menu", err)
	}
	utils.InfoLogger.Infof("Menu %d created: %s (%s)", menu.ID, menu.Title, utils.FormatCurrency(menu.Price))
	return &menu, nil
}

// isCents reports whether p is a whole number of cents. Totals are summed
// from stored prices, so sub-cent prices would be rounded away.
func isCents(p float64) bool {
	d := decimal.NewFromFloat(p)
	return d.Equal(d.Round(2))
}
