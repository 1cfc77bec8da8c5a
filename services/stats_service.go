package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/catering-app/models"
)

const upcomingWindow = 30 * 24 * time.Hour

type DashboardStats struct {
	BookingsByStatus map[string]int64 `json:"bookingsByStatus"`
	OrdersByStatus   map[string]int64 `json:"ordersByStatus"`
	TotalBookings    int64            `json:"totalBookings"`
	TotalOrders      int64            `json:"totalOrders"`
	BookedRevenue    float64          `json:"bookedRevenue"`
	UpcomingEvents   int64            `json:"upcomingEvents"`
	GeneratedAt      time.Time        `json:"generatedAt"`
}

type StatsService struct {
	db  *gorm.DB
	Now func() time.Time
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db, Now: time.Now}
}

type statusCount struct {
	Status string
	Count  int64
}

func (s *StatsService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	now := s.Now().UTC()

	stats := &DashboardStats{
		BookingsByStatus: make(map[string]int64, len(models.BookingStatuses)),
		OrdersByStatus:   make(map[string]int64, len(models.OrderStatuses)),
		GeneratedAt:      now,
	}
	for _, st := range models.BookingStatuses {
		stats.BookingsByStatus[string(st)] = 0
	}
	for _, st := range models.OrderStatuses {
		stats.OrdersByStatus[string(st)] = 0
	}

	var rows []statusCount
	if err := db.Model(&models.Booking{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, wrapDBError("booking", err)
	}
	for _, r := range rows {
		stats.BookingsByStatus[r.Status] = r.Count
		stats.TotalBookings += r.Count
	}

	rows = nil
	if err := db.Model(&models.Order{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, wrapDBError("order", err)
	}
	for _, r := range rows {
		stats.OrdersByStatus[r.Status] = r.Count
		stats.TotalOrders += r.Count
	}

	err := db.Model(&models.Booking{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("status <> ?", models.BookingCancelled).
		Scan(&stats.BookedRevenue).Error
	if err != nil {
		return nil, wrapDBError("booking", err)
	}

	err = db.Model(&models.Booking{}).
		Where("event_date >= ? AND event_date < ?", now, now.Add(upcomingWindow)).
		Where("status IN ?", []models.BookingStatus{models.BookingPending, models.BookingConfirmed}).
		Count(&stats.UpcomingEvents).Error
	if err != nil {
		return nil, wrapDBError("booking", err)
	}
	return stats, nil
}
