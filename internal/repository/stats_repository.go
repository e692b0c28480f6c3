package repository

import (
	"context"
	"database/sql"
)

// DashboardStats is the aggregate shape behind GET /api/admin/stats.
type DashboardStats struct {
	TotalDishes    int `json:"totalDishes"`
	TotalCountries int `json:"totalCountries"`
	TodayViews     int `json:"todayViews"`
}

// StatsRepo runs the aggregate count queries for the admin dashboard.
type StatsRepo struct {
	db *sql.DB
}

// NewStatsRepo constructs a StatsRepo with the provided DB handle.
func NewStatsRepo(db *sql.DB) *StatsRepo {
	return &StatsRepo{db: db}
}

// Dashboard returns total dishes, total countries and the views recorded
// since midnight (server time; viewed_at is stored in UTC).
func (r *StatsRepo) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var s DashboardStats
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM dishes").Scan(&s.TotalDishes); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM countries").Scan(&s.TotalCountries); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM dish_views WHERE viewed_at >= CURDATE()").Scan(&s.TodayViews); err != nil {
		return nil, err
	}
	return &s, nil
}
