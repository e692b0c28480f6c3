package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Banner represents a promotional image shown in the storefront carousel.
// Image may hold a data URI for small uploads; Link is an optional
// click-through target.
type Banner struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Image     string    `json:"image"`
	Link      *string   `json:"link"`
	Order     int       `json:"order"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrBannerNotFound is returned when a banner cannot be found in the DB.
var ErrBannerNotFound = errors.New("banner not found")

// BannerRepo encapsulates all database queries related to banners.
type BannerRepo struct {
	db *sql.DB
}

// NewBannerRepo constructs a BannerRepo with the provided DB handle.
func NewBannerRepo(db *sql.DB) *BannerRepo {
	return &BannerRepo{db: db}
}

const bannerCols = "id, title, image, link, display_order, is_active, created_at"

func scanBanner(row interface{ Scan(...any) error }, b *Banner) error {
	return row.Scan(&b.ID, &b.Title, &b.Image, &b.Link, &b.Order, &b.IsActive, &b.CreatedAt)
}

// List returns every banner ordered by display position.
func (r *BannerRepo) List(ctx context.Context) ([]*Banner, error) {
	const q = "SELECT " + bannerCols + " FROM banners ORDER BY display_order"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Banner{}
	for rows.Next() {
		b := new(Banner)
		if err := scanBanner(rows, b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new banner and populates ID and CreatedAt.
func (r *BannerRepo) Create(ctx context.Context, b *Banner) error {
	const q = `INSERT INTO banners (title, image, link, display_order, is_active)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, b.Title, b.Image, b.Link, b.Order, b.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const qSelect = "SELECT " + bannerCols + " FROM banners WHERE id = ?"
	return scanBanner(r.db.QueryRowContext(ctx, qSelect, b.ID), b)
}

// Update replaces every mutable field of a banner.  ErrBannerNotFound when
// the id does not exist.
func (r *BannerRepo) Update(ctx context.Context, id uint64, b *Banner) error {
	const qCheck = "SELECT id FROM banners WHERE id = ?"
	var existing uint64
	if err := r.db.QueryRowContext(ctx, qCheck, id).Scan(&existing); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBannerNotFound
		}
		return err
	}
	const q = `UPDATE banners
	           SET title = ?, image = ?, link = ?, display_order = ?, is_active = ?
	           WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, b.Title, b.Image, b.Link, b.Order, b.IsActive, id); err != nil {
		return err
	}
	const qSelect = "SELECT " + bannerCols + " FROM banners WHERE id = ?"
	return scanBanner(r.db.QueryRowContext(ctx, qSelect, id), b)
}

// Delete removes a banner.  ErrBannerNotFound when the id does not exist.
func (r *BannerRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM banners WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBannerNotFound
	}
	return nil
}
