package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to define custom error values
	"time"         // time holds row timestamps
)

// Country represents a festival country persisted in the database.  Countries
// own dishes and (optionally) events.  Order is the admin-controlled display
// position; it is not unique and ties break by name when listing.
type Country struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	FlagEmoji string    `json:"flagEmoji"`
	FlagImage *string   `json:"flagImage"`
	Order     int       `json:"order"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrCountryNotFound is returned when a country cannot be found in the DB.
var ErrCountryNotFound = errors.New("country not found")

// CountryRepo encapsulates all database queries related to countries.
type CountryRepo struct {
	db *sql.DB
}

// NewCountryRepo constructs a CountryRepo with the provided DB handle.
func NewCountryRepo(db *sql.DB) *CountryRepo {
	return &CountryRepo{db: db}
}

const countryCols = "id, name, flag_emoji, flag_image, display_order, is_active, created_at"

func scanCountry(row interface{ Scan(...any) error }, c *Country) error {
	return row.Scan(&c.ID, &c.Name, &c.FlagEmoji, &c.FlagImage, &c.Order, &c.IsActive, &c.CreatedAt)
}

// List returns every country ordered by display position, ties broken by name.
func (r *CountryRepo) List(ctx context.Context) ([]*Country, error) {
	const q = "SELECT " + countryCols + " FROM countries ORDER BY display_order, name"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Country{}
	for rows.Next() {
		c := new(Country)
		if err := scanCountry(rows, c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a country by its ID.  It returns ErrCountryNotFound if no
// row is found.
func (r *CountryRepo) GetByID(ctx context.Context, id uint64) (*Country, error) {
	const q = "SELECT " + countryCols + " FROM countries WHERE id = ?"
	var c Country
	if err := scanCountry(r.db.QueryRowContext(ctx, q, id), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCountryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new country.  On success the ID and CreatedAt fields are
// populated via a follow-up SELECT so callers receive a fully populated row.
func (r *CountryRepo) Create(ctx context.Context, c *Country) error {
	const q = `INSERT INTO countries (name, flag_emoji, flag_image, display_order, is_active)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.FlagEmoji, c.FlagImage, c.Order, c.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)

	const qSelect = "SELECT " + countryCols + " FROM countries WHERE id = ?"
	return scanCountry(r.db.QueryRowContext(ctx, qSelect, c.ID), c)
}

// Update replaces every mutable field of a country (full-record PUT
// semantics).  ErrCountryNotFound is returned when the id does not exist.
func (r *CountryRepo) Update(ctx context.Context, id uint64, c *Country) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	const q = `UPDATE countries
	           SET name = ?, flag_emoji = ?, flag_image = ?, display_order = ?, is_active = ?
	           WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, c.Name, c.FlagEmoji, c.FlagImage, c.Order, c.IsActive, id); err != nil {
		return err
	}
	const qSelect = "SELECT " + countryCols + " FROM countries WHERE id = ?"
	return scanCountry(r.db.QueryRowContext(ctx, qSelect, id), c)
}

// Delete removes a country.  A country that still owns dishes cannot be
// deleted; ErrConflict is returned so the admin UI can explain why instead of
// leaving dangling dishes behind the inner join.
func (r *CountryRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM dishes WHERE country_id = ?", id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM countries WHERE id = ?", id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrCountryNotFound
	}
	return nil
}

// Reorder rewrites each listed country's display position to its 0-based index
// in ids.  Countries omitted from the slice keep their current position.  The
// updates run inside a single transaction so a partially applied reorder is
// never observable.  The error result is named so the deferred commit can
// report its failure to the caller.
func (r *CountryRepo) Reorder(ctx context.Context, ids []uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	for i, id := range ids {
		if _, err = tx.ExecContext(ctx,
			"UPDATE countries SET display_order = ? WHERE id = ?", i, id); err != nil {
			return err
		}
	}
	return nil
}
