package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Dish represents a menu item persisted in the database.  Price and Rating are
// DECIMAL columns carried as strings to avoid float rounding on the wire; the
// grouping layer parses them only when aggregating.  Tags and Allergens are
// stored as JSON arrays in MySQL.
type Dish struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Image       *string   `json:"image"`
	CountryID   uint64    `json:"countryId"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Allergens   []string  `json:"allergens"`
	Rating      *string   `json:"rating"`
	ReviewCount int       `json:"reviewCount"`
	IsFeatured  bool      `json:"isFeatured"`
	IsAvailable bool      `json:"isAvailable"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DishWithCountry is the standard read shape for every dish endpoint: the dish
// joined with its full owning-country record.  The join is inner, so a dish
// can never appear without a resolvable country.
type DishWithCountry struct {
	Dish
	Country Country `json:"country"`
}

// DishFilters collects the optional storefront/admin filters.  All provided
// filters combine with AND; zero values impose no constraint.
type DishFilters struct {
	Search    string // case-insensitive substring match on the dish name only
	CountryID uint64 // exact match on the owning country
	Category  string // exact match on the category value
	Featured  bool   // when true, only featured dishes
}

// ErrDishNotFound is returned when a dish cannot be found in the DB.
var ErrDishNotFound = errors.New("dish not found")

// DishRepo encapsulates all database queries related to dishes and their
// append-only view log.
type DishRepo struct {
	db *sql.DB
}

// NewDishRepo constructs a DishRepo with the provided DB handle.
func NewDishRepo(db *sql.DB) *DishRepo {
	return &DishRepo{db: db}
}

// joined select list: every dish column followed by every country column.
const dishJoinCols = `d.id, d.name, d.description, d.price, d.image, d.country_id,
	d.category, d.tags, d.allergens, d.rating, d.review_count,
	d.is_featured, d.is_available, d.display_order, d.created_at, d.updated_at,
	c.id, c.name, c.flag_emoji, c.flag_image, c.display_order, c.is_active, c.created_at`

func scanDishWithCountry(row interface{ Scan(...any) error }, d *DishWithCountry) error {
	var tags, allergens []byte
	if err := row.Scan(
		&d.ID, &d.Name, &d.Description, &d.Price, &d.Image, &d.CountryID,
		&d.Category, &tags, &allergens, &d.Rating, &d.ReviewCount,
		&d.IsFeatured, &d.IsAvailable, &d.Order, &d.CreatedAt, &d.UpdatedAt,
		&d.Country.ID, &d.Country.Name, &d.Country.FlagEmoji, &d.Country.FlagImage,
		&d.Country.Order, &d.Country.IsActive, &d.Country.CreatedAt,
	); err != nil {
		return err
	}
	d.Tags = decodeStringList(tags)
	d.Allergens = decodeStringList(allergens)
	return nil
}

// decodeStringList unmarshals a JSON column into a string slice.  NULL and
// malformed values decode to an empty slice so responses always carry arrays.
func decodeStringList(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func encodeStringList(list []string) []byte {
	if list == nil {
		list = []string{}
	}
	b, _ := json.Marshal(list)
	return b
}

// List returns dishes matching every provided filter, each joined with its
// owning country.  Ordering is a three-level stable sort: country display
// position, then dish display position, then dish name.
func (r *DishRepo) List(ctx context.Context, f DishFilters) ([]DishWithCountry, error) {
	where := []string{}
	args := []any{}

	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, "LOWER(d.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(s)+"%")
	}
	if f.CountryID != 0 {
		where = append(where, "d.country_id = ?")
		args = append(args, f.CountryID)
	}
	if f.Category != "" {
		where = append(where, "d.category = ?")
		args = append(args, f.Category)
	}
	if f.Featured {
		where = append(where, "d.is_featured = TRUE")
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	q := `SELECT ` + dishJoinCols + `
		FROM dishes d
		JOIN countries c ON c.id = d.country_id
		WHERE ` + cond + `
		ORDER BY c.display_order, d.display_order, d.name`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DishWithCountry{}
	for rows.Next() {
		var d DishWithCountry
		if err := scanDishWithCountry(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a single dish joined with its country, or ErrDishNotFound.
func (r *DishRepo) GetByID(ctx context.Context, id uint64) (*DishWithCountry, error) {
	q := `SELECT ` + dishJoinCols + `
		FROM dishes d
		JOIN countries c ON c.id = d.country_id
		WHERE d.id = ?`
	var d DishWithCountry
	if err := scanDishWithCountry(r.db.QueryRowContext(ctx, q, id), &d); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDishNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Create inserts a new dish and returns the joined read shape.  The insert
// fails with a foreign-key error when the country does not exist; that error
// propagates to the caller untouched (the bulk endpoint relies on it).
func (r *DishRepo) Create(ctx context.Context, d *Dish) (*DishWithCountry, error) {
	const q = `INSERT INTO dishes
		(name, description, price, image, country_id, category, tags, allergens,
		 rating, review_count, is_featured, is_available, display_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		d.Name, d.Description, d.Price, d.Image, d.CountryID, d.Category,
		encodeStringList(d.Tags), encodeStringList(d.Allergens),
		d.Rating, d.ReviewCount, d.IsFeatured, d.IsAvailable, d.Order)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// Update replaces every mutable field of a dish (full-record PUT semantics)
// and returns the fresh joined read shape.  ErrDishNotFound when the id does
// not exist.
func (r *DishRepo) Update(ctx context.Context, id uint64, d *Dish) (*DishWithCountry, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	const q = `UPDATE dishes
		SET name = ?, description = ?, price = ?, image = ?, country_id = ?,
		    category = ?, tags = ?, allergens = ?, rating = ?, review_count = ?,
		    is_featured = ?, is_available = ?, display_order = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q,
		d.Name, d.Description, d.Price, d.Image, d.CountryID, d.Category,
		encodeStringList(d.Tags), encodeStringList(d.Allergens),
		d.Rating, d.ReviewCount, d.IsFeatured, d.IsAvailable, d.Order, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a dish and its view log inside a single transaction.  The
// views must go first to satisfy the foreign key; doing both in one
// transaction closes the window where a crash leaves a dish without its
// history.  ErrDishNotFound when the dish does not exist.  The error result
// is named so the deferred commit can report its failure to the caller.
func (r *DishRepo) Delete(ctx context.Context, id uint64) (err error) {
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
	if _, err = tx.ExecContext(ctx, "DELETE FROM dish_views WHERE dish_id = ?", id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM dishes WHERE id = ?", id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrDishNotFound
		return err
	}
	return nil
}

// RecordView appends one row to the append-only view log.  There is no update
// or delete path for views; they are only counted for the dashboard.
func (r *DishRepo) RecordView(ctx context.Context, dishID uint64, ip *string) error {
	const q = "INSERT INTO dish_views (dish_id, ip_address) VALUES (?, ?)"
	_, err := r.db.ExecContext(ctx, q, dishID, ip)
	return err
}
