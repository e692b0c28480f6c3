package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fenui/festival-menu-api/internal/utils"
)

// User is an admin back-office account.  Only the bcrypt hash of the password
// is ever stored.
type User struct {
	ID           uint64
	Username     string
	PasswordHash string
}

// ErrUserNotFound is returned when a user cannot be found in the DB.
var ErrUserNotFound = errors.New("user not found")

// UserRepo encapsulates all database queries related to admin users.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the provided DB handle.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetByUsername fetches a user by username, or ErrUserNotFound.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	const q = "SELECT id, username, password FROM users WHERE username = ?"
	var u User
	if err := r.db.QueryRowContext(ctx, q, username).Scan(&u.ID, &u.Username, &u.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create hashes the plain password with bcrypt and inserts the user,
// returning the new id.
func (r *UserRepo) Create(ctx context.Context, username, plain string, bcryptCost int) (uint64, error) {
	hash, err := utils.HashPassword(plain, bcryptCost)
	if err != nil {
		return 0, err
	}
	const q = "INSERT INTO users (username, password) VALUES (?, ?)"
	res, err := r.db.ExecContext(ctx, q, username, hash)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// EnsureAdmin creates the seeded admin account when it does not exist yet.
// Called at startup when ADMIN_USERNAME/ADMIN_PASSWORD are configured; an
// existing account is left untouched (the seed never rotates a password).
func (r *UserRepo) EnsureAdmin(ctx context.Context, username, plain string, bcryptCost int) error {
	_, err := r.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return err
	}
	_, err = r.Create(ctx, username, plain, bcryptCost)
	return err
}
