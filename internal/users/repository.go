package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voltmart/voltmart/internal/platform/httpx"
)

const uniqueViolation = "23505"

// Repository defines persistence operations for user accounts.
type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const userColumns = `id, first_name, last_name, email, password_hash, phone, role, is_active, avatar, address, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Phone, &u.Role, &u.IsActive, &u.Avatar, &u.Address, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) Create(ctx context.Context, u User) (User, error) {
	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, phone, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, NOW(), NOW())
		RETURNING ` + userColumns
	created, err := scanUser(r.db.QueryRow(ctx, query, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Phone, u.Role))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, httpx.Errf(httpx.ErrDuplicate, "Email already registered")
		}
		return User{}, err
	}
	return *created, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *repository) FindByID(ctx context.Context, id int64) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *repository) UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) error {
	query := `
		UPDATE users
		SET first_name = COALESCE($2, first_name),
		    last_name  = COALESCE($3, last_name),
		    phone      = COALESCE($4, phone),
		    avatar     = COALESCE($5, avatar),
		    address    = COALESCE($6, address),
		    updated_at = NOW()
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, update.FirstName, update.LastName, update.Phone, update.Avatar, update.Address)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.Errf(httpx.ErrNotFound, "User not found")
	}
	return nil
}

func (r *repository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.Errf(httpx.ErrNotFound, "User not found")
	}
	return nil
}
