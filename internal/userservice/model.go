package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrNotFound       = errors.New("user not found")
)

func newUserModel(db *sql.DB) *UserModel {
	return &UserModel{db: db}
}

func (m *UserModel) insert(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (email, first_name, last_name, password)
		VALUES ($1, $2, $3, $4)
		RETURNING id, role, created_at`

	args := []any{
		u.Email,
		u.FirstName,
		u.LastName,
		u.Password.hash,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.Role, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		switch {
		case errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "users_email_key":
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	return nil
}

func (m *UserModel) getByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, email, first_name, last_name, password, role, created_at
		FROM users
		WHERE email = $1`

	var u User

	err := m.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Password.hash, &u.Role, &u.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}
