package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/notehub/core/internal/domain/entities"
	"github.com/notehub/core/internal/ports"
)

// UserRepositoryImpl implements the UserRepository interface on Postgres.
// Login uniqueness is enforced by the service's pre-insert existence
// check, not by a database constraint.
type UserRepositoryImpl struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) ports.UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO users (id, login, password, date_created)
		VALUES ($1, $2, $3, $4)`

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	result, err := r.db.ExecContext(ctx, query,
		user.ID, user.Login, user.Password, user.DateCreated,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("create user rows affected: %w", err)
	}
	if rows == 0 {
		return entities.ErrNotAcknowledged
	}

	return nil
}

func (r *UserRepositoryImpl) GetByLogin(ctx context.Context, login string) (*entities.User, error) {
	query := `
		SELECT id, login, password, date_created
		FROM users
		WHERE login = $1`

	var user entities.User
	err := r.db.GetContext(ctx, &user, query, login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by login: %w", err)
	}

	return &user, nil
}
