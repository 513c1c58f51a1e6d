package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"newsAggregator/internal/models"
)

const userColumns = `id, username, password, user_uuid, email_address, is_activated, origin`

// uniqueUserColumns is the order unique constraint failures are attributed in.
var uniqueUserColumns = []string{"user_uuid", "username", "email_address"}

type userRepository struct {
	db Executor
}

func NewUserRepository(db Executor) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user and fills in its id. A unique constraint failure
// comes back as *UniqueViolationError naming the column.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password, user_uuid, email_address, is_activated, origin)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	err := r.db.GetContext(ctx, &user.ID, r.db.Rebind(query),
		user.Username, user.PasswordHash, user.UserUUID, user.EmailAddress, user.IsActivated, user.Origin)
	if err != nil {
		for _, column := range uniqueUserColumns {
			if isUniqueViolation(err, column) {
				return &UniqueViolationError{Column: column, Err: err}
			}
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *userRepository) getBy(ctx context.Context, column, value string) (*models.User, error) {
	var user models.User

	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = ?`, userColumns, column)

	err := r.db.GetContext(ctx, &user, r.db.Rebind(query), value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by %s: %w", column, err)
	}

	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email_address", email)
}

func (r *userRepository) GetByUUID(ctx context.Context, userUUID string) (*models.User, error) {
	return r.getBy(ctx, "user_uuid", userUUID)
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}

	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY id`, userColumns)

	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userUUID, passwordHash string) error {
	query := `UPDATE users SET password = ? WHERE user_uuid = ?`

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), passwordHash, userUUID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return affected(result)
}

func (r *userRepository) Delete(ctx context.Context, userUUID string) error {
	query := `DELETE FROM users WHERE user_uuid = ?`

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), userUUID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	return affected(result)
}
