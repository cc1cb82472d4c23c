package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/gurkanbulca/pronote/internal/database"
	"github.com/gurkanbulca/pronote/internal/models"
)

var userColumns = database.ColumnNames(database.UsersTable)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. The email is stored lower-cased.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	ts := now()
	u.CreatedAt, u.UpdatedAt = ts, ts

	query, args := r.db.Builder().Insert(database.UsersTable.Name).
		Columns(userColumns...).
		Values(u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Job,
			u.RefreshToken, u.LastLoginAt, u.CreatedAt, u.UpdatedAt).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", u.Email, ErrAlreadyExists)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, entsql.EQ("id", id), id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, entsql.EQ("email", email), email)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (r *UserRepository) getOne(ctx context.Context, where *entsql.Predicate, key string) (*models.User, error) {
	query, args := r.db.Builder().Select(userColumns...).
		From(entsql.Table(database.UsersTable.Name)).
		Where(where).
		Query()

	var u models.User
	if err := r.db.GetContext(ctx, &u, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

// ListExcept returns every user but exceptID, ordered by name. It feeds the
// assignee picker and the chat contact list.
func (r *UserRepository) ListExcept(ctx context.Context, exceptID string) ([]*models.User, error) {
	query, args := r.db.Builder().Select(userColumns...).
		From(entsql.Table(database.UsersTable.Name)).
		Where(entsql.NEQ("id", exceptID)).
		OrderBy("first_name", "last_name", "email").
		Query()

	users := []*models.User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	return users, nil
}

// UpdateProfile writes the editable profile columns, including the password
// hash.
func (r *UserRepository) UpdateProfile(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.UpdatedAt = now()

	query, args := r.db.Builder().Update(database.UsersTable.Name).
		Set("email", u.Email).
		Set("password_hash", u.PasswordHash).
		Set("first_name", u.FirstName).
		Set("last_name", u.LastName).
		Set("job", u.Job).
		Set("updated_at", u.UpdatedAt).
		Where(entsql.EQ("id", u.ID)).
		Query()
	return execOne(ctx, r.db, query, args, "user", u.ID)
}

// SetRefreshToken stores the current refresh token; an invalid NullString
// clears it.
func (r *UserRepository) SetRefreshToken(ctx context.Context, id string, token sql.NullString) error {
	query, args := r.db.Builder().Update(database.UsersTable.Name).
		Set("refresh_token", token).
		Where(entsql.EQ("id", id)).
		Query()
	return execOne(ctx, r.db, query, args, "user", id)
}

func (r *UserRepository) TouchLogin(ctx context.Context, id string, at time.Time) error {
	query, args := r.db.Builder().Update(database.UsersTable.Name).
		Set("last_login_at", at.UTC()).
		Where(entsql.EQ("id", id)).
		Query()
	return execOne(ctx, r.db, query, args, "user", id)
}
