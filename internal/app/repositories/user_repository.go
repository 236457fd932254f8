package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oguzk/campdir/internal/app/models"
	"github.com/oguzk/campdir/internal/app/query"
	"github.com/oguzk/campdir/internal/pkg/apperrors"
	"github.com/oguzk/campdir/internal/pkg/dberrors"
)

// UserCollection describes the queryable surface of the users table
var UserCollection = &query.Collection{
	Table: "users",
	Fields: map[string]query.Field{
		"name":      {Column: "name"},
		"email":     {Column: "email"},
		"role":      {Column: "role"},
		"createdAt": {Column: "created_at", Kind: query.FieldTime},
	},
	Relations: []query.Relation{
		{Name: "bootcampsOwned"},
	},
}

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const userColumns = "id, name, email, role, password, reset_password_token, reset_password_expire, created_at"

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Role, &u.Password,
		&u.ResetPasswordToken, &u.ResetPasswordExpire, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	sql := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)
	return scanUser(r.db.QueryRow(ctx, sql, id))
}

// GetByEmail retrieves a user by email, password hash included
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	sql := fmt.Sprintf("SELECT %s FROM users WHERE email = $1", userColumns)
	return scanUser(r.db.QueryRow(ctx, sql, email))
}

// GetByResetToken retrieves a user by a hashed reset token that has not expired
func (r *UserRepository) GetByResetToken(ctx context.Context, hashedToken string) (*models.User, error) {
	sql := fmt.Sprintf(
		"SELECT %s FROM users WHERE reset_password_token = $1 AND reset_password_expire > $2",
		userColumns,
	)
	user, err := scanUser(r.db.QueryRow(ctx, sql, hashedToken, time.Now()))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidResetToken
		}
		return nil, err
	}
	return user, nil
}

// Create inserts a user and returns its id
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	sql := `
		INSERT INTO users (name, email, role, password)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, sql, user.Name, user.Email, user.Role, user.Password).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintUserEmail) {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return user.ID, nil
}

// UpdateDetails updates a user's name and email
func (r *UserRepository) UpdateDetails(ctx context.Context, id int64, name, email string) error {
	tag, err := r.db.Exec(ctx, "UPDATE users SET name = $1, email = $2 WHERE id = $3", name, email, id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintUserEmail) {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateRole updates a user's role
func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role models.RoleType) error {
	tag, err := r.db.Exec(ctx, "UPDATE users SET role = $1 WHERE id = $2", role, id)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdatePassword replaces a user's password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	tag, err := r.db.Exec(ctx, "UPDATE users SET password = $1 WHERE id = $2", hashedPassword, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// SetResetToken stores the hashed reset token and its expiry on the user
func (r *UserRepository) SetResetToken(ctx context.Context, id int64, hashedToken string, expire time.Time) error {
	_, err := r.db.Exec(ctx,
		"UPDATE users SET reset_password_token = $1, reset_password_expire = $2 WHERE id = $3",
		hashedToken, expire, id)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	return nil
}

// ClearResetToken removes any pending reset token from the user
func (r *UserRepository) ClearResetToken(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx,
		"UPDATE users SET reset_password_token = NULL, reset_password_expire = NULL WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to clear reset token: %w", err)
	}
	return nil
}

// Delete removes a user. Bootcamps owned by the user cascade at the
// database level, and their children with them.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// List executes a translated query descriptor against the users table
func (r *UserRepository) List(ctx context.Context, d *query.Descriptor) ([]*models.User, int64, error) {
	countSelect := d.ApplyWhere(r.sb.Select("COUNT(*)").From("users"), UserCollection)
	countSql, countArgs, err := countSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count users query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	baseSelect := r.sb.Select("id", "name", "email", "role", "created_at").From("users")
	baseSelect = d.ApplyOrderAndPage(d.ApplyWhere(baseSelect, UserCollection), UserCollection)

	querySql, queryArgs, err := baseSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySql, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate user rows: %w", err)
	}

	return users, total, nil
}

// BootcampsOwnedBy returns the bootcamps a user owns, in summary form
func (r *UserRepository) BootcampsOwnedBy(ctx context.Context, userID int64) ([]*models.Bootcamp, error) {
	rows, err := r.db.Query(ctx,
		"SELECT id, name, description, owner_id, created_at FROM bootcamps WHERE owner_id = $1 ORDER BY id",
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query owned bootcamps: %w", err)
	}
	defer rows.Close()

	bootcamps := []*models.Bootcamp{}
	for rows.Next() {
		var b models.Bootcamp
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.OwnerID, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan owned bootcamp row: %w", err)
		}
		b.Careers = []string{}
		bootcamps = append(bootcamps, &b)
	}
	return bootcamps, rows.Err()
}
