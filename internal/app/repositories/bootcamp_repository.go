package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oguzk/campdir/internal/app/models"
	"github.com/oguzk/campdir/internal/app/query"
	"github.com/oguzk/campdir/internal/pkg/apperrors"
	"github.com/oguzk/campdir/internal/pkg/dberrors"
)

// BootcampCollection describes the queryable surface of the bootcamps table.
// The derived averages are filterable and sortable but never writable
// through this surface.
var BootcampCollection = &query.Collection{
	Table: "bootcamps",
	Fields: map[string]query.Field{
		"name":          {Column: "name"},
		"description":   {Column: "description"},
		"careers":       {Column: "careers", Kind: query.FieldTextArray},
		"owner":         {Column: "owner_id", Kind: query.FieldInt},
		"averageCost":   {Column: "average_cost", Kind: query.FieldInt},
		"averageRating": {Column: "average_rating", Kind: query.FieldFloat},
		"createdAt":     {Column: "created_at", Kind: query.FieldTime},
	},
	Relations: []query.Relation{
		{Name: "courses"},
		{Name: "participants"},
	},
}

// BootcampRepository handles bootcamp database operations
type BootcampRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewBootcampRepository creates a new BootcampRepository
func NewBootcampRepository(db *pgxpool.Pool) *BootcampRepository {
	return &BootcampRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var bootcampColumns = []string{
	"id", "name", "description", "website", "phone", "address",
	"careers", "owner_id", "average_cost", "average_rating", "created_at",
}

func scanBootcamp(row pgx.Row) (*models.Bootcamp, error) {
	var b models.Bootcamp
	err := row.Scan(
		&b.ID, &b.Name, &b.Description, &b.Website, &b.Phone, &b.Address,
		&b.Careers, &b.OwnerID, &b.AverageCost, &b.AverageRating, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBootcampNotFound
		}
		return nil, fmt.Errorf("failed to scan bootcamp: %w", err)
	}
	if b.Careers == nil {
		b.Careers = []string{}
	}
	return &b, nil
}

// GetByID retrieves a bootcamp by ID without expansions
func (r *BootcampRepository) GetByID(ctx context.Context, id int64) (*models.Bootcamp, error) {
	sql, args, err := r.sb.Select(bootcampColumns...).From("bootcamps").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get bootcamp query: %w", err)
	}
	return scanBootcamp(r.db.QueryRow(ctx, sql, args...))
}

// Create inserts a bootcamp. owner_key mirrors owner_id for non-admin
// creators so that the one-bootcamp-per-owner rule is a database unique
// constraint rather than a check-then-act race; admin-owned rows store NULL
// there and escape the constraint.
func (r *BootcampRepository) Create(ctx context.Context, b *models.Bootcamp, ownerRole models.RoleType) (int64, error) {
	var ownerKey *int64
	if ownerRole != models.RoleAdmin {
		ownerKey = &b.OwnerID
	}

	sql := `
		INSERT INTO bootcamps (name, description, website, phone, address, careers, owner_id, owner_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, sql,
		b.Name, b.Description, b.Website, b.Phone, b.Address, b.Careers, b.OwnerID, ownerKey).
		Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintBootcampOwner) {
			return 0, apperrors.ErrBootcampAlreadyOwned
		}
		return 0, fmt.Errorf("failed to create bootcamp: %w", err)
	}
	return b.ID, nil
}

// Update patches the client-writable bootcamp fields. Derived averages are
// not reachable from here.
func (r *BootcampRepository) Update(ctx context.Context, b *models.Bootcamp) error {
	sql := `
		UPDATE bootcamps
		SET name = $1, description = $2, website = $3, phone = $4, address = $5, careers = $6
		WHERE id = $7
	`
	tag, err := r.db.Exec(ctx, sql,
		b.Name, b.Description, b.Website, b.Phone, b.Address, b.Careers, b.ID)
	if err != nil {
		return fmt.Errorf("failed to update bootcamp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrBootcampNotFound
	}
	return nil
}

// Delete removes a bootcamp; courses, reviews and participant links cascade
func (r *BootcampRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM bootcamps WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete bootcamp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrBootcampNotFound
	}
	return nil
}

// AddParticipant registers a user for a bootcamp. Duplicate registration is
// a unique violation surfaced as a conflict.
func (r *BootcampRepository) AddParticipant(ctx context.Context, bootcampID, userID int64) error {
	_, err := r.db.Exec(ctx,
		"INSERT INTO bootcamp_participants (bootcamp_id, user_id) VALUES ($1, $2)",
		bootcampID, userID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintParticipant) {
			return apperrors.ErrAlreadyParticipant
		}
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

// IsParticipant reports whether the user is registered for the bootcamp
func (r *BootcampRepository) IsParticipant(ctx context.Context, bootcampID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM bootcamp_participants WHERE bootcamp_id = $1 AND user_id = $2)",
		bootcampID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check participant: %w", err)
	}
	return exists, nil
}

// List executes a translated query descriptor against the bootcamps table,
// expanding the relations the descriptor asks for in batch.
func (r *BootcampRepository) List(ctx context.Context, d *query.Descriptor) ([]*models.Bootcamp, int64, error) {
	countSelect := d.ApplyWhere(r.sb.Select("COUNT(*)").From("bootcamps"), BootcampCollection)
	countSql, countArgs, err := countSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count bootcamps query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bootcamps: %w", err)
	}

	baseSelect := r.sb.Select(bootcampColumns...).From("bootcamps")
	baseSelect = d.ApplyOrderAndPage(d.ApplyWhere(baseSelect, BootcampCollection), BootcampCollection)

	querySql, queryArgs, err := baseSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list bootcamps query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySql, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query bootcamps: %w", err)
	}
	defer rows.Close()

	bootcamps := []*models.Bootcamp{}
	for rows.Next() {
		b, err := scanBootcamp(rows)
		if err != nil {
			return nil, 0, err
		}
		bootcamps = append(bootcamps, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate bootcamp rows: %w", err)
	}

	if err := r.expand(ctx, bootcamps, d.Populate); err != nil {
		return nil, 0, err
	}

	return bootcamps, total, nil
}

// Expand fills the named relations on the given bootcamps
func (r *BootcampRepository) Expand(ctx context.Context, bootcamps []*models.Bootcamp, relations []string) error {
	return r.expand(ctx, bootcamps, relations)
}

func (r *BootcampRepository) expand(ctx context.Context, bootcamps []*models.Bootcamp, relations []string) error {
	if len(bootcamps) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(bootcamps))
	byID := make(map[int64]*models.Bootcamp, len(bootcamps))
	for _, b := range bootcamps {
		ids = append(ids, b.ID)
		byID[b.ID] = b
	}

	for _, rel := range relations {
		switch rel {
		case "courses":
			if err := r.expandCourses(ctx, ids, byID); err != nil {
				return err
			}
		case "participants":
			if err := r.expandParticipants(ctx, ids, byID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *BootcampRepository) expandCourses(ctx context.Context, ids []int64, byID map[int64]*models.Bootcamp) error {
	sql, args, err := r.sb.
		Select("id", "title", "description", "weeks", "tuition", "minimum_skill",
			"scholarship_available", "bootcamp_id", "owner_id", "created_at").
		From("courses").
		Where(squirrel.Eq{"bootcamp_id": ids}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build expand courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to query bootcamp courses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Course
		err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Weeks, &c.Tuition,
			&c.MinimumSkill, &c.ScholarshipAvailable, &c.BootcampID, &c.OwnerID, &c.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to scan expanded course: %w", err)
		}
		if b, ok := byID[c.BootcampID]; ok {
			b.Courses = append(b.Courses, &c)
		}
	}
	return rows.Err()
}

func (r *BootcampRepository) expandParticipants(ctx context.Context, ids []int64, byID map[int64]*models.Bootcamp) error {
	sql, args, err := r.sb.
		Select("bp.bootcamp_id", "u.id", "u.name", "u.email", "u.role", "u.created_at").
		From("bootcamp_participants bp").
		Join("users u ON u.id = bp.user_id").
		Where(squirrel.Eq{"bp.bootcamp_id": ids}).
		OrderBy("u.id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build expand participants query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to query bootcamp participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bootcampID int64
		var u models.User
		if err := rows.Scan(&bootcampID, &u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan expanded participant: %w", err)
		}
		if b, ok := byID[bootcampID]; ok {
			b.Participants = append(b.Participants, &u)
		}
	}
	return rows.Err()
}

// SetAverageCost writes the derived average cost, clearing it when avg is nil
func (r *BootcampRepository) SetAverageCost(ctx context.Context, bootcampID int64, avg *int) error {
	_, err := r.db.Exec(ctx, "UPDATE bootcamps SET average_cost = $1 WHERE id = $2", avg, bootcampID)
	if err != nil {
		return fmt.Errorf("failed to set average cost: %w", err)
	}
	return nil
}

// SetAverageRating writes the derived average rating, clearing it when avg is nil
func (r *BootcampRepository) SetAverageRating(ctx context.Context, bootcampID int64, avg *float64) error {
	_, err := r.db.Exec(ctx, "UPDATE bootcamps SET average_rating = $1 WHERE id = $2", avg, bootcampID)
	if err != nil {
		return fmt.Errorf("failed to set average rating: %w", err)
	}
	return nil
}
