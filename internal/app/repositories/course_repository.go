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
)

// CourseCollection describes the queryable surface of the courses table
var CourseCollection = &query.Collection{
	Table: "courses",
	Fields: map[string]query.Field{
		"title":                {Column: "title"},
		"weeks":                {Column: "weeks", Kind: query.FieldInt},
		"tuition":              {Column: "tuition", Kind: query.FieldInt},
		"minimumSkill":         {Column: "minimum_skill"},
		"scholarshipAvailable": {Column: "scholarship_available", Kind: query.FieldBool},
		"bootcamp":             {Column: "bootcamp_id", Kind: query.FieldInt},
		"owner":                {Column: "owner_id", Kind: query.FieldInt},
		"createdAt":            {Column: "created_at", Kind: query.FieldTime},
	},
	Relations: []query.Relation{
		{Name: "bootcamp"},
	},
}

// CourseRepository handles course database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var courseColumns = []string{
	"id", "title", "description", "weeks", "tuition", "minimum_skill",
	"scholarship_available", "bootcamp_id", "owner_id", "created_at",
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Weeks, &c.Tuition, &c.MinimumSkill,
		&c.ScholarshipAvailable, &c.BootcampID, &c.OwnerID, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}
	return &c, nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).From("courses").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}
	return scanCourse(r.db.QueryRow(ctx, sql, args...))
}

// Create inserts a course and returns its id
func (r *CourseRepository) Create(ctx context.Context, c *models.Course) (int64, error) {
	sql := `
		INSERT INTO courses (title, description, weeks, tuition, minimum_skill,
			scholarship_available, bootcamp_id, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, sql,
		c.Title, c.Description, c.Weeks, c.Tuition, c.MinimumSkill,
		c.ScholarshipAvailable, c.BootcampID, c.OwnerID).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to create course: %w", err)
	}
	return c.ID, nil
}

// Update patches a course's writable fields
func (r *CourseRepository) Update(ctx context.Context, c *models.Course) error {
	sql := `
		UPDATE courses
		SET title = $1, description = $2, weeks = $3, tuition = $4,
			minimum_skill = $5, scholarship_available = $6
		WHERE id = $7
	`
	tag, err := r.db.Exec(ctx, sql,
		c.Title, c.Description, c.Weeks, c.Tuition, c.MinimumSkill, c.ScholarshipAvailable, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// Delete removes a course
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM courses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// List executes a translated query descriptor against the courses table.
// When bootcampID is non-nil the listing is scoped to that parent.
func (r *CourseRepository) List(ctx context.Context, d *query.Descriptor, bootcampID *int64) ([]*models.Course, int64, error) {
	countSelect := d.ApplyWhere(r.sb.Select("COUNT(*)").From("courses"), CourseCollection)
	baseSelect := d.ApplyWhere(r.sb.Select(courseColumns...).From("courses"), CourseCollection)
	if bootcampID != nil {
		countSelect = countSelect.Where(squirrel.Eq{"bootcamp_id": *bootcampID})
		baseSelect = baseSelect.Where(squirrel.Eq{"bootcamp_id": *bootcampID})
	}

	countSql, countArgs, err := countSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count courses query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	querySql, queryArgs, err := d.ApplyOrderAndPage(baseSelect, CourseCollection).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySql, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, 0, err
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate course rows: %w", err)
	}

	for _, rel := range d.Populate {
		if rel == "bootcamp" {
			if err := r.expandBootcamp(ctx, courses); err != nil {
				return nil, 0, err
			}
		}
	}

	return courses, total, nil
}

// ExpandBootcamp fills the bootcamp summary on the given courses
func (r *CourseRepository) ExpandBootcamp(ctx context.Context, courses []*models.Course) error {
	return r.expandBootcamp(ctx, courses)
}

func (r *CourseRepository) expandBootcamp(ctx context.Context, courses []*models.Course) error {
	if len(courses) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.BootcampID)
	}

	sql, args, err := r.sb.Select("id", "name", "description").From("bootcamps").
		Where(squirrel.Eq{"id": ids}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build expand bootcamp query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to query course bootcamps: %w", err)
	}
	defer rows.Close()

	summaries := map[int64]*models.BootcampSummary{}
	for rows.Next() {
		var s models.BootcampSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Description); err != nil {
			return fmt.Errorf("failed to scan bootcamp summary: %w", err)
		}
		summaries[s.ID] = &s
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, c := range courses {
		c.Bootcamp = summaries[c.BootcampID]
	}
	return nil
}

// BootcampIDsByOwner returns the distinct bootcamps holding courses owned
// by the given user
func (r *CourseRepository) BootcampIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		"SELECT DISTINCT bootcamp_id FROM courses WHERE owner_id = $1", ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query course parents: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan course parent id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AverageTuition computes the mean tuition of a bootcamp's live courses.
// nil means the bootcamp has no courses, which is distinct from an average
// of zero.
func (r *CourseRepository) AverageTuition(ctx context.Context, bootcampID int64) (*float64, error) {
	var avg *float64
	err := r.db.QueryRow(ctx,
		"SELECT AVG(tuition) FROM courses WHERE bootcamp_id = $1", bootcampID).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("failed to average tuition: %w", err)
	}
	return avg, nil
}
