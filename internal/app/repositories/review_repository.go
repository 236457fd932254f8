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

// ReviewCollection describes the queryable surface of the reviews table
var ReviewCollection = &query.Collection{
	Table: "reviews",
	Fields: map[string]query.Field{
		"title":     {Column: "title"},
		"rating":    {Column: "rating", Kind: query.FieldInt},
		"bootcamp":  {Column: "bootcamp_id", Kind: query.FieldInt},
		"author":    {Column: "author_id", Kind: query.FieldInt},
		"createdAt": {Column: "created_at", Kind: query.FieldTime},
	},
	Relations: []query.Relation{
		{Name: "bootcamp"},
	},
}

// ReviewRepository handles review database operations
type ReviewRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var reviewColumns = []string{
	"id", "title", "text", "rating", "bootcamp_id", "author_id", "created_at",
}

func scanReview(row pgx.Row) (*models.Review, error) {
	var rv models.Review
	err := row.Scan(&rv.ID, &rv.Title, &rv.Text, &rv.Rating, &rv.BootcampID, &rv.AuthorID, &rv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to scan review: %w", err)
	}
	return &rv, nil
}

// GetByID retrieves a review by ID
func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	sql, args, err := r.sb.Select(reviewColumns...).From("reviews").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get review query: %w", err)
	}
	return scanReview(r.db.QueryRow(ctx, sql, args...))
}

// Create inserts a review. The unique (bootcamp, author) index turns a
// second review by the same author into a conflict regardless of request
// interleaving.
func (r *ReviewRepository) Create(ctx context.Context, rv *models.Review) (int64, error) {
	sql := `
		INSERT INTO reviews (title, text, rating, bootcamp_id, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, sql, rv.Title, rv.Text, rv.Rating, rv.BootcampID, rv.AuthorID).
		Scan(&rv.ID, &rv.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintReviewAuthor) {
			return 0, apperrors.ErrDuplicateReview
		}
		return 0, fmt.Errorf("failed to create review: %w", err)
	}
	return rv.ID, nil
}

// Update patches a review's writable fields
func (r *ReviewRepository) Update(ctx context.Context, rv *models.Review) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE reviews SET title = $1, text = $2, rating = $3 WHERE id = $4",
		rv.Title, rv.Text, rv.Rating, rv.ID)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrReviewNotFound
	}
	return nil
}

// Delete removes a review
func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM reviews WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrReviewNotFound
	}
	return nil
}

// List executes a translated query descriptor against the reviews table.
// When bootcampID is non-nil the listing is scoped to that parent.
func (r *ReviewRepository) List(ctx context.Context, d *query.Descriptor, bootcampID *int64) ([]*models.Review, int64, error) {
	countSelect := d.ApplyWhere(r.sb.Select("COUNT(*)").From("reviews"), ReviewCollection)
	baseSelect := d.ApplyWhere(r.sb.Select(reviewColumns...).From("reviews"), ReviewCollection)
	if bootcampID != nil {
		countSelect = countSelect.Where(squirrel.Eq{"bootcamp_id": *bootcampID})
		baseSelect = baseSelect.Where(squirrel.Eq{"bootcamp_id": *bootcampID})
	}

	countSql, countArgs, err := countSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count reviews query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	querySql, queryArgs, err := d.ApplyOrderAndPage(baseSelect, ReviewCollection).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list reviews query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySql, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*models.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate review rows: %w", err)
	}

	for _, rel := range d.Populate {
		if rel == "bootcamp" {
			if err := r.expandBootcamp(ctx, reviews); err != nil {
				return nil, 0, err
			}
		}
	}

	return reviews, total, nil
}

func (r *ReviewRepository) expandBootcamp(ctx context.Context, reviews []*models.Review) error {
	if len(reviews) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(reviews))
	for _, rv := range reviews {
		ids = append(ids, rv.BootcampID)
	}

	sql, args, err := r.sb.Select("id", "name", "description").From("bootcamps").
		Where(squirrel.Eq{"id": ids}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build expand bootcamp query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to query review bootcamps: %w", err)
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

	for _, rv := range reviews {
		rv.Bootcamp = summaries[rv.BootcampID]
	}
	return nil
}

// BootcampIDsByAuthor returns the distinct bootcamps reviewed by the given
// user
func (r *ReviewRepository) BootcampIDsByAuthor(ctx context.Context, authorID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		"SELECT DISTINCT bootcamp_id FROM reviews WHERE author_id = $1", authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query review parents: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan review parent id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AverageRating computes the mean rating of a bootcamp's live reviews.
// nil means no reviews exist.
func (r *ReviewRepository) AverageRating(ctx context.Context, bootcampID int64) (*float64, error) {
	var avg *float64
	err := r.db.QueryRow(ctx,
		"SELECT AVG(rating) FROM reviews WHERE bootcamp_id = $1", bootcampID).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("failed to average rating: %w", err)
	}
	return avg, nil
}
