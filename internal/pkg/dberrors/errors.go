package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names from migrations that carry domain meaning. Unique
// violations on these are surfaced to clients as Conflict rather than
// a generic storage failure.
const (
	ConstraintUserEmail     = "users_email_key"
	ConstraintBootcampOwner = "bootcamps_owner_key_key"
	ConstraintReviewAuthor  = "reviews_bootcamp_id_author_id_key"
	ConstraintParticipant   = "bootcamp_participants_bootcamp_id_user_id_key"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique
// violation (23505) for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraintName
}

// IsUniqueViolation checks if the error is any PostgreSQL unique violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
