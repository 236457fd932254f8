package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all repository instances
type Repositories struct {
	UserRepository     *UserRepository
	BootcampRepository *BootcampRepository
	CourseRepository   *CourseRepository
	ReviewRepository   *ReviewRepository
}

// NewRepositories creates all repositories sharing one connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:     NewUserRepository(db),
		BootcampRepository: NewBootcampRepository(db),
		CourseRepository:   NewCourseRepository(db),
		ReviewRepository:   NewReviewRepository(db),
	}
}
