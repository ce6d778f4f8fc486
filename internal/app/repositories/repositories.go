package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles every repository for dependency injection
type Repositories struct {
	User         *UserRepository
	Token        *TokenRepository
	Course       *CourseRepository
	Registration *RegistrationRepository
	Payment      *PaymentRepository
	Assignment   *AssignmentRepository
	Material     *MaterialRepository
	LiveClass    *LiveClassRepository
	Story        *StoryRepository
	File         *FileRepository
	Dashboard    *DashboardRepository
}

// NewRepositories creates all repositories sharing one connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Token:        NewTokenRepository(db),
		Course:       NewCourseRepository(db),
		Registration: NewRegistrationRepository(db),
		Payment:      NewPaymentRepository(db),
		Assignment:   NewAssignmentRepository(db),
		Material:     NewMaterialRepository(db),
		LiveClass:    NewLiveClassRepository(db),
		Story:        NewStoryRepository(db),
		File:         NewFileRepository(db),
		Dashboard:    NewDashboardRepository(db),
	}
}

// calculateOffsetLimit converts a 1-based page index into SQL offset/limit
func calculateOffsetLimit(page, size int) (offset uint64, limit int) {
	if size <= 0 || size > 100 {
		size = 10
	}
	if page < 1 {
		page = 1
	}
	return uint64((page - 1) * size), size
}
