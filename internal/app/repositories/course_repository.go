package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/pkg/apperrors"
	"github.com/tobi/learnhub/internal/pkg/dberrors"
	"github.com/tobi/learnhub/internal/pkg/logger"
)

// seatsTakenExpr counts registrations that occupy a seat. REJECTED rows
// release the seat; COMPLETED students keep theirs for history.
const seatsTakenExpr = "(SELECT COUNT(*) FROM registrations r WHERE r.course_id = c.id AND r.status IN ('PENDING','APPROVED','COMPLETED'))"

// CourseFilter narrows course list queries
type CourseFilter struct {
	Search        string // matches title, case-insensitive
	Category      string
	Level         string
	TrainerID     *int64
	PublishedOnly bool
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

func (r *CourseRepository) selectCourse() squirrel.SelectBuilder {
	return r.sb.Select(
		"c.id", "c.title", "c.slug", "c.description", "c.category", "c.level",
		"c.price_kobo", "c.max_seats", "c.trainer_id", "c.published",
		"c.starts_at", "c.created_at", "c.updated_at",
		seatsTakenExpr+" AS seats_taken",
	).From("courses c")
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	course := &models.Course{}
	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Slug,
		&course.Description,
		&course.Category,
		&course.Level,
		&course.PriceKobo,
		&course.MaxSeats,
		&course.TrainerID,
		&course.Published,
		&course.StartsAt,
		&course.CreatedAt,
		&course.UpdatedAt,
		&course.SeatsTaken,
	)
	if err != nil {
		return nil, err
	}
	return course, nil
}

// Create inserts a new course and sets its ID
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("title", "slug", "description", "category", "level", "price_kobo",
			"max_seats", "trainer_id", "published", "starts_at").
		Values(course.Title, course.Slug, course.Description, course.Category,
			course.Level, course.PriceKobo, course.MaxSeats, course.TrainerID,
			course.Published, course.StartsAt).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrCourseAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create course query")
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

// GetByID retrieves a course with its derived seat count
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.selectCourse().
		Where(squirrel.Eq{"c.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}
	return course, nil
}

// GetBySlug retrieves a course by its slug
func (r *CourseRepository) GetBySlug(ctx context.Context, slug string) (*models.Course, error) {
	sql, args, err := r.selectCourse().
		Where(squirrel.Eq{"c.slug": slug}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course by slug query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error getting course by slug: %w", err)
	}
	return course, nil
}

// List returns a filtered page of courses plus the total match count
func (r *CourseRepository) List(ctx context.Context, filter CourseFilter, page, size int) ([]*models.Course, int64, error) {
	applyFilter := func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.Search != "" {
			q = q.Where(squirrel.ILike{"c.title": "%" + filter.Search + "%"})
		}
		if filter.Category != "" {
			q = q.Where(squirrel.Eq{"c.category": filter.Category})
		}
		if filter.Level != "" {
			q = q.Where(squirrel.Eq{"c.level": filter.Level})
		}
		if filter.TrainerID != nil {
			q = q.Where(squirrel.Eq{"c.trainer_id": *filter.TrainerID})
		}
		if filter.PublishedOnly {
			q = q.Where(squirrel.Eq{"c.published": true})
		}
		return q
	}

	sql, args, err := applyFilter(r.sb.Select("COUNT(*)").From("courses c")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count courses query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting courses: %w", err)
	}

	offset, limit := calculateOffsetLimit(page, size)
	sql, args, err = applyFilter(r.selectCourse()).
		OrderBy("c.created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, total, nil
}

// Update replaces a course's editable fields
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Update("courses").
		Set("title", course.Title).
		Set("slug", course.Slug).
		Set("description", course.Description).
		Set("category", course.Category).
		Set("level", course.Level).
		Set("price_kobo", course.PriceKobo).
		Set("max_seats", course.MaxSeats).
		Set("starts_at", course.StartsAt).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrCourseAlreadyExists
		}
		return fmt.Errorf("error updating course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// SetPublished flips the published flag
func (r *CourseRepository) SetPublished(ctx context.Context, courseID int64, published bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE courses SET published = $1, updated_at = $2 WHERE id = $3`,
		published, time.Now(), courseID)
	if err != nil {
		return fmt.Errorf("error updating published flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// AssignTrainer sets or clears the trainer of a course
func (r *CourseRepository) AssignTrainer(ctx context.Context, courseID int64, trainerID *int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE courses SET trainer_id = $1, updated_at = $2 WHERE id = $3`,
		trainerID, time.Now(), courseID)
	if err != nil {
		return fmt.Errorf("error assigning trainer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// Delete removes a course. Courses with registrations are refused.
func (r *CourseRepository) Delete(ctx context.Context, courseID int64) error {
	var registrationCount int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE course_id = $1`, courseID).Scan(&registrationCount)
	if err != nil {
		return fmt.Errorf("error counting course registrations: %w", err)
	}
	if registrationCount > 0 {
		return apperrors.ErrCourseHasRelations
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, courseID)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}
