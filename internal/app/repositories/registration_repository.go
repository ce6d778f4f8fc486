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
)

// RegistrationRepository handles registration database operations
type RegistrationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRegistrationRepository creates a new RegistrationRepository
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanRegistration(row pgx.Row) (*models.Registration, error) {
	reg := &models.Registration{}
	err := row.Scan(
		&reg.ID,
		&reg.UserID,
		&reg.CourseID,
		&reg.Status,
		&reg.PaymentID,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Create inserts a registration. The unique (user_id, course_id) constraint
// plus ON CONFLICT DO NOTHING makes concurrent inserts race-free: exactly one
// caller wins and the rest see ErrAlreadyRegistered.
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	inserted, err := r.Upsert(ctx, reg)
	if err != nil {
		return err
	}
	if !inserted {
		return apperrors.ErrAlreadyRegistered
	}
	return nil
}

// Upsert inserts a registration if none exists for (user_id, course_id) and
// reports whether a row was inserted. Used by the payment settle path, where
// a verify call and a webhook delivery may arrive concurrently.
func (r *RegistrationRepository) Upsert(ctx context.Context, reg *models.Registration) (bool, error) {
	sql, args, err := r.sb.Insert("registrations").
		Columns("user_id", "course_id", "status", "payment_id").
		Values(reg.UserID, reg.CourseID, reg.Status, reg.PaymentID).
		Suffix("ON CONFLICT (user_id, course_id) DO NOTHING RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build upsert registration query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Conflict path: a row already exists, nothing was inserted
			return false, nil
		}
		return false, fmt.Errorf("error upserting registration: %w", err)
	}
	return true, nil
}

// GetByID retrieves a registration by ID
func (r *RegistrationRepository) GetByID(ctx context.Context, id int64) (*models.Registration, error) {
	sql, args, err := r.sb.Select("id", "user_id", "course_id", "status", "payment_id", "created_at", "updated_at").
		From("registrations").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get registration query: %w", err)
	}

	reg, err := scanRegistration(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("error getting registration by ID: %w", err)
	}
	return reg, nil
}

// GetByUserAndCourse retrieves the registration of a user on a course
func (r *RegistrationRepository) GetByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Registration, error) {
	sql, args, err := r.sb.Select("id", "user_id", "course_id", "status", "payment_id", "created_at", "updated_at").
		From("registrations").
		Where(squirrel.Eq{"user_id": userID, "course_id": courseID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get registration query: %w", err)
	}

	reg, err := scanRegistration(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("error getting registration by user and course: %w", err)
	}
	return reg, nil
}

// UpdateStatus moves a registration to a new status and links an optional payment
func (r *RegistrationRepository) UpdateStatus(ctx context.Context, id int64, status models.RegistrationStatus, paymentID *int64) error {
	update := r.sb.Update("registrations").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})
	if paymentID != nil {
		update = update.Set("payment_id", *paymentID)
	}

	sql, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update registration status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating registration status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRegistrationNotFound
	}
	return nil
}

// ListByCourse returns a page of a course's registrations with student details
func (r *RegistrationRepository) ListByCourse(ctx context.Context, courseID int64, status string, page, size int) ([]*models.Registration, int64, error) {
	countQuery := r.sb.Select("COUNT(*)").From("registrations").Where(squirrel.Eq{"course_id": courseID})
	if status != "" {
		countQuery = countQuery.Where(squirrel.Eq{"status": status})
	}

	sql, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count registrations query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting registrations: %w", err)
	}

	listQuery := r.sb.Select(
		"reg.id", "reg.user_id", "reg.course_id", "reg.status", "reg.payment_id",
		"reg.created_at", "reg.updated_at",
		"u.id", "u.email", "u.first_name", "u.last_name", "u.role_type", "u.is_active",
	).
		From("registrations reg").
		Join("users u ON u.id = reg.user_id").
		Where(squirrel.Eq{"reg.course_id": courseID})
	if status != "" {
		listQuery = listQuery.Where(squirrel.Eq{"reg.status": status})
	}

	offset, limit := calculateOffsetLimit(page, size)
	sql, args, err = listQuery.
		OrderBy("reg.created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list registrations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing registrations: %w", err)
	}
	defer rows.Close()

	var regs []*models.Registration
	for rows.Next() {
		reg := &models.Registration{User: &models.User{}}
		err := rows.Scan(
			&reg.ID, &reg.UserID, &reg.CourseID, &reg.Status, &reg.PaymentID,
			&reg.CreatedAt, &reg.UpdatedAt,
			&reg.User.ID, &reg.User.Email, &reg.User.FirstName, &reg.User.LastName,
			&reg.User.RoleType, &reg.User.IsActive,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning registration row: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating registration rows: %w", err)
	}

	return regs, total, nil
}

// ListByUser returns a user's registrations with course details, newest first
func (r *RegistrationRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Registration, error) {
	sql, args, err := r.sb.Select(
		"reg.id", "reg.user_id", "reg.course_id", "reg.status", "reg.payment_id",
		"reg.created_at", "reg.updated_at",
		"c.id", "c.title", "c.slug", "c.category", "c.level", "c.price_kobo", "c.published",
	).
		From("registrations reg").
		Join("courses c ON c.id = reg.course_id").
		Where(squirrel.Eq{"reg.user_id": userID}).
		OrderBy("reg.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list user registrations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing user registrations: %w", err)
	}
	defer rows.Close()

	var regs []*models.Registration
	for rows.Next() {
		reg := &models.Registration{Course: &models.Course{}}
		err := rows.Scan(
			&reg.ID, &reg.UserID, &reg.CourseID, &reg.Status, &reg.PaymentID,
			&reg.CreatedAt, &reg.UpdatedAt,
			&reg.Course.ID, &reg.Course.Title, &reg.Course.Slug, &reg.Course.Category,
			&reg.Course.Level, &reg.Course.PriceKobo, &reg.Course.Published,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning registration row: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration rows: %w", err)
	}

	return regs, nil
}

// HasRegistrationWithStatus reports whether a user holds a registration on the
// course in one of the given statuses. Used for content access checks.
func (r *RegistrationRepository) HasRegistrationWithStatus(ctx context.Context, userID, courseID int64, statuses ...models.RegistrationStatus) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("registrations").
		Where(squirrel.Eq{"user_id": userID, "course_id": courseID, "status": statuses}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build registration status check query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking registration status: %w", err)
	}
	return true, nil
}
