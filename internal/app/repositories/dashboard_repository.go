package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tobi/learnhub/internal/app/models"
)

// DashboardRepository runs the aggregate queries behind the dashboards
type DashboardRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewDashboardRepository creates a new DashboardRepository
func NewDashboardRepository(db *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CountRegistrationsByStatus groups a user's registrations by status. A zero
// userID counts platform-wide.
func (r *DashboardRepository) CountRegistrationsByStatus(ctx context.Context, userID int64) (map[string]int64, error) {
	query := `SELECT status, COUNT(*) FROM registrations GROUP BY status`
	args := []interface{}{}
	if userID != 0 {
		query = `SELECT status, COUNT(*) FROM registrations WHERE user_id = $1 GROUP BY status`
		args = append(args, userID)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting registrations by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("error scanning registration count row: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration count rows: %w", err)
	}

	return counts, nil
}

// CountUsersByRole groups users by role type
func (r *DashboardRepository) CountUsersByRole(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT role_type, COUNT(*) FROM users GROUP BY role_type`)
	if err != nil {
		return nil, fmt.Errorf("error counting users by role: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var role string
		var count int64
		if err := rows.Scan(&role, &count); err != nil {
			return nil, fmt.Errorf("error scanning user count row: %w", err)
		}
		counts[role] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user count rows: %w", err)
	}

	return counts, nil
}

// CountCourses returns the total number of courses
func (r *DashboardRepository) CountCourses(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting courses: %w", err)
	}
	return count, nil
}

// TotalRevenueKobo sums settled payments in the minor currency unit
func (r *DashboardRepository) TotalRevenueKobo(ctx context.Context) (int64, error) {
	var revenue int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_kobo), 0) FROM payments WHERE status = $1`,
		models.PaymentSuccess).Scan(&revenue)
	if err != nil {
		return 0, fmt.Errorf("error summing revenue: %w", err)
	}
	return revenue, nil
}

// RecentRegistrations returns the newest registrations with student and course names
func (r *DashboardRepository) RecentRegistrations(ctx context.Context, limit int) ([]*models.Registration, error) {
	sql, args, err := r.sb.Select(
		"reg.id", "reg.user_id", "reg.course_id", "reg.status", "reg.payment_id",
		"reg.created_at", "reg.updated_at",
		"u.id", "u.email", "u.first_name", "u.last_name", "u.role_type", "u.is_active",
		"c.id", "c.title", "c.slug",
	).
		From("registrations reg").
		Join("users u ON u.id = reg.user_id").
		Join("courses c ON c.id = reg.course_id").
		OrderBy("reg.created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build recent registrations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing recent registrations: %w", err)
	}
	defer rows.Close()

	var regs []*models.Registration
	for rows.Next() {
		reg := &models.Registration{User: &models.User{}, Course: &models.Course{}}
		err := rows.Scan(
			&reg.ID, &reg.UserID, &reg.CourseID, &reg.Status, &reg.PaymentID,
			&reg.CreatedAt, &reg.UpdatedAt,
			&reg.User.ID, &reg.User.Email, &reg.User.FirstName, &reg.User.LastName,
			&reg.User.RoleType, &reg.User.IsActive,
			&reg.Course.ID, &reg.Course.Title, &reg.Course.Slug,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning recent registration row: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent registration rows: %w", err)
	}

	return regs, nil
}

// PendingAssignmentsForStudent returns assignments on the student's APPROVED
// courses that they have not submitted yet and whose deadline has not passed.
func (r *DashboardRepository) PendingAssignmentsForStudent(ctx context.Context, userID int64, limit int) ([]*models.Assignment, error) {
	query := `
		SELECT a.id, a.course_id, a.title, a.description, a.due_at, a.max_score,
		       a.file_url, a.created_by, a.created_at, a.updated_at
		FROM assignments a
		JOIN registrations reg ON reg.course_id = a.course_id
		WHERE reg.user_id = $1
		  AND reg.status = $2
		  AND (a.due_at IS NULL OR a.due_at > NOW())
		  AND NOT EXISTS (
		      SELECT 1 FROM submissions s
		      WHERE s.assignment_id = a.id AND s.user_id = $1
		  )
		ORDER BY a.due_at ASC NULLS LAST
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, userID, models.RegistrationApproved, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing pending assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*models.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning pending assignment row: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending assignment rows: %w", err)
	}

	return assignments, nil
}

// CountStudentsForTrainer counts distinct approved students across a trainer's courses
func (r *DashboardRepository) CountStudentsForTrainer(ctx context.Context, trainerID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT reg.user_id)
		 FROM registrations reg
		 JOIN courses c ON c.id = reg.course_id
		 WHERE c.trainer_id = $1 AND reg.status = $2`,
		trainerID, models.RegistrationApproved).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting trainer students: %w", err)
	}
	return count, nil
}

// CountUngradedSubmissionsForTrainer counts ungraded submissions across a
// trainer's courses.
func (r *DashboardRepository) CountUngradedSubmissionsForTrainer(ctx context.Context, trainerID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM submissions s
		 JOIN assignments a ON a.id = s.assignment_id
		 JOIN courses c ON c.id = a.course_id
		 WHERE c.trainer_id = $1 AND s.graded_at IS NULL`,
		trainerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting ungraded submissions: %w", err)
	}
	return count, nil
}
