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

// AssignmentRepository handles assignment and submission database operations
type AssignmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(db *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const assignmentColumns = "id, course_id, title, description, due_at, max_score, file_url, created_by, created_at, updated_at"

func scanAssignment(row pgx.Row) (*models.Assignment, error) {
	a := &models.Assignment{}
	err := row.Scan(
		&a.ID,
		&a.CourseID,
		&a.Title,
		&a.Description,
		&a.DueAt,
		&a.MaxScore,
		&a.FileURL,
		&a.CreatedBy,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new assignment and sets its ID
func (r *AssignmentRepository) Create(ctx context.Context, a *models.Assignment) error {
	sql, args, err := r.sb.Insert("assignments").
		Columns("course_id", "title", "description", "due_at", "max_score", "file_url", "created_by").
		Values(a.CourseID, a.Title, a.Description, a.DueAt, a.MaxScore, a.FileURL, a.CreatedBy).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create assignment query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return fmt.Errorf("error creating assignment: %w", err)
	}
	return nil
}

// GetByID retrieves an assignment by ID
func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*models.Assignment, error) {
	sql, args, err := r.sb.Select(assignmentColumns).
		From("assignments").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get assignment query: %w", err)
	}

	a, err := scanAssignment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("error getting assignment by ID: %w", err)
	}
	return a, nil
}

// ListByCourse returns a course's assignments, soonest deadline first
func (r *AssignmentRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Assignment, error) {
	sql, args, err := r.sb.Select(assignmentColumns).
		From("assignments").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("due_at ASC NULLS LAST", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list assignments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*models.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning assignment row: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignment rows: %w", err)
	}

	return assignments, nil
}

// Update replaces an assignment's editable fields
func (r *AssignmentRepository) Update(ctx context.Context, a *models.Assignment) error {
	sql, args, err := r.sb.Update("assignments").
		Set("title", a.Title).
		Set("description", a.Description).
		Set("due_at", a.DueAt).
		Set("max_score", a.MaxScore).
		Set("file_url", a.FileURL).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": a.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update assignment query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAssignmentNotFound
	}
	return nil
}

// Delete removes an assignment and, via cascade, its submissions
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAssignmentNotFound
	}
	return nil
}

const submissionColumns = "id, assignment_id, user_id, body, file_url, score, feedback, graded_by, graded_at, submitted_at"

func scanSubmission(row pgx.Row) (*models.Submission, error) {
	s := &models.Submission{}
	err := row.Scan(
		&s.ID,
		&s.AssignmentID,
		&s.UserID,
		&s.Body,
		&s.FileURL,
		&s.Score,
		&s.Feedback,
		&s.GradedBy,
		&s.GradedAt,
		&s.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// UpsertSubmission inserts a student's submission or, while ungraded,
// replaces it. The unique (assignment_id, user_id) constraint keeps one row
// per student; a graded row is left untouched and ErrAlreadyGraded returned.
func (r *AssignmentRepository) UpsertSubmission(ctx context.Context, s *models.Submission) error {
	query := `
		INSERT INTO submissions (assignment_id, user_id, body, file_url, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (assignment_id, user_id) DO UPDATE
		SET body = EXCLUDED.body, file_url = EXCLUDED.file_url, submitted_at = EXCLUDED.submitted_at
		WHERE submissions.graded_at IS NULL
		RETURNING id, submitted_at`

	now := time.Now()
	err := r.db.QueryRow(ctx, query, s.AssignmentID, s.UserID, s.Body, s.FileURL, now).
		Scan(&s.ID, &s.SubmittedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Conflict row exists but the DO UPDATE guard rejected it
			return apperrors.ErrAlreadyGraded
		}
		return fmt.Errorf("error upserting submission: %w", err)
	}
	return nil
}

// GetSubmission retrieves a student's submission for an assignment
func (r *AssignmentRepository) GetSubmission(ctx context.Context, assignmentID, userID int64) (*models.Submission, error) {
	sql, args, err := r.sb.Select(submissionColumns).
		From("submissions").
		Where(squirrel.Eq{"assignment_id": assignmentID, "user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get submission query: %w", err)
	}

	s, err := scanSubmission(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("error getting submission: %w", err)
	}
	return s, nil
}

// GetSubmissionByID retrieves a submission by its ID
func (r *AssignmentRepository) GetSubmissionByID(ctx context.Context, id int64) (*models.Submission, error) {
	sql, args, err := r.sb.Select(submissionColumns).
		From("submissions").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get submission query: %w", err)
	}

	s, err := scanSubmission(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("error getting submission by ID: %w", err)
	}
	return s, nil
}

// ListSubmissions returns every submission for an assignment with student details
func (r *AssignmentRepository) ListSubmissions(ctx context.Context, assignmentID int64) ([]*models.Submission, error) {
	sql, args, err := r.sb.Select(
		"s.id", "s.assignment_id", "s.user_id", "s.body", "s.file_url",
		"s.score", "s.feedback", "s.graded_by", "s.graded_at", "s.submitted_at",
		"u.id", "u.email", "u.first_name", "u.last_name", "u.role_type", "u.is_active",
	).
		From("submissions s").
		Join("users u ON u.id = s.user_id").
		Where(squirrel.Eq{"s.assignment_id": assignmentID}).
		OrderBy("s.submitted_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list submissions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*models.Submission
	for rows.Next() {
		s := &models.Submission{User: &models.User{}}
		err := rows.Scan(
			&s.ID, &s.AssignmentID, &s.UserID, &s.Body, &s.FileURL,
			&s.Score, &s.Feedback, &s.GradedBy, &s.GradedAt, &s.SubmittedAt,
			&s.User.ID, &s.User.Email, &s.User.FirstName, &s.User.LastName,
			&s.User.RoleType, &s.User.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning submission row: %w", err)
		}
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submission rows: %w", err)
	}

	return submissions, nil
}

// GradeSubmission records a grade, locking the submission against resubmission
func (r *AssignmentRepository) GradeSubmission(ctx context.Context, submissionID int64, score int, feedback string, gradedBy int64) error {
	sql, args, err := r.sb.Update("submissions").
		Set("score", score).
		Set("feedback", feedback).
		Set("graded_by", gradedBy).
		Set("graded_at", time.Now()).
		Where(squirrel.Eq{"id": submissionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build grade submission query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error grading submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSubmissionNotFound
	}
	return nil
}
