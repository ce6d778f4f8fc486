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

// LiveClassRepository handles live class and catch-up session database operations
type LiveClassRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLiveClassRepository creates a new LiveClassRepository
func NewLiveClassRepository(db *pgxpool.Pool) *LiveClassRepository {
	return &LiveClassRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const liveClassColumns = "id, course_id, title, description, meeting_url, status, starts_at, ends_at, created_by, created_at, updated_at"

func scanLiveClass(row pgx.Row) (*models.LiveClass, error) {
	lc := &models.LiveClass{}
	err := row.Scan(
		&lc.ID,
		&lc.CourseID,
		&lc.Title,
		&lc.Description,
		&lc.MeetingURL,
		&lc.Status,
		&lc.StartsAt,
		&lc.EndsAt,
		&lc.CreatedBy,
		&lc.CreatedAt,
		&lc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return lc, nil
}

// Create inserts a new live class and sets its ID
func (r *LiveClassRepository) Create(ctx context.Context, lc *models.LiveClass) error {
	sql, args, err := r.sb.Insert("live_classes").
		Columns("course_id", "title", "description", "meeting_url", "status", "starts_at", "ends_at", "created_by").
		Values(lc.CourseID, lc.Title, lc.Description, lc.MeetingURL, lc.Status, lc.StartsAt, lc.EndsAt, lc.CreatedBy).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create live class query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&lc.ID, &lc.CreatedAt, &lc.UpdatedAt); err != nil {
		return fmt.Errorf("error creating live class: %w", err)
	}
	return nil
}

// GetByID retrieves a live class by ID
func (r *LiveClassRepository) GetByID(ctx context.Context, id int64) (*models.LiveClass, error) {
	sql, args, err := r.sb.Select(liveClassColumns).
		From("live_classes").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get live class query: %w", err)
	}

	lc, err := scanLiveClass(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLiveClassNotFound
		}
		return nil, fmt.Errorf("error getting live class by ID: %w", err)
	}
	return lc, nil
}

// ListByCourse returns a course's live classes, upcoming first
func (r *LiveClassRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.LiveClass, error) {
	sql, args, err := r.sb.Select(liveClassColumns).
		From("live_classes").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("starts_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list live classes query: %w", err)
	}

	return r.queryLiveClasses(ctx, sql, args)
}

// ListUpcomingForUser returns the next live classes across the courses a user
// holds an APPROVED registration on.
func (r *LiveClassRepository) ListUpcomingForUser(ctx context.Context, userID int64, limit int) ([]*models.LiveClass, error) {
	sql, args, err := r.sb.Select(
		"lc.id", "lc.course_id", "lc.title", "lc.description", "lc.meeting_url",
		"lc.status", "lc.starts_at", "lc.ends_at", "lc.created_by", "lc.created_at", "lc.updated_at",
	).
		From("live_classes lc").
		Join("registrations reg ON reg.course_id = lc.course_id").
		Where(squirrel.Eq{"reg.user_id": userID, "reg.status": models.RegistrationApproved}).
		Where(squirrel.Eq{"lc.status": []models.LiveClassStatus{models.LiveClassScheduled, models.LiveClassLive}}).
		Where(squirrel.Gt{"lc.ends_at": time.Now()}).
		OrderBy("lc.starts_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build upcoming live classes query: %w", err)
	}

	return r.queryLiveClasses(ctx, sql, args)
}

// ListUpcomingForTrainer returns the next live classes on a trainer's courses
func (r *LiveClassRepository) ListUpcomingForTrainer(ctx context.Context, trainerID int64, limit int) ([]*models.LiveClass, error) {
	sql, args, err := r.sb.Select(
		"lc.id", "lc.course_id", "lc.title", "lc.description", "lc.meeting_url",
		"lc.status", "lc.starts_at", "lc.ends_at", "lc.created_by", "lc.created_at", "lc.updated_at",
	).
		From("live_classes lc").
		Join("courses c ON c.id = lc.course_id").
		Where(squirrel.Eq{"c.trainer_id": trainerID}).
		Where(squirrel.Eq{"lc.status": []models.LiveClassStatus{models.LiveClassScheduled, models.LiveClassLive}}).
		Where(squirrel.Gt{"lc.ends_at": time.Now()}).
		OrderBy("lc.starts_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build trainer live classes query: %w", err)
	}

	return r.queryLiveClasses(ctx, sql, args)
}

func (r *LiveClassRepository) queryLiveClasses(ctx context.Context, sql string, args []interface{}) ([]*models.LiveClass, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing live classes: %w", err)
	}
	defer rows.Close()

	var classes []*models.LiveClass
	for rows.Next() {
		lc, err := scanLiveClass(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning live class row: %w", err)
		}
		classes = append(classes, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating live class rows: %w", err)
	}

	return classes, nil
}

// Update replaces a live class's editable fields
func (r *LiveClassRepository) Update(ctx context.Context, lc *models.LiveClass) error {
	sql, args, err := r.sb.Update("live_classes").
		Set("title", lc.Title).
		Set("description", lc.Description).
		Set("meeting_url", lc.MeetingURL).
		Set("starts_at", lc.StartsAt).
		Set("ends_at", lc.EndsAt).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": lc.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update live class query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating live class: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLiveClassNotFound
	}
	return nil
}

// UpdateStatus moves a live class to a new lifecycle status
func (r *LiveClassRepository) UpdateStatus(ctx context.Context, id int64, status models.LiveClassStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE live_classes SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("error updating live class status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLiveClassNotFound
	}
	return nil
}

// Delete removes a live class and its catch-up sessions
func (r *LiveClassRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM live_classes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting live class: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLiveClassNotFound
	}
	return nil
}

// CreateCatchup attaches a recorded session to a live class
func (r *LiveClassRepository) CreateCatchup(ctx context.Context, cs *models.CatchupSession) error {
	sql, args, err := r.sb.Insert("catchup_sessions").
		Columns("live_class_id", "title", "recording_url", "duration_minutes").
		Values(cs.LiveClassID, cs.Title, cs.RecordingURL, cs.DurationMinutes).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create catch-up query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&cs.ID, &cs.CreatedAt); err != nil {
		return fmt.Errorf("error creating catch-up session: %w", err)
	}
	return nil
}

// GetCatchupByID retrieves a catch-up session by ID
func (r *LiveClassRepository) GetCatchupByID(ctx context.Context, id int64) (*models.CatchupSession, error) {
	cs := &models.CatchupSession{}
	err := r.db.QueryRow(ctx,
		`SELECT id, live_class_id, title, recording_url, duration_minutes, created_at
		 FROM catchup_sessions WHERE id = $1`, id).
		Scan(&cs.ID, &cs.LiveClassID, &cs.Title, &cs.RecordingURL, &cs.DurationMinutes, &cs.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCatchupNotFound
		}
		return nil, fmt.Errorf("error getting catch-up session: %w", err)
	}
	return cs, nil
}

// ListCatchups returns the recorded sessions of a live class
func (r *LiveClassRepository) ListCatchups(ctx context.Context, liveClassID int64) ([]*models.CatchupSession, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, live_class_id, title, recording_url, duration_minutes, created_at
		 FROM catchup_sessions WHERE live_class_id = $1 ORDER BY created_at ASC`, liveClassID)
	if err != nil {
		return nil, fmt.Errorf("error listing catch-up sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.CatchupSession
	for rows.Next() {
		cs := &models.CatchupSession{}
		err := rows.Scan(&cs.ID, &cs.LiveClassID, &cs.Title, &cs.RecordingURL, &cs.DurationMinutes, &cs.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning catch-up row: %w", err)
		}
		sessions = append(sessions, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catch-up rows: %w", err)
	}

	return sessions, nil
}

// DeleteCatchup removes a catch-up session
func (r *LiveClassRepository) DeleteCatchup(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM catchup_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting catch-up session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCatchupNotFound
	}
	return nil
}
