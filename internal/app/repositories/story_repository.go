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
)

// StoryRepository handles story database operations
type StoryRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStoryRepository creates a new StoryRepository
func NewStoryRepository(db *pgxpool.Pool) *StoryRepository {
	return &StoryRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const storyColumns = "id, author_id, title, slug, summary, body, cover_url, status, published_at, created_at, updated_at"

func scanStory(row pgx.Row) (*models.Story, error) {
	s := &models.Story{}
	err := row.Scan(
		&s.ID,
		&s.AuthorID,
		&s.Title,
		&s.Slug,
		&s.Summary,
		&s.Body,
		&s.CoverURL,
		&s.Status,
		&s.PublishedAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new story and sets its ID
func (r *StoryRepository) Create(ctx context.Context, s *models.Story) error {
	sql, args, err := r.sb.Insert("stories").
		Columns("author_id", "title", "slug", "summary", "body", "cover_url", "status").
		Values(s.AuthorID, s.Title, s.Slug, s.Summary, s.Body, s.CoverURL, s.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create story query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrStoryAlreadyExists
		}
		return fmt.Errorf("error creating story: %w", err)
	}
	return nil
}

// GetByID retrieves a story by ID
func (r *StoryRepository) GetByID(ctx context.Context, id int64) (*models.Story, error) {
	sql, args, err := r.sb.Select(storyColumns).
		From("stories").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get story query: %w", err)
	}

	s, err := scanStory(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStoryNotFound
		}
		return nil, fmt.Errorf("error getting story by ID: %w", err)
	}
	return s, nil
}

// GetBySlug retrieves a story by its slug
func (r *StoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Story, error) {
	sql, args, err := r.sb.Select(storyColumns).
		From("stories").
		Where(squirrel.Eq{"slug": slug}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get story by slug query: %w", err)
	}

	s, err := scanStory(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStoryNotFound
		}
		return nil, fmt.Errorf("error getting story by slug: %w", err)
	}
	return s, nil
}

// List returns a page of stories. An empty status lists everything; authorID
// narrows to one author's stories.
func (r *StoryRepository) List(ctx context.Context, status string, authorID *int64, page, size int) ([]*models.Story, int64, error) {
	countQuery := r.sb.Select("COUNT(*)").From("stories")
	listQuery := r.sb.Select(
		"s.id", "s.author_id", "s.title", "s.slug", "s.summary", "s.body",
		"s.cover_url", "s.status", "s.published_at", "s.created_at", "s.updated_at",
		"u.id", "u.email", "u.first_name", "u.last_name", "u.role_type", "u.is_active",
	).
		From("stories s").
		Join("users u ON u.id = s.author_id")

	if status != "" {
		countQuery = countQuery.Where(squirrel.Eq{"status": status})
		listQuery = listQuery.Where(squirrel.Eq{"s.status": status})
	}
	if authorID != nil {
		countQuery = countQuery.Where(squirrel.Eq{"author_id": *authorID})
		listQuery = listQuery.Where(squirrel.Eq{"s.author_id": *authorID})
	}

	sql, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count stories query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting stories: %w", err)
	}

	offset, limit := calculateOffsetLimit(page, size)
	sql, args, err = listQuery.
		OrderBy("COALESCE(s.published_at, s.created_at) DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list stories query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing stories: %w", err)
	}
	defer rows.Close()

	var stories []*models.Story
	for rows.Next() {
		s := &models.Story{Author: &models.User{}}
		err := rows.Scan(
			&s.ID, &s.AuthorID, &s.Title, &s.Slug, &s.Summary, &s.Body,
			&s.CoverURL, &s.Status, &s.PublishedAt, &s.CreatedAt, &s.UpdatedAt,
			&s.Author.ID, &s.Author.Email, &s.Author.FirstName, &s.Author.LastName,
			&s.Author.RoleType, &s.Author.IsActive,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning story row: %w", err)
		}
		stories = append(stories, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating story rows: %w", err)
	}

	return stories, total, nil
}

// Update replaces a story's editable fields
func (r *StoryRepository) Update(ctx context.Context, s *models.Story) error {
	sql, args, err := r.sb.Update("stories").
		Set("title", s.Title).
		Set("slug", s.Slug).
		Set("summary", s.Summary).
		Set("body", s.Body).
		Set("cover_url", s.CoverURL).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update story query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrStoryAlreadyExists
		}
		return fmt.Errorf("error updating story: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStoryNotFound
	}
	return nil
}

// UpdateStatus moves a story through its publishing lifecycle. PublishedAt is
// stamped on the first transition to PUBLISHED.
func (r *StoryRepository) UpdateStatus(ctx context.Context, id int64, status models.StoryStatus) error {
	update := r.sb.Update("stories").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})
	if status == models.StoryPublished {
		update = update.Set("published_at", squirrel.Expr("COALESCE(published_at, NOW())"))
	}

	sql, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update story status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating story status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStoryNotFound
	}
	return nil
}

// Delete removes a story
func (r *StoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM stories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting story: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStoryNotFound
	}
	return nil
}
