package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/pkg/apperrors"
)

// MaterialRepository handles course material database operations
type MaterialRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMaterialRepository creates a new MaterialRepository
func NewMaterialRepository(db *pgxpool.Pool) *MaterialRepository {
	return &MaterialRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const materialColumns = "id, course_id, title, kind, url, position, created_by, created_at"

func scanMaterial(row pgx.Row) (*models.Material, error) {
	m := &models.Material{}
	err := row.Scan(
		&m.ID,
		&m.CourseID,
		&m.Title,
		&m.Kind,
		&m.URL,
		&m.Position,
		&m.CreatedBy,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create inserts a new material. Position defaults to the end of the list.
func (r *MaterialRepository) Create(ctx context.Context, m *models.Material) error {
	if m.Position == 0 {
		err := r.db.QueryRow(ctx,
			`SELECT COALESCE(MAX(position), 0) + 1 FROM materials WHERE course_id = $1`,
			m.CourseID).Scan(&m.Position)
		if err != nil {
			return fmt.Errorf("error computing material position: %w", err)
		}
	}

	sql, args, err := r.sb.Insert("materials").
		Columns("course_id", "title", "kind", "url", "position", "created_by").
		Values(m.CourseID, m.Title, m.Kind, m.URL, m.Position, m.CreatedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create material query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.CreatedAt); err != nil {
		return fmt.Errorf("error creating material: %w", err)
	}
	return nil
}

// GetByID retrieves a material by ID
func (r *MaterialRepository) GetByID(ctx context.Context, id int64) (*models.Material, error) {
	sql, args, err := r.sb.Select(materialColumns).
		From("materials").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get material query: %w", err)
	}

	m, err := scanMaterial(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMaterialNotFound
		}
		return nil, fmt.Errorf("error getting material by ID: %w", err)
	}
	return m, nil
}

// ListByCourse returns a course's materials in position order
func (r *MaterialRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Material, error) {
	sql, args, err := r.sb.Select(materialColumns).
		From("materials").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("position ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list materials query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing materials: %w", err)
	}
	defer rows.Close()

	var materials []*models.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning material row: %w", err)
		}
		materials = append(materials, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating material rows: %w", err)
	}

	return materials, nil
}

// Update replaces a material's editable fields
func (r *MaterialRepository) Update(ctx context.Context, m *models.Material) error {
	sql, args, err := r.sb.Update("materials").
		Set("title", m.Title).
		Set("kind", m.Kind).
		Set("url", m.URL).
		Set("position", m.Position).
		Where(squirrel.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update material query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMaterialNotFound
	}
	return nil
}

// Delete removes a material
func (r *MaterialRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMaterialNotFound
	}
	return nil
}
