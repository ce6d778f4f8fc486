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

// FileRepository handles file metadata database operations
type FileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db *pgxpool.Pool) *FileRepository {
	return &FileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create records metadata for a stored file
func (r *FileRepository) Create(ctx context.Context, f *models.File) error {
	sql, args, err := r.sb.Insert("files").
		Columns("file_name", "file_url", "file_size", "file_type", "resource_type", "resource_id", "uploaded_by").
		Values(f.FileName, f.FileURL, f.FileSize, f.FileType, f.ResourceType, f.ResourceID, f.UploadedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create file query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&f.ID, &f.CreatedAt); err != nil {
		return fmt.Errorf("error creating file record: %w", err)
	}
	return nil
}

// GetByID retrieves file metadata by ID
func (r *FileRepository) GetByID(ctx context.Context, id int64) (*models.File, error) {
	f := &models.File{}
	err := r.db.QueryRow(ctx,
		`SELECT id, file_name, file_url, file_size, file_type, resource_type, resource_id, uploaded_by, created_at
		 FROM files WHERE id = $1`, id).
		Scan(&f.ID, &f.FileName, &f.FileURL, &f.FileSize, &f.FileType,
			&f.ResourceType, &f.ResourceID, &f.UploadedBy, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, fmt.Errorf("error getting file record: %w", err)
	}
	return f, nil
}

// ListByResource returns the files attached to one resource
func (r *FileRepository) ListByResource(ctx context.Context, resourceType models.FileResourceType, resourceID int64) ([]*models.File, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, file_name, file_url, file_size, file_type, resource_type, resource_id, uploaded_by, created_at
		 FROM files WHERE resource_type = $1 AND resource_id = $2 ORDER BY created_at ASC`,
		resourceType, resourceID)
	if err != nil {
		return nil, fmt.Errorf("error listing file records: %w", err)
	}
	defer rows.Close()

	var files []*models.File
	for rows.Next() {
		f := &models.File{}
		err := rows.Scan(&f.ID, &f.FileName, &f.FileURL, &f.FileSize, &f.FileType,
			&f.ResourceType, &f.ResourceID, &f.UploadedBy, &f.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning file row: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file rows: %w", err)
	}

	return files, nil
}

// Delete removes a file metadata record
func (r *FileRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting file record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrFileNotFound
	}
	return nil
}
