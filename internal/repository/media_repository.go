package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"mediastore/internal/domain"
)

type MediaRepository struct {
	db *sqlx.DB
}

func NewMediaRepository(db *sqlx.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create вставляет новую запись; уникальность filename обеспечивается ограничением в базе
func (r *MediaRepository) Create(ctx context.Context, media *domain.Media) error {
	query := `
        INSERT INTO media (filename, filedata, mimetype)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		media.Filename,
		media.FileData,
		media.MIMEType,
	).Scan(&media.ID, &media.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert media: %w", err)
	}

	return nil
}

// ListFilenames возвращает имена всех файлов, новые первыми
func (r *MediaRepository) ListFilenames(ctx context.Context) ([]string, error) {
	filenames := []string{}
	query := `SELECT filename FROM media ORDER BY created_at DESC, id DESC`

	if err := r.db.SelectContext(ctx, &filenames, query); err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}

	return filenames, nil
}

func (r *MediaRepository) GetByFilename(ctx context.Context, filename string) (*domain.Media, error) {
	var media domain.Media
	// COALESCE: mimetype в схеме допускает NULL, наружу всегда уходит строка
	query := `SELECT id, filename, filedata, COALESCE(mimetype, '') AS mimetype, created_at FROM media WHERE filename = $1`

	err := r.db.GetContext(ctx, &media, query, filename)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMediaNotFound
		}
		return nil, fmt.Errorf("failed to get media: %w", err)
	}

	return &media, nil
}

// Delete удаляет запись по имени; если строк не затронуто, возвращает ErrMediaNotFound
func (r *MediaRepository) Delete(ctx context.Context, filename string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM media WHERE filename = $1`, filename)
	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrMediaNotFound
	}

	return nil
}
