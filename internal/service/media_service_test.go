package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"mediastore/internal/domain"
	"mediastore/internal/repository"
)

func newMockService(t *testing.T) (*MediaService, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return NewMediaService(repository.NewMediaRepository(sqlx.NewDb(sqlDB, "sqlmock"))), mock
}

func TestDeriveFilename(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1700000000123)

	require.Equal(t, "1700000000123-a_b.txt", deriveFilename("a b.txt", now))
	require.Equal(t, "1700000000123-plain.png", deriveFilename("plain.png", now))

	// Любая пробельная последовательность схлопывается в одно подчёркивание
	require.Equal(t, "1700000000123-a_b_c.txt", deriveFilename("a \t b\nc.txt", now))
	require.Equal(t, "1700000000123-_lead.txt", deriveFilename("  lead.txt", now))
}

func TestUploadReturnsDerivedFilename(t *testing.T) {
	t.Parallel()

	svc, mock := newMockService(t)

	mock.ExpectQuery(`INSERT INTO media`).
		WithArgs(sqlmock.AnyArg(), []byte("hello"), "text/plain").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))

	filename, err := svc.Upload(context.Background(), &domain.MediaUpload{
		OriginalName: "a b.txt",
		MIMEType:     "text/plain",
		Data:         []byte("hello"),
	})
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^\d+-a_b\.txt$`), filename)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUploadCollisionIsNotRetried(t *testing.T) {
	t.Parallel()

	svc, mock := newMockService(t)

	// Единственная попытка вставки: при коллизии имени второй не будет
	mock.ExpectQuery(`INSERT INTO media`).
		WithArgs(sqlmock.AnyArg(), []byte("x"), "image/png").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := svc.Upload(context.Background(), &domain.MediaUpload{
		OriginalName: "shot.png",
		MIMEType:     "image/png",
		Data:         []byte("x"),
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUploadPersistenceError(t *testing.T) {
	t.Parallel()

	svc, mock := newMockService(t)

	mock.ExpectQuery(`INSERT INTO media`).
		WithArgs(sqlmock.AnyArg(), []byte("x"), "image/png").
		WillReturnError(context.DeadlineExceeded)

	_, err := svc.Upload(context.Background(), &domain.MediaUpload{
		OriginalName: "shot.png",
		MIMEType:     "image/png",
		Data:         []byte("x"),
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
