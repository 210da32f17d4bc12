package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/lib/pq"

	"mediastore/internal/domain"
	"mediastore/internal/repository"
)

// Код ошибки Postgres для нарушения уникального ограничения
const uniqueViolation = "23505"

var whitespaceRegexp = regexp.MustCompile(`\s+`)

// MediaService представляет сервис для работы с файлами
type MediaService struct {
	mediaRepo *repository.MediaRepository
}

func NewMediaService(mediaRepo *repository.MediaRepository) *MediaService {
	return &MediaService{mediaRepo: mediaRepo}
}

// deriveFilename строит имя для хранения: метка времени в миллисекундах плюс
// исходное имя, в котором пробельные последовательности заменены на "_"
func deriveFilename(originalName string, now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), whitespaceRegexp.ReplaceAllString(originalName, "_"))
}

// Upload сохраняет файл и возвращает производное имя
func (s *MediaService) Upload(ctx context.Context, upload *domain.MediaUpload) (string, error) {
	media := &domain.Media{
		Filename: deriveFilename(upload.OriginalName, time.Now()),
		FileData: upload.Data,
		MIMEType: upload.MIMEType,
	}

	if err := s.mediaRepo.Create(ctx, media); err != nil {
		// Коллизия имени в пределах одной миллисекунды: повторной попытки
		// с другим именем нет, ошибка уходит наверх как сбой хранилища
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			log.Printf("Filename collision on %q: %v", media.Filename, err)
		}
		return "", err
	}

	return media.Filename, nil
}

func (s *MediaService) ListFilenames(ctx context.Context) ([]string, error) {
	return s.mediaRepo.ListFilenames(ctx)
}

func (s *MediaService) GetByFilename(ctx context.Context, filename string) (*domain.Media, error) {
	return s.mediaRepo.GetByFilename(ctx, filename)
}

func (s *MediaService) Delete(ctx context.Context, filename string) error {
	return s.mediaRepo.Delete(ctx, filename)
}
