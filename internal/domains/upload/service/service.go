package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"plik-backend/internal/domains/upload/model"
	"plik-backend/internal/infrastructure/storage"
	"plik-backend/internal/shared/utils"
	"plik-backend/pkg/logger"
)

const keyPrefix = "blog"

var (
	nowFunc   = time.Now
	newSuffix = func() string { return uuid.NewString()[:8] }
)

type uploadService struct {
	store  ObjectStore
	images ImageInspector
}

func NewUploadService(store ObjectStore, images ImageInspector) ServiceInterface {
	return &uploadService{
		store:  store,
		images: images,
	}
}

// =====================================================
// UPLOAD
// =====================================================

func (s *uploadService) UploadImages(ctx context.Context, files []model.File) (*model.UploadResponse, error) {
	if len(files) == 0 {
		return nil, model.NewNoFilesError()
	}

	// Step 1: Validate everything before touching storage
	formats := make([]string, len(files))
	for i, f := range files {
		format, err := s.validate(f)
		if err != nil {
			return nil, err
		}
		formats[i] = format
	}

	// Step 2: Store originals, thumbnails best-effort
	resp := &model.UploadResponse{
		URLs:       make([]string, 0, len(files)),
		Thumbnails: make([]string, 0, len(files)),
	}
	for i, f := range files {
		key := objectKey(f.Name, formats[i], nowFunc())

		url, err := s.store.Upload(ctx, key, f.Data, contentTypeFor(formats[i]))
		if err != nil {
			return nil, model.NewStorageFailedError(err)
		}
		resp.URLs = append(resp.URLs, url)

		if thumb := s.storeThumbnail(ctx, key, f.Data); thumb != "" {
			resp.Thumbnails = append(resp.Thumbnails, thumb)
		}

		logger.Info("image uploaded", map[string]interface{}{
			"key":  key,
			"size": len(f.Data),
		})
	}
	resp.URL = resp.URLs[0]

	return resp, nil
}

func (s *uploadService) validate(f model.File) (string, error) {
	size := f.Size
	if int64(len(f.Data)) > size {
		size = int64(len(f.Data))
	}
	if size > storage.MaxImageSize {
		return "", model.NewFileTooLargeError(f.Name)
	}
	if !f.DeclaredTypeAllowed() {
		return "", model.NewInvalidTypeError(f.Name)
	}

	format, err := s.images.ValidateImage(f.Data)
	if err != nil {
		if errors.Is(err, storage.ErrImageTooLarge) {
			return "", model.NewFileTooLargeError(f.Name)
		}
		return "", model.NewInvalidTypeError(f.Name)
	}
	return format, nil
}

func (s *uploadService) storeThumbnail(ctx context.Context, key string, data []byte) string {
	thumb, err := s.images.Thumbnail(data)
	if err != nil {
		logger.Error("thumbnail render failed", err)
		return ""
	}
	url, err := s.store.Upload(ctx, storage.ThumbnailKey(key), thumb, "image/jpeg")
	if err != nil {
		logger.Error("thumbnail upload failed", err)
		return ""
	}
	return url
}

// objectKey builds blog/<yyyy>/<mm>/<base>-<suffix>.<ext>.
func objectKey(name, format string, at time.Time) string {
	base := utils.GenerateSlug(strings.TrimSuffix(path.Base(name), path.Ext(name)))
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("%s/%04d/%02d/%s-%s%s", keyPrefix, at.Year(), int(at.Month()), base, newSuffix(), extFor(format))
}

func extFor(format string) string {
	if format == "png" {
		return ".png"
	}
	return ".jpg"
}

func contentTypeFor(format string) string {
	if format == "png" {
		return "image/png"
	}
	return "image/jpeg"
}
