package service

import (
	"context"

	"plik-backend/internal/domains/upload/model"
)

type ServiceInterface interface {
	// UploadImages validates every file, then stores each one with a thumbnail.
	UploadImages(ctx context.Context, files []model.File) (*model.UploadResponse, error)
}

// ObjectStore is the blob storage the images land in.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// ImageInspector sniffs image content and renders thumbnails.
type ImageInspector interface {
	ValidateImage(data []byte) (string, error)
	Thumbnail(data []byte) ([]byte, error)
}
