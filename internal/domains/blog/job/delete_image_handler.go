package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"plik-backend/internal/infrastructure/email"
	"plik-backend/internal/infrastructure/storage"
	"plik-backend/internal/shared"
)

// ObjectStore is the slice of the blob store image cleanup needs.
type ObjectStore interface {
	KeyFromURL(url string) (string, bool)
	Delete(ctx context.Context, key string) error
}

// ============================================
// Enqueue side (blog service → worker)
// ============================================

// QueueImageCleaner schedules removal of a deleted post's image.
// URLs outside our bucket are ignored.
type QueueImageCleaner struct {
	store  ObjectStore
	client email.TaskEnqueuer
}

func NewQueueImageCleaner(store ObjectStore, client email.TaskEnqueuer) *QueueImageCleaner {
	return &QueueImageCleaner{store: store, client: client}
}

func (c *QueueImageCleaner) CleanupImage(ctx context.Context, postID int64, imageURL string) error {
	key, ok := c.store.KeyFromURL(imageURL)
	if !ok {
		return nil
	}

	payload, err := json.Marshal(shared.DeleteBlogImagePayload{PostID: postID, ObjectKey: key})
	if err != nil {
		return fmt.Errorf("marshal delete image payload: %w", err)
	}

	_, err = c.client.EnqueueContext(ctx,
		asynq.NewTask(shared.TypeDeleteBlogImage, payload),
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(3),
		asynq.Timeout(time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue delete image: %w", err)
	}
	return nil
}

// ============================================
// Delete Blog Image Handler
// ============================================

type DeleteImageHandler struct {
	store ObjectStore
}

func NewDeleteImageHandler(store ObjectStore) *DeleteImageHandler {
	return &DeleteImageHandler{store: store}
}

func (h *DeleteImageHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var p shared.DeleteBlogImagePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeleteBlogImage payload")
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}
	if p.ObjectKey == "" {
		return fmt.Errorf("empty object key: %w", asynq.SkipRetry)
	}

	if err := h.store.Delete(ctx, p.ObjectKey); err != nil {
		log.Error().Err(err).Int64("post_id", p.PostID).Str("key", p.ObjectKey).Msg("Failed to delete blog image")
		return fmt.Errorf("delete object: %w", err)
	}

	// Uploads older than the thumbnail variant have none; a miss is fine.
	if err := h.store.Delete(ctx, storage.ThumbnailKey(p.ObjectKey)); err != nil {
		log.Warn().Err(err).Str("key", p.ObjectKey).Msg("Failed to delete blog image thumbnail")
	}

	log.Info().Int64("post_id", p.PostID).Str("key", p.ObjectKey).Msg("Blog image deleted")
	return nil
}
