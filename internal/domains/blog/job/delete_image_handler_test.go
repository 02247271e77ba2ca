package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plik-backend/internal/infrastructure/storage"
	"plik-backend/internal/shared"
)

const bucketURL = "http://localhost:9000/blog-images"

type fakeStore struct {
	deleted []string
	err     error
}

func (f *fakeStore) KeyFromURL(url string) (string, bool) {
	return storage.KeyFromURL(bucketURL, url)
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1"}, nil
}

func TestQueueImageCleaner_EnqueuesBucketImages(t *testing.T) {
	q := &fakeEnqueuer{}
	c := NewQueueImageCleaner(&fakeStore{}, q)

	require.NoError(t, c.CleanupImage(context.Background(), 7, bucketURL+"/blog/2025/03/cover-ab12.png"))
	require.Len(t, q.tasks, 1)
	assert.Equal(t, shared.TypeDeleteBlogImage, q.tasks[0].Type())

	var p shared.DeleteBlogImagePayload
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &p))
	assert.Equal(t, int64(7), p.PostID)
	assert.Equal(t, "blog/2025/03/cover-ab12.png", p.ObjectKey)
}

func TestQueueImageCleaner_IgnoresForeignURLs(t *testing.T) {
	q := &fakeEnqueuer{}
	c := NewQueueImageCleaner(&fakeStore{}, q)

	require.NoError(t, c.CleanupImage(context.Background(), 7, "https://images.unsplash.com/x.jpg"))
	assert.Empty(t, q.tasks)
}

func deleteTask(t *testing.T, key string) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(shared.DeleteBlogImagePayload{PostID: 1, ObjectKey: key})
	require.NoError(t, err)
	return asynq.NewTask(shared.TypeDeleteBlogImage, payload)
}

func TestDeleteImageHandler_DeletesImageAndThumbnail(t *testing.T) {
	store := &fakeStore{}
	h := NewDeleteImageHandler(store)

	require.NoError(t, h.ProcessTask(context.Background(), deleteTask(t, "blog/2025/03/a.png")))
	assert.Equal(t, []string{"blog/2025/03/a.png", "blog/2025/03/a-thumb.jpg"}, store.deleted)
}

func TestDeleteImageHandler_RetriesStoreErrors(t *testing.T) {
	h := NewDeleteImageHandler(&fakeStore{err: errors.New("minio down")})

	err := h.ProcessTask(context.Background(), deleteTask(t, "blog/a.png"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestDeleteImageHandler_BadPayloadSkipsRetry(t *testing.T) {
	h := NewDeleteImageHandler(&fakeStore{})

	err := h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeDeleteBlogImage, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	err = h.ProcessTask(context.Background(), deleteTask(t, ""))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
