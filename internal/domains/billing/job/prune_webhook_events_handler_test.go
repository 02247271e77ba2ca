package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPruner struct {
	olderThan time.Duration
	err       error
}

func (r *recordingPruner) PruneWebhookEvents(_ context.Context, olderThan time.Duration) (int64, error) {
	r.olderThan = olderThan
	return 3, r.err
}

func TestPruneWebhookEventsHandler(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    time.Duration
	}{
		{"explicit", `{"older_than_days":7}`, 7 * 24 * time.Hour},
		{"empty payload", ``, DefaultRetentionDays * 24 * time.Hour},
		{"zero days", `{"older_than_days":0}`, DefaultRetentionDays * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &recordingPruner{}
			h := NewPruneWebhookEventsHandler(p)

			require.NoError(t, h.ProcessTask(context.Background(), asynq.NewTask("billing:prune_webhook_events", []byte(tt.payload))))
			assert.Equal(t, tt.want, p.olderThan)
		})
	}
}

func TestPruneWebhookEventsHandler_Errors(t *testing.T) {
	h := NewPruneWebhookEventsHandler(&recordingPruner{})
	err := h.ProcessTask(context.Background(), asynq.NewTask("billing:prune_webhook_events", []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	h = NewPruneWebhookEventsHandler(&recordingPruner{err: errors.New("db down")})
	err = h.ProcessTask(context.Background(), asynq.NewTask("billing:prune_webhook_events", []byte(`{"older_than_days":30}`)))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}
