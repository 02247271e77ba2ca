package email

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plik-backend/internal/shared"
)

type fakeSender struct {
	sent []Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return "re_123", nil
}

type fakeEnqueuer struct {
	task *asynq.Task
	opts []asynq.Option
	err  error
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.task = task
	f.opts = opts
	return &asynq.TaskInfo{ID: "task-1", Queue: shared.QueueDefault}, nil
}

func sampleMessage() Message {
	return Message{
		From:    "noreply@plik.ca",
		To:      []string{"inbox@plik.ca"},
		Subject: "Hello",
		HTML:    "<p>hi</p>",
		ReplyTo: "jane@example.com",
		Tag:     "contact",
	}
}

func TestDirectDispatcher(t *testing.T) {
	sender := &fakeSender{}
	d := NewDirectDispatcher(sender)

	id, err := d.Dispatch(context.Background(), sampleMessage())
	require.NoError(t, err)
	assert.Equal(t, "re_123", id)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "jane@example.com", sender.sent[0].ReplyTo)
}

func TestQueueDispatcher(t *testing.T) {
	q := &fakeEnqueuer{}
	d := NewQueueDispatcher(q)

	id, err := d.Dispatch(context.Background(), sampleMessage())
	require.NoError(t, err)
	assert.Equal(t, "task-1", id)

	require.NotNil(t, q.task)
	assert.Equal(t, shared.TypeSendEmail, q.task.Type())
	assert.Len(t, q.opts, 3)

	var got Message
	require.NoError(t, json.Unmarshal(q.task.Payload(), &got))
	assert.Equal(t, sampleMessage(), got)
}

func TestQueueDispatcher_EnqueueError(t *testing.T) {
	d := NewQueueDispatcher(&fakeEnqueuer{err: errors.New("redis down")})

	_, err := d.Dispatch(context.Background(), sampleMessage())
	assert.ErrorContains(t, err, "enqueue email")
}

func TestResendSender_NotConfigured(t *testing.T) {
	s := NewResendSender("")
	assert.False(t, s.Configured())

	_, err := s.Send(context.Background(), sampleMessage())
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.True(t, NewResendSender("re_test").Configured())
}
