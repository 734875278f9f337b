package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/usergroups/internal/model"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Queue: "default"}, nil
}

func (f *fakeEnqueuer) Close() error { return nil }

type fakeMailer struct {
	to, name string
	err      error
}

func (f *fakeMailer) SendWelcomeEmail(to, name string) error {
	f.to, f.name = to, name
	return f.err
}

func newTestService(q enqueuer, m welcomeSender) *JobService {
	logger := zerolog.Nop()
	return &JobService{client: q, mailer: m, logger: &logger}
}

func newUser(id int64, name, email string) *model.User {
	return &model.User{ID: id, Name: name, Email: &email}
}

func TestNewWelcomeEmailTask(t *testing.T) {
	task, err := NewWelcomeEmailTask(newUser(7, "Alice", "alice@example.com"))
	require.NoError(t, err)

	assert.Equal(t, TaskWelcome, task.Type())

	var p WelcomeEmailPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, WelcomeEmailPayload{UserID: 7, To: "alice@example.com", Name: "Alice"}, p)
}

func TestNewWelcomeEmailTask_NoEmail(t *testing.T) {
	_, err := NewWelcomeEmailTask(&model.User{ID: 7, Name: "Alice"})
	assert.Error(t, err)
}

func TestEnqueueWelcomeEmail(t *testing.T) {
	q := &fakeEnqueuer{}
	j := newTestService(q, &fakeMailer{})

	require.NoError(t, j.EnqueueWelcomeEmail(context.Background(), newUser(7, "Alice", "alice@example.com")))
	require.Len(t, q.tasks, 1)
	assert.Equal(t, TaskWelcome, q.tasks[0].Type())
}

func TestEnqueueWelcomeEmail_AlreadyQueued(t *testing.T) {
	j := newTestService(&fakeEnqueuer{err: asynq.ErrTaskIDConflict}, &fakeMailer{})

	assert.NoError(t, j.EnqueueWelcomeEmail(context.Background(), newUser(7, "Alice", "alice@example.com")))
}

func TestEnqueueWelcomeEmail_Error(t *testing.T) {
	j := newTestService(&fakeEnqueuer{err: errors.New("redis down")}, &fakeMailer{})

	assert.EqualError(t, j.EnqueueWelcomeEmail(context.Background(), newUser(1, "A", "a@example.com")), "redis down")
}

func TestWelcomeTaskID(t *testing.T) {
	assert.Equal(t, "welcome:42", welcomeTaskID(42))
}

func TestHandleWelcomeEmailTask(t *testing.T) {
	m := &fakeMailer{}
	j := newTestService(&fakeEnqueuer{}, m)

	task, err := NewWelcomeEmailTask(newUser(7, "Alice", "alice@example.com"))
	require.NoError(t, err)

	require.NoError(t, j.handleWelcomeEmailTask(context.Background(), task))
	assert.Equal(t, "alice@example.com", m.to)
	assert.Equal(t, "Alice", m.name)
}

func TestHandleWelcomeEmailTask_SendFailureRetries(t *testing.T) {
	j := newTestService(&fakeEnqueuer{}, &fakeMailer{err: errors.New("provider down")})

	task, err := NewWelcomeEmailTask(newUser(7, "Alice", "alice@example.com"))
	require.NoError(t, err)

	err = j.handleWelcomeEmailTask(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleWelcomeEmailTask_BadPayloadSkipsRetry(t *testing.T) {
	j := newTestService(&fakeEnqueuer{}, &fakeMailer{})

	tests := []struct {
		name    string
		payload string
	}{
		{name: "malformed", payload: "{"},
		{name: "no recipient", payload: `{"user_id":7,"name":"Alice"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := j.handleWelcomeEmailTask(context.Background(), asynq.NewTask(TaskWelcome, []byte(tt.payload)))
			assert.ErrorIs(t, err, asynq.SkipRetry)
		})
	}
}
