// Package job runs background work on Asynq, a Redis-backed task queue.
//
// The HTTP process both enqueues tasks (asynq.Client) and works them
// (asynq.Server).
package job

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/deppfellow/usergroups/internal/config"
	"github.com/deppfellow/usergroups/internal/lib/email"
	"github.com/deppfellow/usergroups/internal/model"
)

// enqueuer is the part of *asynq.Client the service uses.
type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// JobService holds the Asynq client and worker server.
type JobService struct {
	client enqueuer
	server *asynq.Server
	mailer welcomeSender
	logger *zerolog.Logger
}

// NewJobService configures the client and worker server against
// cfg.Redis.Address. Nothing connects until Start or the first enqueue.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	return &JobService{
		client: asynq.NewClient(redisOpt),
		server: server,
		mailer: email.NewClient(cfg, logger),
		logger: logger,
	}
}

// EnqueueWelcomeEmail queues the welcome email for a newly created user.
// A task already queued for the same user is left alone and is not an
// error.
func (j *JobService) EnqueueWelcomeEmail(ctx context.Context, user *model.User) error {
	task, err := NewWelcomeEmailTask(user)
	if err != nil {
		return err
	}

	info, err := j.client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		j.logger.Debug().
			Int64("user_id", user.ID).
			Msg("welcome email already queued")
		return nil
	}
	if err != nil {
		return err
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Int64("user_id", user.ID).
		Msg("welcome email task enqueued")

	return nil
}

func (j *JobService) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcome, j.handleWelcomeEmailTask)
	return mux
}

// Start starts the worker server. It does not block.
func (j *JobService) Start() error {
	j.logger.Info().Msg("Starting background job server")

	return j.server.Start(j.mux())
}

// Stop waits for in-flight tasks and closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")

	j.server.Shutdown()
	if err := j.client.Close(); err != nil {
		j.logger.Warn().Err(err).Msg("failed to close job client")
	}
}
