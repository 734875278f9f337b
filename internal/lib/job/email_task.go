package job

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/deppfellow/usergroups/internal/model"
)

// TaskWelcome is the task type routed to the welcome email handler.
const TaskWelcome = "email:welcome"

const (
	welcomeMaxRetry = 3
	welcomeTimeout  = 30 * time.Second

	// welcomeRetention keeps a finished task's id reserved, so a second
	// enqueue for the same user within the window is rejected by Redis.
	welcomeRetention = 24 * time.Hour
)

// WelcomeEmailPayload is the JSON payload of a TaskWelcome task.
type WelcomeEmailPayload struct {
	UserID int64  `json:"user_id"`
	To     string `json:"to"`
	Name   string `json:"name"`
}

func welcomeTaskID(userID int64) string {
	return fmt.Sprintf("welcome:%d", userID)
}

// NewWelcomeEmailTask builds the welcome email task for user. The task id
// is derived from the user id, so each user is greeted at most once.
func NewWelcomeEmailTask(user *model.User) (*asynq.Task, error) {
	if user.Email == nil {
		return nil, fmt.Errorf("user %d has no email", user.ID)
	}

	payload, err := json.Marshal(WelcomeEmailPayload{
		UserID: user.ID,
		To:     *user.Email,
		Name:   user.Name,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskWelcome,
		payload,
		asynq.TaskID(welcomeTaskID(user.ID)),
		asynq.MaxRetry(welcomeMaxRetry),
		asynq.Queue("default"),
		asynq.Timeout(welcomeTimeout),
		asynq.Retention(welcomeRetention),
	), nil
}
