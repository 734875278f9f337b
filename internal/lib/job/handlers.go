package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// welcomeSender delivers the welcome email. *email.Client implements it.
type welcomeSender interface {
	SendWelcomeEmail(to, name string) error
}

func (j *JobService) handleWelcomeEmailTask(ctx context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decoding welcome email payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.To == "" {
		return fmt.Errorf("welcome email for user %d has no recipient: %w", p.UserID, asynq.SkipRetry)
	}

	log := j.logger.With().
		Str("task", TaskWelcome).
		Int64("user_id", p.UserID).
		Logger()

	if err := j.mailer.SendWelcomeEmail(p.To, p.Name); err != nil {
		retried, _ := asynq.GetRetryCount(ctx)
		log.Error().
			Err(err).
			Int("retry", retried).
			Msg("sending welcome email failed")
		return err
	}

	log.Info().Msg("welcome email sent")

	return nil
}
