package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/usergroups/internal/errs"
	"github.com/deppfellow/usergroups/internal/model"
)

const welcomeEnqueueTimeout = 2 * time.Second

// UserStore is the data access UserService needs.
// *repository.UserRepository implements it.
type UserStore interface {
	ListUsers(ctx context.Context, limit, offset int) ([]model.User, error)
	FindUsersByName(ctx context.Context, name string) ([]model.User, error)
	FindUsersByEmail(ctx context.Context, email string) ([]model.User, error)
	CreateUser(ctx context.Context, name, email string) (*model.User, error)
	UpdateUserEmail(ctx context.Context, id int64, email string) (*model.UserEmail, error)
	UpdateUserStatuses(ctx context.Context, updates []model.UserStatusUpdate) error
}

// WelcomeEnqueuer queues the welcome email for a new user.
// *job.JobService implements it.
type WelcomeEnqueuer interface {
	EnqueueWelcomeEmail(ctx context.Context, user *model.User) error
}

type UserService struct {
	store UserStore
	jobs  WelcomeEnqueuer
}

// NewUserService builds a UserService. jobs may be nil, which disables
// the welcome email.
func NewUserService(store UserStore, jobs WelcomeEnqueuer) *UserService {
	return &UserService{store: store, jobs: jobs}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]model.User, error) {
	if limit < 0 || offset < 0 {
		return nil, errs.Validationf("ListUsers", "invalid limit or offset")
	}
	return s.store.ListUsers(ctx, limit, offset)
}

func (s *UserService) FindUsersByName(ctx context.Context, name string) ([]model.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errs.Validationf("FindUsersByName", "name must not be blank")
	}
	return s.store.FindUsersByName(ctx, name)
}

func (s *UserService) FindUsersByEmail(ctx context.Context, email string) ([]model.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, errs.Validationf("FindUsersByEmail", "email must not be blank")
	}
	return s.store.FindUsersByEmail(ctx, email)
}

// CreateUser stores the user and queues its welcome email. A failure to
// queue is logged and does not fail the call.
func (s *UserService) CreateUser(ctx context.Context, name, email string) (*model.User, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return nil, errs.Validationf("CreateUser", "name and email are required")
	}

	user, err := s.store.CreateUser(ctx, name, email)
	if err != nil {
		return nil, err
	}

	s.enqueueWelcome(ctx, user)

	return user, nil
}

func (s *UserService) enqueueWelcome(ctx context.Context, user *model.User) {
	if s.jobs == nil || user.Email == nil {
		return
	}

	// The email goes out even if the client hangs up right after the insert.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), welcomeEnqueueTimeout)
	defer cancel()

	if err := s.jobs.EnqueueWelcomeEmail(ctx, user); err != nil {
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Int64("user_id", user.ID).
			Msg("failed to enqueue welcome email")
	}
}

func (s *UserService) UpdateUserEmail(ctx context.Context, id int64, email string) (*model.UserEmail, error) {
	if strings.TrimSpace(email) == "" {
		return nil, errs.Validationf("UpdateUserEmail", "email must not be blank")
	}
	return s.store.UpdateUserEmail(ctx, id, email)
}

// UpdateUserStatuses applies all updates atomically. An empty batch is
// rejected.
func (s *UserService) UpdateUserStatuses(ctx context.Context, updates []model.UserStatusUpdate) error {
	if len(updates) == 0 {
		return errs.Validationf("UpdateUserStatuses", "at least one status update is required")
	}
	return s.store.UpdateUserStatuses(ctx, updates)
}
