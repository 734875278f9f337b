package service

import (
	"github.com/deppfellow/usergroups/internal/repository"
	"github.com/deppfellow/usergroups/internal/server"
)

type Services struct {
	User  *UserService
	Group *GroupService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var jobs WelcomeEnqueuer
	if s.Job != nil {
		jobs = s.Job
	}

	return &Services{
		User:  NewUserService(repos.User, jobs),
		Group: NewGroupService(repos.Group),
	}, nil
}
