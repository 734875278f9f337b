package service

import (
	"context"

	"github.com/deppfellow/usergroups/internal/model"
)

// GroupStore is the data access GroupService needs.
// *repository.GroupRepository implements it.
type GroupStore interface {
	GetGroup(ctx context.Context, id int64) (*model.Group, error)
	RemoveUserFromGroup(ctx context.Context, userID, groupID int64) error
}

type GroupService struct {
	store GroupStore
}

func NewGroupService(store GroupStore) *GroupService {
	return &GroupService{store: store}
}

func (s *GroupService) GetGroup(ctx context.Context, id int64) (*model.Group, error) {
	return s.store.GetGroup(ctx, id)
}

// RemoveUserFromGroup removes the membership and marks the group empty
// when it was the last one. Removing a missing membership succeeds.
func (s *GroupService) RemoveUserFromGroup(ctx context.Context, userID, groupID int64) error {
	return s.store.RemoveUserFromGroup(ctx, userID, groupID)
}
