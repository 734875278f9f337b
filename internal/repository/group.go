package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/usergroups/internal/errs"
	"github.com/deppfellow/usergroups/internal/model"
	"github.com/deppfellow/usergroups/internal/sqlerr"
)

const (
	getGroupSQL = `SELECT id, name, status FROM groups WHERE id = $1`

	deleteMembershipSQL = `DELETE FROM user_groups WHERE user_id = $1 AND group_id = $2`

	countMembersSQL = `SELECT COUNT(*) FROM user_groups WHERE group_id = $1`

	updateGroupStatusSQL = `UPDATE groups SET status = $1 WHERE id = $2`
)

// GroupRepository runs the group queries and membership mutations.
type GroupRepository struct {
	store *Store
}

func NewGroupRepository(store *Store) *GroupRepository {
	return &GroupRepository{store: store}
}

// GetGroup returns one group by id.
func (r *GroupRepository) GetGroup(ctx context.Context, id int64) (*model.Group, error) {
	var group model.Group

	err := r.store.db.QueryRow(ctx, getGroupSQL, id).Scan(&group.ID, &group.Name, &group.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NotFound("GetGroup", "group")
		}
		return nil, sqlerr.Classify("GetGroup", err)
	}

	return &group, nil
}

// RemoveUserFromGroup deletes the membership and, when the group has no
// members left, marks it empty. Both steps commit together or not at all.
//
// Removing a membership that does not exist is not an error; the member
// count is still checked.
func (r *GroupRepository) RemoveUserFromGroup(ctx context.Context, userID, groupID int64) error {
	const op = "RemoveUserFromGroup"

	return r.store.InTx(ctx, op, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, deleteMembershipSQL, userID, groupID)
		if err != nil {
			return err
		}

		var remaining int64
		if err := tx.QueryRow(ctx, countMembersSQL, groupID).Scan(&remaining); err != nil {
			return err
		}

		if remaining == 0 {
			if _, err := tx.Exec(ctx, updateGroupStatusSQL, string(model.GroupStatusEmpty), groupID); err != nil {
				return err
			}
		}

		r.store.log.Debug().
			Int64("user_id", userID).
			Int64("group_id", groupID).
			Int64("removed", tag.RowsAffected()).
			Int64("remaining", remaining).
			Msg("membership removed")

		return nil
	})
}
