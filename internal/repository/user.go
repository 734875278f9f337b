package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/usergroups/internal/errs"
	"github.com/deppfellow/usergroups/internal/model"
	"github.com/deppfellow/usergroups/internal/sqlerr"
)

const (
	listUsersSQL = `SELECT id, name, email, status FROM users ORDER BY id LIMIT $1 OFFSET $2`

	findUsersByNameSQL = `SELECT id, name, email, status FROM users WHERE name = $1 ORDER BY id`

	findUsersByEmailSQL = `SELECT id, name, email, status FROM users WHERE email = $1 ORDER BY id`

	createUserSQL = `INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id, name, email, status`

	updateUserEmailSQL = `UPDATE users SET email = $1 WHERE id = $2`

	updateUserStatusSQL = `UPDATE users SET status = $1 WHERE id = $2`
)

// UserRepository runs the user queries and mutations.
type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// ListUsers returns up to limit users starting at offset, in id order.
// limit and offset are expected to be validated non-negative.
func (r *UserRepository) ListUsers(ctx context.Context, limit, offset int) ([]model.User, error) {
	return r.queryUsers(ctx, "ListUsers", listUsersSQL, limit, offset)
}

// FindUsersByName returns the users whose name matches exactly.
func (r *UserRepository) FindUsersByName(ctx context.Context, name string) ([]model.User, error) {
	return r.queryUsers(ctx, "FindUsersByName", findUsersByNameSQL, name)
}

// FindUsersByEmail returns the users whose email matches exactly.
func (r *UserRepository) FindUsersByEmail(ctx context.Context, email string) ([]model.User, error) {
	return r.queryUsers(ctx, "FindUsersByEmail", findUsersByEmailSQL, email)
}

// queryUsers never returns a nil slice on success.
func (r *UserRepository) queryUsers(ctx context.Context, op, query string, args ...any) ([]model.User, error) {
	rows, err := r.store.db.Query(ctx, query, args...)
	if err != nil {
		return nil, sqlerr.Classify(op, err)
	}

	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return nil, sqlerr.Classify(op, err)
	}

	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// CreateUser inserts a user. A taken email fails with
// errs.KindConstraintViolation.
func (r *UserRepository) CreateUser(ctx context.Context, name, email string) (*model.User, error) {
	var user model.User

	err := r.store.db.QueryRow(ctx, createUserSQL, name, email).
		Scan(&user.ID, &user.Name, &user.Email, &user.Status)
	if err != nil {
		return nil, sqlerr.Classify("CreateUser", err)
	}

	return &user, nil
}

// UpdateUserEmail changes one user's email. A missing user fails with
// errs.KindNotFound, a taken email with errs.KindConstraintViolation.
func (r *UserRepository) UpdateUserEmail(ctx context.Context, id int64, email string) (*model.UserEmail, error) {
	tag, err := r.store.db.Exec(ctx, updateUserEmailSQL, email, id)
	if err != nil {
		return nil, sqlerr.Classify("UpdateUserEmail", err)
	}

	if tag.RowsAffected() == 0 {
		return nil, errs.NotFound("UpdateUserEmail", "user")
	}

	return &model.UserEmail{ID: id, Email: email}, nil
}

// UpdateUserStatuses applies every update in one transaction.
//
// Either all updates are applied or none. Ids that match no user are
// skipped silently. Unknown statuses are rejected before the transaction
// starts.
func (r *UserRepository) UpdateUserStatuses(ctx context.Context, updates []model.UserStatusUpdate) error {
	const op = "UpdateUserStatuses"

	for _, u := range updates {
		if !u.Status.Valid() {
			return errs.Validationf(op, "invalid status %q for user %d", u.Status, u.ID)
		}
	}

	if len(updates) == 0 {
		return nil
	}

	return r.store.InTx(ctx, op, func(ctx context.Context, tx pgx.Tx) error {
		var affected int64
		for _, u := range updates {
			tag, err := tx.Exec(ctx, updateUserStatusSQL, string(u.Status), u.ID)
			if err != nil {
				return err
			}
			affected += tag.RowsAffected()
		}

		r.store.log.Debug().
			Int("updates", len(updates)).
			Int64("rows_affected", affected).
			Msg("user statuses updated")

		return nil
	})
}
