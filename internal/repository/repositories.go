// Package repository holds the SQL behind every data operation.
//
// Reads run directly on the pool. Multi-statement mutations run through
// Store.InTx so they commit or roll back as a unit.
package repository

import (
	"github.com/deppfellow/usergroups/internal/server"
)

// Repositories is the container for all repository instances.
type Repositories struct {
	User  *UserRepository
	Group *GroupRepository
}

// NewRepositories builds every repository on one Store over the server's
// pool.
func NewRepositories(s *server.Server) *Repositories {
	store := NewStore(s.DB.Pool, s.Config.Database.TxTimeout, s.Logger, s.Metrics)

	return &Repositories{
		User:  NewUserRepository(store),
		Group: NewGroupRepository(store),
	}
}
