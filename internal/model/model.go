// Package model holds the entities persisted by the service and the
// enumerations shared between request validation and the database schema.
//
// The status enums defined here are the single source of truth: the
// `user_status` validator tag and the CHECK constraints rendered into the
// schema migration both read from UserStatuses/GroupStatuses.
package model

// UserStatus is the lifecycle state of a user.
type UserStatus string

const (
	UserStatusPending UserStatus = "pending"
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

// UserStatuses returns every valid UserStatus in declaration order.
func UserStatuses() []UserStatus {
	return []UserStatus{UserStatusPending, UserStatusActive, UserStatusBlocked}
}

// Valid reports whether s is one of the declared user statuses.
func (s UserStatus) Valid() bool {
	for _, v := range UserStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// GroupStatus is the cached membership state of a group.
type GroupStatus string

const (
	GroupStatusEmpty    GroupStatus = "empty"
	GroupStatusNotEmpty GroupStatus = "notEmpty"
)

// GroupStatuses returns every valid GroupStatus in declaration order.
func GroupStatuses() []GroupStatus {
	return []GroupStatus{GroupStatusEmpty, GroupStatusNotEmpty}
}

// Valid reports whether s is one of the declared group statuses.
func (s GroupStatus) Valid() bool {
	for _, v := range GroupStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// User is a row of the users table. Email and Status are nullable.
type User struct {
	ID     int64       `json:"id" db:"id"`
	Name   string      `json:"name" db:"name"`
	Email  *string     `json:"email" db:"email"`
	Status *UserStatus `json:"status" db:"status"`
}

// UserEmail is the result of an email change.
type UserEmail struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// UserStatusUpdate is one element of a bulk status update.
type UserStatusUpdate struct {
	ID     int64      `json:"id" validate:"required"`
	Status UserStatus `json:"status" validate:"required,user_status"`
}

// Group is a row of the groups table.
type Group struct {
	ID     int64       `json:"id" db:"id"`
	Name   string      `json:"name" db:"name"`
	Status GroupStatus `json:"status" db:"status"`
}
