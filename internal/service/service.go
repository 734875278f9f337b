// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives
// validated data from the handler, re-checks the invariants it relies on,
// and calls repository methods to interact with the data.
package service
