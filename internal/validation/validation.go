// Package validation binds and validates request data.
//
// Rules are declared in `validate` struct tags and run through one shared
// validator. Failures come back as *errs.HTTPError (400) with field-level
// errors the client can act on.
package validation
