// Package sqlerr specifically handles database driver errors.
//
// It parses cryptic error codes from the database driver and
// converts them into tagged errs.Error values (Classify), and
// converts tagged errors into user-friendly HTTP errors
// (HandleError), e.g. a unique violation on users.email becomes
// "409 A User with this Email already exists".
package sqlerr
