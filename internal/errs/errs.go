// Package errs define custom error types and utilities.
//
// It has two layers:
//   - Error/Kind: tagged errors returned by the repository and service
//     layers so the boundary can branch on the kind of failure instead of
//     on message text.
//   - HTTPError: the API-facing error, produced only at the HTTP boundary
//     and serialized as a JSON object carrying an `error` field.
package errs
