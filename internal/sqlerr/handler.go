package sqlerr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"

	"github.com/deppfellow/usergroups/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// uniqueKeyRegex matches Postgres' default unique constraint names,
// e.g. users_email_key -> "email".
var uniqueKeyRegex = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// ErrCode reports the mapped sqlerr.Code for a given error.
//
// Behavior:
//   - If err can be unwrapped into *sqlerr.Error, return its Code.
//   - Otherwise return sqlerr.Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	return Other
}

// ConvertPgError converts a pgconn.PgError (raw Postgres error) into our custom sqlerr.Error.
//
// We map SQLSTATE + Severity into our enums for easier switching and keep
// the original error for Unwrap() and debugging.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// Classify tags a low-level database error with an errs.Kind.
//
//   - nil and already tagged errors are returned unchanged.
//   - integrity constraint violations -> errs.KindConstraintViolation
//   - connection failures, server shutdown, timeouts -> errs.KindStoreUnavailable
//   - pgx.ErrNoRows / sql.ErrNoRows -> errs.KindNotFound
//   - anything else -> errs.KindOther
//
// Repositories call this right after a failed statement so the error
// leaving the data layer always carries a kind.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var tagged *errs.Error
	if errors.As(err, &tagged) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)
		switch {
		case sqlErr.IsConstraintViolation():
			return errs.E(errs.KindConstraintViolation, op, sqlErr)
		case sqlErr.IsUnavailable():
			return errs.E(errs.KindStoreUnavailable, op, sqlErr)
		default:
			return errs.E(errs.KindOther, op, sqlErr)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.E(errs.KindNotFound, op, err)
	}

	var connectErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.As(err, &connectErr),
		errors.As(err, &netErr),
		pgconn.Timeout(err),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return errs.E(errs.KindStoreUnavailable, op, err)
	}

	return errs.E(errs.KindOther, op, err)
}

// generateErrorCode creates consistent "application error codes" from DB errors.
//
// Output format:
//
//	<DOMAIN>_<ACTION>
//
// Example:
//
//	users + UniqueViolation => USER_ALREADY_EXISTS
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)

	// Naive singularization: "USERS" -> "USER".
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// formatUserFriendlyMessage produces an end-user-facing error message.
//
// This message is intended for clients, not for logs.
func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		// "identifier" is replaced later if we can infer a column name.
		return fmt.Sprintf("A %s with this identifier already exists", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName tries to infer an entity name from table/column data.
//
// Priority rules:
//  1. If column ends with "_id", use that base name ("user_id" -> "User").
//  2. Otherwise use table name, singularized if it ends with "s".
//  3. Otherwise fallback to "record".
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts snake_case into Title Case ("first_name" -> "First Name").
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation tries to infer the column name from a unique constraint name.
//
// It supports two conventions:
//
//  1. "unique_<table>_<column>"   e.g. unique_users_email -> "email"
//  2. "<table>_<column>_(key|ukey)" e.g. users_email_key   -> "email"
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	matches := uniqueKeyRegex.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// sentenceCase upper-cases the first letter of s.
func sentenceCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// constraintError builds the HTTP error for a constraint violation.
//
// Unique and foreign-key violations collide with stored state -> 409.
// Not-null and check violations mean the input itself was unacceptable -> 400.
func constraintError(err error) *errs.HTTPError {
	var sqlErr *Error
	if !errors.As(err, &sqlErr) {
		return errs.NewConflictError("The request conflicts with existing data", false, nil)
	}

	errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
	userMessage := formatUserFriendlyMessage(sqlErr)

	switch sqlErr.Code {
	case UniqueViolation:
		if columnName := extractColumnForUniqueViolation(sqlErr.ConstraintName); columnName != "" {
			userMessage = strings.ReplaceAll(userMessage, "identifier", humanizeText(columnName))
		}
		return errs.NewConflictError(userMessage, true, &errorCode)

	case ForeignKeyViolation:
		return errs.NewConflictError(userMessage, false, &errorCode)

	case NotNullViolation:
		fieldErrors := []errs.FieldError{
			{
				Field: strings.ToLower(sqlErr.ColumnName),
				Error: "is required",
			},
		}
		return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors)

	default:
		return errs.NewBadRequestError(userMessage, true, &errorCode, nil)
	}
}

// HandleError converts an application or database error into an HTTP error.
//
// Output:
//   - *errs.HTTPError: returned unchanged
//   - errs.KindValidation: 400 with the validation message
//   - errs.KindNotFound: 404 "<Entity> not found"
//   - errs.KindConstraintViolation: 409 (unique/FK) or 400 (not-null/check)
//   - everything else, including errs.KindTransactionFailed and
//     errs.KindStoreUnavailable: generic 500
//
// Untagged driver errors are classified first. This function is intended to
// be called by the global HTTP error handler.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	err = Classify("", err)

	var tagged *errs.Error
	if !errors.As(err, &tagged) {
		return errs.NewInternalServerError()
	}

	switch tagged.Kind {
	case errs.KindValidation:
		message := "Validation failed"
		if tagged.Err != nil {
			message = sentenceCase(tagged.Err.Error())
		}
		return errs.NewBadRequestError(message, true, nil, nil)

	case errs.KindNotFound:
		var sqlErr *Error
		if tagged.Err == nil || errors.Is(tagged.Err, pgx.ErrNoRows) || errors.Is(tagged.Err, sql.ErrNoRows) || errors.As(tagged.Err, &sqlErr) {
			return errs.NewNotFoundError("Resource not found", false, nil)
		}
		return errs.NewNotFoundError(sentenceCase(tagged.Err.Error()), true, nil)

	case errs.KindConstraintViolation:
		return constraintError(tagged.Err)

	default:
		// Transaction failures, store outages and unknown errors must not
		// leak details to clients.
		return errs.NewInternalServerError()
	}
}
