package sqlerr

import "strings"

// Code is a driver-independent category for a database error.
type Code string

const (
	Other               Code = "other"
	NotNullViolation    Code = "not_null_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	ConnectionException Code = "connection_exception"
	QueryCanceled       Code = "query_canceled"
	AdminShutdown       Code = "admin_shutdown"
	SerializationFailed Code = "serialization_failure"
	DeadlockDetected    Code = "deadlock_detected"
)

// Severity mirrors the Postgres severity levels.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is the normalized form of a Postgres server error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return string(e.Severity) + ": " + e.Message + " (SQLSTATE " + e.DatabaseCode + ")"
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// IsConstraintViolation reports whether the error is one of the integrity
// constraint violations (SQLSTATE class 23) we map explicitly.
func (e *Error) IsConstraintViolation() bool {
	switch e.Code {
	case NotNullViolation, ForeignKeyViolation, UniqueViolation, CheckViolation:
		return true
	}
	return false
}

// IsUnavailable reports whether the error means the store itself is not
// reachable or is shutting down.
func (e *Error) IsUnavailable() bool {
	return e.Code == ConnectionException || e.Code == AdminShutdown
}

// MapCode maps a SQLSTATE to a Code.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "57014":
		return QueryCanceled
	case "57P01", "57P02", "57P03":
		return AdminShutdown
	case "40001":
		return SerializationFailed
	case "40P01":
		return DeadlockDetected
	}

	// Class 08: connection exceptions.
	if strings.HasPrefix(sqlstate, "08") {
		return ConnectionException
	}

	return Other
}

// MapSeverity maps the severity string reported by the server.
func MapSeverity(severity string) Severity {
	switch strings.ToUpper(severity) {
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	case "WARNING":
		return SeverityWarning
	case "NOTICE":
		return SeverityNotice
	case "DEBUG":
		return SeverityDebug
	case "INFO":
		return SeverityInfo
	case "LOG":
		return SeverityLog
	default:
		return SeverityError
	}
}
