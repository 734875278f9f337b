package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure coming out of the service/repository layers.
type Kind string

const (
	// KindOther is any failure without a more specific kind.
	KindOther Kind = "other"

	// KindValidation is bad or missing input.
	KindValidation Kind = "validation"

	// KindNotFound is a targeted row that does not exist.
	KindNotFound Kind = "not_found"

	// KindConstraintViolation is a unique, foreign-key, not-null or check violation.
	KindConstraintViolation Kind = "constraint_violation"

	// KindTransactionFailed is any failure inside a multi-statement atomic
	// operation. The transaction has been rolled back.
	KindTransactionFailed Kind = "transaction_failed"

	// KindStoreUnavailable is a connection or initialization failure.
	KindStoreUnavailable Kind = "store_unavailable"
)

// Error is a tagged error carrying its Kind and the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds a tagged error. err may be nil.
func E(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Validationf builds a KindValidation error from a formatted message.
func Validationf(op, format string, args ...any) *Error {
	return E(KindValidation, op, fmt.Errorf(format, args...))
}

// NotFound builds a KindNotFound error for the given entity.
func NotFound(op, entity string) *Error {
	return E(KindNotFound, op, fmt.Errorf("%s not found", entity))
}

// TransactionFailed wraps cause as a KindTransactionFailed error.
func TransactionFailed(op string, cause error) *Error {
	return E(KindTransactionFailed, op, cause)
}

// KindOf returns the kind of the outermost *Error in err's chain, or
// KindOther when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}

// IsKind reports whether any *Error in err's chain has the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}
