package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

func hasCode(err error, codes ...string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	for _, c := range codes {
		if pgErr.SQLState() == c {
			return true
		}
	}
	return false
}

// IsUniqueViolation reports SQLSTATE 23505 anywhere in the error chain.
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsRetryable reports serialization failures and deadlocks.
func IsRetryable(err error) bool {
	return hasCode(err, codeSerializationFailure, codeDeadlockDetected)
}
