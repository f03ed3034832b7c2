package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// constraintViolation reports the constraint named by a pq error with the
// given SQLSTATE code.
func constraintViolation(err error, code pq.ErrorCode) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == code {
		return pqErr.Constraint, true
	}
	return "", false
}

func uniqueViolation(err error) (string, bool) {
	return constraintViolation(err, codeUniqueViolation)
}

func foreignKeyViolation(err error) (string, bool) {
	return constraintViolation(err, codeForeignKeyViolation)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
