package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories translate
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
	NotNullViolation    = "23502"
	CheckViolation      = "23514"
	InvalidTextRepr     = "22P02"
)

// Code returns the SQLSTATE of a PostgreSQL error, or "" for any other error.
func Code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports whether err is a unique_violation
func IsUniqueViolation(err error) bool {
	return Code(err) == UniqueViolation
}

// IsForeignKeyViolation reports whether err is a foreign_key_violation
func IsForeignKeyViolation(err error) bool {
	return Code(err) == ForeignKeyViolation
}

// IsDuplicateConstraintError checks if the error is a unique violation
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == UniqueViolation && pgErr.ConstraintName == constraintName
}

// IsInputError reports whether the database rejected the statement because of
// the values supplied (missing required column, malformed literal, failed check).
func IsInputError(err error) bool {
	switch Code(err) {
	case NotNullViolation, CheckViolation, InvalidTextRepr:
		return true
	}
	return false
}
