package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation    = "23505"
	codeCheckViolation     = "23514"
	codeInvalidTextRepr    = "22P02"
	codeForeignKeyViolated = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation reports a unique constraint violation (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// isCheckViolation reports a CHECK constraint violation (23514), e.g. quantity >= 0.
func isCheckViolation(err error) bool {
	return pgCode(err) == codeCheckViolation
}

// isInvalidID reports a malformed uuid literal (22P02), which callers treat as "no such row".
func isInvalidID(err error) bool {
	return pgCode(err) == codeInvalidTextRepr
}

// isForeignKeyViolation reports a dangling reference (23503).
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolated
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
