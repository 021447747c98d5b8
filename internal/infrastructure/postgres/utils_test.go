package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	wrap := func(code string) error {
		return fmt.Errorf("exec: %w", &pgconn.PgError{Code: code})
	}
	assert.True(t, isUniqueViolation(wrap("23505")))
	assert.True(t, isCheckViolation(wrap("23514")))
	assert.True(t, isInvalidID(wrap("22P02")))
	assert.True(t, isForeignKeyViolation(wrap("23503")))

	assert.False(t, isUniqueViolation(errors.New("23505 in a plain message")))
	assert.False(t, isCheckViolation(wrap("23505")))
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	v := nullable("CONCEPCION")
	if assert.NotNil(t, v) {
		assert.Equal(t, "CONCEPCION", *v)
	}
	assert.Equal(t, "", deref(nil))
}
