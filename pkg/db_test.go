package pkg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorClassification(t *testing.T) {
	fkErr := fmt.Errorf("insert log: %w", &pgconn.PgError{Code: "23503"})
	assert.True(t, IsForeignKeyViolationError(fkErr))
	assert.False(t, IsUniqueViolationError(fkErr))

	uqErr := &pgconn.PgError{Code: "23505"}
	assert.True(t, IsUniqueViolationError(uqErr))
	assert.False(t, IsForeignKeyViolationError(uqErr))

	assert.False(t, IsForeignKeyViolationError(errors.New("plain")))
}
