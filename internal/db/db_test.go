package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert customer: %w", &pgconn.PgError{Code: "23505", ConstraintName: "customers_phone_key"})
	fk := &pgconn.PgError{Code: "23503"}
	check := &pgconn.PgError{Code: "23514"}
	plain := errors.New("boom")

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.True(t, IsCheckViolation(check))
	assert.False(t, IsUniqueViolation(plain))
	assert.Equal(t, "customers_phone_key", ConstraintName(unique))
	assert.Equal(t, "", ConstraintName(plain))
}

func TestNewPool_EmptyConnString(t *testing.T) {
	_, err := NewPool(context.Background(), "")
	require.Error(t, err)
}
