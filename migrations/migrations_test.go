package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames_Embedded(t *testing.T) {
	names, err := Names()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_init.sql", names[0])
}

func TestInitSchema_Constraints(t *testing.T) {
	sql, err := files.ReadFile("001_init.sql")
	require.NoError(t, err)

	schema := string(sql)
	assert.Contains(t, schema, "CHECK (quantity_meters >= 0)")
	assert.Contains(t, schema, "UNIQUE (fabric_type, fabric_color)")
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS bill_sequences")
}
