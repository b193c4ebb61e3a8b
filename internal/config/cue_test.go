package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSchemaCUE = `
id_columns: ["customer_id"]
value_columns: ["name", "balance"]
value_types: ["string", "int"]
`

func TestCompileTableSchemaValid(t *testing.T) {
	schema, errs := CompileTableSchema([]byte(validSchemaCUE), "schema.cue")
	require.Empty(t, errs)
	assert.Equal(t, []string{"customer_id"}, schema.IDColumns)
	assert.Equal(t, []string{"name", "balance"}, schema.ValueColumns)
}

func TestCompileTableSchemaRejectsEmptyIDColumns(t *testing.T) {
	src := `
id_columns: []
value_columns: ["name"]
value_types: ["string"]
`
	_, errs := CompileTableSchema([]byte(src), "schema.cue")
	require.NotEmpty(t, errs)
}

func TestCompileTableSchemaRejectsUnknownType(t *testing.T) {
	src := `
id_columns: ["id"]
value_columns: ["v"]
value_types: ["nonsense"]
`
	_, errs := CompileTableSchema([]byte(src), "schema.cue")
	require.NotEmpty(t, errs)
	assert.Equal(t, ErrCodeUnknownColumnType, errs[0].Code)
}

func TestCompileTableSchemaRejectsMalformedCUE(t *testing.T) {
	_, errs := CompileTableSchema([]byte(`id_columns: [`), "schema.cue")
	require.NotEmpty(t, errs)
}

func TestCompileTableSchemaWithoutInfinityAliasesLeavesThemNil(t *testing.T) {
	schema, errs := CompileTableSchema([]byte(validSchemaCUE), "schema.cue")
	require.Empty(t, errs)
	assert.Nil(t, schema.InfinityAliases)
}

func TestCompileTableSchemaParsesInfinityAliases(t *testing.T) {
	src := `
id_columns: ["customer_id"]
value_columns: ["balance"]
value_types: ["int"]
effective_infinity: "9999-12-31"
as_of_infinity: "9999-12-31T00:00:00Z"
`
	schema, errs := CompileTableSchema([]byte(src), "schema.cue")
	require.Empty(t, errs)
	require.NotNil(t, schema.InfinityAliases)
	assert.Equal(t, "9999-12-31", schema.InfinityAliases.EffectiveInfinity.Time().Format("2006-01-02"))
}

func TestCompileTableSchemaRejectsMalformedInfinityAlias(t *testing.T) {
	src := `
id_columns: ["customer_id"]
value_columns: ["balance"]
value_types: ["int"]
effective_infinity: "not-a-date"
`
	_, errs := CompileTableSchema([]byte(src), "schema.cue")
	require.NotEmpty(t, errs)
}
