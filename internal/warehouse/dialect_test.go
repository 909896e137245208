package warehouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1varma/kafka-redshift-pipeline/internal/frame"
)

func TestDialectFor(t *testing.T) {
	d, err := DialectFor("postgres")
	require.NoError(t, err)
	assert.IsType(t, redshiftDialect{}, d)

	d, err = DialectFor("sqlite")
	require.NoError(t, err)
	assert.IsType(t, sqliteDialect{}, d)

	_, err = DialectFor("mysql")
	assert.ErrorContains(t, err, `no warehouse dialect for driver "mysql"`)
}

func TestRedshiftTableExistsQuery_ScopedToCurrentSchema(t *testing.T) {
	query, args, err := redshiftDialect{}.TableExistsQuery("events")
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT 1 FROM information_schema.tables WHERE table_name = $1 AND table_schema = current_schema() LIMIT 1",
		query)
	assert.Equal(t, []any{"events"}, args)
}

func TestSQLiteTableExistsQuery(t *testing.T) {
	query, args, err := sqliteDialect{}.TableExistsQuery("events")
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT 1 FROM sqlite_master WHERE name = ? AND type = ? LIMIT 1",
		query)
	assert.Equal(t, []any{"events", "table"}, args)
}

func TestTypeName_Unknown(t *testing.T) {
	_, err := redshiftDialect{}.TypeName(frame.Type("blob"))
	assert.ErrorContains(t, err, `unknown frame type "blob"`)

	_, err = sqliteDialect{}.TypeName(frame.Type("blob"))
	assert.ErrorContains(t, err, `unknown frame type "blob"`)
}
