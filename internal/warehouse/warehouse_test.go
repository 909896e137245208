package warehouse

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/1varma/kafka-redshift-pipeline/internal/frame"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "warehouse_test_*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	db, err := Open("sqlite", filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testSchema() frame.Schema {
	return frame.Schema{
		{Name: "id", Type: frame.Bigint},
		{Name: "name", Type: frame.Text},
		{Name: "score", Type: frame.Double},
		{Name: "active", Type: frame.Boolean},
	}
}

func testFrame(t *testing.T, n int) *frame.Frame {
	t.Helper()
	f, err := frame.New(testSchema())
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, f.Append(int64(i), fmt.Sprintf("name-%d", i), float64(i)/2, i%2 == 0))
	}
	return f
}

func TestWriteReadRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 1000} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			db := openTestDB(t)
			logger := zap.NewNop()
			ctx := context.Background()

			in := testFrame(t, n)
			err := NewWriter(db, logger).Write(ctx, "events", in, Append)
			require.NoError(t, err)

			out, err := NewReader(db, logger).Read(ctx, "events")
			require.NoError(t, err)

			assert.Equal(t, in.Schema(), out.Schema())
			require.Equal(t, n, out.NumRows())
			for i := 0; i < n; i++ {
				assert.Equal(t, in.Row(i), out.Row(i), "row %d", i)
			}
		})
	}
}

func TestWrite_AppendAccumulates(t *testing.T) {
	db := openTestDB(t)
	logger := zap.NewNop()
	ctx := context.Background()
	writer := NewWriter(db, logger)

	require.NoError(t, writer.Write(ctx, "events", testFrame(t, 3), Append))
	require.NoError(t, writer.Write(ctx, "events", testFrame(t, 2), Append))

	out, err := NewReader(db, logger).Read(ctx, "events")
	require.NoError(t, err)
	assert.Equal(t, 5, out.NumRows())
}

func TestWrite_OverwriteReplaces(t *testing.T) {
	db := openTestDB(t)
	logger := zap.NewNop()
	ctx := context.Background()
	writer := NewWriter(db, logger)

	require.NoError(t, writer.Write(ctx, "events", testFrame(t, 3), Append))
	require.NoError(t, writer.Write(ctx, "events", testFrame(t, 2), Overwrite))

	out, err := NewReader(db, logger).Read(ctx, "events")
	require.NoError(t, err)
	assert.Equal(t, 2, out.NumRows())
}

func TestWrite_ErrorIfExists(t *testing.T) {
	db := openTestDB(t)
	logger := zap.NewNop()
	ctx := context.Background()
	writer := NewWriter(db, logger)

	require.NoError(t, writer.Write(ctx, "events", testFrame(t, 1), ErrorIfExists))

	err := writer.Write(ctx, "events", testFrame(t, 1), ErrorIfExists)
	assert.ErrorContains(t, err, "already exists")

	// The failed write must not have touched the table.
	out, err := NewReader(db, logger).Read(ctx, "events")
	require.NoError(t, err)
	assert.Equal(t, 1, out.NumRows())
}

func TestRead_MissingTable(t *testing.T) {
	db := openTestDB(t)

	_, err := NewReader(db, zap.NewNop()).Read(context.Background(), "nope")
	assert.Error(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	// A missing or unknown driver must fail loudly, never no-op.
	_, err := Open("redshift-jdbc42", "whatever")
	assert.ErrorContains(t, err, `no warehouse dialect for driver "redshift-jdbc42"`)
}

func TestParseSaveMode(t *testing.T) {
	for in, want := range map[string]SaveMode{
		"append":            Append,
		"Overwrite":         Overwrite,
		" error_if_exists ": ErrorIfExists,
	} {
		got, err := ParseSaveMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseSaveMode("upsert")
	assert.ErrorContains(t, err, `unknown save mode "upsert"`)
}
