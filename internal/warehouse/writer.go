package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/1varma/kafka-redshift-pipeline/internal/frame"
	"github.com/1varma/kafka-redshift-pipeline/internal/telemetry"
)

// SaveMode controls how Write treats an existing table.
type SaveMode string

const (
	// Append adds rows, creating the table if it does not exist.
	Append SaveMode = "append"
	// Overwrite deletes existing rows before inserting.
	Overwrite SaveMode = "overwrite"
	// ErrorIfExists fails when the table already exists.
	ErrorIfExists SaveMode = "error_if_exists"
)

// ParseSaveMode converts a user-supplied mode string.
func ParseSaveMode(s string) (SaveMode, error) {
	switch SaveMode(strings.ToLower(strings.TrimSpace(s))) {
	case Append:
		return Append, nil
	case Overwrite:
		return Overwrite, nil
	case ErrorIfExists:
		return ErrorIfExists, nil
	default:
		return "", fmt.Errorf("unknown save mode %q (want append, overwrite, or error_if_exists)", s)
	}
}

// insertChunkRows bounds the number of rows per INSERT statement.
const insertChunkRows = 500

// Writer persists frames to warehouse tables.
type Writer struct {
	db     *DB
	logger *zap.Logger
}

// NewWriter creates a writer over an open warehouse connection.
func NewWriter(db *DB, logger *zap.Logger) *Writer {
	return &Writer{db: db, logger: logger}
}

// Write persists the frame's contents to table according to mode. The table
// is created from the frame schema when absent; for an empty frame the table
// is still created. All inserts run in one transaction.
func (w *Writer) Write(ctx context.Context, table string, f *frame.Frame, mode SaveMode) error {
	exists, err := w.tableExists(ctx, table)
	if err != nil {
		return err
	}

	tx, err := w.db.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	switch mode {
	case ErrorIfExists:
		if exists {
			return fmt.Errorf("table %s already exists", table)
		}
		if err := w.createTable(ctx, tx, table, f.Schema()); err != nil {
			return err
		}
	case Overwrite:
		if exists {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear table %s: %w", table, err)
			}
		} else {
			if err := w.createTable(ctx, tx, table, f.Schema()); err != nil {
				return err
			}
		}
	case Append:
		if !exists {
			if err := w.createTable(ctx, tx, table, f.Schema()); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown save mode %q", mode)
	}

	if err := w.insertRows(ctx, tx, table, f); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	telemetry.RowsWritten.WithLabelValues(table).Add(float64(f.NumRows()))
	w.logger.Info("wrote frame to warehouse",
		zap.String("table", table),
		zap.String("mode", string(mode)),
		zap.Int("rows", f.NumRows()),
	)
	return nil
}

func (w *Writer) tableExists(ctx context.Context, table string) (bool, error) {
	query, args, err := w.db.dialect.TableExistsQuery(table)
	if err != nil {
		return false, fmt.Errorf("failed to build table probe: %w", err)
	}
	var one int
	err = w.db.sqlDB.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to probe table %s: %w", table, err)
	}
	return true, nil
}

func (w *Writer) createTable(ctx context.Context, tx *sql.Tx, table string, schema frame.Schema) error {
	cols := make([]string, len(schema))
	for i, field := range schema {
		typeName, err := w.db.dialect.TypeName(field.Type)
		if err != nil {
			return fmt.Errorf("column %s: %w", field.Name, err)
		}
		cols[i] = field.Name + " " + typeName
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(cols, ", "))
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}

func (w *Writer) insertRows(ctx context.Context, tx *sql.Tx, table string, f *frame.Frame) error {
	names := f.Schema().Names()
	for start := 0; start < f.NumRows(); start += insertChunkRows {
		end := start + insertChunkRows
		if end > f.NumRows() {
			end = f.NumRows()
		}

		builder := sq.Insert(table).
			Columns(names...).
			PlaceholderFormat(w.db.dialect.Placeholder())
		for i := start; i < end; i++ {
			builder = builder.Values(f.Row(i)...)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert for %s: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}
