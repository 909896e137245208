package warehouse

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/1varma/kafka-redshift-pipeline/internal/frame"
)

// Dialect captures the per-engine SQL differences the writer and reader
// need: placeholder style, DDL type names, and the table-existence probe.
type Dialect interface {
	Placeholder() sq.PlaceholderFormat
	TypeName(t frame.Type) (string, error)
	TableExistsQuery(table string) (string, []any, error)
}

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driverName string) (Dialect, error) {
	switch driverName {
	case "postgres":
		return redshiftDialect{}, nil
	case "sqlite":
		return sqliteDialect{}, nil
	default:
		return nil, fmt.Errorf("no warehouse dialect for driver %q", driverName)
	}
}

type redshiftDialect struct{}

func (redshiftDialect) Placeholder() sq.PlaceholderFormat { return sq.Dollar }

func (redshiftDialect) TypeName(t frame.Type) (string, error) {
	switch t {
	case frame.Text:
		return "VARCHAR(65535)", nil
	case frame.Bigint:
		return "BIGINT", nil
	case frame.Double:
		return "DOUBLE PRECISION", nil
	case frame.Boolean:
		return "BOOLEAN", nil
	case frame.Timestamp:
		return "TIMESTAMP", nil
	default:
		return "", fmt.Errorf("unknown frame type %q", t)
	}
}

func (redshiftDialect) TableExistsQuery(table string) (string, []any, error) {
	// Scoped to the current schema; a same-named table elsewhere in the
	// search path must not count.
	return sq.Select("1").
		From("information_schema.tables").
		Where(sq.Eq{"table_name": table}).
		Where(sq.Expr("table_schema = current_schema()")).
		Limit(1).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

type sqliteDialect struct{}

func (sqliteDialect) Placeholder() sq.PlaceholderFormat { return sq.Question }

func (sqliteDialect) TypeName(t frame.Type) (string, error) {
	switch t {
	case frame.Text:
		return "TEXT", nil
	case frame.Bigint:
		return "INTEGER", nil
	case frame.Double:
		return "REAL", nil
	case frame.Boolean:
		return "BOOLEAN", nil
	case frame.Timestamp:
		return "TIMESTAMP", nil
	default:
		return "", fmt.Errorf("unknown frame type %q", t)
	}
}

func (sqliteDialect) TableExistsQuery(table string) (string, []any, error) {
	return sq.Select("1").
		From("sqlite_master").
		Where(sq.Eq{"type": "table", "name": table}).
		Limit(1).
		PlaceholderFormat(sq.Question).
		ToSql()
}
