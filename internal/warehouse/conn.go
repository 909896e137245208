// Package warehouse provides batch write and read of tabular frames against
// a SQL warehouse endpoint through database/sql. Redshift is reached with the
// lib/pq driver (Redshift speaks the Postgres wire protocol); tests run the
// same paths against an in-process sqlite database.
package warehouse

import (
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/1varma/kafka-redshift-pipeline/internal/config"
)

// ConnProperties is the flat set of connection parameters for the warehouse.
// Values are passed through to the driver unvalidated.
type ConnProperties struct {
	Endpoint string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
}

// DSN builds a lib/pq connection URL from the properties.
func (p ConnProperties) DSN() string {
	port := p.Port
	if port == 0 {
		port = 5439
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", p.Endpoint, port),
		Path:   "/" + p.Database,
	}
	if p.User != "" {
		u.User = url.UserPassword(p.User, p.Password)
	}
	if p.SSLMode != "" {
		q := url.Values{}
		q.Set("sslmode", p.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// ParseJDBCURL parses a JDBC-style URL of the form
// jdbc:redshift://<endpoint>:5439/<database> into connection properties.
// Credentials are not carried in the URL and must be set separately.
func ParseJDBCURL(raw string) (ConnProperties, error) {
	rest, ok := strings.CutPrefix(raw, "jdbc:")
	if !ok {
		return ConnProperties{}, fmt.Errorf("jdbc url %q: missing jdbc: prefix", raw)
	}
	u, err := url.Parse(rest)
	if err != nil {
		return ConnProperties{}, fmt.Errorf("failed to parse jdbc url %q: %w", raw, err)
	}
	if u.Scheme != "redshift" && u.Scheme != "postgresql" {
		return ConnProperties{}, fmt.Errorf("jdbc url %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Hostname() == "" {
		return ConnProperties{}, fmt.Errorf("jdbc url %q: missing endpoint", raw)
	}
	db := strings.TrimPrefix(u.Path, "/")
	if db == "" {
		return ConnProperties{}, fmt.Errorf("jdbc url %q: missing database", raw)
	}

	props := ConnProperties{
		Endpoint: u.Hostname(),
		Port:     5439,
		Database: db,
	}
	if ps := u.Port(); ps != "" {
		port, err := strconv.Atoi(ps)
		if err != nil {
			return ConnProperties{}, fmt.Errorf("jdbc url %q: invalid port: %w", raw, err)
		}
		props.Port = port
	}
	return props, nil
}

// PropsFromConfig resolves connection properties from configuration. A
// jdbc_url, when set, supplies endpoint, port, and database; credentials and
// SSL mode always come from the individual fields.
func PropsFromConfig(cfg config.WarehouseConfig) (ConnProperties, error) {
	var props ConnProperties
	if cfg.JDBCURL != "" {
		parsed, err := ParseJDBCURL(cfg.JDBCURL)
		if err != nil {
			return ConnProperties{}, err
		}
		props = parsed
	} else {
		props = ConnProperties{
			Endpoint: cfg.Endpoint,
			Port:     cfg.Port,
			Database: cfg.Database,
		}
	}
	props.User = cfg.User
	props.Password = cfg.Password
	props.SSLMode = cfg.SSLMode
	return props, nil
}

// DB is an open warehouse connection paired with its SQL dialect.
type DB struct {
	sqlDB   *sql.DB
	dialect Dialect
}

// Open opens a warehouse connection. The connection is established lazily;
// unknown driver names fail here, unreachable endpoints fail on first use.
func Open(driverName, dsn string) (*DB, error) {
	dialect, err := DialectFor(driverName)
	if err != nil {
		return nil, err
	}
	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", driverName, err)
	}
	return &DB{sqlDB: sqlDB, dialect: dialect}, nil
}

// Close closes the connection.
func (db *DB) Close() error {
	return db.sqlDB.Close()
}
