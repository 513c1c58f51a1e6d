package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

type Domain string

const (
	Users    Domain = "users"
	Blog     Domain = "blog"
	External Domain = "external"
)

var Domains = []Domain{Users, Blog, External}

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

//go:embed migrations
var migrations embed.FS

// ConfigurationError reports a domain that has no usable store behind it.
type ConfigurationError struct {
	Domain Domain
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("store %q: %s", e.Domain, e.Reason)
}

type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Session is one connection taken from a domain's pool for the life of a request.
type Session struct {
	*sqlx.Conn
	Domain  Domain
	Dialect Dialect
}

type store struct {
	db      *sqlx.DB
	dialect Dialect
}

type Router struct {
	stores map[Domain]*store
	log    logrus.FieldLogger
}

// Open connects one pool per domain. Every domain in Domains must have a DSN.
func Open(ctx context.Context, dsns map[Domain]string, pool PoolOptions, log logrus.FieldLogger) (*Router, error) {
	r := &Router{stores: make(map[Domain]*store, len(Domains)), log: log}

	for _, domain := range Domains {
		dsn := strings.TrimSpace(dsns[domain])
		if dsn == "" {
			r.Close()
			return nil, &ConfigurationError{Domain: domain, Reason: "no connection string configured"}
		}

		dialect, driverDSN, err := resolve(domain, dsn)
		if err != nil {
			r.Close()
			return nil, err
		}

		db, err := sqlx.Open(string(dialect), driverDSN)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("open %s store: %w", domain, err)
		}

		if dialect == SQLite {
			// writes serialize on the file anyway
			db.SetMaxOpenConns(1)
			db.SetMaxIdleConns(1)
			db.SetConnMaxLifetime(0)
		} else {
			db.SetMaxOpenConns(pool.MaxOpenConns)
			db.SetMaxIdleConns(pool.MaxIdleConns)
			db.SetConnMaxLifetime(pool.ConnMaxLifetime)
		}

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			r.Close()
			return nil, fmt.Errorf("ping %s store: %w", domain, err)
		}

		r.stores[domain] = &store{db: db, dialect: dialect}
		log.WithFields(logrus.Fields{"domain": domain, "dialect": dialect}).Info("connected to store")
	}

	return r, nil
}

// NewRouter wraps already opened pools. The dialect is taken from the driver name.
func NewRouter(dbs map[Domain]*sqlx.DB, log logrus.FieldLogger) *Router {
	r := &Router{stores: make(map[Domain]*store, len(dbs)), log: log}
	for domain, db := range dbs {
		dialect := Postgres
		if strings.HasPrefix(db.DriverName(), "sqlite") {
			dialect = SQLite
		}
		r.stores[domain] = &store{db: db, dialect: dialect}
	}
	return r
}

func resolve(domain Domain, dsn string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return Postgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return SQLite, sqliteDSN("file:" + strings.TrimPrefix(dsn, "sqlite://")), nil
	case strings.HasPrefix(dsn, "file:"):
		return SQLite, sqliteDSN(dsn), nil
	}
	return "", "", &ConfigurationError{Domain: domain, Reason: "unsupported connection string scheme"}
}

func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Acquire takes a dedicated connection bound to ctx. Callers must Release it.
func (r *Router) Acquire(ctx context.Context, domain Domain) (*Session, error) {
	st, ok := r.stores[domain]
	if !ok {
		return nil, &ConfigurationError{Domain: domain, Reason: "no store configured"}
	}

	conn, err := st.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire %s session: %w", domain, err)
	}

	return &Session{Conn: conn, Domain: domain, Dialect: st.dialect}, nil
}

// Release returns the session's connection to its pool. Statements run in
// autocommit mode so there is never an open transaction to settle.
func (r *Router) Release(s *Session) {
	if s == nil || s.Conn == nil {
		return
	}
	if err := s.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		r.log.WithError(err).WithField("domain", s.Domain).Warn("release session")
	}
}

// Migrate applies the embedded schema of every configured domain.
func (r *Router) Migrate(ctx context.Context) error {
	for _, domain := range Domains {
		st, ok := r.stores[domain]
		if !ok {
			continue
		}

		path := fmt.Sprintf("migrations/%s/%s.sql", st.dialect, domain)
		migrationSQL, err := migrations.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", path, err)
		}

		for _, stmt := range strings.Split(string(migrationSQL), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := st.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrate %s store: %w", domain, err)
			}
		}

		r.log.WithField("domain", domain).Info("migrations applied")
	}
	return nil
}

// HealthCheck pings every store. A nil value means the store answered.
func (r *Router) HealthCheck(ctx context.Context) map[Domain]error {
	result := make(map[Domain]error, len(r.stores))
	for domain, st := range r.stores {
		result[domain] = st.db.PingContext(ctx)
	}
	return result
}

func (r *Router) Close() error {
	var errs []error
	for domain, st := range r.stores {
		if err := st.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s store: %w", domain, err))
		}
	}
	return errors.Join(errs...)
}
