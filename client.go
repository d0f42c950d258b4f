package springbook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/samber/lo"
)

const (
	driverName = "mysql"

	DefaultPort = 3306

	host     = "localhost"
	database = "springbook"
	user     = "spring"
	password = "book"

	connectTimeout = 5 * time.Second
)

var (
	ErrDriverUnavailable = errors.New("database driver is unavailable")
	ErrConnectionFailed  = errors.New("failed to connect to database")
)

// ConnectionMaker opens a new database session on every call.
// The caller owns the returned handle and must close it.
type ConnectionMaker interface {
	MakeConnection() (*sql.DB, error)
}

// DConnectionMaker connects to the springbook database on localhost.
type DConnectionMaker struct {
	driver  string
	port    int
	timeout time.Duration
}

var _ ConnectionMaker = (*DConnectionMaker)(nil)

func NewDConnectionMaker(port int) *DConnectionMaker {
	return &DConnectionMaker{
		driver:  driverName,
		port:    port,
		timeout: connectTimeout,
	}
}

func (m *DConnectionMaker) MakeConnection() (*sql.DB, error) {
	if !lo.Contains(sql.Drivers(), m.driver) {
		return nil, fmt.Errorf("%w (driver: %s)", ErrDriverUnavailable, m.driver)
	}

	db, err := sql.Open(m.driver, m.dsn())
	if err != nil {
		return nil, fmt.Errorf("%w (driver: %s): %w", ErrDriverUnavailable, m.driver, err)
	}
	// one handle is one session
	db.SetMaxOpenConns(1)

	// bounds dial and handshake, later queries are not affected
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		err = fmt.Errorf("%w (addr: %s): %w", ErrConnectionFailed, m.addr(), err)
		return nil, errors.Join(err, db.Close())
	}

	return db, nil
}

func (m *DConnectionMaker) addr() string {
	return net.JoinHostPort(host, strconv.Itoa(m.port))
}

func (m *DConnectionMaker) dsn() string {
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = m.addr()
	cfg.DBName = database
	cfg.Timeout = m.timeout
	return cfg.FormatDSN()
}
