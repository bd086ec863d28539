package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver string // mysql | postgres | sqlite
	DSN    string
}

// driverName maps a configured driver to its database/sql registration.
func driverName(d string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "", DriverMySQL:
		return "mysql", nil
	case DriverPostgres, "pgx":
		return "pgx", nil
	case DriverSQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unknown db driver %q (use mysql, postgres or sqlite)", d)
	}
}

func Open(cfg Config) (*sql.DB, error) {
	name, err := driverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(name, cfg.DSN)
	if err != nil {
		return nil, err
	}

	// Feed generation is one read query at a time.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func Ping(ctx context.Context, db *sql.DB) error {
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return db.PingContext(c)
}

// OpenAndPing opens the database and verifies it is reachable.
func OpenAndPing(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	return db, nil
}

type MySQLParams struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// MySQLDSN assembles a go-sql-driver DSN with utf8mb4 and parsed DATE/DATETIME.
func MySQLDSN(p MySQLParams) string {
	port := p.Port
	if port == 0 {
		port = 3306
	}

	c := mysql.NewConfig()
	c.User = p.User
	c.Passwd = p.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(p.Host, strconv.Itoa(port))
	c.DBName = p.Name
	c.ParseTime = true
	c.Loc = time.UTC
	c.Params = map[string]string{"charset": "utf8mb4"}

	return c.FormatDSN()
}
