package db

import (
	"context"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN(MySQLParams{
		Host:     "db.internal",
		User:     "shop",
		Password: "p@ss",
		Name:     "presta",
	})

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	require.Equal(t, "db.internal:3306", cfg.Addr)
	require.Equal(t, "shop", cfg.User)
	require.Equal(t, "p@ss", cfg.Passwd)
	require.Equal(t, "presta", cfg.DBName)
	require.True(t, cfg.ParseTime)
	require.True(t, strings.Contains(dsn, "charset=utf8mb4"), dsn)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
}

func TestOpenAndPing_SQLite(t *testing.T) {
	db, err := OpenAndPing(context.Background(), Config{Driver: DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow("SELECT 1").Scan(&n))
	require.Equal(t, 1, n)
}
