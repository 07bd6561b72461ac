package database

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openMySQL(cfg Config) (*gorm.DB, error) {
	dsn, err := mysqlDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}
	return gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// mysqlDSN accepts either a mysql:// URL (as produced by the secrets resolver)
// or a native go-sql-driver DSN and returns a driver DSN with parseTime set.
func mysqlDSN(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("mysql configuration requires a connection string")
	}

	if !strings.HasPrefix(raw, "mysql://") {
		return ensureParseTime(raw), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse mysql url: %w", err)
	}

	if u.User == nil || u.User.Username() == "" {
		return "", errors.New("mysql url is missing credentials")
	}
	name := strings.TrimPrefix(u.Path, "/")
	if name == "" {
		return "", errors.New("mysql url is missing a database name")
	}

	host := u.Hostname()
	if host == "" {
		host = "localhost"
	}
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	password, _ := u.User.Password()
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", u.User.Username(), password, host, port, name)
	if u.RawQuery != "" {
		dsn += "?" + u.RawQuery
	}

	return ensureParseTime(dsn), nil
}

func ensureParseTime(dsn string) string {
	if strings.Contains(dsn, "parseTime=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&parseTime=True"
	}
	return dsn + "?parseTime=True"
}
